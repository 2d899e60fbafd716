package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"callcenter/internal/application/services"
	domain "callcenter/internal/domain/tickets"
	"callcenter/internal/repository"
)

type ActivityLog interface {
	Recent(ctx context.Context, limit int) ([]repository.ActivityEntry, error)
}

type Server struct {
	e    *echo.Echo
	addr string

	calls    *services.CallService
	activity ActivityLog
	logger   zerolog.Logger
}

func NewServer(
	e *echo.Echo,
	addr string,
	calls *services.CallService,
	activity ActivityLog,
	logger zerolog.Logger,
) *Server {
	srv := &Server{
		e:        e,
		addr:     addr,
		calls:    calls,
		activity: activity,
		logger:   logger,
	}

	e.HideBanner = true
	e.HTTPErrorHandler = srv.handleError

	e.POST("/login", srv.LoginHandler)
	e.POST("/calls", srv.SubmitCallHandler)
	e.GET("/queue", srv.GetQueueHandler)
	e.POST("/calls/:id/book", srv.BookCallHandler)
	e.GET("/report", srv.GetReportHandler)
	e.POST("/assign", srv.AssignHandler)
	e.PUT("/settings/endpoint", srv.SetEndpointHandler)
	e.GET("/connectivity", srv.ConnectivityHandler)
	e.GET("/activity", srv.ActivityHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger.Info().
				Str("path", c.Request().URL.Path).
				Str("method", c.Request().Method).
				Msg("handling a request")

			err := next(c)
			if err != nil {
				logger.Error().
					Err(err).
					Str("path", c.Request().URL.Path).
					Msg("request handling error")
			}

			return err
		}
	})

	return srv
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps the domain error taxonomy onto HTTP statuses. Every
// propagated failure carries a human-readable message.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError

	var (
		verr  domain.ValidationError
		nerr  domain.NotFoundError
		cferr domain.ConflictError
		cerr  domain.ConfigurationError
		terr  domain.TransportError
		perr  domain.ProtocolError
		rerr  domain.RemoteOperationError
		herr  *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.As(err, &nerr):
		status = http.StatusNotFound
	case errors.As(err, &cferr):
		status = http.StatusConflict
	case errors.As(err, &cerr):
		status = http.StatusServiceUnavailable
	case errors.As(err, &terr), errors.As(err, &perr), errors.As(err, &rerr):
		status = http.StatusBadGateway
	case errors.As(err, &herr):
		status = herr.Code
	}

	if err := c.JSON(status, errorResponse{Error: err.Error()}); err != nil {
		s.logger.Error().Err(err).Msg("failed to write error response")
	}
}
