package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "callcenter/internal/domain/tickets"
)

type LoginRequest struct {
	Email string `json:"email"`
}

func (s *Server) LoginHandler(c echo.Context) error {
	var request LoginRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Email == "" {
		return domain.ValidationError{Reason: "email is required"}
	}

	session, err := s.calls.Login(c.Request().Context(), request.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, session)
}
