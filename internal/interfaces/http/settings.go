package http

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	domain "callcenter/internal/domain/tickets"
)

type SetEndpointRequest struct {
	Endpoint string `json:"endpoint"`
}

// SetEndpointHandler stores the remote endpoint URL. An empty endpoint
// disables the remote side and routes everything to the fallback store.
func (s *Server) SetEndpointHandler(c echo.Context) error {
	var request SetEndpointRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Endpoint != "" {
		parsed, err := url.Parse(request.Endpoint)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return domain.ValidationError{Reason: "endpoint must be an absolute URL"}
		}
	}

	if err := s.calls.Configure(c.Request().Context(), request.Endpoint); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) ConnectivityHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.calls.CheckConnectivity(c.Request().Context()))
}
