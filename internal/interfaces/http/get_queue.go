package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "callcenter/internal/domain/tickets"
)

type QueueResponse struct {
	Tickets []domain.Ticket `json:"tickets"`
	Source  domain.Source   `json:"source"`
}

func (s *Server) GetQueueHandler(c echo.Context) error {
	filter := c.QueryParam("status")
	if filter == "" {
		filter = "all"
	}

	result, err := s.calls.ListQueue(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	tickets := result.Tickets
	if tickets == nil {
		tickets = []domain.Ticket{}
	}

	return c.JSON(http.StatusOK, QueueResponse{
		Tickets: tickets,
		Source:  result.Source,
	})
}
