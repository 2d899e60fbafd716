package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "callcenter/internal/domain/tickets"
)

type SubmitCallResponse struct {
	Ticket     domain.Ticket               `json:"ticket"`
	Duplicates []domain.DuplicateCandidate `json:"duplicates"`
	Source     domain.Source               `json:"source"`
}

func (s *Server) SubmitCallHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var draft domain.Draft
	if err := c.Bind(&draft); err != nil {
		return err
	}

	result, err := s.calls.Submit(ctx, draft)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, SubmitCallResponse{
		Ticket:     result.Ticket,
		Duplicates: result.Duplicates,
		Source:     result.Source,
	})
}
