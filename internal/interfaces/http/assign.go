package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "callcenter/internal/domain/tickets"
)

type AssignRequest struct {
	CallIDs []string `json:"call_ids"`
	StaffID string   `json:"staff_id"`
}

type AssignResponse struct {
	Updated int `json:"updated"`
}

func (s *Server) AssignHandler(c echo.Context) error {
	var request AssignRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if len(request.CallIDs) == 0 {
		return domain.ValidationError{Reason: "call_ids must not be empty"}
	}
	if request.StaffID == "" {
		return domain.ValidationError{Reason: "staff_id is required"}
	}

	updated, err := s.calls.Assign(c.Request().Context(), request.CallIDs, request.StaffID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AssignResponse{Updated: updated})
}
