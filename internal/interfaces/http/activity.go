package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"callcenter/internal/repository"
)

const defaultActivityLimit = 50

type ActivityResponse struct {
	Entries []repository.ActivityEntry `json:"entries"`
}

func (s *Server) ActivityHandler(c echo.Context) error {
	limit := defaultActivityLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := s.activity.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []repository.ActivityEntry{}
	}

	return c.JSON(http.StatusOK, ActivityResponse{Entries: entries})
}
