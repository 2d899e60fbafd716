package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "callcenter/internal/domain/tickets"
)

type ReportResponse struct {
	Totals           domain.ReportTotals `json:"totals"`
	StaffPerformance map[string]int      `json:"staff_performance"`
	Source           domain.Source       `json:"source"`
}

func (s *Server) GetReportHandler(c echo.Context) error {
	result, err := s.calls.Report(
		c.Request().Context(),
		c.QueryParam("from"),
		c.QueryParam("to"),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ReportResponse{
		Totals:           result.Report.Totals,
		StaffPerformance: result.Report.StaffPerformance,
		Source:           result.Source,
	})
}
