package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "callcenter/internal/domain/tickets"
)

type BookCallRequest struct {
	TicketNumber  string               `json:"ticket_number"`
	ServiceCharge float64              `json:"service_charge"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	StaffID       string               `json:"staff_id"`
}

type BookCallResponse struct {
	Ticket   domain.Ticket `json:"ticket"`
	LedgerID string        `json:"ledger_id,omitempty"`
	Source   domain.Source `json:"source"`
}

func (s *Server) BookCallHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request BookCallRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.TicketNumber == "" {
		return domain.ValidationError{Reason: "ticket number is required"}
	}
	if request.ServiceCharge < 0 {
		return domain.ValidationError{Reason: "service charge must not be negative"}
	}
	switch request.PaymentStatus {
	case "":
		request.PaymentStatus = domain.PaymentUnpaid
	case domain.PaymentPaid, domain.PaymentUnpaid:
	default:
		return domain.ValidationError{Reason: "payment status must be paid or unpaid"}
	}

	result, err := s.calls.MarkBooked(ctx, c.Param("id"), domain.BookingDetails{
		TicketNumber:  request.TicketNumber,
		ServiceCharge: request.ServiceCharge,
		PaymentStatus: request.PaymentStatus,
		StaffID:       request.StaffID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BookCallResponse{
		Ticket:   result.Ticket,
		LedgerID: result.LedgerID,
		Source:   result.Source,
	})
}
