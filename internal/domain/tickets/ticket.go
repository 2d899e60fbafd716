package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusReceived Status = "received"
	StatusBooked   Status = "booked"
)

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// Source tags which path produced a result, so callers can tell a
// synthesized fallback response from a real remote one.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

type Passenger struct {
	Name   string `json:"name"`
	Age    int    `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// Draft is a ticket as submitted by the operator, before it has been
// assigned an identifier and stored.
type Draft struct {
	StaffID       string      `json:"staff_id"`
	FromStation   string      `json:"from_station"`
	ToStation     string      `json:"to_station"`
	Class         string      `json:"class"`
	JourneyDate   string      `json:"journey_date"`
	Passengers    []Passenger `json:"passengers"`
	PrimaryMobile string      `json:"primary_mobile,omitempty"`
	Remark        string      `json:"remark,omitempty"`
}

const JourneyDateLayout = "2006-01-02"

func (d Draft) Validate() error {
	switch {
	case strings.TrimSpace(d.FromStation) == "":
		return ValidationError{Reason: "origin station is required"}
	case strings.TrimSpace(d.ToStation) == "":
		return ValidationError{Reason: "destination station is required"}
	case strings.TrimSpace(d.Class) == "":
		return ValidationError{Reason: "travel class is required"}
	case strings.TrimSpace(d.JourneyDate) == "":
		return ValidationError{Reason: "journey date is required"}
	}

	if _, err := time.Parse(JourneyDateLayout, d.JourneyDate); err != nil {
		return ValidationError{Reason: "journey date must be YYYY-MM-DD"}
	}

	for _, p := range d.Passengers {
		if strings.TrimSpace(p.Name) != "" {
			return nil
		}
	}
	return ValidationError{Reason: "at least one passenger with a name is required"}
}

// EffectivePrimaryMobile defaults to the first passenger's mobile when the
// primary contact number was not set explicitly.
func (d Draft) EffectivePrimaryMobile() string {
	if d.PrimaryMobile != "" {
		return d.PrimaryMobile
	}
	if len(d.Passengers) > 0 {
		return d.Passengers[0].Mobile
	}
	return ""
}

type BookingDetails struct {
	TicketNumber  string        `json:"ticket_number"`
	ServiceCharge float64       `json:"service_charge"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	StaffID       string        `json:"staff_id,omitempty"`
}

type Ticket struct {
	ID            string          `json:"id"`
	StaffID       string          `json:"staff_id"`
	FromStation   string          `json:"from_station"`
	ToStation     string          `json:"to_station"`
	Class         string          `json:"class"`
	JourneyDate   string          `json:"journey_date"`
	Passengers    []Passenger     `json:"passengers"`
	PrimaryMobile string          `json:"primary_mobile,omitempty"`
	Remark        string          `json:"remark,omitempty"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Booking       *BookingDetails `json:"booking,omitempty"`
}

// DuplicateCandidate is a projection of another stored ticket sharing the
// submitting ticket's primary contact number.
type DuplicateCandidate struct {
	ID          string `json:"id"`
	FromStation string `json:"from_station"`
	ToStation   string `json:"to_station"`
	JourneyDate string `json:"journey_date"`
}

type Session struct {
	Email   string `json:"email"`
	StaffID string `json:"staff_id"`
	Role    string `json:"role"`
}

type ReportTotals struct {
	Calls   int `json:"calls"`
	Booked  int `json:"booked"`
	Pending int `json:"pending"`
}

type Report struct {
	Totals           ReportTotals   `json:"totals"`
	StaffPerformance map[string]int `json:"staff_performance"`
}

type Connectivity struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

// RemoteSubmission is what the remote backend returns for a newly added
// call: the assigned identifier plus server-computed duplicates, if any.
type RemoteSubmission struct {
	ID         string               `json:"id"`
	Duplicates []DuplicateCandidate `json:"duplicates,omitempty"`
}

type BookingRequest struct {
	CallID        string        `json:"call_id"`
	TicketNumber  string        `json:"ticket_number"`
	ServiceCharge float64       `json:"service_charge"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	StaffID       string        `json:"staff_id"`
}

type BookingReceipt struct {
	LedgerID string `json:"ledger_id"`
}
