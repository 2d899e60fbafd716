package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	Id             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		Id:             uuid.NewString(),
		PublishedAt:    time.Now(),
		IdempotencyKey: idempotencyKey,
	}
}

// event
type TicketReceived struct {
	Header EventHeader `json:"header"`
	Ticket Ticket      `json:"ticket"`
	Source Source      `json:"source"`
}

type TicketBooked struct {
	Header        EventHeader   `json:"header"`
	TicketID      string        `json:"ticket_id"`
	TicketNumber  string        `json:"ticket_number"`
	ServiceCharge float64       `json:"service_charge"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	StaffID       string        `json:"staff_id"`
	Source        Source        `json:"source"`
}
