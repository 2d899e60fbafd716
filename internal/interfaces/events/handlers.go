package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	domain "callcenter/internal/domain/tickets"
)

type ActivityFeed interface {
	Append(ctx context.Context, message string) error
}

// TicketReceivedHandler records every stored ticket in the activity
// feed, tagged with the path that stored it.
func TicketReceivedHandler(feed ActivityFeed) cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"ticket_received_handler",
		func(ctx context.Context, payload *domain.TicketReceived) error {
			return feed.Append(ctx, fmt.Sprintf(
				"ticket %s received: %s -> %s on %s (%s)",
				payload.Ticket.ID,
				payload.Ticket.FromStation,
				payload.Ticket.ToStation,
				payload.Ticket.JourneyDate,
				payload.Source,
			))
		},
	)
}

func TicketBookedHandler(feed ActivityFeed) cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"ticket_booked_handler",
		func(ctx context.Context, payload *domain.TicketBooked) error {
			return feed.Append(ctx, fmt.Sprintf(
				"ticket %s booked as %s by %s, charge %.2f %s (%s)",
				payload.TicketID,
				payload.TicketNumber,
				payload.StaffID,
				payload.ServiceCharge,
				payload.PaymentStatus,
				payload.Source,
			))
		},
	)
}
