package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domain "callcenter/internal/domain/tickets"
)

const ticketsKey = "callcenter:fallback:tickets"

// FallbackRepo is the durable local substitute for the remote backend.
// The whole collection lives under a single key as a JSON array and is
// read-modify-written within one operation.
type FallbackRepo struct {
	rdb *redis.Client
}

func NewFallbackRepo(rdb *redis.Client) *FallbackRepo {
	return &FallbackRepo{rdb: rdb}
}

func (r *FallbackRepo) load(ctx context.Context) ([]domain.Ticket, error) {
	raw, err := r.rdb.Get(ctx, ticketsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback tickets: %w", err)
	}

	var tickets []domain.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		// malformed storage is treated as empty, not an error
		return nil, nil
	}
	return tickets, nil
}

func (r *FallbackRepo) store(ctx context.Context, tickets []domain.Ticket) error {
	raw, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("failed to marshal fallback tickets: %w", err)
	}

	if err := r.rdb.Set(ctx, ticketsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist fallback tickets: %w", err)
	}
	return nil
}

// Append stores a new ticket with a generated identifier, creation
// timestamp and initial status, and returns it.
func (r *FallbackRepo) Append(ctx context.Context, draft domain.Draft) (domain.Ticket, error) {
	tickets, err := r.load(ctx)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket := domain.Ticket{
		ID:            "local_" + uuid.NewString(),
		StaffID:       draft.StaffID,
		FromStation:   draft.FromStation,
		ToStation:     draft.ToStation,
		Class:         draft.Class,
		JourneyDate:   draft.JourneyDate,
		Passengers:    draft.Passengers,
		PrimaryMobile: draft.EffectivePrimaryMobile(),
		Remark:        draft.Remark,
		Status:        domain.StatusReceived,
		CreatedAt:     time.Now(),
	}

	tickets = append(tickets, ticket)
	if err := r.store(ctx, tickets); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

// List returns the full collection in insertion order. An absent or
// unreadable collection is an empty one.
func (r *FallbackRepo) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.load(ctx)
}

// MarkBooked transitions a ticket from received to booked and fills in
// the booking fields. A second attempt on the same ticket is rejected
// with ConflictError.
func (r *FallbackRepo) MarkBooked(ctx context.Context, id string, details domain.BookingDetails) (domain.Ticket, error) {
	tickets, err := r.load(ctx)
	if err != nil {
		return domain.Ticket{}, err
	}

	for i := range tickets {
		if tickets[i].ID != id {
			continue
		}
		if tickets[i].Status == domain.StatusBooked {
			return domain.Ticket{}, domain.ConflictError{ID: id}
		}

		tickets[i].Status = domain.StatusBooked
		tickets[i].Booking = &details

		if err := r.store(ctx, tickets); err != nil {
			return domain.Ticket{}, err
		}
		return tickets[i], nil
	}

	return domain.Ticket{}, domain.NotFoundError{ID: id}
}

// FindDuplicates scans the collection for other tickets with the same
// non-empty primary contact number. Plain equality, collection order.
func (r *FallbackRepo) FindDuplicates(ctx context.Context, primaryMobile, excludingID string) ([]domain.DuplicateCandidate, error) {
	if primaryMobile == "" {
		return nil, nil
	}

	tickets, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var matches []domain.DuplicateCandidate
	for _, t := range tickets {
		if t.ID == excludingID || t.PrimaryMobile != primaryMobile {
			continue
		}
		matches = append(matches, domain.DuplicateCandidate{
			ID:          t.ID,
			FromStation: t.FromStation,
			ToStation:   t.ToStation,
			JourneyDate: t.JourneyDate,
		})
	}
	return matches, nil
}
