package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "callcenter/internal/domain/tickets"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func draft(mobile string) domain.Draft {
	return domain.Draft{
		StaffID:     "staff-1",
		FromStation: "NDLS",
		ToStation:   "BCT",
		Class:       "SL",
		JourneyDate: "2024-06-01",
		Passengers:  []domain.Passenger{{Name: "Asha", Mobile: mobile}},
	}
}

func TestFallbackRepoAppendAndList(t *testing.T) {
	repo := NewFallbackRepo(newTestRedis(t))
	ctx := context.Background()

	first, err := repo.Append(ctx, draft("9876543210"))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, domain.StatusReceived, first.Status)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, "9876543210", first.PrimaryMobile)

	second, err := repo.Append(ctx, draft("1112223334"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, first.ID, tickets[0].ID)
	assert.Equal(t, second.ID, tickets[1].ID)
}

func TestFallbackRepoListEmpty(t *testing.T) {
	repo := NewFallbackRepo(newTestRedis(t))

	tickets, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestFallbackRepoMalformedStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, mr.Set(ticketsKey, "{not json"))

	repo := NewFallbackRepo(rdb)

	tickets, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets)

	// a write straightens the slot out again
	_, err = repo.Append(context.Background(), draft(""))
	require.NoError(t, err)

	tickets, err = repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestFallbackRepoMarkBooked(t *testing.T) {
	repo := NewFallbackRepo(newTestRedis(t))
	ctx := context.Background()

	ticket, err := repo.Append(ctx, draft("9876543210"))
	require.NoError(t, err)

	details := domain.BookingDetails{
		TicketNumber:  "PNR123",
		ServiceCharge: 50,
		PaymentStatus: domain.PaymentPaid,
		StaffID:       "staff-2",
	}

	booked, err := repo.MarkBooked(ctx, ticket.ID, details)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, booked.Status)
	require.NotNil(t, booked.Booking)
	assert.Equal(t, "PNR123", booked.Booking.TicketNumber)

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, tickets[0].Status)

	t.Run("second attempt conflicts", func(t *testing.T) {
		_, err := repo.MarkBooked(ctx, ticket.ID, details)

		var cerr domain.ConflictError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, ticket.ID, cerr.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.MarkBooked(ctx, "local_missing", details)

		var nerr domain.NotFoundError
		require.True(t, errors.As(err, &nerr))
	})
}

func TestFallbackRepoFindDuplicates(t *testing.T) {
	repo := NewFallbackRepo(newTestRedis(t))
	ctx := context.Background()

	first, err := repo.Append(ctx, draft("9876543210"))
	require.NoError(t, err)
	_, err = repo.Append(ctx, draft("5550001111"))
	require.NoError(t, err)
	second, err := repo.Append(ctx, draft("9876543210"))
	require.NoError(t, err)

	matches, err := repo.FindDuplicates(ctx, "9876543210", second.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, first.ID, matches[0].ID)
	assert.Equal(t, "NDLS", matches[0].FromStation)

	t.Run("empty mobile never matches", func(t *testing.T) {
		_, err := repo.Append(ctx, draft(""))
		require.NoError(t, err)

		matches, err := repo.FindDuplicates(ctx, "", "some-id")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestSettingsRepoEndpoint(t *testing.T) {
	repo := NewSettingsRepo(newTestRedis(t))
	ctx := context.Background()

	endpoint, err := repo.Endpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", endpoint)

	require.NoError(t, repo.SetEndpoint(ctx, "https://sheets.example.com/exec"))

	endpoint, err = repo.Endpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://sheets.example.com/exec", endpoint)
}

func TestActivityRepo(t *testing.T) {
	repo := NewActivityRepo(newTestRedis(t))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "ticket call-1 received"))
	require.NoError(t, repo.Append(ctx, "ticket call-1 booked"))

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ticket call-1 received", entries[0].Message)
	assert.Equal(t, "ticket call-1 booked", entries[1].Message)

	entries, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ticket call-1 booked", entries[0].Message)
}
