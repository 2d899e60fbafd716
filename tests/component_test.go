//go:build component

package tests

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"callcenter/internal/application/services"
	domain "callcenter/internal/domain/tickets"
	"callcenter/internal/infrastructure/clients"
	"callcenter/internal/repository"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	return redis.NewClient(&redis.Options{Addr: endpoint})
}

// The fallback flow end to end against a real redis: submit, duplicate
// scan, booking transition, report aggregation.
func TestFallbackFlow(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	service := services.NewCallService(
		"",
		func(endpoint string) services.Gateway {
			return clients.NewSheetGateway(endpoint, nil, zerolog.Nop())
		},
		repository.NewFallbackRepo(rdb),
		repository.NewSettingsRepo(rdb),
		nil,
		zerolog.Nop(),
	)

	draft := domain.Draft{
		StaffID:     "staff-1",
		FromStation: "NDLS",
		ToStation:   "BCT",
		Class:       "3A",
		JourneyDate: "2024-06-01",
		Passengers:  []domain.Passenger{{Name: "Asha", Mobile: "9876543210"}},
	}

	first, err := service.Submit(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceFallback, first.Source)
	assert.Empty(t, first.Duplicates)

	second, err := service.Submit(ctx, draft)
	require.NoError(t, err)
	require.Len(t, second.Duplicates, 1)
	assert.Equal(t, first.Ticket.ID, second.Duplicates[0].ID)

	_, err = service.MarkBooked(ctx, first.Ticket.ID, domain.BookingDetails{
		TicketNumber:  "PNR123",
		ServiceCharge: 50,
		PaymentStatus: domain.PaymentPaid,
		StaffID:       "staff-2",
	})
	require.NoError(t, err)

	queue, err := service.ListQueue(ctx, "booked")
	require.NoError(t, err)
	require.Len(t, queue.Tickets, 1)
	assert.Equal(t, first.Ticket.ID, queue.Tickets[0].ID)

	report, err := service.Report(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Report.Totals.Calls)
	assert.Equal(t, 1, report.Report.Totals.Booked)
	assert.Equal(t, 1, report.Report.Totals.Pending)
}
