package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callcenter/internal/application/services"
	domain "callcenter/internal/domain/tickets"
	"callcenter/internal/infrastructure/clients"
	"callcenter/internal/repository"
)

type stubActivityLog struct {
	entries []repository.ActivityEntry
}

func (s stubActivityLog) Recent(ctx context.Context, limit int) ([]repository.ActivityEntry, error) {
	return s.entries, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	calls := services.NewCallService(
		"",
		func(endpoint string) services.Gateway {
			return clients.NewSheetGateway(endpoint, nil, zerolog.Nop())
		},
		repository.NewFallbackRepo(rdb),
		repository.NewSettingsRepo(rdb),
		nil,
		zerolog.Nop(),
	)

	e := echo.New()
	NewServer(e, ":0", calls, stubActivityLog{
		entries: []repository.ActivityEntry{{At: time.Now(), Message: "ticket call-1 received"}},
	}, zerolog.Nop())

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const validCallBody = `{
	"staff_id": "staff-1",
	"from_station": "A",
	"to_station": "B",
	"class": "AC",
	"journey_date": "2024-01-01",
	"passengers": [{"name": "X", "mobile": "9876543210"}]
}`

func TestSubmitCallHandler(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/calls", validCallBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var response SubmitCallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Ticket.ID)
	assert.Equal(t, domain.StatusReceived, response.Ticket.Status)
	assert.Equal(t, domain.SourceFallback, response.Source)
}

func TestSubmitCallHandlerValidation(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/calls", `{"from_station": "A"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Error)
}

func TestGetQueueHandler(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/calls", validCallBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodGet, "/queue", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response QueueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Tickets, 1)
	assert.Equal(t, domain.SourceFallback, response.Source)

	rec = doJSON(e, http.MethodGet, "/queue?status=booked", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Empty(t, response.Tickets)
}

func TestBookCallHandler(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/calls", validCallBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted SubmitCallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	bookBody := `{"ticket_number": "PNR123", "service_charge": 50, "payment_status": "paid", "staff_id": "staff-2"}`

	rec = doJSON(e, http.MethodPost, "/calls/"+submitted.Ticket.ID+"/book", bookBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var booked BookCallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booked))
	assert.Equal(t, domain.StatusBooked, booked.Ticket.Status)

	t.Run("double booking conflicts", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/calls/"+submitted.Ticket.ID+"/book", bookBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/calls/local_missing/book", bookBody)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing ticket number", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/calls/whatever/book", `{"service_charge": 1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative service charge", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/calls/whatever/book", `{"ticket_number": "P", "service_charge": -1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetReportHandler(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/calls", validCallBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodGet, "/report", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Totals.Calls)
	assert.Equal(t, 1, response.Totals.Pending)
	assert.Equal(t, domain.SourceFallback, response.Source)

	t.Run("bad range", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/report?from=01-01-2024", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginHandlerWithoutEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/login", `{"email": "op@example.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(e, http.MethodPost, "/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetEndpointHandler(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPut, "/settings/endpoint", `{"endpoint": "not a url"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPut, "/settings/endpoint", `{"endpoint": "https://sheets.example.com/exec"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// clearing the endpoint is allowed
	rec = doJSON(e, http.MethodPut, "/settings/endpoint", `{"endpoint": ""}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestConnectivityHandler(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/connectivity", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response domain.Connectivity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Connected)
	assert.Equal(t, "endpoint not set", response.Message)
}

func TestActivityHandler(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/activity", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response ActivityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Entries, 1)
	assert.Equal(t, "ticket call-1 received", response.Entries[0].Message)
}
