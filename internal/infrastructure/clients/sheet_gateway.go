package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	domain "callcenter/internal/domain/tickets"
)

// SheetGateway is the single point of contact with the remote
// spreadsheet-style backend. Every operation is an HTTP POST to one
// endpoint with the operation name carried as a query parameter and a
// JSON body, answered by a {success, data, error} envelope.
type SheetGateway struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewSheetGateway builds a gateway for the given endpoint. An empty
// endpoint means the remote side is disabled and every call fails with
// ConfigurationError. A nil httpClient falls back to http.DefaultClient,
// which also means the platform's default timeout behavior.
func NewSheetGateway(endpoint string, httpClient *http.Client, logger zerolog.Logger) *SheetGateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SheetGateway{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (g *SheetGateway) invoke(ctx context.Context, operation string, payload any) (json.RawMessage, error) {
	if g.endpoint == "" {
		return nil, domain.ConfigurationError{Message: "remote endpoint not configured"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.endpoint+"?path="+url.QueryEscape(operation),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.TransportError{
			Err: fmt.Errorf("unexpected status code: %v", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.TransportError{Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, domain.ProtocolError{Message: err.Error()}
	}

	if !env.Success {
		return nil, domain.RemoteOperationError{Operation: operation, Message: env.Error}
	}

	return env.Data, nil
}

// decode unmarshals an envelope's data field into the operation's
// expected shape at the gateway boundary, so nothing downstream handles
// untyped payloads.
func decode[T any](data json.RawMessage, operation string) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, domain.ProtocolError{
			Message: fmt.Sprintf("unexpected %s response shape: %v", operation, err),
		}
	}
	return out, nil
}

func (g *SheetGateway) Login(ctx context.Context, email string) (domain.Session, error) {
	data, err := g.invoke(ctx, "login", map[string]string{"email": email})
	if err != nil {
		return domain.Session{}, err
	}
	return decode[domain.Session](data, "login")
}

func (g *SheetGateway) AddCall(ctx context.Context, draft domain.Draft) (domain.RemoteSubmission, error) {
	data, err := g.invoke(ctx, "addCall", draft)
	if err != nil {
		return domain.RemoteSubmission{}, err
	}

	submission, err := decode[domain.RemoteSubmission](data, "addCall")
	if err != nil {
		return domain.RemoteSubmission{}, err
	}
	if submission.ID == "" {
		return domain.RemoteSubmission{}, domain.ProtocolError{
			Message: "addCall response is missing the ticket id",
		}
	}
	return submission, nil
}

func (g *SheetGateway) GetQueue(ctx context.Context, status string) ([]domain.Ticket, error) {
	data, err := g.invoke(ctx, "getQueue", map[string]string{"status": status})
	if err != nil {
		return nil, err
	}
	return decode[[]domain.Ticket](data, "getQueue")
}

func (g *SheetGateway) MarkBooked(ctx context.Context, req domain.BookingRequest) (domain.BookingReceipt, error) {
	data, err := g.invoke(ctx, "markBooked", req)
	if err != nil {
		return domain.BookingReceipt{}, err
	}
	return decode[domain.BookingReceipt](data, "markBooked")
}

func (g *SheetGateway) GetReport(ctx context.Context, dateFrom, dateTo string) (domain.Report, error) {
	data, err := g.invoke(ctx, "getReport", map[string]string{
		"date_from": dateFrom,
		"date_to":   dateTo,
	})
	if err != nil {
		return domain.Report{}, err
	}
	return decode[domain.Report](data, "getReport")
}

func (g *SheetGateway) AssignTickets(ctx context.Context, callIDs []string, staffID string) (int, error) {
	data, err := g.invoke(ctx, "assignTicket", map[string]any{
		"call_ids": callIDs,
		"staff_id": staffID,
	})
	if err != nil {
		return 0, err
	}

	result, err := decode[struct {
		Updated int `json:"updated"`
	}](data, "assignTicket")
	if err != nil {
		return 0, err
	}
	return result.Updated, nil
}

// CheckConnectivity probes the endpoint with a bare GET. Any parseable
// JSON response counts as connected. It never returns an error, only a
// verdict with a human-readable message.
func (g *SheetGateway) CheckConnectivity(ctx context.Context) domain.Connectivity {
	if g.endpoint == "" {
		return domain.Connectivity{Connected: false, Message: "endpoint not set"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint, nil)
	if err != nil {
		return domain.Connectivity{Connected: false, Message: err.Error()}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.Connectivity{Connected: false, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Connectivity{Connected: false, Message: err.Error()}
	}

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		g.logger.Debug().Err(err).Msg("connectivity probe returned non-JSON")
		return domain.Connectivity{Connected: false, Message: "endpoint did not answer with JSON"}
	}

	return domain.Connectivity{Connected: true, Message: "connected successfully"}
}
