package services

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/rs/zerolog"

	domain "callcenter/internal/domain/tickets"
)

// Gateway is the remote side of every ticket operation.
type Gateway interface {
	Login(ctx context.Context, email string) (domain.Session, error)
	AddCall(ctx context.Context, draft domain.Draft) (domain.RemoteSubmission, error)
	GetQueue(ctx context.Context, status string) ([]domain.Ticket, error)
	MarkBooked(ctx context.Context, req domain.BookingRequest) (domain.BookingReceipt, error)
	GetReport(ctx context.Context, dateFrom, dateTo string) (domain.Report, error)
	AssignTickets(ctx context.Context, callIDs []string, staffID string) (int, error)
	CheckConnectivity(ctx context.Context) domain.Connectivity
}

// GatewayFactory builds a gateway for a (possibly empty) endpoint, so
// reconfiguring the endpoint swaps the gateway instead of mutating it.
type GatewayFactory func(endpoint string) Gateway

type FallbackStore interface {
	Append(ctx context.Context, draft domain.Draft) (domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	MarkBooked(ctx context.Context, id string, details domain.BookingDetails) (domain.Ticket, error)
	FindDuplicates(ctx context.Context, primaryMobile, excludingID string) ([]domain.DuplicateCandidate, error)
}

type Settings interface {
	Endpoint(ctx context.Context) (string, error)
	SetEndpoint(ctx context.Context, endpoint string) error
}

type SubmitResult struct {
	Ticket     domain.Ticket
	Duplicates []domain.DuplicateCandidate
	Source     domain.Source
}

type BookResult struct {
	Ticket   domain.Ticket
	LedgerID string
	Source   domain.Source
}

type QueueResult struct {
	Tickets []domain.Ticket
	Source  domain.Source
}

type ReportResult struct {
	Report domain.Report
	Source domain.Source
}

// CallService orchestrates every ticket operation: remote first when an
// endpoint is configured, transparent local fallback when the remote
// side is absent or failing. Results always say which path served them.
type CallService struct {
	mu         sync.RWMutex
	endpoint   string
	gateway    Gateway
	newGateway GatewayFactory

	fallback FallbackStore
	settings Settings
	eventBus *cqrs.EventBus
	logger   zerolog.Logger
}

func NewCallService(
	endpoint string,
	newGateway GatewayFactory,
	fallback FallbackStore,
	settings Settings,
	eventBus *cqrs.EventBus,
	logger zerolog.Logger,
) *CallService {
	return &CallService{
		endpoint:   endpoint,
		gateway:    newGateway(endpoint),
		newGateway: newGateway,
		fallback:   fallback,
		settings:   settings,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Configure persists the endpoint and swaps the gateway. An empty
// endpoint disables the remote side entirely.
func (s *CallService) Configure(ctx context.Context, endpoint string) error {
	if err := s.settings.SetEndpoint(ctx, endpoint); err != nil {
		return err
	}

	s.mu.Lock()
	s.endpoint = endpoint
	s.gateway = s.newGateway(endpoint)
	s.mu.Unlock()

	return nil
}

func (s *CallService) remote() (Gateway, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gateway, s.endpoint != ""
}

// Submit validates the draft, stores it remotely or locally, and
// surfaces duplicate candidates without blocking the save.
func (s *CallService) Submit(ctx context.Context, draft domain.Draft) (SubmitResult, error) {
	if err := draft.Validate(); err != nil {
		return SubmitResult{}, err
	}

	// the stored ticket must carry the defaulted contact number on both
	// paths, or the server-side duplicate scan degrades
	draft.PrimaryMobile = draft.EffectivePrimaryMobile()

	if gateway, ok := s.remote(); ok {
		submission, err := gateway.AddCall(ctx, draft)
		if err == nil {
			ticket := ticketFromDraft(draft, submission.ID)
			s.publishReceived(ctx, ticket, domain.SourceRemote)
			return SubmitResult{
				Ticket:     ticket,
				Duplicates: submission.Duplicates,
				Source:     domain.SourceRemote,
			}, nil
		}
		s.logger.Warn().Err(err).Msg("remote addCall failed, using local fallback")
	}

	ticket, err := s.fallback.Append(ctx, draft)
	if err != nil {
		return SubmitResult{}, err
	}

	duplicates, err := s.fallback.FindDuplicates(ctx, ticket.PrimaryMobile, ticket.ID)
	if err != nil {
		return SubmitResult{}, err
	}

	s.publishReceived(ctx, ticket, domain.SourceFallback)

	return SubmitResult{
		Ticket:     ticket,
		Duplicates: duplicates,
		Source:     domain.SourceFallback,
	}, nil
}

func (s *CallService) MarkBooked(ctx context.Context, id string, details domain.BookingDetails) (BookResult, error) {
	if gateway, ok := s.remote(); ok {
		receipt, err := gateway.MarkBooked(ctx, domain.BookingRequest{
			CallID:        id,
			TicketNumber:  details.TicketNumber,
			ServiceCharge: details.ServiceCharge,
			PaymentStatus: details.PaymentStatus,
			StaffID:       details.StaffID,
		})
		if err == nil {
			ticket := domain.Ticket{ID: id, Status: domain.StatusBooked, Booking: &details}
			s.publishBooked(ctx, id, details, domain.SourceRemote)
			return BookResult{
				Ticket:   ticket,
				LedgerID: receipt.LedgerID,
				Source:   domain.SourceRemote,
			}, nil
		}
		s.logger.Warn().Err(err).Msg("remote markBooked failed, using local fallback")
	}

	ticket, err := s.fallback.MarkBooked(ctx, id, details)
	if err != nil {
		return BookResult{}, err
	}

	s.publishBooked(ctx, id, details, domain.SourceFallback)

	return BookResult{Ticket: ticket, Source: domain.SourceFallback}, nil
}

// ListQueue returns the ticket queue. The filter "all" (or "") passes
// everything through; any other value keeps only matching statuses.
func (s *CallService) ListQueue(ctx context.Context, filter string) (QueueResult, error) {
	if gateway, ok := s.remote(); ok {
		status := filter
		if filter == "all" {
			status = ""
		}

		tickets, err := gateway.GetQueue(ctx, status)
		if err == nil {
			return QueueResult{Tickets: tickets, Source: domain.SourceRemote}, nil
		}
		s.logger.Warn().Err(err).Msg("remote getQueue failed, using local fallback")
	}

	tickets, err := s.fallback.List(ctx)
	if err != nil {
		return QueueResult{}, err
	}

	if filter != "" && filter != "all" {
		filtered := make([]domain.Ticket, 0, len(tickets))
		for _, t := range tickets {
			if string(t.Status) == filter {
				filtered = append(filtered, t)
			}
		}
		tickets = filtered
	}

	return QueueResult{Tickets: tickets, Source: domain.SourceFallback}, nil
}

// Report aggregates ticket counts for a date range. The range applies
// on both paths; empty bounds are open-ended.
func (s *CallService) Report(ctx context.Context, dateFrom, dateTo string) (ReportResult, error) {
	from, to, err := parseReportRange(dateFrom, dateTo)
	if err != nil {
		return ReportResult{}, err
	}

	if gateway, ok := s.remote(); ok {
		report, err := gateway.GetReport(ctx, dateFrom, dateTo)
		if err == nil {
			return ReportResult{Report: report, Source: domain.SourceRemote}, nil
		}
		s.logger.Warn().Err(err).Msg("remote getReport failed, using local fallback")
	}

	tickets, err := s.fallback.List(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	report := domain.Report{StaffPerformance: map[string]int{}}
	for _, t := range tickets {
		if !inRange(t.CreatedAt, from, to) {
			continue
		}

		report.Totals.Calls++
		if t.Status == domain.StatusBooked {
			report.Totals.Booked++
		} else {
			report.Totals.Pending++
		}
		if t.StaffID != "" {
			report.StaffPerformance[t.StaffID]++
		}
	}

	return ReportResult{Report: report, Source: domain.SourceFallback}, nil
}

// Login has no local substitute: without a configured endpoint it fails
// with ConfigurationError.
func (s *CallService) Login(ctx context.Context, email string) (domain.Session, error) {
	gateway, ok := s.remote()
	if !ok {
		return domain.Session{}, domain.ConfigurationError{Message: "remote endpoint not configured"}
	}
	return gateway.Login(ctx, email)
}

// Assign reassigns queue tickets to a staff member. Remote only: the
// local list has a single writer, so assignment is meaningless there.
func (s *CallService) Assign(ctx context.Context, callIDs []string, staffID string) (int, error) {
	gateway, ok := s.remote()
	if !ok {
		return 0, domain.ConfigurationError{Message: "remote endpoint not configured"}
	}
	return gateway.AssignTickets(ctx, callIDs, staffID)
}

func (s *CallService) CheckConnectivity(ctx context.Context) domain.Connectivity {
	gateway, ok := s.remote()
	if !ok {
		return domain.Connectivity{Connected: false, Message: "endpoint not set"}
	}
	return gateway.CheckConnectivity(ctx)
}

// Event publication is best-effort: a dead bus never fails a ticket
// operation that already persisted.
func (s *CallService) publishReceived(ctx context.Context, ticket domain.Ticket, source domain.Source) {
	if s.eventBus == nil {
		return
	}

	// key the event on the ticket so redeliveries dedupe
	err := s.eventBus.Publish(ctx, domain.TicketReceived{
		Header: domain.NewEventHeaderWithIdempotencyKey("received_" + ticket.ID),
		Ticket: ticket,
		Source: source,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("ticket_id", ticket.ID).Msg("failed to publish TicketReceived")
	}
}

func (s *CallService) publishBooked(ctx context.Context, id string, details domain.BookingDetails, source domain.Source) {
	if s.eventBus == nil {
		return
	}

	err := s.eventBus.Publish(ctx, domain.TicketBooked{
		Header:        domain.NewEventHeaderWithIdempotencyKey("booked_" + id),
		TicketID:      id,
		TicketNumber:  details.TicketNumber,
		ServiceCharge: details.ServiceCharge,
		PaymentStatus: details.PaymentStatus,
		StaffID:       details.StaffID,
		Source:        source,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("ticket_id", id).Msg("failed to publish TicketBooked")
	}
}

func ticketFromDraft(draft domain.Draft, id string) domain.Ticket {
	return domain.Ticket{
		ID:            id,
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
}

func parseReportRange(dateFrom, dateTo string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	// bounds are parsed in the clock CreatedAt is stamped with, so a
	// same-day range covers the whole local day
	if dateFrom != "" {
		from, err = time.ParseInLocation(domain.JourneyDateLayout, dateFrom, time.Local)
		if err != nil {
			return from, to, domain.ValidationError{Reason: "report from date must be YYYY-MM-DD"}
		}
	}
	if dateTo != "" {
		to, err = time.ParseInLocation(domain.JourneyDateLayout, dateTo, time.Local)
		if err != nil {
			return from, to, domain.ValidationError{Reason: "report to date must be YYYY-MM-DD"}
		}
		// inclusive upper bound
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

func inRange(at, from, to time.Time) bool {
	if !from.IsZero() && at.Before(from) {
		return false
	}
	if !to.IsZero() && at.After(to) {
		return false
	}
	return true
}
