// Package service implements the ticketing operations: event management,
// ticket purchase, check-in, vendors, segments and QR generation. Every
// operation validates its input before any side effect and reports
// failures as *Error values.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/codegate-events/internal/qrcode"
	"github.com/iliyamo/codegate-events/internal/repository"
	"github.com/iliyamo/codegate-events/internal/utils"
	"github.com/iliyamo/codegate-events/internal/validation"
)

// Publisher delivers domain events. Delivery is best-effort: a failure is
// logged and never fails the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Options tunes the ticketing service.
type Options struct {
	OrganizerEmail string
	OrganizerName  string
	// StaffEmail/StaffName identify the shared placeholder staff user
	// recorded on check-ins made without a staff identity.
	StaffEmail   string
	StaffName    string
	RequireStaff bool
	Now          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.OrganizerEmail == "" {
		o.OrganizerEmail = "organizer@example.com"
	}
	if o.OrganizerName == "" {
		o.OrganizerName = "Event Organizer"
	}
	if o.StaffEmail == "" {
		o.StaffEmail = "staff@example.com"
	}
	if o.StaffName == "" {
		o.StaffName = "Event Staff"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// TicketingService owns events, tickets, check-ins, vendors and segments.
type TicketingService struct {
	store    repository.Store
	codes    *utils.CodeDeriver
	validate *validation.Validator
	pub      Publisher
	log      *slog.Logger
	tracer   trace.Tracer
	opts     Options
}

// NewTicketingService wires the service. pub may be nil to disable events.
func NewTicketingService(store repository.Store, codes *utils.CodeDeriver, pub Publisher, log *slog.Logger, opts Options) *TicketingService {
	if store == nil || codes == nil {
		panic("nil dependency passed to NewTicketingService")
	}
	if log == nil {
		log = slog.Default()
	}
	opts = opts.withDefaults()
	return &TicketingService{
		store:    store,
		codes:    codes,
		validate: validation.New(opts.Now),
		pub:      pub,
		log:      log,
		tracer:   otel.Tracer("github.com/iliyamo/codegate-events/internal/service"),
		opts:     opts,
	}
}

func (s *TicketingService) now() time.Time { return s.opts.Now().UTC() }

// check runs struct validation and converts violations into an *Error.
func (s *TicketingService) check(req any) error {
	if errs := s.validate.Struct(req); errs != nil {
		return invalid(errs)
	}
	return nil
}

// publish sends an event detached from the request's cancellation.
func (s *TicketingService) publish(ctx context.Context, key string, payload any) {
	if s.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.pub.Publish(ctx, key, payload); err != nil {
		s.log.Warn("publish failed", "routing_key", key, "error", err)
	}
}

// inlineQR renders text with default options for embedding in a response.
// A failure leaves the image out and is only logged.
func (s *TicketingService) inlineQR(text string) string {
	r, err := qrcode.Render(text, qrcode.DefaultOptions())
	if err != nil {
		s.log.Warn("render qr failed", "error", err)
		return ""
	}
	return r.Inline()
}

// span starts a tracing span; end records err on it.
func (s *TicketingService) span(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "TicketingService."+name)
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		var se *Error
		if !errors.As(err, &se) || se.Kind == KindInternal {
			span.SetStatus(otelcodes.Error, err.Error())
		}
	}
	span.End()
}

// Pagination is embedded in every paged listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func paginate(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// clampPage applies the listing defaults: page 1, the given default limit,
// and a hard maximum of 100 rows.
func clampPage(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
