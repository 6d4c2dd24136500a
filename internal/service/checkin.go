package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/model"
	"github.com/iliyamo/codegate-events/internal/queue"
	"github.com/iliyamo/codegate-events/internal/repository"
)

// CheckInResult is returned by a successful check-in.
type CheckInResult struct {
	CheckIn model.CheckIn       `json:"checkIn"`
	Ticket  model.TicketSummary `json:"ticket"`
	Event   model.EventSummary  `json:"event"`
	User    model.UserSummary   `json:"user"`
}

// CheckInPage is one page of an event's check-ins, newest first.
type CheckInPage struct {
	CheckIns []model.CheckIn `json:"checkIns"`
	Pagination
}

// CheckIn admits the ticket whose code was scanned. The checks run in a
// fixed order and the first failure wins:
//
//  1. unknown code                 -> NotFound INVALID_CODE
//  2. eventId given and different  -> Conflict EVENT_MISMATCH
//  3. validity ended before now    -> Conflict TICKET_EXPIRED
//  4. ticket already checked in    -> Conflict ALREADY_CHECKED_IN
//
// A ticket is admitted at most once; the prior admission time is returned
// in Error.Data on repeats. Steps 4 onwards hold the ticket row lock.
func (s *TicketingService) CheckIn(ctx context.Context, req dto.CheckInRequest) (res *CheckInResult, err error) {
	ctx, span := s.span(ctx, "CheckIn")
	defer func() { end(span, err) }()

	if err := s.check(req); err != nil {
		return nil, err
	}
	now := s.now()
	code := strings.TrimSpace(req.QRCode)

	var ticket *model.Ticket
	var ci model.CheckIn
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		ticket, err = tx.Tickets().GetByCode(ctx, code)
		if errors.Is(err, repository.ErrTicketNotFound) {
			return notFound(CodeInvalidCode, "Invalid QR code")
		}
		if err != nil {
			return err
		}
		if req.EventID != nil && *req.EventID != "" && *req.EventID != ticket.EventID {
			return conflict(CodeEventMismatch, "QR code does not match this event")
		}
		if ticket.Expired(now) {
			return conflict(CodeExpired, "Ticket has expired")
		}

		if _, err := tx.Tickets().GetForUpdate(ctx, ticket.ID); err != nil {
			return err
		}
		prior, err := tx.CheckIns().GetByTicket(ctx, ticket.ID, ticket.EventID)
		switch {
		case err == nil:
			return alreadyCheckedIn(prior.CheckedInAt)
		case !errors.Is(err, repository.ErrCheckInNotFound):
			return err
		}

		staff, err := s.resolveStaff(ctx, tx, req.StaffID)
		if err != nil {
			return err
		}
		ci = model.CheckIn{
			Code:        code,
			CheckedInAt: now,
			Location:    req.Location,
			EventID:     ticket.EventID,
			TicketID:    ticket.ID,
			CheckedInBy: staff.ID,
		}
		if err := tx.CheckIns().Create(ctx, &ci); err != nil {
			return err
		}

		if err := tx.Guests().MarkCheckedIn(ctx, ticket.ID, now); err != nil {
			s.log.Warn("mark guest checked in failed", "ticket_id", ticket.ID, "error", err)
		}
		if err := tx.Tickets().UpdateStatus(ctx, ticket.ID, model.TicketUsed); err != nil {
			s.log.Warn("mark ticket used failed", "ticket_id", ticket.ID, "error", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.checkInFailure(ctx, ticket, err)
	}

	res = &CheckInResult{CheckIn: ci, Ticket: ticket.Summary()}
	if ticket.Event != nil {
		res.Event = ticket.Event.Summary()
	}
	if ticket.User != nil {
		res.User = ticket.User.Summary()
	}

	loc := ""
	if ci.Location != nil {
		loc = *ci.Location
	}
	s.publish(ctx, queue.RoutingCheckInCompleted, queue.CheckInCompleted{
		CheckInID:   ci.ID,
		TicketID:    ci.TicketID,
		EventID:     ci.EventID,
		EventTitle:  res.Event.Title,
		UserID:      ticket.UserID,
		StaffID:     ci.CheckedInBy,
		Location:    loc,
		CheckedInAt: ci.CheckedInAt,
	})
	s.log.Info("ticket checked in", "ticket_id", ticket.ID, "event_id", ticket.EventID, "staff_id", ci.CheckedInBy)
	return res, nil
}

// checkInFailure converts a failed check-in transaction into an *Error. A
// unique-index violation means a concurrent scan won the race; the caller
// gets the same answer as a sequential repeat.
func (s *TicketingService) checkInFailure(ctx context.Context, ticket *model.Ticket, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, repository.ErrConflict) && ticket != nil {
		prior, perr := s.store.CheckIns().GetByTicket(ctx, ticket.ID, ticket.EventID)
		if perr == nil {
			return alreadyCheckedIn(prior.CheckedInAt)
		}
	}
	return internal("Failed to check in", err)
}

func alreadyCheckedIn(at time.Time) *Error {
	e := conflict(CodeAlreadyCheckedIn, "Already checked in")
	e.Data = map[string]any{"checkedInAt": at}
	return e
}

// resolveStaff returns the user recorded as performing the check-in. A
// given id must exist. Without one, the shared placeholder staff user is
// used unless staff identity is required.
func (s *TicketingService) resolveStaff(ctx context.Context, tx repository.Store, staffID *string) (*model.User, error) {
	if staffID != nil && *staffID != "" {
		u, err := tx.Users().GetByID(ctx, *staffID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, invalidField("staffId", "Staff member not found")
		}
		return u, err
	}
	if s.opts.RequireStaff {
		return nil, invalidField("staffId", "Staff ID is required")
	}
	u, err := tx.Users().FirstOrCreate(ctx, &model.User{
		Email: strings.ToLower(s.opts.StaffEmail),
		Name:  s.opts.StaffName,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve placeholder staff: %w", err)
	}
	return u, nil
}

// ListCheckIns pages through an event's check-ins, newest first.
func (s *TicketingService) ListCheckIns(ctx context.Context, q repository.PageQuery) (page *CheckInPage, err error) {
	ctx, span := s.span(ctx, "ListCheckIns")
	defer func() { end(span, err) }()

	if _, err := s.store.Events().GetByID(ctx, q.EventID); err != nil {
		return nil, eventLookup(err)
	}
	q.Page, q.Limit = clampPage(q.Page, q.Limit, 20)
	rows, total, err := s.store.CheckIns().ListByEvent(ctx, q)
	if err != nil {
		return nil, internal("Failed to fetch check-ins", err)
	}
	return &CheckInPage{CheckIns: rows, Pagination: paginate(total, q.Page, q.Limit)}, nil
}
