package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/model"
	"github.com/iliyamo/codegate-events/internal/queue"
	"github.com/iliyamo/codegate-events/internal/repository"
)

// Purchase is the result of a successful ticket purchase.
type Purchase struct {
	Tickets []model.Ticket     `json:"tickets"`
	Event   model.EventSummary `json:"event"`
	User    model.UserSummary  `json:"user"`
}

// TicketPage is one page of an event's tickets plus event-wide stats.
type TicketPage struct {
	Tickets []model.Ticket `json:"tickets"`
	Pagination
	Stats model.TicketStats `json:"stats"`
}

// PurchaseTickets sells req.Quantity tickets of one type to the buyer.
//
// The event row is locked for the whole purchase so the capacity gate and
// the attendee increment see the same count. A purchase that does not fit
// creates nothing.
func (s *TicketingService) PurchaseTickets(ctx context.Context, eventID string, req dto.PurchaseTicketsRequest) (p *Purchase, err error) {
	ctx, span := s.span(ctx, "PurchaseTickets")
	defer func() { end(span, err) }()

	if err := s.check(req); err != nil {
		return nil, err
	}
	now := s.now()

	var (
		ev   *model.Event
		user *model.User
	)
	tickets := make([]model.Ticket, 0, req.Quantity)
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		if ev, err = tx.Events().GetForUpdate(ctx, eventID); err != nil {
			return err
		}
		sold, err := tx.Tickets().CountByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if sold >= int64(ev.Capacity) {
			return conflict(CodeSoldOut, "Event is sold out")
		}
		if left := ev.Remaining(sold); int64(req.Quantity) > left {
			return conflict(CodeInsufficient, fmt.Sprintf("Only %d tickets remaining", left))
		}

		if user, err = tx.Users().FirstOrCreate(ctx, req.User.ToUser()); err != nil {
			return fmt.Errorf("resolve buyer: %w", err)
		}
		for range req.Quantity {
			t := model.Ticket{
				TicketType:  req.TicketType,
				Price:       ev.TicketPrice,
				Status:      model.TicketActive,
				PurchasedAt: now,
				ValidUntil:  ev.EventDate,
				EventID:     ev.ID,
				UserID:      user.ID,
			}
			// The code covers the ticket id, so the id is fixed first.
			t.ID = uuid.NewString()
			t.Code = s.codes.TicketCode(t.ID, ev.ID, user.ID)
			if err := tx.Tickets().Create(ctx, &t); err != nil {
				return err
			}
			if err := tx.Guests().Create(ctx, &model.Guest{
				RegisteredAt: now,
				RSVPStatus:   model.RSVPPending,
				EventID:      ev.ID,
				UserID:       user.ID,
				TicketID:     t.ID,
			}); err != nil {
				return err
			}
			tickets = append(tickets, t)
		}
		return tx.Events().IncrementAttendees(ctx, ev.ID, req.Quantity)
	})
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			return nil, se
		}
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, eventLookup(err)
		}
		return nil, internal("Failed to purchase tickets", err)
	}

	ids := make([]string, len(tickets))
	for i := range tickets {
		tickets[i].QRCode = s.inlineQR(tickets[i].Code)
		ids[i] = tickets[i].ID
	}
	s.publish(ctx, queue.RoutingTicketsPurchased, queue.TicketsPurchased{
		EventID:     ev.ID,
		EventTitle:  ev.Title,
		UserID:      user.ID,
		UserEmail:   user.Email,
		TicketType:  string(req.TicketType),
		TicketIDs:   ids,
		Quantity:    req.Quantity,
		TotalAmount: ev.TicketPrice * float64(req.Quantity),
		Currency:    ev.Currency,
		PurchasedAt: now,
	})
	s.log.Info("tickets purchased", "event_id", ev.ID, "user_id", user.ID, "quantity", req.Quantity)
	return &Purchase{Tickets: tickets, Event: ev.Summary(), User: user.Summary()}, nil
}

// ListTickets pages through an event's tickets in purchase order.
func (s *TicketingService) ListTickets(ctx context.Context, q repository.PageQuery) (page *TicketPage, err error) {
	ctx, span := s.span(ctx, "ListTickets")
	defer func() { end(span, err) }()

	if _, err := s.store.Events().GetByID(ctx, q.EventID); err != nil {
		return nil, eventLookup(err)
	}
	q.Page, q.Limit = clampPage(q.Page, q.Limit, 20)
	rows, total, err := s.store.Tickets().ListByEvent(ctx, q)
	if err != nil {
		return nil, internal("Failed to fetch tickets", err)
	}
	stats, err := s.store.Tickets().StatsByEvent(ctx, q.EventID)
	if err != nil {
		return nil, internal("Failed to compute ticket stats", err)
	}
	return &TicketPage{Tickets: rows, Pagination: paginate(total, q.Page, q.Limit), Stats: stats}, nil
}
