package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/model"
	"github.com/iliyamo/codegate-events/internal/queue"
	"github.com/iliyamo/codegate-events/internal/repository"
)

// EventFilter is the parsed query of GET /api/events.
type EventFilter = repository.EventSearch

// EventPage is one page of the event listing.
type EventPage struct {
	Events []model.Event `json:"events"`
	Pagination
}

// CreateEvent validates req, attaches the configured organizer and stores
// a new DRAFT event. The returned event carries its rendered QR code.
func (s *TicketingService) CreateEvent(ctx context.Context, req dto.CreateEventRequest) (ev *model.Event, err error) {
	ctx, span := s.span(ctx, "CreateEvent")
	defer func() { end(span, err) }()

	if err := s.check(req); err != nil {
		return nil, err
	}
	ev = req.ToEvent()
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		org, err := tx.Users().FirstOrCreate(ctx, &model.User{
			Email: strings.ToLower(s.opts.OrganizerEmail),
			Name:  s.opts.OrganizerName,
		})
		if err != nil {
			return fmt.Errorf("resolve organizer: %w", err)
		}
		ev.OrganizerID = org.ID
		if err := tx.Events().Create(ctx, ev); err != nil {
			return err
		}
		ev.Organizer = org
		return nil
	})
	if err != nil {
		return nil, internal("Failed to create event", err)
	}
	ev.QRCode = s.inlineQR(ev.Code)

	s.publish(ctx, queue.RoutingEventCreated, queue.EventCreated{
		EventID:     ev.ID,
		Title:       ev.Title,
		Category:    string(ev.Category),
		OrganizerID: ev.OrganizerID,
		EventDate:   ev.EventDate,
		Capacity:    ev.Capacity,
		CreatedAt:   ev.CreatedAt,
	})
	s.log.Info("event created", "event_id", ev.ID, "capacity", ev.Capacity)
	return ev, nil
}

// ListEvents returns one page of events matching f, ordered by event date.
func (s *TicketingService) ListEvents(ctx context.Context, f EventFilter) (page *EventPage, err error) {
	ctx, span := s.span(ctx, "ListEvents")
	defer func() { end(span, err) }()

	if f.Category != "" && !f.Category.Valid() {
		return nil, invalidField("category", "Category is invalid")
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalidField("status", "Status is invalid")
	}
	f.Page, f.Limit = clampPage(f.Page, f.Limit, 10)

	rows, total, err := s.store.Events().Search(ctx, f)
	if err != nil {
		return nil, internal("Failed to fetch events", err)
	}
	return &EventPage{Events: rows, Pagination: paginate(total, f.Page, f.Limit)}, nil
}

// GetEvent loads an event with its organizer, tickets and ticket holders.
func (s *TicketingService) GetEvent(ctx context.Context, id string) (ev *model.Event, err error) {
	ctx, span := s.span(ctx, "GetEvent")
	defer func() { end(span, err) }()

	ev, err = s.store.Events().GetDetail(ctx, id)
	if err != nil {
		return nil, eventLookup(err)
	}
	ev.QRCode = s.inlineQR(ev.Code)
	return ev, nil
}

// UpdateEvent applies a partial update. Capacity can never drop below the
// number of tickets already sold.
func (s *TicketingService) UpdateEvent(ctx context.Context, id string, req dto.UpdateEventRequest) (ev *model.Event, err error) {
	ctx, span := s.span(ctx, "UpdateEvent")
	defer func() { end(span, err) }()

	if err := s.check(req); err != nil {
		return nil, err
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		cur, err := tx.Events().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		req.Apply(cur)
		if req.Capacity != nil {
			sold, err := tx.Tickets().CountByEvent(ctx, id)
			if err != nil {
				return err
			}
			if int64(cur.Capacity) < sold {
				return conflict(CodeCapacityBelow,
					fmt.Sprintf("Capacity cannot be lower than the %d tickets already sold", sold))
			}
		}
		if err := tx.Events().Update(ctx, cur); err != nil {
			return err
		}
		ev, err = tx.Events().GetByID(ctx, id)
		return err
	})
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, eventLookup(err)
	}
	return ev, nil
}

// eventLookup maps a failed event read onto NotFound or Internal.
func eventLookup(err error) *Error {
	if errors.Is(err, repository.ErrEventNotFound) {
		return notFound(CodeEventNotFound, "Event not found")
	}
	return internal("Failed to load event", err)
}
