package repository

import (
	"context"
	"time"

	"github.com/iliyamo/codegate-events/internal/model"
)

// Store gives access to every repository. Transaction runs fn against a
// Store bound to a single database transaction; returning an error rolls
// everything back.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	Events() EventRepository
	Tickets() TicketRepository
	Users() UserRepository
	Guests() GuestRepository
	CheckIns() CheckInRepository
	Vendors() VendorRepository
	Segments() SegmentRepository
}

// EventSearch filters and paginates the event listing. Zero values mean
// "no filter". Page is 1-based.
type EventSearch struct {
	Category  model.EventCategory
	Status    model.EventStatus
	City      string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	MinPrice  *float64
	MaxPrice  *float64
	Page      int
	Limit     int
}

// Offset converts Page/Limit into a row offset.
func (s EventSearch) Offset() int { return offset(s.Page, s.Limit) }

// PageQuery paginates a listing scoped to one event.
type PageQuery struct {
	EventID string
	Page    int
	Limit   int
}

func (q PageQuery) Offset() int { return offset(q.Page, q.Limit) }

func offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	// GetByID loads the event with its organizer.
	GetByID(ctx context.Context, id string) (*model.Event, error)
	// GetDetail additionally loads tickets and their holders.
	GetDetail(ctx context.Context, id string) (*model.Event, error)
	// GetForUpdate loads the event and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*model.Event, error)
	Search(ctx context.Context, q EventSearch) ([]model.Event, int64, error)
	Update(ctx context.Context, e *model.Event) error
	IncrementAttendees(ctx context.Context, id string, n int) error
}

type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) error
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	// GetByCode resolves a scan code, loading event, holder and guest.
	GetByCode(ctx context.Context, code string) (*model.Ticket, error)
	GetForUpdate(ctx context.Context, id string) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error
	ListByEvent(ctx context.Context, q PageQuery) ([]model.Ticket, int64, error)
	StatsByEvent(ctx context.Context, eventID string) (model.TicketStats, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// FirstOrCreate returns the user with u.Email, creating u when absent.
	FirstOrCreate(ctx context.Context, u *model.User) (*model.User, error)
}

type GuestRepository interface {
	Create(ctx context.Context, g *model.Guest) error
	MarkCheckedIn(ctx context.Context, ticketID string, at time.Time) error
}

type CheckInRepository interface {
	Create(ctx context.Context, c *model.CheckIn) error
	GetByTicket(ctx context.Context, ticketID, eventID string) (*model.CheckIn, error)
	ListByEvent(ctx context.Context, q PageQuery) ([]model.CheckIn, int64, error)
}

type VendorRepository interface {
	Create(ctx context.Context, v *model.Vendor) error
	GetByID(ctx context.Context, id string) (*model.Vendor, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Vendor, error)
	Update(ctx context.Context, v *model.Vendor) error
}

type SegmentRepository interface {
	Create(ctx context.Context, s *model.EventSegment) error
	ListByEvent(ctx context.Context, eventID string) ([]model.EventSegment, error)
}
