package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/codegate-events/internal/model"
)

// MemoryStore is a process-local Store used by tests and by DB_DRIVER=memory.
// Transactions are serialized and roll back by restoring a snapshot. Calls
// made outside a transaction wait for the open one to finish, so a rollback
// never discards their writes and they never observe uncommitted rows.
type MemoryStore struct {
	data *memData
	inTx bool
}

type memData struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	tables
}

// enter holds txMu for a call made outside a transaction. Calls made by the
// transaction itself already own it.
func (d *memData) enter(inTx bool) func() {
	if inTx {
		return func() {}
	}
	d.txMu.Lock()
	return d.txMu.Unlock
}

type tables struct {
	users    map[string]model.User
	events   map[string]model.Event
	tickets  map[string]model.Ticket
	guests   map[string]model.Guest
	checkIns map[string]model.CheckIn
	vendors  map[string]model.Vendor
	segments map[string]model.EventSegment
}

func newTables() tables {
	return tables{
		users:    map[string]model.User{},
		events:   map[string]model.Event{},
		tickets:  map[string]model.Ticket{},
		guests:   map[string]model.Guest{},
		checkIns: map[string]model.CheckIn{},
		vendors:  map[string]model.Vendor{},
		segments: map[string]model.EventSegment{},
	}
}

func (t tables) clone() tables {
	return tables{
		users:    maps.Clone(t.users),
		events:   maps.Clone(t.events),
		tickets:  maps.Clone(t.tickets),
		guests:   maps.Clone(t.guests),
		checkIns: maps.Clone(t.checkIns),
		vendors:  maps.Clone(t.vendors),
		segments: maps.Clone(t.segments),
	}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: &memData{tables: newTables()}}
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d := s.data
	d.txMu.Lock()
	defer d.txMu.Unlock()

	d.mu.RLock()
	snapshot := d.tables.clone()
	d.mu.RUnlock()

	if err := fn(&MemoryStore{data: d, inTx: true}); err != nil {
		d.mu.Lock()
		d.tables = snapshot
		d.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) Events() EventRepository     { return memEvents{s.data, s.inTx} }
func (s *MemoryStore) Tickets() TicketRepository   { return memTickets{s.data, s.inTx} }
func (s *MemoryStore) Users() UserRepository       { return memUsers{s.data, s.inTx} }
func (s *MemoryStore) Guests() GuestRepository     { return memGuests{s.data, s.inTx} }
func (s *MemoryStore) CheckIns() CheckInRepository { return memCheckIns{s.data, s.inTx} }
func (s *MemoryStore) Vendors() VendorRepository   { return memVendors{s.data, s.inTx} }
func (s *MemoryStore) Segments() SegmentRepository { return memSegments{s.data, s.inTx} }

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}

// events

type memEvents struct {
	d    *memData
	inTx bool
}

func (r memEvents) Create(_ context.Context, e *model.Event) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	e.EnsureID()
	if _, ok := r.d.events[e.ID]; ok {
		return fmt.Errorf("create event: %w", ErrConflict)
	}
	if e.Status == "" {
		e.Status = model.EventDraft
	}
	stamp(&e.CreatedAt, &e.UpdatedAt)
	row := *e
	row.Organizer, row.Tickets, row.QRCode = nil, nil, ""
	r.d.events[e.ID] = row
	return nil
}

func (r memEvents) load(id string) (*model.Event, error) {
	e, ok := r.d.events[id]
	if !ok {
		return nil, fmt.Errorf("get event %s: %w", id, ErrEventNotFound)
	}
	if u, ok := r.d.users[e.OrganizerID]; ok {
		e.Organizer = &u
	}
	return &e, nil
}

func (r memEvents) GetByID(_ context.Context, id string) (*model.Event, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	return r.load(id)
}

func (r memEvents) GetDetail(_ context.Context, id string) (*model.Event, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	e, err := r.load(id)
	if err != nil {
		return nil, err
	}
	for _, t := range r.d.tickets {
		if t.EventID != id {
			continue
		}
		if u, ok := r.d.users[t.UserID]; ok {
			t.User = &u
		}
		e.Tickets = append(e.Tickets, t)
	}
	slices.SortFunc(e.Tickets, func(a, b model.Ticket) int { return a.PurchasedAt.Compare(b.PurchasedAt) })
	return e, nil
}

func (r memEvents) GetForUpdate(ctx context.Context, id string) (*model.Event, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Organizer = nil
	return e, nil
}

func (r memEvents) Search(_ context.Context, q EventSearch) ([]model.Event, int64, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	city := strings.ToLower(strings.TrimSpace(q.City))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	var rows []model.Event
	for _, e := range r.d.events {
		switch {
		case q.Category != "" && e.Category != q.Category,
			q.Status != "" && e.Status != q.Status,
			city != "" && !strings.Contains(strings.ToLower(e.City), city),
			search != "" && !strings.Contains(strings.ToLower(e.Title), search) &&
				!strings.Contains(strings.ToLower(e.Description), search),
			q.StartDate != nil && e.EventDate.Before(*q.StartDate),
			q.EndDate != nil && e.EventDate.After(*q.EndDate),
			q.MinPrice != nil && e.TicketPrice < *q.MinPrice,
			q.MaxPrice != nil && e.TicketPrice > *q.MaxPrice:
			continue
		}
		if u, ok := r.d.users[e.OrganizerID]; ok {
			e.Organizer = &u
		}
		rows = append(rows, e)
	}
	slices.SortStableFunc(rows, func(a, b model.Event) int {
		if c := a.EventDate.Compare(b.EventDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return page(rows, q.Limit, q.Offset()), int64(len(rows)), nil
}

func (r memEvents) Update(_ context.Context, e *model.Event) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.events[e.ID]; !ok {
		return fmt.Errorf("update event %s: %w", e.ID, ErrEventNotFound)
	}
	e.UpdatedAt = time.Now().UTC()
	row := *e
	row.Organizer, row.Tickets, row.QRCode = nil, nil, ""
	r.d.events[e.ID] = row
	return nil
}

func (r memEvents) IncrementAttendees(_ context.Context, id string, n int) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	e, ok := r.d.events[id]
	if !ok {
		return fmt.Errorf("increment attendees %s: %w", id, ErrEventNotFound)
	}
	e.CurrentAttendees += n
	r.d.events[id] = e
	return nil
}

// tickets

type memTickets struct {
	d    *memData
	inTx bool
}

func (r memTickets) Create(_ context.Context, t *model.Ticket) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	for _, other := range r.d.tickets {
		if other.ID == t.ID || other.Code == t.Code {
			return fmt.Errorf("create ticket: %w", ErrConflict)
		}
	}
	if t.Status == "" {
		t.Status = model.TicketActive
	}
	stamp(&t.CreatedAt, &t.UpdatedAt)
	row := *t
	row.Event, row.User, row.Guest, row.QRCode = nil, nil, nil, ""
	r.d.tickets[t.ID] = row
	return nil
}

func (r memTickets) CountByEvent(_ context.Context, eventID string) (int64, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	var n int64
	for _, t := range r.d.tickets {
		if t.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r memTickets) GetByCode(_ context.Context, code string) (*model.Ticket, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, t := range r.d.tickets {
		if t.Code != code {
			continue
		}
		if e, ok := r.d.events[t.EventID]; ok {
			t.Event = &e
		}
		if u, ok := r.d.users[t.UserID]; ok {
			t.User = &u
		}
		for _, g := range r.d.guests {
			if g.TicketID == t.ID {
				t.Guest = &g
				break
			}
		}
		return &t, nil
	}
	return nil, fmt.Errorf("get ticket by code: %w", ErrTicketNotFound)
}

func (r memTickets) GetForUpdate(_ context.Context, id string) (*model.Ticket, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	t, ok := r.d.tickets[id]
	if !ok {
		return nil, fmt.Errorf("lock ticket %s: %w", id, ErrTicketNotFound)
	}
	return &t, nil
}

func (r memTickets) UpdateStatus(_ context.Context, id string, status model.TicketStatus) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t, ok := r.d.tickets[id]
	if !ok {
		return fmt.Errorf("update ticket %s: %w", id, ErrTicketNotFound)
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	r.d.tickets[id] = t
	return nil
}

func (r memTickets) byEvent(eventID string) []model.Ticket {
	var rows []model.Ticket
	for _, t := range r.d.tickets {
		if t.EventID == eventID {
			rows = append(rows, t)
		}
	}
	slices.SortStableFunc(rows, func(a, b model.Ticket) int {
		if c := a.PurchasedAt.Compare(b.PurchasedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return rows
}

func (r memTickets) ListByEvent(_ context.Context, q PageQuery) ([]model.Ticket, int64, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	rows := r.byEvent(q.EventID)
	out := slices.Clone(page(rows, q.Limit, q.Offset()))
	for i := range out {
		if u, ok := r.d.users[out[i].UserID]; ok {
			out[i].User = &u
		}
		for _, g := range r.d.guests {
			if g.TicketID == out[i].ID {
				out[i].Guest = &g
				break
			}
		}
	}
	return out, int64(len(rows)), nil
}

func (r memTickets) StatsByEvent(_ context.Context, eventID string) (model.TicketStats, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	agg := map[model.TicketStatus]*statusRow{}
	for _, t := range r.byEvent(eventID) {
		row, ok := agg[t.Status]
		if !ok {
			row = &statusRow{Status: t.Status}
			agg[t.Status] = row
		}
		row.Count++
		row.Revenue += t.Price
	}
	rows := make([]statusRow, 0, len(agg))
	for _, row := range agg {
		rows = append(rows, *row)
	}
	return buildStats(rows), nil
}

// users

type memUsers struct {
	d    *memData
	inTx bool
}

func (r memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	u, ok := r.d.users[id]
	if !ok {
		return nil, fmt.Errorf("get user %s: %w", id, ErrUserNotFound)
	}
	return &u, nil
}

func (r memUsers) findEmail(email string) (*model.User, bool) {
	for _, u := range r.d.users {
		if strings.EqualFold(u.Email, email) {
			return &u, true
		}
	}
	return nil, false
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	if u, ok := r.findEmail(email); ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user by email: %w", ErrUserNotFound)
}

func (r memUsers) FirstOrCreate(_ context.Context, u *model.User) (*model.User, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if existing, ok := r.findEmail(u.Email); ok {
		return existing, nil
	}
	u.EnsureID()
	stamp(&u.CreatedAt, &u.UpdatedAt)
	r.d.users[u.ID] = *u
	return u, nil
}

// guests

type memGuests struct {
	d    *memData
	inTx bool
}

func (r memGuests) Create(_ context.Context, g *model.Guest) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	for _, other := range r.d.guests {
		if other.TicketID == g.TicketID {
			return fmt.Errorf("create guest: %w", ErrConflict)
		}
	}
	if g.RSVPStatus == "" {
		g.RSVPStatus = model.RSVPPending
	}
	if g.RegisteredAt.IsZero() {
		g.RegisteredAt = time.Now().UTC()
	}
	r.d.guests[g.ID] = *g
	return nil
}

func (r memGuests) MarkCheckedIn(_ context.Context, ticketID string, at time.Time) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for id, g := range r.d.guests {
		if g.TicketID == ticketID {
			g.CheckedIn = true
			g.CheckedInAt = &at
			r.d.guests[id] = g
		}
	}
	return nil
}

// check-ins

type memCheckIns struct {
	d    *memData
	inTx bool
}

func (r memCheckIns) Create(_ context.Context, c *model.CheckIn) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, other := range r.d.checkIns {
		if other.TicketID == c.TicketID {
			return fmt.Errorf("create check-in: %w", ErrConflict)
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := *c
	row.Staff = nil
	r.d.checkIns[c.ID] = row
	return nil
}

func (r memCheckIns) GetByTicket(_ context.Context, ticketID, eventID string) (*model.CheckIn, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, c := range r.d.checkIns {
		if c.TicketID == ticketID && c.EventID == eventID {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("get check-in: %w", ErrCheckInNotFound)
}

func (r memCheckIns) ListByEvent(_ context.Context, q PageQuery) ([]model.CheckIn, int64, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	var rows []model.CheckIn
	for _, c := range r.d.checkIns {
		if c.EventID == q.EventID {
			if u, ok := r.d.users[c.CheckedInBy]; ok {
				c.Staff = &u
			}
			rows = append(rows, c)
		}
	}
	slices.SortStableFunc(rows, func(a, b model.CheckIn) int {
		if c := b.CheckedInAt.Compare(a.CheckedInAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return page(rows, q.Limit, q.Offset()), int64(len(rows)), nil
}

// vendors

type memVendors struct {
	d    *memData
	inTx bool
}

func (r memVendors) Create(_ context.Context, v *model.Vendor) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Status == "" {
		v.Status = model.VendorPending
	}
	if v.PaymentStatus == "" {
		v.PaymentStatus = model.PaymentPending
	}
	stamp(&v.CreatedAt, &v.UpdatedAt)
	r.d.vendors[v.ID] = *v
	return nil
}

func (r memVendors) GetByID(_ context.Context, id string) (*model.Vendor, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	v, ok := r.d.vendors[id]
	if !ok {
		return nil, fmt.Errorf("get vendor %s: %w", id, ErrVendorNotFound)
	}
	return &v, nil
}

func (r memVendors) ListByEvent(_ context.Context, eventID string) ([]model.Vendor, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	rows := []model.Vendor{}
	for _, v := range r.d.vendors {
		if v.EventID == eventID {
			rows = append(rows, v)
		}
	}
	slices.SortStableFunc(rows, func(a, b model.Vendor) int {
		if c := strings.Compare(a.ServiceType, b.ServiceType); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return rows, nil
}

func (r memVendors) Update(_ context.Context, v *model.Vendor) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.vendors[v.ID]; !ok {
		return fmt.Errorf("update vendor %s: %w", v.ID, ErrVendorNotFound)
	}
	v.UpdatedAt = time.Now().UTC()
	r.d.vendors[v.ID] = *v
	return nil
}

// segments

type memSegments struct {
	d    *memData
	inTx bool
}

func (r memSegments) Create(_ context.Context, s *model.EventSegment) error {
	defer r.d.enter(r.inTx)()
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	stamp(&s.CreatedAt, &s.UpdatedAt)
	r.d.segments[s.ID] = *s
	return nil
}

func (r memSegments) ListByEvent(_ context.Context, eventID string) ([]model.EventSegment, error) {
	defer r.d.enter(r.inTx)()
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	rows := []model.EventSegment{}
	for _, s := range r.d.segments {
		if s.EventID == eventID {
			rows = append(rows, s)
		}
	}
	slices.SortStableFunc(rows, func(a, b model.EventSegment) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return a.StartTime.Compare(b.StartTime)
	})
	return rows, nil
}
