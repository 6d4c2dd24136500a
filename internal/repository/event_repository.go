package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/codegate-events/internal/model"
)

// EventRepo manages persistence for events.
type EventRepo struct {
	db *gorm.DB
}

func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error; err != nil {
		return fmt.Errorf("create event: %w", translate(err, nil))
	}
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).Preload("Organizer").First(&e, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, translate(err, ErrEventNotFound))
	}
	return &e, nil
}

func (r *EventRepo) GetDetail(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).
		Preload("Organizer").
		Preload("Tickets", func(db *gorm.DB) *gorm.DB { return db.Order("purchased_at ASC") }).
		Preload("Tickets.User").
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, translate(err, ErrEventNotFound))
	}
	return &e, nil
}

func (r *EventRepo) GetForUpdate(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("lock event %s: %w", id, translate(err, ErrEventNotFound))
	}
	return &e, nil
}

// Search applies the listing filters, counts the full match set and
// returns one page ordered by event date ascending.
func (r *EventRepo) Search(ctx context.Context, q EventSearch) ([]model.Event, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Event{})
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if c := strings.TrimSpace(q.City); c != "" {
		tx = tx.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(c)+"%")
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	if q.StartDate != nil {
		tx = tx.Where("event_date >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		tx = tx.Where("event_date <= ?", *q.EndDate)
	}
	if q.MinPrice != nil {
		tx = tx.Where("ticket_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("ticket_price <= ?", *q.MaxPrice)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	var rows []model.Event
	err := tx.Preload("Organizer").
		Order("event_date ASC").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search events: %w", err)
	}
	return rows, total, nil
}

func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
	if err != nil {
		return fmt.Errorf("update event %s: %w", e.ID, translate(err, nil))
	}
	return nil
}

// IncrementAttendees adds n in a single UPDATE so concurrent writers never
// overwrite each other's count.
func (r *EventRepo) IncrementAttendees(ctx context.Context, id string, n int) error {
	res := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ?", id).
		UpdateColumn("current_attendees", gorm.Expr("current_attendees + ?", n))
	if res.Error != nil {
		return fmt.Errorf("increment attendees %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("increment attendees %s: %w", id, ErrEventNotFound)
	}
	return nil
}
