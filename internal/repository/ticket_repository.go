package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/codegate-events/internal/model"
)

// TicketRepo manages persistence for tickets.
type TicketRepo struct {
	db *gorm.DB
}

func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return fmt.Errorf("create ticket: %w", translate(err, nil))
	}
	return nil
}

func (r *TicketRepo) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("event_id = ?", eventID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return n, nil
}

func (r *TicketRepo) GetByCode(ctx context.Context, code string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Preload("Guest").
		First(&t, "code = ?", code).Error
	if err != nil {
		return nil, fmt.Errorf("get ticket by code: %w", translate(err, ErrTicketNotFound))
	}
	return &t, nil
}

func (r *TicketRepo) GetForUpdate(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("lock ticket %s: %w", id, translate(err, ErrTicketNotFound))
	}
	return &t, nil
}

func (r *TicketRepo) UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("update ticket %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update ticket %s: %w", id, ErrTicketNotFound)
	}
	return nil
}

func (r *TicketRepo) ListByEvent(ctx context.Context, q PageQuery) ([]model.Ticket, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("event_id = ?", q.EventID)
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}
	var rows []model.Ticket
	err := tx.Preload("User").Preload("Guest").
		Order("purchased_at ASC").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	return rows, total, nil
}

type statusRow struct {
	Status  model.TicketStatus
	Count   int64
	Revenue float64
}

func (r *TicketRepo) StatsByEvent(ctx context.Context, eventID string) (model.TicketStats, error) {
	var rows []statusRow
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return model.TicketStats{}, fmt.Errorf("ticket stats: %w", err)
	}
	return buildStats(rows), nil
}

// buildStats folds per-status aggregates into TicketStats. Refunded and
// cancelled tickets do not count toward revenue.
func buildStats(rows []statusRow) model.TicketStats {
	st := model.TicketStats{ByStatus: make(map[model.TicketStatus]int64, len(model.TicketStatuses))}
	for _, s := range model.TicketStatuses {
		st.ByStatus[s] = 0
	}
	var paid int64
	for _, row := range rows {
		st.Total += row.Count
		st.ByStatus[row.Status] += row.Count
		if row.Status == model.TicketRefunded || row.Status == model.TicketCancelled {
			continue
		}
		st.TotalRevenue += row.Revenue
		paid += row.Count
	}
	if paid > 0 {
		st.AveragePrice = st.TotalRevenue / float64(paid)
	}
	return st
}
