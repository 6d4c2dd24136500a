package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iliyamo/codegate-events/internal/model"
)

// CheckInRepo manages persistence for check-ins.
type CheckInRepo struct {
	db *gorm.DB
}

// Create inserts the check-in. A second row for the same ticket fails with
// ErrConflict.
func (r *CheckInRepo) Create(ctx context.Context, c *model.CheckIn) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return fmt.Errorf("create check-in: %w", translate(err, nil))
	}
	return nil
}

func (r *CheckInRepo) GetByTicket(ctx context.Context, ticketID, eventID string) (*model.CheckIn, error) {
	var c model.CheckIn
	err := r.db.WithContext(ctx).
		Where("ticket_id = ? AND event_id = ?", ticketID, eventID).
		First(&c).Error
	if err != nil {
		return nil, fmt.Errorf("get check-in: %w", translate(err, ErrCheckInNotFound))
	}
	return &c, nil
}

func (r *CheckInRepo) ListByEvent(ctx context.Context, q PageQuery) ([]model.CheckIn, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.CheckIn{}).Where("event_id = ?", q.EventID)
	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count check-ins: %w", err)
	}
	var rows []model.CheckIn
	err := tx.Preload("Staff").
		Order("checked_in_at DESC").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list check-ins: %w", err)
	}
	return rows, total, nil
}
