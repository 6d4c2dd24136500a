package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/iliyamo/codegate-events/internal/model"
)

// GuestRepo manages persistence for guests (attendance records).
type GuestRepo struct {
	db *gorm.DB
}

func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create guest: %w", translate(err, nil))
	}
	return nil
}

// MarkCheckedIn flags the guest paired with ticketID. A ticket without a
// guest row is not an error.
func (r *GuestRepo) MarkCheckedIn(ctx context.Context, ticketID string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.Guest{}).
		Where("ticket_id = ?", ticketID).
		Updates(map[string]any{"checked_in": true, "checked_in_at": at}).Error
	if err != nil {
		return fmt.Errorf("mark guest checked in: %w", err)
	}
	return nil
}
