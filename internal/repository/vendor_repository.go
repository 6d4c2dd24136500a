package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/iliyamo/codegate-events/internal/model"
)

// VendorRepo manages persistence for vendors.
type VendorRepo struct {
	db *gorm.DB
}

func (r *VendorRepo) Create(ctx context.Context, v *model.Vendor) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create vendor: %w", translate(err, nil))
	}
	return nil
}

func (r *VendorRepo) GetByID(ctx context.Context, id string) (*model.Vendor, error) {
	var v model.Vendor
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get vendor %s: %w", id, translate(err, ErrVendorNotFound))
	}
	return &v, nil
}

func (r *VendorRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Vendor, error) {
	var rows []model.Vendor
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("service_type ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return rows, nil
}

func (r *VendorRepo) Update(ctx context.Context, v *model.Vendor) error {
	if err := r.db.WithContext(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("update vendor %s: %w", v.ID, translate(err, nil))
	}
	return nil
}

// SegmentRepo manages persistence for event segments.
type SegmentRepo struct {
	db *gorm.DB
}

func (r *SegmentRepo) Create(ctx context.Context, s *model.EventSegment) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create segment: %w", translate(err, nil))
	}
	return nil
}

func (r *SegmentRepo) ListByEvent(ctx context.Context, eventID string) ([]model.EventSegment, error) {
	var rows []model.EventSegment
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("sort_order ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	return rows, nil
}
