package service

import (
	"context"
	"errors"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/model"
	"github.com/iliyamo/codegate-events/internal/repository"
)

// ListSegments returns an event's programme ordered by position.
func (s *TicketingService) ListSegments(ctx context.Context, eventID string) (rows []model.EventSegment, err error) {
	ctx, span := s.span(ctx, "ListSegments")
	defer func() { end(span, err) }()

	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		return nil, eventLookup(err)
	}
	rows, err = s.store.Segments().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, internal("Failed to fetch event segments", err)
	}
	return rows, nil
}

func (s *TicketingService) CreateSegment(ctx context.Context, eventID string, req dto.CreateSegmentRequest) (seg *model.EventSegment, err error) {
	ctx, span := s.span(ctx, "CreateSegment")
	defer func() { end(span, err) }()

	if err := s.check(req); err != nil {
		return nil, err
	}
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		return nil, eventLookup(err)
	}
	seg = req.ToSegment(eventID)
	if err := s.store.Segments().Create(ctx, seg); err != nil {
		return nil, internal("Failed to create event segment", err)
	}
	return seg, nil
}

// ListVendors returns an event's vendors ordered by service type.
func (s *TicketingService) ListVendors(ctx context.Context, eventID string) (rows []model.Vendor, err error) {
	ctx, span := s.span(ctx, "ListVendors")
	defer func() { end(span, err) }()

	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		return nil, eventLookup(err)
	}
	rows, err = s.store.Vendors().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, internal("Failed to fetch vendors", err)
	}
	return rows, nil
}

func (s *TicketingService) CreateVendor(ctx context.Context, eventID string, req dto.CreateVendorRequest) (v *model.Vendor, err error) {
	ctx, span := s.span(ctx, "CreateVendor")
	defer func() { end(span, err) }()

	if err := s.check(req); err != nil {
		return nil, err
	}
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		return nil, eventLookup(err)
	}
	v = req.ToVendor(eventID)
	if err := s.store.Vendors().Create(ctx, v); err != nil {
		return nil, internal("Failed to create vendor", err)
	}
	return v, nil
}

// UpdateVendor applies a partial update to a vendor.
func (s *TicketingService) UpdateVendor(ctx context.Context, id string, req dto.UpdateVendorRequest) (v *model.Vendor, err error) {
	ctx, span := s.span(ctx, "UpdateVendor")
	defer func() { end(span, err) }()

	if err := s.check(req); err != nil {
		return nil, err
	}
	v, err = s.store.Vendors().GetByID(ctx, id)
	if errors.Is(err, repository.ErrVendorNotFound) {
		return nil, notFound(CodeVendorNotFound, "Vendor not found")
	}
	if err != nil {
		return nil, internal("Failed to load vendor", err)
	}
	req.Apply(v)
	if err := s.store.Vendors().Update(ctx, v); err != nil {
		return nil, internal("Failed to update vendor", err)
	}
	return v, nil
}
