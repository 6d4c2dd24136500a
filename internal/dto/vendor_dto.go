package dto

import (
	"strings"

	"gorm.io/datatypes"

	"github.com/iliyamo/codegate-events/internal/model"
)

// CreateVendorRequest is the body of POST /api/events/:id/vendors.
type CreateVendorRequest struct {
	Name           string         `json:"name" validate:"required,max=255"`
	ServiceType    string         `json:"serviceType" validate:"required,max=128"`
	ContactNumber  *string        `json:"contactNumber" validate:"omitempty,max=32"`
	Email          *string        `json:"email" validate:"omitempty,email,max=255"`
	Website        *string        `json:"website" validate:"omitempty,url,max=512"`
	SocialMedia    map[string]any `json:"socialMedia"`
	Notes          *string        `json:"notes" validate:"omitempty,max=4000"`
	ContractSigned *bool          `json:"contractSigned"`
	TotalAmount    *float64       `json:"totalAmount" validate:"omitempty,min=0"`
}

func (r CreateVendorRequest) ToVendor(eventID string) *model.Vendor {
	v := &model.Vendor{
		EventID:       eventID,
		Name:          strings.TrimSpace(r.Name),
		ServiceType:   strings.TrimSpace(r.ServiceType),
		ContactNumber: r.ContactNumber,
		Email:         r.Email,
		Website:       r.Website,
		Notes:         r.Notes,
		Status:        model.VendorPending,
		PaymentStatus: model.PaymentPending,
		TotalAmount:   r.TotalAmount,
	}
	if r.SocialMedia != nil {
		v.SocialMedia = datatypes.JSONMap(r.SocialMedia)
	}
	if r.ContractSigned != nil {
		v.ContractSigned = *r.ContractSigned
	}
	return v
}

// UpdateVendorRequest is the body of PUT /api/events/vendors/:id.
type UpdateVendorRequest struct {
	Name           *string                    `json:"name" validate:"omitempty,min=1,max=255"`
	ServiceType    *string                    `json:"serviceType" validate:"omitempty,min=1,max=128"`
	ContactNumber  *string                    `json:"contactNumber" validate:"omitempty,max=32"`
	Email          *string                    `json:"email" validate:"omitempty,email,max=255"`
	Website        *string                    `json:"website" validate:"omitempty,url,max=512"`
	SocialMedia    map[string]any             `json:"socialMedia"`
	Notes          *string                    `json:"notes" validate:"omitempty,max=4000"`
	Status         *model.VendorStatus        `json:"status" validate:"omitempty,enum"`
	PaymentStatus  *model.VendorPaymentStatus `json:"paymentStatus" validate:"omitempty,enum"`
	ContractSigned *bool                      `json:"contractSigned"`
	TotalAmount    *float64                   `json:"totalAmount" validate:"omitempty,min=0"`
	PaidAmount     *float64                   `json:"paidAmount" validate:"omitempty,min=0"`
}

func (r UpdateVendorRequest) Apply(v *model.Vendor) {
	setIf(&v.Name, r.Name)
	setIf(&v.ServiceType, r.ServiceType)
	setIf(&v.Status, r.Status)
	setIf(&v.PaymentStatus, r.PaymentStatus)
	setIf(&v.ContractSigned, r.ContractSigned)
	setIf(&v.PaidAmount, r.PaidAmount)
	if r.ContactNumber != nil {
		v.ContactNumber = r.ContactNumber
	}
	if r.Email != nil {
		v.Email = r.Email
	}
	if r.Website != nil {
		v.Website = r.Website
	}
	if r.Notes != nil {
		v.Notes = r.Notes
	}
	if r.TotalAmount != nil {
		v.TotalAmount = r.TotalAmount
	}
	if r.SocialMedia != nil {
		v.SocialMedia = datatypes.JSONMap(r.SocialMedia)
	}
}

// CreateSegmentRequest is the body of POST /api/events/:id/segments.
type CreateSegmentRequest struct {
	EventDetail     string  `json:"eventDetail" validate:"required,max=255"`
	PerformedBy     string  `json:"performedBy" validate:"required,max=255"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,min=1,max=1440"`
	StartTime       string  `json:"startTime" validate:"required,isodate"`
	Order           *int    `json:"order" validate:"omitempty,min=0"`
	Notes           *string `json:"notes" validate:"omitempty,max=2000"`
}

// ToSegment derives EndTime from StartTime and DurationMinutes.
func (r CreateSegmentRequest) ToSegment(eventID string) *model.EventSegment {
	start := mustTime(r.StartTime)
	s := &model.EventSegment{
		EventID:         eventID,
		EventDetail:     strings.TrimSpace(r.EventDetail),
		PerformedBy:     strings.TrimSpace(r.PerformedBy),
		DurationMinutes: r.DurationMinutes,
		StartTime:       start,
		EndTime:         start.Add(minutes(r.DurationMinutes)),
		Notes:           r.Notes,
	}
	if r.Order != nil {
		s.Order = *r.Order
	}
	return s
}
