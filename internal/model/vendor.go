package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vendor is a supplier booked for an event (caterer, florist, band...).
type Vendor struct {
	ID             string              `gorm:"type:char(36);primaryKey" json:"id"`
	EventID        string              `gorm:"type:char(36);not null;index" json:"eventId"`
	Name           string              `gorm:"type:varchar(255);not null" json:"name"`
	ServiceType    string              `gorm:"type:varchar(128);not null;index" json:"serviceType"`
	ContactNumber  *string             `gorm:"type:varchar(32)" json:"contactNumber,omitempty"`
	Email          *string             `gorm:"type:varchar(255)" json:"email,omitempty"`
	Website        *string             `gorm:"type:varchar(512)" json:"website,omitempty"`
	SocialMedia    datatypes.JSONMap   `gorm:"type:json" json:"socialMedia,omitempty"`
	Notes          *string             `gorm:"type:text" json:"notes,omitempty"`
	Status         VendorStatus        `gorm:"type:varchar(16);not null;default:PENDING" json:"status"`
	PaymentStatus  VendorPaymentStatus `gorm:"type:varchar(16);not null;default:PENDING" json:"paymentStatus"`
	ContractSigned bool                `gorm:"not null;default:false" json:"contractSigned"`
	TotalAmount    *float64            `gorm:"type:decimal(12,2)" json:"totalAmount,omitempty"`
	PaidAmount     float64             `gorm:"type:decimal(12,2);not null;default:0" json:"paidAmount"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (v *Vendor) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// EventSegment is one slot of an event's running order.
// EndTime is always StartTime plus DurationMinutes.
type EventSegment struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	EventID         string    `gorm:"type:char(36);not null;index" json:"eventId"`
	EventDetail     string    `gorm:"type:varchar(255);not null" json:"eventDetail"`
	PerformedBy     string    `gorm:"type:varchar(255);not null" json:"performedBy"`
	DurationMinutes int       `gorm:"not null" json:"durationMinutes"`
	StartTime       time.Time `gorm:"not null" json:"startTime"`
	EndTime         time.Time `gorm:"not null" json:"endTime"`
	Order           int       `gorm:"column:sort_order;not null;default:0;index" json:"order"`
	Notes           *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (s *EventSegment) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
