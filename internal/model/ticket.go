package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket admits one person to one event. Code is the opaque scan code
// derived from the ticket, event and holder identities; check-in resolves
// scanned text against it. ValidUntil is the event date at purchase time.
type Ticket struct {
	ID          string       `gorm:"type:char(36);primaryKey" json:"id"`
	Code        string       `gorm:"type:varchar(96);not null;uniqueIndex" json:"code"`
	TicketType  TicketType   `gorm:"type:varchar(16);not null" json:"ticketType"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Status      TicketStatus `gorm:"type:varchar(16);not null;default:ACTIVE;index" json:"status"`
	PurchasedAt time.Time    `gorm:"not null" json:"purchasedAt"`
	ValidUntil  time.Time    `gorm:"not null" json:"validUntil"`

	EventID string `gorm:"type:char(36);not null;index" json:"eventId"`
	UserID  string `gorm:"type:char(36);not null;index" json:"userId"`
	Event   *Event `json:"event,omitempty"`
	User    *User  `json:"user,omitempty"`
	Guest   *Guest `gorm:"foreignKey:TicketID" json:"guest,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	QRCode string `gorm:"-" json:"qrCode,omitempty"`
}

func (t *Ticket) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the validity window closed strictly before now.
func (t Ticket) Expired(now time.Time) bool { return t.ValidUntil.Before(now) }

// TicketSummary is embedded in check-in responses.
type TicketSummary struct {
	ID         string     `json:"id"`
	TicketType TicketType `json:"ticketType"`
}

func (t Ticket) Summary() TicketSummary { return TicketSummary{ID: t.ID, TicketType: t.TicketType} }

// TicketStats aggregates the tickets of one event.
type TicketStats struct {
	Total        int64                  `json:"total"`
	ByStatus     map[TicketStatus]int64 `json:"byStatus"`
	TotalRevenue float64                `json:"totalRevenue"`
	AveragePrice float64                `json:"averagePrice"`
}
