package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckIn records the single successful admission of a ticket. The unique
// index on TicketID makes a second row for the same ticket impossible.
type CheckIn struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(96);not null" json:"qrCode"`
	CheckedInAt time.Time `gorm:"not null;index" json:"checkedInAt"`
	Location    *string   `gorm:"type:varchar(255)" json:"location,omitempty"`
	EventID     string    `gorm:"type:char(36);not null;index" json:"eventId"`
	TicketID    string    `gorm:"type:char(36);not null;uniqueIndex" json:"ticketId"`
	CheckedInBy string    `gorm:"type:char(36);not null" json:"checkedInBy"`
	Staff       *User     `gorm:"foreignKey:CheckedInBy" json:"staff,omitempty"`
}

func (c *CheckIn) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
