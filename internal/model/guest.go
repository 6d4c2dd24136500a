package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guest is the attendance record paired 1:1 with a ticket. It carries the
// RSVP and seating details and flips to CheckedIn on a successful scan.
type Guest struct {
	ID             string     `gorm:"type:char(36);primaryKey" json:"id"`
	CheckedIn      bool       `gorm:"not null;default:false" json:"checkedIn"`
	CheckedInAt    *time.Time `json:"checkedInAt,omitempty"`
	RegisteredAt   time.Time  `gorm:"not null" json:"registeredAt"`
	MealPreference *string    `gorm:"type:varchar(128)" json:"mealPreference,omitempty"`
	HasPlusOne     bool       `gorm:"not null;default:false" json:"hasPlusOne"`
	PlusOneName    *string    `gorm:"type:varchar(255)" json:"plusOneName,omitempty"`
	SpecialNeeds   *string    `gorm:"type:text" json:"specialNeeds,omitempty"`
	TableNumber    *int       `json:"tableNumber,omitempty"`
	RSVPStatus     RSVPStatus `gorm:"column:rsvp_status;type:varchar(16);not null;default:PENDING" json:"rsvpStatus"`

	EventID  string `gorm:"type:char(36);not null;index" json:"eventId"`
	UserID   string `gorm:"type:char(36);not null;index" json:"userId"`
	TicketID string `gorm:"type:char(36);not null;uniqueIndex" json:"ticketId"`
}

func (g *Guest) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
