package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventCodePrefix prefixes the scan code printed on event-level QR codes.
const EventCodePrefix = "event:"

// Event is a scheduled gathering with a fixed capacity. Location fields are
// stored flat on the row. CurrentAttendees counts sold tickets and is only
// ever changed by the purchase path, which keeps it at or below Capacity.
type Event struct {
	ID               string        `gorm:"type:char(36);primaryKey" json:"id"`
	Title            string        `gorm:"type:varchar(255);not null" json:"title"`
	Description      string        `gorm:"type:text;not null" json:"description"`
	Category         EventCategory `gorm:"type:varchar(32);not null;index" json:"category"`
	EventDate        time.Time     `gorm:"not null;index" json:"eventDate"`
	StartTime        string        `gorm:"type:varchar(32);not null" json:"startTime"`
	EndTime          *string       `gorm:"type:varchar(32)" json:"endTime,omitempty"`
	Capacity         int           `gorm:"not null" json:"capacity"`
	CurrentAttendees int           `gorm:"not null;default:0" json:"currentAttendees"`
	TicketPrice      float64       `gorm:"type:decimal(10,2);not null;default:0" json:"ticketPrice"`
	Currency         string        `gorm:"type:char(3);not null;default:USD" json:"currency"`
	Status           EventStatus   `gorm:"type:varchar(16);not null;default:DRAFT;index" json:"status"`
	Code             string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`

	Images              datatypes.JSONSlice[string] `gorm:"type:json" json:"images"`
	Tags                datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`
	MealPreferences     datatypes.JSONSlice[string] `gorm:"type:json" json:"mealPreferences"`
	CoupleName          *string                     `gorm:"type:varchar(255)" json:"coupleName,omitempty"`
	HostName            *string                     `gorm:"type:varchar(255)" json:"hostName,omitempty"`
	DressCode           *string                     `gorm:"type:varchar(255)" json:"dressCode,omitempty"`
	SpecialInstructions *string                     `gorm:"type:text" json:"specialInstructions,omitempty"`
	GiftRegistry        *string                     `gorm:"type:varchar(512)" json:"giftRegistry,omitempty"`
	RSVPDeadline        *time.Time                  `json:"rsvpDeadline,omitempty"`
	IsPlusOneAllowed    bool                        `gorm:"not null;default:false" json:"isPlusOneAllowed"`

	Venue     string   `gorm:"type:varchar(255);not null" json:"venue"`
	Address   string   `gorm:"type:varchar(255);not null" json:"address"`
	City      string   `gorm:"type:varchar(128);not null;index" json:"city"`
	State     string   `gorm:"type:varchar(128);not null" json:"state"`
	Country   string   `gorm:"type:varchar(128);not null" json:"country"`
	ZipCode   string   `gorm:"type:varchar(32);not null" json:"zipCode"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	OrganizerID string    `gorm:"type:char(36);not null;index" json:"organizerId"`
	Organizer   *User     `gorm:"foreignKey:OrganizerID;constraint:OnDelete:RESTRICT" json:"organizer,omitempty"`
	Tickets     []Ticket  `gorm:"constraint:OnDelete:CASCADE" json:"tickets,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// QRCode is the rendered image of Code. It is produced on demand and
	// never stored.
	QRCode string `gorm:"-" json:"qrCode,omitempty"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	e.EnsureID()
	return nil
}

// EnsureID assigns a UUID and the derived event code when missing.
func (e *Event) EnsureID() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Code == "" {
		e.Code = EventCodePrefix + e.ID
	}
}

// Remaining is the number of tickets that can still be sold given sold.
func (e Event) Remaining(sold int64) int64 {
	if r := int64(e.Capacity) - sold; r > 0 {
		return r
	}
	return 0
}

// EventSummary is the minimal event projection embedded in ticket and
// check-in responses.
type EventSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (e Event) Summary() EventSummary { return EventSummary{ID: e.ID, Title: e.Title} }
