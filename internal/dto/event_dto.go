// Package dto holds the request payloads accepted by the HTTP API, with
// their validation rules and the mapping onto domain models.
package dto

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/iliyamo/codegate-events/internal/model"
	"github.com/iliyamo/codegate-events/internal/validation"
)

type CoordinatesInput struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type LocationInput struct {
	Venue       string            `json:"venue" validate:"required,max=255"`
	Address     string            `json:"address" validate:"required,max=255"`
	City        string            `json:"city" validate:"required,max=128"`
	State       string            `json:"state" validate:"required,max=128"`
	Country     string            `json:"country" validate:"required,max=128"`
	ZipCode     string            `json:"zipCode" validate:"required,max=32"`
	Coordinates *CoordinatesInput `json:"coordinates"`
}

// CreateEventRequest is the body of POST /api/events.
type CreateEventRequest struct {
	Title       string              `json:"title" validate:"required,min=1,max=255"`
	Description string              `json:"description" validate:"required,min=1,max=2000"`
	Category    model.EventCategory `json:"category" validate:"required,enum"`
	EventDate   string              `json:"eventDate" validate:"required,isodate,future"`
	StartTime   string              `json:"startTime" validate:"required,max=32"`
	EndTime     *string             `json:"endTime" validate:"omitempty,max=32"`
	Capacity    int                 `json:"capacity" validate:"required,min=1,max=10000"`
	TicketPrice *float64            `json:"ticketPrice" validate:"required,min=0"`
	Currency    string              `json:"currency" validate:"omitempty,len=3"`
	Location    *LocationInput      `json:"location" validate:"required"`

	CoupleName          *string  `json:"coupleName" validate:"omitempty,max=255"`
	HostName            *string  `json:"hostName" validate:"omitempty,max=255"`
	DressCode           *string  `json:"dressCode" validate:"omitempty,max=255"`
	SpecialInstructions *string  `json:"specialInstructions" validate:"omitempty,max=2000"`
	GiftRegistry        *string  `json:"giftRegistry" validate:"omitempty,max=512"`
	RSVPDeadline        *string  `json:"rsvpDeadline" validate:"omitempty,isodate"`
	IsPlusOneAllowed    bool     `json:"isPlusOneAllowed"`
	MealPreferences     []string `json:"mealPreferences" validate:"omitempty,dive,max=128"`
	Tags                []string `json:"tags" validate:"omitempty,dive,max=64"`
	Images              []string `json:"images" validate:"omitempty,dive,max=2048"`
}

// ToEvent maps a validated request onto a new DRAFT event.
func (r CreateEventRequest) ToEvent() *model.Event {
	e := &model.Event{
		Title:               strings.TrimSpace(r.Title),
		Description:         r.Description,
		Category:            r.Category,
		EventDate:           mustTime(r.EventDate),
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		Capacity:            r.Capacity,
		TicketPrice:         *r.TicketPrice,
		Currency:            strings.ToUpper(r.Currency),
		Status:              model.EventDraft,
		Images:              datatypes.JSONSlice[string](orEmpty(r.Images)),
		Tags:                datatypes.JSONSlice[string](orEmpty(r.Tags)),
		MealPreferences:     datatypes.JSONSlice[string](orEmpty(r.MealPreferences)),
		CoupleName:          r.CoupleName,
		HostName:            r.HostName,
		DressCode:           r.DressCode,
		SpecialInstructions: r.SpecialInstructions,
		GiftRegistry:        r.GiftRegistry,
		RSVPDeadline:        optTime(r.RSVPDeadline),
		IsPlusOneAllowed:    r.IsPlusOneAllowed,
	}
	if e.Currency == "" {
		e.Currency = "USD"
	}
	r.Location.apply(e)
	return e
}

func (l LocationInput) apply(e *model.Event) {
	e.Venue, e.Address, e.City = l.Venue, l.Address, l.City
	e.State, e.Country, e.ZipCode = l.State, l.Country, l.ZipCode
	e.Latitude, e.Longitude = nil, nil
	if l.Coordinates != nil {
		e.Latitude, e.Longitude = l.Coordinates.Latitude, l.Coordinates.Longitude
	}
}

// UpdateEventRequest is the body of PUT /api/events/:id. Absent fields are
// left unchanged; a location, when present, replaces the stored one.
type UpdateEventRequest struct {
	Title               *string              `json:"title" validate:"omitempty,min=1,max=255"`
	Description         *string              `json:"description" validate:"omitempty,min=1,max=2000"`
	Category            *model.EventCategory `json:"category" validate:"omitempty,enum"`
	Status              *model.EventStatus   `json:"status" validate:"omitempty,enum"`
	EventDate           *string              `json:"eventDate" validate:"omitempty,isodate,future"`
	StartTime           *string              `json:"startTime" validate:"omitempty,min=1,max=32"`
	EndTime             *string              `json:"endTime" validate:"omitempty,max=32"`
	Capacity            *int                 `json:"capacity" validate:"omitempty,min=1,max=10000"`
	TicketPrice         *float64             `json:"ticketPrice" validate:"omitempty,min=0"`
	Currency            *string              `json:"currency" validate:"omitempty,len=3"`
	Location            *LocationInput       `json:"location"`
	CoupleName          *string              `json:"coupleName" validate:"omitempty,max=255"`
	HostName            *string              `json:"hostName" validate:"omitempty,max=255"`
	DressCode           *string              `json:"dressCode" validate:"omitempty,max=255"`
	SpecialInstructions *string              `json:"specialInstructions" validate:"omitempty,max=2000"`
	GiftRegistry        *string              `json:"giftRegistry" validate:"omitempty,max=512"`
	RSVPDeadline        *string              `json:"rsvpDeadline" validate:"omitempty,isodate"`
	IsPlusOneAllowed    *bool                `json:"isPlusOneAllowed"`
	MealPreferences     []string             `json:"mealPreferences" validate:"omitempty,dive,max=128"`
	Tags                []string             `json:"tags" validate:"omitempty,dive,max=64"`
	Images              []string             `json:"images" validate:"omitempty,dive,max=2048"`
}

// Apply copies the present fields onto e.
func (r UpdateEventRequest) Apply(e *model.Event) {
	setIf(&e.Title, r.Title)
	setIf(&e.Description, r.Description)
	setIf(&e.Category, r.Category)
	setIf(&e.Status, r.Status)
	setIf(&e.StartTime, r.StartTime)
	setIf(&e.Capacity, r.Capacity)
	setIf(&e.TicketPrice, r.TicketPrice)
	setIf(&e.IsPlusOneAllowed, r.IsPlusOneAllowed)
	if r.EventDate != nil {
		e.EventDate = mustTime(*r.EventDate)
	}
	if r.Currency != nil {
		e.Currency = strings.ToUpper(*r.Currency)
	}
	if r.EndTime != nil {
		e.EndTime = r.EndTime
	}
	if r.CoupleName != nil {
		e.CoupleName = r.CoupleName
	}
	if r.HostName != nil {
		e.HostName = r.HostName
	}
	if r.DressCode != nil {
		e.DressCode = r.DressCode
	}
	if r.SpecialInstructions != nil {
		e.SpecialInstructions = r.SpecialInstructions
	}
	if r.GiftRegistry != nil {
		e.GiftRegistry = r.GiftRegistry
	}
	if r.RSVPDeadline != nil {
		e.RSVPDeadline = optTime(r.RSVPDeadline)
	}
	if r.MealPreferences != nil {
		e.MealPreferences = r.MealPreferences
	}
	if r.Tags != nil {
		e.Tags = r.Tags
	}
	if r.Images != nil {
		e.Images = r.Images
	}
	if r.Location != nil {
		r.Location.apply(e)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// mustTime parses a value that already passed the isodate rule.
func mustTime(s string) time.Time {
	t, _ := validation.ParseTime(s)
	return t
}

func optTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := mustTime(*s)
	return &t
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
