package validation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/validation"
)

var fixedNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func validEvent() dto.CreateEventRequest {
	price := 50.0
	return dto.CreateEventRequest{
		Title:       "Test Wedding",
		Description: "A beautiful wedding celebration",
		Category:    "WEDDING",
		EventDate:   "2030-02-01T14:00:00Z",
		StartTime:   "2:00 PM",
		Capacity:    100,
		TicketPrice: &price,
		Currency:    "USD",
		Location: &dto.LocationInput{
			Venue: "Grand Hotel", Address: "123 Main St", City: "New York",
			State: "NY", Country: "USA", ZipCode: "10001",
		},
	}
}

func fields(errs []validation.FieldError) map[string]string {
	m := map[string]string{}
	for _, e := range errs {
		m[e.Field] = e.Message
	}
	return m
}

func TestCreateEventValid(t *testing.T) {
	v := validation.New(func() time.Time { return fixedNow })
	if errs := v.Struct(validEvent()); errs != nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
}

func TestCreateEventViolations(t *testing.T) {
	v := validation.New(func() time.Time { return fixedNow })
	neg := -5.0
	lat := 91.0
	tests := []struct {
		name    string
		edit    func(*dto.CreateEventRequest)
		field   string
		message string
	}{
		{"missing title", func(r *dto.CreateEventRequest) { r.Title = "" }, "title", "Title is required"},
		{"long title", func(r *dto.CreateEventRequest) { r.Title = strings.Repeat("a", 256) }, "title", "Title must not exceed 255 characters"},
		{"bad category", func(r *dto.CreateEventRequest) { r.Category = "INVALID_CATEGORY" }, "category", "Category must be one of the valid event categories"},
		{"bad date", func(r *dto.CreateEventRequest) { r.EventDate = "invalid-date" }, "eventDate", "Event date must be in ISO format"},
		{"past date", func(r *dto.CreateEventRequest) { r.EventDate = "2029-12-31" }, "eventDate", "Event date must be in the future"},
		{"negative capacity", func(r *dto.CreateEventRequest) { r.Capacity = -10 }, "capacity", "Capacity must be at least 1"},
		{"huge capacity", func(r *dto.CreateEventRequest) { r.Capacity = 10001 }, "capacity", "Capacity must not exceed 10,000"},
		{"negative price", func(r *dto.CreateEventRequest) { r.TicketPrice = &neg }, "ticketPrice", "Ticket price cannot be negative"},
		{"missing price", func(r *dto.CreateEventRequest) { r.TicketPrice = nil }, "ticketPrice", "Ticket price is required"},
		{"currency length", func(r *dto.CreateEventRequest) { r.Currency = "US" }, "currency", "Currency must be a 3-character code"},
		{"missing city", func(r *dto.CreateEventRequest) { r.Location.City = "" }, "location.city", "City is required"},
		{"missing location", func(r *dto.CreateEventRequest) { r.Location = nil }, "location", "Location is required"},
		{"latitude", func(r *dto.CreateEventRequest) {
			r.Location.Coordinates = &dto.CoordinatesInput{Latitude: &lat}
		}, "location.coordinates.latitude", `"latitude" must be less than or equal to 90`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEvent()
			loc := *req.Location
			req.Location = &loc
			tt.edit(&req)
			got := fields(v.Struct(req))
			msg, ok := got[tt.field]
			if !ok {
				t.Fatalf("no error on %s, got %v", tt.field, got)
			}
			if msg != tt.message {
				t.Errorf("message = %q, want %q", msg, tt.message)
			}
		})
	}
}

func TestPurchaseViolations(t *testing.T) {
	v := validation.New(nil)
	got := fields(v.Struct(dto.PurchaseTicketsRequest{
		TicketType: "BALCONY",
		Quantity:   11,
		User:       &dto.PurchaserInput{Name: "Ann", Email: "not-an-email"},
	}))
	want := map[string]string{
		"ticketType": "Ticket type must be one of: GUEST, PLUS_ONE, FAMILY, CHILD, VIP, VENDOR, STAFF",
		"quantity":   "Quantity cannot exceed 10",
		"user.email": "Email must be valid",
	}
	for f, m := range want {
		if got[f] != m {
			t.Errorf("%s: got %q, want %q", f, got[f], m)
		}
	}
}

func TestBatchItemPaths(t *testing.T) {
	v := validation.New(nil)
	got := fields(v.Struct(dto.BatchQRRequest{Items: []dto.BatchItemInput{{Text: "ok"}, {Text: ""}}}))
	if _, ok := got["items.1.text"]; !ok {
		t.Errorf("expected items.1.text error, got %v", got)
	}
	got = fields(v.Struct(dto.BatchQRRequest{Items: []dto.BatchItemInput{}}))
	if got["items"] != "At least one item is required" {
		t.Errorf("empty items: %v", got)
	}
}

func TestQROptionViolations(t *testing.T) {
	v := validation.New(nil)
	width := 2000
	color := "red"
	got := fields(v.Struct(dto.GenerateQRRequest{
		Text:    "x",
		Options: &dto.QROptionsInput{Width: &width, DarkColor: &color},
	}))
	if _, ok := got["options.width"]; !ok {
		t.Errorf("missing width error: %v", got)
	}
	if got["options.darkColor"] != "Dark color must be a #RRGGBB hex color" {
		t.Errorf("darkColor message: %v", got)
	}
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2030-01-01", "2030-01-01T10:00:00Z", "2030-01-01T10:00:00.123+02:00", "2030-01-01T10:00"} {
		if _, err := validation.ParseTime(s); err != nil {
			t.Errorf("ParseTime(%q): %v", s, err)
		}
	}
	if _, err := validation.ParseTime("01/02/2030"); err == nil {
		t.Error("accepted non-ISO date")
	}
}
