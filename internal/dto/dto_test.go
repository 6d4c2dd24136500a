package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iliyamo/codegate-events/internal/model"
	"github.com/iliyamo/codegate-events/internal/qrcode"
)

func TestCreateEventRequestToEvent(t *testing.T) {
	var req CreateEventRequest
	body := `{
		"title": "  Spring Gala ",
		"description": "d",
		"category": "WEDDING",
		"eventDate": "2031-05-01T18:00:00Z",
		"startTime": "6:00 PM",
		"capacity": 120,
		"ticketPrice": 0,
		"currency": "eur",
		"location": {"venue": "V", "address": "A", "city": "C", "state": "S", "country": "X", "zipCode": "1",
			"coordinates": {"latitude": 40.7, "longitude": -74}}
	}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}
	e := req.ToEvent()
	if e.Title != "Spring Gala" || e.Currency != "EUR" || e.Status != model.EventDraft {
		t.Errorf("unexpected event %+v", e)
	}
	if !e.EventDate.Equal(time.Date(2031, 5, 1, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("EventDate = %v", e.EventDate)
	}
	if e.Latitude == nil || *e.Latitude != 40.7 {
		t.Errorf("Latitude = %v", e.Latitude)
	}
	if e.Tags == nil || len(e.Tags) != 0 {
		t.Errorf("Tags should default to empty, got %v", e.Tags)
	}
}

func TestCreateEventDefaultsCurrency(t *testing.T) {
	price := 10.0
	req := CreateEventRequest{EventDate: "2031-01-01", TicketPrice: &price, Location: &LocationInput{}}
	if got := req.ToEvent().Currency; got != "USD" {
		t.Errorf("Currency = %q, want USD", got)
	}
}

func TestSegmentEndTime(t *testing.T) {
	order := 2
	s := CreateSegmentRequest{EventDetail: "Toast", PerformedBy: "Best man", DurationMinutes: 45,
		StartTime: "2031-05-01T19:30:00Z", Order: &order}.ToSegment("e1")
	if want := time.Date(2031, 5, 1, 20, 15, 0, 0, time.UTC); !s.EndTime.Equal(want) {
		t.Errorf("EndTime = %v, want %v", s.EndTime, want)
	}
	if s.Order != 2 || s.EventID != "e1" {
		t.Errorf("segment = %+v", s)
	}
}

func TestUpdateVendorApply(t *testing.T) {
	v := &model.Vendor{Name: "Flowers Inc", Status: model.VendorPending, PaymentStatus: model.PaymentPending}
	status := model.VendorConfirmed
	paid := 250.0
	UpdateVendorRequest{Status: &status, PaidAmount: &paid}.Apply(v)
	if v.Status != model.VendorConfirmed || v.PaidAmount != 250 || v.Name != "Flowers Inc" {
		t.Errorf("vendor = %+v", v)
	}
}

func TestQROptionsResolve(t *testing.T) {
	if got := (*QROptionsInput)(nil).Resolve(); got != qrcode.DefaultOptions() {
		t.Errorf("nil Resolve = %+v", got)
	}
	margin := 0
	format := qrcode.SVG
	dark := "#ff0000"
	o := (&QROptionsInput{Margin: &margin, Format: &format, DarkColor: &dark}).Resolve()
	if o.Margin != 0 || o.Format != qrcode.SVG || o.DarkColor != "#FF0000" || o.Width != 256 {
		t.Errorf("Resolve = %+v", o)
	}
}
