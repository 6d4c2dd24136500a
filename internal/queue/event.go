// Package queue defines the domain events published to the message broker,
// the publisher that sends them and the audit consumer that records them.
package queue

import "time"

// Routing keys on the topic exchange.
const (
	RoutingEventCreated     = "event.created"
	RoutingTicketsPurchased = "ticket.purchased"
	RoutingCheckInCompleted = "checkin.completed"
)

// EventCreated is published after a new event is stored.
type EventCreated struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	OrganizerID string    `json:"organizer_id"`
	EventDate   time.Time `json:"event_date"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
}

// TicketsPurchased is published once per purchase, after commit. It carries
// enough for downstream consumers to notify the buyer without querying the
// primary database.
type TicketsPurchased struct {
	EventID     string    `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	UserID      string    `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	TicketType  string    `json:"ticket_type"`
	TicketIDs   []string  `json:"ticket_ids"`
	Quantity    int       `json:"quantity"`
	TotalAmount float64   `json:"total_amount"`
	Currency    string    `json:"currency"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// CheckInCompleted is published after a ticket is admitted.
type CheckInCompleted struct {
	CheckInID   string    `json:"checkin_id"`
	TicketID    string    `json:"ticket_id"`
	EventID     string    `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	UserID      string    `json:"user_id"`
	StaffID     string    `json:"staff_id"`
	Location    string    `json:"location,omitempty"`
	CheckedInAt time.Time `json:"checked_in_at"`
}
