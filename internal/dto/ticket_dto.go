package dto

import (
	"strings"

	"github.com/iliyamo/codegate-events/internal/model"
)

type PurchaserInput struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email string  `json:"email" validate:"required,email,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

// ToUser normalizes the email so find-or-create matches case-insensitively.
func (p PurchaserInput) ToUser() *model.User {
	return &model.User{
		Name:  strings.TrimSpace(p.Name),
		Email: strings.ToLower(strings.TrimSpace(p.Email)),
		Phone: p.Phone,
	}
}

// PurchaseTicketsRequest is the body of POST /api/events/:id/tickets.
type PurchaseTicketsRequest struct {
	TicketType model.TicketType `json:"ticketType" validate:"required,enum"`
	Quantity   int              `json:"quantity" validate:"required,min=1,max=10"`
	User       *PurchaserInput  `json:"user" validate:"required"`
}

// CheckInRequest is the body of POST /api/events/checkin. QRCode is the
// text decoded from the scanned symbol.
type CheckInRequest struct {
	QRCode   string  `json:"qrCode" validate:"required,max=2048"`
	EventID  *string `json:"eventId" validate:"omitempty,max=64"`
	StaffID  *string `json:"staffId" validate:"omitempty,max=64"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}
