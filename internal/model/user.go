package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is anyone the system knows by email: organizers, ticket holders and
// door staff. The role a user plays is contextual (organizer of an event,
// holder of a ticket, performer of a check-in) and is never stored.
//
// Fields:
//
//	ID        – UUID primary key.
//	Email     – unique address; purchases find-or-create users by it.
//	Name      – display name.
//	Phone     – optional contact number.
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     *string   `gorm:"type:varchar(32)" json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	u.EnsureID()
	return nil
}

// EnsureID assigns a fresh UUID when the record has none yet.
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
}

// UserSummary is the public projection of a user embedded in responses.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
