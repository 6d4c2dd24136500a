package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore is the MySQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm handle. The handle is owned by the caller.
func NewGormStore(db *gorm.DB) *GormStore {
	if db == nil {
		panic("nil gorm.DB")
	}
	return &GormStore{db: db}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Events() EventRepository     { return &EventRepo{db: s.db} }
func (s *GormStore) Tickets() TicketRepository   { return &TicketRepo{db: s.db} }
func (s *GormStore) Users() UserRepository       { return &UserRepo{db: s.db} }
func (s *GormStore) Guests() GuestRepository     { return &GuestRepo{db: s.db} }
func (s *GormStore) CheckIns() CheckInRepository { return &CheckInRepo{db: s.db} }
func (s *GormStore) Vendors() VendorRepository   { return &VendorRepo{db: s.db} }
func (s *GormStore) Segments() SegmentRepository { return &SegmentRepo{db: s.db} }
