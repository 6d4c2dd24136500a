// Package repository defines the Entity Store: the interfaces the service
// layer depends on, a gorm/MySQL implementation and an in-memory one.
// Lookups that miss return one of the sentinel errors below, wrapped with
// context, so higher layers can match them with errors.Is.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrVendorNotFound  = errors.New("vendor not found")
	ErrCheckInNotFound = errors.New("check-in not found")
)

// ErrConflict is returned when a write violates a uniqueness constraint,
// such as a second check-in row for the same ticket.
var ErrConflict = errors.New("conflict")

// mysqlDuplicateEntry is the server error number for ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// translate maps driver errors onto the package sentinels. notFound is
// returned for gorm.ErrRecordNotFound.
func translate(err, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return errors.Join(ErrConflict, err)
	}
	return err
}
