package service

import (
	"fmt"

	"github.com/iliyamo/codegate-events/internal/validation"
)

// Kind classifies a failure. The HTTP layer maps each kind to exactly one
// status code.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Machine-readable failure codes.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeEventNotFound    = "EVENT_NOT_FOUND"
	CodeVendorNotFound   = "VENDOR_NOT_FOUND"
	CodeInvalidCode      = "INVALID_CODE"
	CodeEventMismatch    = "EVENT_MISMATCH"
	CodeExpired          = "TICKET_EXPIRED"
	CodeAlreadyCheckedIn = "ALREADY_CHECKED_IN"
	CodeSoldOut          = "SOLD_OUT"
	CodeInsufficient     = "INSUFFICIENT_CAPACITY"
	CodeCapacityBelow    = "CAPACITY_BELOW_SOLD"
	CodeInternal         = "INTERNAL_ERROR"
)

// Error is the error type returned by every service operation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []validation.FieldError
	// Data is extra context for the client, e.g. the prior check-in time.
	Data any
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func invalid(details []validation.FieldError) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: "Validation error", Details: details}
}

func invalidField(field, msg string) *Error {
	return invalid([]validation.FieldError{{Field: field, Message: msg}})
}

func notFound(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

// internal wraps an unexpected failure; msg names the operation that failed.
func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: msg, Err: err}
}
