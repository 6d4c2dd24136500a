// Package validation checks request payloads before any side effect. It
// wraps go-playground/validator with the project's custom rules and turns
// failures into field-level diagnostics keyed by JSON path.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/codegate-events/internal/model"
	"github.com/iliyamo/codegate-events/internal/qrcode"
)

// FieldError is one diagnostic. Field is the dotted JSON path of the
// offending value, e.g. "location.city" or "items.3.text".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator is safe for concurrent use.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New builds a Validator. now anchors the "future" rule; nil means
// time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	val := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}
	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	must(val.v.RegisterValidation("enum", validEnum))
	must(val.v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return qrcode.IsHexColor(fl.Field().String())
	}))
	must(val.v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseTime(fl.Field().String())
		return err == nil
	}))
	must(val.v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, err := ParseTime(fl.Field().String())
		return err == nil && t.After(val.now())
	}))
	return val
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

type enumeration interface{ Valid() bool }

func validEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(enumeration)
	return ok && e.Valid()
}

// Struct validates s and returns every violation, or nil.
func (v *Validator) Struct(s any) []FieldError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: path(fe.Namespace()), Message: message(fe)})
	}
	return out
}

// path drops the root struct name and renders slice indexes as dotted
// segments: "Req.items[3].text" becomes "items.3.text".
func path(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

// ISO-8601 layouts accepted for dates, most specific first.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 date or date-time. Values without a zone are
// taken as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 date %q", s)
}

var enumMembers = map[reflect.Type]string{
	reflect.TypeOf(model.EventCategory("")):       join(model.EventCategories),
	reflect.TypeOf(model.EventStatus("")):         join(model.EventStatuses),
	reflect.TypeOf(model.TicketType("")):          join(model.TicketTypes),
	reflect.TypeOf(model.TicketStatus("")):        join(model.TicketStatuses),
	reflect.TypeOf(model.RSVPStatus("")):          join(model.RSVPStatuses),
	reflect.TypeOf(model.VendorStatus("")):        join(model.VendorStatuses),
	reflect.TypeOf(model.VendorPaymentStatus("")): join(model.VendorPaymentStatuses),
	reflect.TypeOf(qrcode.Format("")):             join(qrcode.Formats),
	reflect.TypeOf(qrcode.Level("")):              join(qrcode.Levels),
}

func join[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
