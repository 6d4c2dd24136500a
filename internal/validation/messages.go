package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// custom holds hand-written messages keyed by "<json path>|<tag>". Paths
// use "*" for slice indexes.
var custom = map[string]string{
	"text|required":                "Text is required",
	"text|max":                     "Text must not exceed 2048 characters",
	"items|min":                    "At least one item is required",
	"items|max":                    "Maximum 50 items allowed",
	"title|required":               "Title is required",
	"title|max":                    "Title must not exceed 255 characters",
	"description|required":         "Description is required",
	"description|max":              "Description must not exceed 2000 characters",
	"category|required":            "Category is required",
	"category|enum":                "Category must be one of the valid event categories",
	"eventDate|required":           "Event date is required",
	"eventDate|isodate":            "Event date must be in ISO format",
	"eventDate|future":             "Event date must be in the future",
	"startTime|required":           "Start time is required",
	"capacity|required":            "Capacity is required",
	"capacity|min":                 "Capacity must be at least 1",
	"capacity|max":                 "Capacity must not exceed 10,000",
	"ticketPrice|required":         "Ticket price is required",
	"ticketPrice|min":              "Ticket price cannot be negative",
	"currency|len":                 "Currency must be a 3-character code",
	"location|required":            "Location is required",
	"location.venue|required":      "Venue is required",
	"location.address|required":    "Address is required",
	"location.city|required":       "City is required",
	"location.state|required":      "State is required",
	"location.country|required":    "Country is required",
	"location.zipCode|required":    "ZIP code is required",
	"ticketType|required":          "Ticket type is required",
	"ticketType|enum":              "Ticket type must be one of: GUEST, PLUS_ONE, FAMILY, CHILD, VIP, VENDOR, STAFF",
	"quantity|required":            "Quantity is required",
	"quantity|min":                 "Quantity must be at least 1",
	"quantity|max":                 "Quantity cannot exceed 10",
	"user|required":                "User is required",
	"user.name|required":           "Name is required",
	"user.email|required":          "Email is required",
	"user.email|email":             "Email must be valid",
	"qrCode|required":              "QR code is required",
	"options.darkColor|hexcolor6":  "Dark color must be a #RRGGBB hex color",
	"options.lightColor|hexcolor6": "Light color must be a #RRGGBB hex color",
}

func message(fe validator.FieldError) string {
	p := path(fe.Namespace())
	key := wildcard(p) + "|" + fe.Tag()
	if m, ok := custom[key]; ok {
		return m
	}
	label := fmt.Sprintf("%q", fe.Field())
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email"
	case "url":
		return label + " must be a valid URL"
	case "min", "gte":
		if isText {
			return fmt.Sprintf("%s length must be at least %s characters long", label, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", label, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", label, fe.Param())
	case "max", "lte":
		if isText {
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", label, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain less than or equal to %s items", label, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s length must be %s characters long", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "enum":
		if members, ok := enumMembers[fe.Type()]; ok {
			return fmt.Sprintf("%s must be one of [%s]", label, members)
		}
		return label + " is not a valid value"
	case "hexcolor6":
		return label + " must be a #RRGGBB hex color"
	case "isodate":
		return label + " must be in ISO 8601 format"
	case "future":
		return label + " must be in the future"
	}
	return fmt.Sprintf("%s failed the %q rule", label, fe.Tag())
}

// wildcard replaces numeric path segments with "*".
func wildcard(p string) string {
	parts := strings.Split(p, ".")
	for i, s := range parts {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			parts[i] = "*"
		}
	}
	return strings.Join(parts, ".")
}
