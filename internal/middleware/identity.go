package middleware

import "github.com/labstack/echo/v4"

// Context keys set by StaffToken.
const (
	ctxStaffID = "staff_id"
	ctxRole    = "role"
)

// StaffID returns the staff user id carried by a verified staff token, or
// "" when the request had none.
func StaffID(c echo.Context) string {
	if v, ok := c.Get(ctxStaffID).(string); ok {
		return v
	}
	return ""
}

// subject identifies the caller for rate limiting: the staff id when a
// token was presented, otherwise "anon".
func subject(c echo.Context) string {
	if id := StaffID(c); id != "" {
		return id
	}
	return "anon"
}
