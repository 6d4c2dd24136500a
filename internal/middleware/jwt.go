package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/codegate-events/internal/utils"
)

// StaffToken verifies an optional Bearer staff token. Requests without an
// Authorization header pass through untouched; a header that does not hold
// a valid HS256 staff token is rejected with 401. On success the staff id
// and role are available through StaffID and c.Get("role").
func StaffToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" || secret == "" {
				return next(c)
			}
			raw, found := strings.CutPrefix(auth, "Bearer ")
			if !found {
				return unauthorized(c, "missing bearer token")
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return unauthorized(c, "invalid token")
			}
			if claims.Role != utils.RoleStaff {
				return unauthorized(c, "token is not a staff token")
			}
			c.Set(ctxStaffID, claims.UserID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": msg})
}
