package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/codegate-events/internal/service"
	"github.com/iliyamo/codegate-events/internal/validation"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                    `json:"success"`
	Data    any                     `json:"data,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Message string                  `json:"message,omitempty"`
	Code    string                  `json:"code,omitempty"`
	Details []validation.FieldError `json:"details,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// statusFor is the only place an error kind becomes an HTTP status.
// Conflicts answer 400.
func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a failure envelope. Errors that are not
// *service.Error are treated as internal.
func writeError(c echo.Context, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindInternal, Code: service.CodeInternal, Message: "Internal server error", Err: err}
	}
	body := Envelope{Error: se.Message, Code: se.Code, Details: se.Details, Data: se.Data}
	if se.Kind == service.KindInternal {
		slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		if se.Err != nil {
			body.Message = se.Err.Error()
		}
	}
	return c.JSON(statusFor(se.Kind), body)
}

// bind decodes the JSON body into dst. A malformed body is reported as a
// validation error on "body".
func bind(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		msg := "Request body must be valid JSON"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			}
		}
		return &service.Error{
			Kind:    service.KindValidation,
			Code:    service.CodeValidation,
			Message: "Validation error",
			Details: []validation.FieldError{{Field: "body", Message: msg}},
		}
	}
	return nil
}
