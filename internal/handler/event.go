package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/middleware"
	"github.com/iliyamo/codegate-events/internal/model"
	"github.com/iliyamo/codegate-events/internal/repository"
	"github.com/iliyamo/codegate-events/internal/service"
	"github.com/iliyamo/codegate-events/internal/validation"
)

// EventHandler serves the /api/events routes: events, tickets, check-ins,
// segments and vendors.
type EventHandler struct {
	Svc *service.TicketingService
}

// NewEventHandler wires the ticketing service and panics if it is nil.
func NewEventHandler(svc *service.TicketingService) *EventHandler {
	if svc == nil {
		panic("nil service passed to NewEventHandler")
	}
	return &EventHandler{Svc: svc}
}

// ListEvents handles GET /api/events.
func (h *EventHandler) ListEvents(c echo.Context) error {
	f, err := eventFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.Svc.ListEvents(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// CreateEvent handles POST /api/events.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	ev, err := h.Svc.CreateEvent(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, ev)
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	ev, err := h.Svc.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, ev)
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	var req dto.UpdateEventRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	ev, err := h.Svc.UpdateEvent(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, ev)
}

// PurchaseTickets handles POST /api/events/:id/tickets.
func (h *EventHandler) PurchaseTickets(c echo.Context) error {
	var req dto.PurchaseTicketsRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	p, err := h.Svc.PurchaseTickets(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, p)
}

func (h *EventHandler) ListTickets(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.Svc.ListTickets(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// CheckIn handles POST /api/events/checkin. A staff id in the body wins
// over the one carried by a staff token.
func (h *EventHandler) CheckIn(c echo.Context) error {
	var req dto.CheckInRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if req.StaffID == nil {
		if id := middleware.StaffID(c); id != "" {
			req.StaffID = &id
		}
	}
	res, err := h.Svc.CheckIn(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *EventHandler) ListCheckIns(c echo.Context) error {
	q, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.Svc.ListCheckIns(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, page)
}

// queryErrors collects malformed query parameters.
type queryErrors []validation.FieldError

func (q *queryErrors) add(field, msg string) {
	*q = append(*q, validation.FieldError{Field: field, Message: msg})
}

func (q queryErrors) err() error {
	if len(q) == 0 {
		return nil
	}
	return &service.Error{Kind: service.KindValidation, Code: service.CodeValidation, Message: "Validation error", Details: q}
}

func (q *queryErrors) intParam(c echo.Context, name string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		q.add(name, label(name)+" must be a positive integer")
		return 0
	}
	return n
}

func (q *queryErrors) floatParam(c echo.Context, name string) *float64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		q.add(name, label(name)+" must be a non-negative number")
		return nil
	}
	return &f
}

func (q *queryErrors) dateParam(c echo.Context, name string) *time.Time {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	t, err := validation.ParseTime(raw)
	if err != nil {
		q.add(name, label(name)+" must be a valid ISO date")
		return nil
	}
	return &t
}

func label(name string) string { return strings.ToUpper(name[:1]) + name[1:] }

func eventFilter(c echo.Context) (service.EventFilter, error) {
	var qe queryErrors
	f := service.EventFilter{
		Category:  model.EventCategory(c.QueryParam("category")),
		Status:    model.EventStatus(c.QueryParam("status")),
		City:      strings.TrimSpace(c.QueryParam("city")),
		Search:    strings.TrimSpace(c.QueryParam("search")),
		StartDate: qe.dateParam(c, "startDate"),
		EndDate:   qe.dateParam(c, "endDate"),
		MinPrice:  qe.floatParam(c, "minPrice"),
		MaxPrice:  qe.floatParam(c, "maxPrice"),
		Page:      qe.intParam(c, "page"),
		Limit:     qe.intParam(c, "limit"),
	}
	return f, qe.err()
}

func pageQuery(c echo.Context) (repository.PageQuery, error) {
	var qe queryErrors
	q := repository.PageQuery{EventID: c.Param("id"), Page: qe.intParam(c, "page"), Limit: qe.intParam(c, "limit")}
	return q, qe.err()
}
