package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/codegate-events/internal/dto"
)

func (h *EventHandler) ListSegments(c echo.Context) error {
	rows, err := h.Svc.ListSegments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, rows)
}

func (h *EventHandler) CreateSegment(c echo.Context) error {
	var req dto.CreateSegmentRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	seg, err := h.Svc.CreateSegment(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, seg)
}

func (h *EventHandler) ListVendors(c echo.Context) error {
	rows, err := h.Svc.ListVendors(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, rows)
}

func (h *EventHandler) CreateVendor(c echo.Context) error {
	var req dto.CreateVendorRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	v, err := h.Svc.CreateVendor(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, v)
}

// UpdateVendor handles PUT /api/events/vendors/:id.
func (h *EventHandler) UpdateVendor(c echo.Context) error {
	var req dto.UpdateVendorRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	v, err := h.Svc.UpdateVendor(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, v)
}
