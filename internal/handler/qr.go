package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/service"
)

// QRHandler serves /api/qr.
type QRHandler struct {
	Svc *service.QRService
}

// NewQRHandler panics on a nil service.
func NewQRHandler(svc *service.QRService) *QRHandler {
	if svc == nil {
		panic("nil service passed to NewQRHandler")
	}
	return &QRHandler{Svc: svc}
}

func (h *QRHandler) Generate(c echo.Context) error {
	var req dto.GenerateQRRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.Svc.Generate(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

// Batch renders up to 50 codes. Individual failures are reported inside
// the results; the response is still 200.
func (h *QRHandler) Batch(c echo.Context) error {
	var req dto.BatchQRRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.Svc.Batch(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (h *QRHandler) Formats(c echo.Context) error {
	return ok(c, http.StatusOK, h.Svc.Formats())
}

// Info handles GET /api/qr/info?text=...
func (h *QRHandler) Info(c echo.Context) error {
	adv, err := h.Svc.Info(c.QueryParam("text"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, adv)
}
