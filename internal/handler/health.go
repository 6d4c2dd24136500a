package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Version is reported by the root descriptor.
const Version = "1.0.0"

var started = time.Now()

// Index describes the API.
func Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "CodeGate Events & Ticketing API",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"endpoints": echo.Map{
			"POST /api/qr/generate":        "Generate QR code from text",
			"POST /api/qr/batch":           "Generate multiple QR codes",
			"GET /api/qr/formats":          "Get supported formats",
			"GET /api/qr/info":             "Get QR code information for text",
			"GET /api/events":              "Get all events",
			"POST /api/events":             "Create new event",
			"GET /api/events/:id":          "Get event details",
			"POST /api/events/:id/tickets": "Purchase event tickets",
			"POST /api/events/checkin":     "Check-in with QR code",
			"GET /health":                  "Health check",
		},
	})
}

// memoryStats mirrors the process memory figures load balancers and
// dashboards poll for.
type memoryStats struct {
	HeapAlloc  uint64 `json:"heapAlloc"`
	HeapInuse  uint64 `json:"heapInuse"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
	Goroutines int    `json:"goroutines"`
}

// Health is a liveness endpoint for load balancers and monitoring.
func Health(c echo.Context) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return c.JSON(http.StatusOK, echo.Map{
		"status": "OK",
		"uptime": time.Since(started).Seconds(),
		"memory": memoryStats{
			HeapAlloc:  m.HeapAlloc,
			HeapInuse:  m.HeapInuse,
			Sys:        m.Sys,
			NumGC:      m.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
