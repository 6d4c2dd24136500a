// Package router assembles the echo instance: middleware stack, JSON
// serializer, error handler and every API route.
package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/codegate-events/internal/config"
	"github.com/iliyamo/codegate-events/internal/handler"
	"github.com/iliyamo/codegate-events/internal/middleware"
	"github.com/iliyamo/codegate-events/internal/service"
)

// Deps is everything the HTTP layer needs. Redis may be nil; rate limiting
// and response caching are then disabled.
type Deps struct {
	Config    config.Config
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Redis     *redis.Client
	Tickets   *service.TicketingService
	QR        *service.QRService
	Log       *slog.Logger
}

// New builds the echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = errorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.Config.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit(d.Config.BodyLimit))
	e.Use(middleware.StaffToken(d.Config.JWTSecret))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis))

	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	RegisterRoutes(e)
	RegisterEvents(e, handler.NewEventHandler(d.Tickets), cache)
	RegisterQR(e, handler.NewQRHandler(d.QR), cache)
	return e
}

// RegisterRoutes registers the descriptor and health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Index)
	e.GET("/health", handler.Health)
}

// RegisterEvents registers /api/events. Only the event listing is cached;
// everything else reads state that changes on every purchase or scan.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api/events")
	g.GET("", h.ListEvents, cache)
	g.POST("", h.CreateEvent)
	g.POST("/checkin", h.CheckIn)
	g.PUT("/vendors/:id", h.UpdateVendor)

	g.GET("/:id", h.GetEvent)
	g.PUT("/:id", h.UpdateEvent)
	g.POST("/:id/tickets", h.PurchaseTickets)
	g.GET("/:id/tickets", h.ListTickets)
	g.GET("/:id/checkins", h.ListCheckIns)
	g.GET("/:id/segments", h.ListSegments)
	g.POST("/:id/segments", h.CreateSegment)
	g.GET("/:id/vendors", h.ListVendors)
	g.POST("/:id/vendors", h.CreateVendor)
}

// RegisterQR registers /api/qr. The pure lookups are cached.
func RegisterQR(e *echo.Echo, h *handler.QRHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api/qr")
	g.POST("/generate", h.Generate)
	g.POST("/batch", h.Batch)
	g.GET("/formats", h.Formats, cache)
	g.GET("/info", h.Info, cache)
}

// errorHandler renders framework errors (unknown routes, oversized bodies,
// recovered panics) in the API envelope.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		req := c.Request()
		status := http.StatusInternalServerError
		body := echo.Map{"success": false, "error": "Internal server error"}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusNotFound, http.StatusMethodNotAllowed:
				status = http.StatusNotFound
				body = echo.Map{"success": false, "error": "Route not found", "path": req.URL.RequestURI(), "method": req.Method}
			default:
				status = he.Code
				body["error"] = http.StatusText(he.Code)
				if msg, ok := he.Message.(string); ok && msg != "" {
					body["error"] = msg
				}
			}
		} else {
			body["message"] = err.Error()
			log.Error("unhandled error", "method", req.Method, "uri", req.URL.RequestURI(), "error", err)
		}

		if req.Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error("write error response", "error", err)
		}
	}
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			switch {
			case v.Error != nil:
				log.Error("request", append(attrs, "error", v.Error)...)
			case v.Status >= http.StatusInternalServerError:
				log.Error("request", attrs...)
			default:
				log.Info("request", attrs...)
			}
			return nil
		},
	})
}
