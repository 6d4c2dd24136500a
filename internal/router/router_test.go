package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/codegate-events/internal/config"
	"github.com/iliyamo/codegate-events/internal/repository"
	"github.com/iliyamo/codegate-events/internal/service"
	"github.com/iliyamo/codegate-events/internal/utils"
)

var now = time.Date(2030, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return now }
	tickets := service.NewTicketingService(repository.NewMemoryStore(), utils.NewCodeDeriver("secret"), nil, log,
		service.Options{Now: clock})
	return New(Deps{
		Config:  config.Config{AllowedOrigins: []string{"http://localhost:3000"}, BodyLimit: "1M", JWTSecret: "jwt-secret"},
		Tickets: tickets,
		QR:      service.NewQRService(clock),
		Log:     log,
	})
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (int, response) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return v
}

const eventBody = `{
	"title": "Launch Party",
	"description": "Product launch",
	"category": "PRODUCT_LAUNCH",
	"eventDate": "2030-06-01T18:00:00Z",
	"startTime": "18:00",
	"capacity": 1,
	"ticketPrice": 50.00,
	"location": {"venue": "Loft", "address": "2 Dock Rd", "city": "Porto", "state": "Porto", "country": "PT", "zipCode": "4000"}
}`

const purchaseBody = `{"ticketType": "GUEST", "quantity": 1, "user": {"name": "Rui", "email": "rui@example.com"}}`

func createEvent(t *testing.T, e *echo.Echo) (id, code string) {
	t.Helper()
	status, res := do(t, e, http.MethodPost, "/api/events", eventBody)
	if status != http.StatusCreated || !res.Success {
		t.Fatalf("create event: %d %+v", status, res)
	}
	ev := decode[struct {
		ID     string `json:"id"`
		Code   string `json:"code"`
		QRCode string `json:"qrCode"`
	}](t, res.Data)
	if ev.Code != "event:"+ev.ID || !strings.HasPrefix(ev.QRCode, "data:image/png;base64,") {
		t.Fatalf("event = %+v", ev)
	}
	return ev.ID, ev.Code
}

func TestPurchaseUntilSoldOut(t *testing.T) {
	e := newTestServer(t)
	id, _ := createEvent(t, e)

	status, res := do(t, e, http.MethodPost, "/api/events/"+id+"/tickets", purchaseBody)
	if status != http.StatusCreated {
		t.Fatalf("first purchase: %d %+v", status, res)
	}
	p := decode[struct {
		Tickets []struct {
			Code string `json:"code"`
		} `json:"tickets"`
		Event struct {
			ID string `json:"id"`
		} `json:"event"`
	}](t, res.Data)
	if len(p.Tickets) != 1 || p.Event.ID != id {
		t.Fatalf("purchase = %+v", p)
	}

	status, res = do(t, e, http.MethodPost, "/api/events/"+id+"/tickets", purchaseBody)
	if status != http.StatusBadRequest || res.Success || res.Code != service.CodeSoldOut || res.Error != "Event is sold out" {
		t.Fatalf("second purchase: %d %+v", status, res)
	}

	status, res = do(t, e, http.MethodGet, "/api/events/"+id+"/tickets", "")
	if status != http.StatusOK {
		t.Fatalf("list tickets: %d", status)
	}
	if page := decode[struct{ Total int }](t, res.Data); page.Total != 1 {
		t.Errorf("tickets total = %d, want 1", page.Total)
	}
}

func TestCheckInFlow(t *testing.T) {
	e := newTestServer(t)
	id, _ := createEvent(t, e)
	_, res := do(t, e, http.MethodPost, "/api/events/"+id+"/tickets", purchaseBody)
	code := decode[struct {
		Tickets []struct{ Code string } `json:"tickets"`
	}](t, res.Data).Tickets[0].Code

	status, res := do(t, e, http.MethodPost, "/api/events/checkin", `{"qrCode": "TKT-UNKNOWN"}`)
	if status != http.StatusNotFound || res.Error != "Invalid QR code" {
		t.Fatalf("unknown code: %d %+v", status, res)
	}

	body := `{"qrCode": "` + code + `", "eventId": "` + id + `", "location": "Main door"}`
	status, res = do(t, e, http.MethodPost, "/api/events/checkin", body)
	if status != http.StatusOK || !res.Success {
		t.Fatalf("check-in: %d %+v", status, res)
	}
	first := decode[struct {
		CheckIn struct {
			CheckedInAt time.Time `json:"checkedInAt"`
			QRCode      string    `json:"qrCode"`
		} `json:"checkIn"`
		User struct{ Email string } `json:"user"`
	}](t, res.Data)
	if !first.CheckIn.CheckedInAt.Equal(now) || first.CheckIn.QRCode != code || first.User.Email != "rui@example.com" {
		t.Errorf("check-in = %+v", first)
	}

	status, res = do(t, e, http.MethodPost, "/api/events/checkin", body)
	if status != http.StatusBadRequest || res.Code != service.CodeAlreadyCheckedIn {
		t.Fatalf("repeat: %d %+v", status, res)
	}
	prior := decode[struct {
		CheckedInAt time.Time `json:"checkedInAt"`
	}](t, res.Data)
	if !prior.CheckedInAt.Equal(now) {
		t.Errorf("prior checkedInAt = %v, want %v", prior.CheckedInAt, now)
	}

	_, res = do(t, e, http.MethodGet, "/api/events/"+id+"/checkins", "")
	if page := decode[struct{ Total int }](t, res.Data); page.Total != 1 {
		t.Errorf("check-ins = %d, want 1", page.Total)
	}
}

func TestCheckInWithStaffToken(t *testing.T) {
	e := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/events/checkin", strings.NewReader(`{"qrCode":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("forged token: status %d", rec.Code)
	}
}

func TestValidationEnvelope(t *testing.T) {
	e := newTestServer(t)
	status, res := do(t, e, http.MethodPost, "/api/events", `{"title": "", "capacity": 0, "location": {"city": ""}}`)
	if status != http.StatusBadRequest || res.Error != "Validation error" || len(res.Details) == 0 {
		t.Fatalf("got %d %+v", status, res)
	}
	var sawCity bool
	for _, d := range res.Details {
		sawCity = sawCity || d.Field == "location.city"
	}
	if !sawCity {
		t.Errorf("details = %+v, want location.city", res.Details)
	}

	status, res = do(t, e, http.MethodPost, "/api/events", `{"title": `)
	if status != http.StatusBadRequest || len(res.Details) != 1 || res.Details[0].Field != "body" {
		t.Errorf("malformed body: %d %+v", status, res)
	}

	status, res = do(t, e, http.MethodGet, "/api/events?page=abc", "")
	if status != http.StatusBadRequest || res.Details[0].Field != "page" {
		t.Errorf("bad page: %d %+v", status, res)
	}
}

func TestEventNotFound(t *testing.T) {
	e := newTestServer(t)
	for _, target := range []string{"/api/events/nope", "/api/events/nope/segments", "/api/events/nope/vendors"} {
		status, res := do(t, e, http.MethodGet, target, "")
		if status != http.StatusNotFound || res.Error != "Event not found" {
			t.Errorf("GET %s: %d %+v", target, status, res)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	e := newTestServer(t)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		status, res := do(t, e, method, "/nonexistent", "")
		if status != http.StatusNotFound || res.Error != "Route not found" || res.Path != "/nonexistent" || res.Method != method {
			t.Errorf("%s /nonexistent: %d %+v", method, status, res)
		}
	}
}

func TestHealthAndIndex(t *testing.T) {
	e := newTestServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var h map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &h)
	if rec.Code != http.StatusOK || h["status"] != "OK" || h["uptime"] == nil || h["memory"] == nil || h["timestamp"] == nil {
		t.Errorf("health = %d %v", rec.Code, h)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "http://localhost:3000" {
		t.Errorf("index = %d, CORS %q", rec.Code, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	}
}

func TestQRRoutes(t *testing.T) {
	e := newTestServer(t)
	status, res := do(t, e, http.MethodPost, "/api/qr/generate", `{"text": "hello", "options": {"format": "pdf", "width": 128}}`)
	if status != http.StatusOK {
		t.Fatalf("generate: %d %+v", status, res)
	}
	gen := decode[struct {
		QRCode string `json:"qrCode"`
	}](t, res.Data)
	if !strings.HasPrefix(gen.QRCode, "data:application/pdf;base64,") {
		t.Errorf("qrCode = %.40q", gen.QRCode)
	}

	status, res = do(t, e, http.MethodPost, "/api/qr/generate", `{"text": "hello", "options": {"errorCorrectionLevel": "Z"}}`)
	if status != http.StatusBadRequest || res.Details[0].Field != "options.errorCorrectionLevel" {
		t.Errorf("bad level: %d %+v", status, res)
	}

	status, res = do(t, e, http.MethodPost, "/api/qr/batch", `{"items": [{"text": "a"}, {"id": "x", "text": "b"}]}`)
	if status != http.StatusOK {
		t.Fatalf("batch: %d %+v", status, res)
	}
	batch := decode[struct {
		Results []struct{ ID string } `json:"results"`
		Summary struct{ Total, Successful int }
	}](t, res.Data)
	if batch.Summary.Total != 2 || batch.Summary.Successful != 2 || batch.Results[0].ID != "qr_0" || batch.Results[1].ID != "x" {
		t.Errorf("batch = %+v", batch)
	}

	if status, _ := do(t, e, http.MethodGet, "/api/qr/info", ""); status != http.StatusBadRequest {
		t.Errorf("info without text: %d", status)
	}
	if status, _ := do(t, e, http.MethodGet, "/api/qr/formats", ""); status != http.StatusOK {
		t.Errorf("formats: %d", status)
	}
}
