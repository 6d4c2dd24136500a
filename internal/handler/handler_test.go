package handler

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/iliyamo/codegate-events/internal/repository"
	"github.com/iliyamo/codegate-events/internal/service"
	"github.com/iliyamo/codegate-events/internal/utils"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic on nil service", name)
		}
	}()
	fn()
}

func TestConstructorsRejectNilService(t *testing.T) {
	mustPanic(t, "NewEventHandler", func() { NewEventHandler(nil) })
	mustPanic(t, "NewQRHandler", func() { NewQRHandler(nil) })
}

func TestConstructorsKeepService(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tickets := service.NewTicketingService(repository.NewMemoryStore(), utils.NewCodeDeriver("secret"), nil, log, service.Options{})
	if h := NewEventHandler(tickets); h.Svc != tickets {
		t.Error("event handler lost its service")
	}
	qr := service.NewQRService(time.Now)
	if h := NewQRHandler(qr); h.Svc != qr {
		t.Error("qr handler lost its service")
	}
}
