package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/qrcode"
)

func newQR() *QRService {
	return NewQRService(func() time.Time { return start })
}

func TestQRGenerate(t *testing.T) {
	q := newQR()
	svg := qrcode.SVG
	got, err := q.Generate(context.Background(), dto.GenerateQRRequest{
		Text:    "hello",
		Options: &dto.QROptionsInput{Format: &svg, DarkColor: ptr("#112233")},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(got.QRCode, "<?xml") && !strings.HasPrefix(got.QRCode, "<svg") {
		t.Errorf("QRCode = %.30q, want an SVG document", got.QRCode)
	}
	if got.Options.Width != 256 || got.Options.DarkColor != "#112233" || !got.GeneratedAt.Equal(start) {
		t.Errorf("echoed = %+v at %v", got.Options, got.GeneratedAt)
	}
}

func TestQRGenerateRejectsBadInput(t *testing.T) {
	q := newQR()
	tests := []struct {
		name  string
		req   dto.GenerateQRRequest
		field string
	}{
		{"empty text", dto.GenerateQRRequest{}, "text"},
		{"narrow", dto.GenerateQRRequest{Text: "x", Options: &dto.QROptionsInput{Width: ptr(10)}}, "options.width"},
		{"bad color", dto.GenerateQRRequest{Text: "x", Options: &dto.QROptionsInput{LightColor: ptr("white")}}, "options.lightColor"},
		{"too long", dto.GenerateQRRequest{Text: strings.Repeat("a", 3000)}, "text"},
		{"too dense for width", dto.GenerateQRRequest{Text: strings.Repeat("a", 1500), Options: &dto.QROptionsInput{Width: ptr(64)}}, "options.width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := q.Generate(context.Background(), tt.req)
			se := asError(t, err)
			if se.Kind != KindValidation || len(se.Details) == 0 || se.Details[0].Field != tt.field {
				t.Errorf("got %v %+v, want validation on %s", se, se.Details, tt.field)
			}
		})
	}
}

func TestQRBatch(t *testing.T) {
	q := newQR()
	req := dto.BatchQRRequest{Items: []dto.BatchItemInput{{ID: "a", Text: "one"}, {Text: "two"}, {Text: "three"}}}
	got, err := q.Batch(context.Background(), req)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if got.Summary.Total != 3 || got.Summary.Successful != 3 || got.Summary.Failed != 0 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if got.Results[0].ID != "a" || got.Results[1].ID != "qr_1" || got.Results[2].Text != "three" {
		t.Errorf("results out of order: %+v", got.Results)
	}

	_, err = q.Batch(context.Background(), dto.BatchQRRequest{})
	if se := asError(t, err); se.Kind != KindValidation {
		t.Errorf("empty batch: %v", se)
	}
}

func TestQRInfo(t *testing.T) {
	q := newQR()
	if _, err := q.Info("  "); asError(t, err).Details[0].Field != "text" {
		t.Errorf("blank text accepted")
	}
	adv, err := q.Info(strings.Repeat("x", 101))
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if adv.RecommendedErrorCorrection != qrcode.LevelH || adv.EstimatedQRSize != 122 {
		t.Errorf("advice = %+v", adv)
	}
	if f := q.Formats(); f.Limits.MaxBatchSize != 50 {
		t.Errorf("limits = %+v", f.Limits)
	}
}
