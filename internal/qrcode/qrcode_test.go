package qrcode

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
)

func decode(t *testing.T, data []byte) string {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		t.Fatalf("NewBinaryBitmapFromImage: %v", err)
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		t.Fatalf("decode qr: %v", err)
	}
	return res.GetText()
}

func TestRenderPNGRoundTrip(t *testing.T) {
	texts := []string{
		"hello",
		"TKT-ABCDEFGHIJKLMNOPQRSTUVWXYZ234567",
		"event:3f1b8c9e-8a3c-4c1e-9d1f-6b7f0c2a1e55",
		strings.Repeat("long payload ", 20),
	}
	for _, level := range Levels {
		for _, text := range texts {
			o := DefaultOptions()
			o.ErrorCorrectionLevel = level
			o.Width = 512
			o.Margin = 4
			r, err := Render(text, o)
			if err != nil {
				t.Fatalf("Render(%q, %s): %v", text, level, err)
			}
			if got := decode(t, r.Data); got != text {
				t.Errorf("level %s: decoded %q, want %q", level, got, text)
			}
		}
	}
}

func TestRenderPNGExactWidth(t *testing.T) {
	for _, w := range []int{64, 200, 256, 1024} {
		o := DefaultOptions()
		o.Width = w
		r, err := Render("size check", o)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(r.Data))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != w || cfg.Height != w {
			t.Errorf("width %d: got %dx%d", w, cfg.Width, cfg.Height)
		}
	}
}

func TestRenderRejectsWidthBelowModuleCount(t *testing.T) {
	text := strings.Repeat("payload ", 190)
	for _, f := range []Format{PNG, PDF} {
		o := DefaultOptions()
		o.Format = f
		o.Width = MinWidth
		_, err := Render(text, o)
		var oe *OptionError
		if !errors.As(err, &oe) || oe.Field != "width" {
			t.Errorf("%s: error = %v, want a width OptionError", f, err)
		}
	}

	o := DefaultOptions()
	o.Format = SVG
	o.Width = MinWidth
	if _, err := Render(text, o); err != nil {
		t.Errorf("svg scales by viewBox and should render: %v", err)
	}

	o = DefaultOptions()
	o.Width = MaxWidth
	r, err := Render(text, o)
	if err != nil {
		t.Fatalf("render at max width: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(r.Data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != MaxWidth || cfg.Height != MaxWidth {
		t.Errorf("got %dx%d, want %dx%d", cfg.Width, cfg.Height, MaxWidth, MaxWidth)
	}
}

func TestRenderColorsAndMargin(t *testing.T) {
	o := DefaultOptions()
	o.Margin = 4
	o.DarkColor = "#112233"
	o.LightColor = "#FFEEDD"
	r, err := Render("colors", o)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(r.Data))
	if err != nil {
		t.Fatal(err)
	}
	cr, cg, cb, _ := img.At(0, 0).RGBA()
	if cr>>8 != 0xFF || cg>>8 != 0xEE || cb>>8 != 0xDD {
		t.Errorf("corner pixel = %x %x %x, want light color", cr>>8, cg>>8, cb>>8)
	}
	if !hasColor(img, 0x11, 0x22, 0x33) {
		t.Error("dark color not found in image")
	}
}

func hasColor(img image.Image, r, g, b uint32) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			if cr>>8 == r && cg>>8 == g && cb>>8 == b {
				return true
			}
		}
	}
	return false
}

func TestRenderSVGAndPDF(t *testing.T) {
	o := DefaultOptions()
	o.Format = SVG
	r, err := Render("vector", o)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(r.Data)
	if !strings.Contains(doc, "<svg") || !strings.Contains(doc, "fill:#000000") || !strings.Contains(doc, `width="256"`) {
		t.Errorf("unexpected svg: %.200s", doc)
	}
	if r.Inline() != doc {
		t.Error("svg Inline should be the raw document")
	}

	o.Format = PDF
	r, err = Render("document", o)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(r.Data, []byte("%PDF-")) {
		t.Errorf("pdf output starts with %q", r.Data[:8])
	}
	if !strings.HasPrefix(r.Inline(), "data:application/pdf;base64,") {
		t.Errorf("pdf Inline = %.40s", r.Inline())
	}
}

func TestRenderInlinePNG(t *testing.T) {
	o := DefaultOptions()
	o.Margin = 4
	r, err := Render("inline", o)
	if err != nil {
		t.Fatal(err)
	}
	const prefix = "data:image/png;base64,"
	in := r.Inline()
	if !strings.HasPrefix(in, prefix) {
		t.Fatalf("Inline = %.40s", in)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(in, prefix))
	if err != nil {
		t.Fatal(err)
	}
	if decode(t, raw) != "inline" {
		t.Error("data URL does not decode to input")
	}
}

func TestRenderRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(*Options)
	}{
		{"width too small", "width", func(o *Options) { o.Width = 63 }},
		{"width too large", "width", func(o *Options) { o.Width = 1025 }},
		{"negative margin", "margin", func(o *Options) { o.Margin = -1 }},
		{"margin too large", "margin", func(o *Options) { o.Margin = 11 }},
		{"short color", "darkColor", func(o *Options) { o.DarkColor = "#FFF" }},
		{"named color", "lightColor", func(o *Options) { o.LightColor = "white" }},
		{"level", "errorCorrectionLevel", func(o *Options) { o.ErrorCorrectionLevel = "X" }},
		{"format", "format", func(o *Options) { o.Format = "gif" }},
		{"quality", "quality", func(o *Options) { o.Quality = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.edit(&o)
			_, err := Render("x", o)
			var oe *OptionError
			if !errors.As(err, &oe) || oe.Field != tt.field {
				t.Fatalf("err = %v, want OptionError on %s", err, tt.field)
			}
		})
	}
	if _, err := Render("", DefaultOptions()); !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty text err = %v", err)
	}
}

func TestRenderBatch(t *testing.T) {
	items := []BatchItem{
		{ID: "first", Text: "one"},
		{Text: "two"},
		{Text: strings.Repeat("x", 2049)},
		{ID: "last", Text: "four"},
	}
	results, sum := RenderBatch(context.Background(), items, DefaultOptions())
	if len(results) != len(items) {
		t.Fatalf("got %d results", len(results))
	}
	wantIDs := []string{"first", "qr_1", "qr_2", "last"}
	for i, r := range results {
		if r.ID != wantIDs[i] {
			t.Errorf("result %d id = %q, want %q", i, r.ID, wantIDs[i])
		}
		if r.Text != items[i].Text {
			t.Errorf("result %d out of order", i)
		}
	}
	if results[2].Success || results[2].QRCode != nil || results[2].Error == "" {
		t.Errorf("oversized item should fail inline: %+v", results[2])
	}
	if !results[3].Success || results[3].QRCode == nil {
		t.Errorf("item after failure should succeed: %+v", results[3])
	}
	if sum != (BatchSummary{Total: 4, Successful: 3, Failed: 1}) {
		t.Errorf("summary = %+v", sum)
	}
}

func TestAdvise(t *testing.T) {
	a := Advise("hello")
	if a.Length != 5 || a.EstimatedQRSize != 6 || a.RecommendedErrorCorrection != LevelM {
		t.Errorf("Advise(hello) = %+v", a)
	}
	if Advise(strings.Repeat("a", 101)).RecommendedErrorCorrection != LevelH {
		t.Error("long text should recommend H")
	}
	if d := Describe(); d.Limits.MaxBatchSize != 50 || len(d.Formats) != 3 {
		t.Errorf("Describe = %+v", d)
	}
}
