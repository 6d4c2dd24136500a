package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"

	svg "github.com/ajstarks/svgo"
	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	goqr "github.com/skip2/go-qrcode"
)

// ErrEmptyText is returned for empty input.
var ErrEmptyText = errors.New("text is required")

// Rendered is the output of Render.
type Rendered struct {
	Format Format
	Data   []byte
}

// MIME returns the media type of Data.
func (r Rendered) MIME() string { return r.Format.MIME() }

// Inline returns the form embedded in JSON responses: the raw markup for
// SVG and a base64 data URL for everything else.
func (r Rendered) Inline() string {
	if r.Format == SVG {
		return string(r.Data)
	}
	return "data:" + r.MIME() + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Render encodes text with o. Option violations are reported before any
// encoding work is done.
func Render(text string, o Options) (Rendered, error) {
	if text == "" {
		return Rendered{}, ErrEmptyText
	}
	if len(text) > MaxTextLength {
		return Rendered{}, &OptionError{"text", fmt.Sprintf("must be at most %d characters", MaxTextLength)}
	}
	if err := o.Validate(); err != nil {
		return Rendered{}, err
	}
	bits, err := matrix(text, o.ErrorCorrectionLevel)
	if err != nil {
		return Rendered{}, err
	}
	if total := len(bits) + 2*o.Margin; o.Format != SVG && total > o.Width {
		return Rendered{}, &OptionError{"width", fmt.Sprintf("must be at least %d for this text and margin", total)}
	}

	var data []byte
	switch o.Format {
	case SVG:
		data = vector(bits, o)
	case PDF:
		data, err = document(bits, o)
	default:
		data, err = encodePNG(raster(bits, o))
	}
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Format: o.Format, Data: data}, nil
}

// matrix returns the module grid without quiet zone; true is a dark module.
func matrix(text string, level Level) ([][]bool, error) {
	q, err := goqr.New(text, level.recovery())
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}

// raster draws the symbol at the largest whole-pixel module size that fits
// Width, then scales to exactly Width with nearest-neighbor sampling. Render
// guarantees Width holds at least one pixel per module.
func raster(bits [][]bool, o Options) *image.NRGBA {
	total := len(bits) + 2*o.Margin
	scale := o.Width / total
	size := total * scale
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(parseColor(o.LightColor)), image.Point{}, draw.Src)

	dark := image.NewUniform(parseColor(o.DarkColor))
	for y, row := range bits {
		for x, on := range row {
			if !on {
				continue
			}
			px, py := (x+o.Margin)*scale, (y+o.Margin)*scale
			draw.Draw(img, image.Rect(px, py, px+scale, py+scale), dark, image.Point{}, draw.Src)
		}
	}
	if size < o.Width {
		return imaging.Resize(img, o.Width, o.Width, imaging.NearestNeighbor)
	}
	return img
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// vector writes one rect per horizontal run of dark modules inside a
// viewBox measured in modules.
func vector(bits [][]bool, o Options) []byte {
	total := len(bits) + 2*o.Margin
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(o.Width, o.Width,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, total, total),
		`shape-rendering="crispEdges"`)
	canvas.Rect(0, 0, total, total, "fill:"+o.LightColor)
	for y, row := range bits {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			canvas.Rect(start+o.Margin, y+o.Margin, x-start, 1, "fill:"+o.DarkColor)
		}
	}
	canvas.End()
	return buf.Bytes()
}

// document places the PNG rendering on a single page of the same size,
// measured in points.
func document(bits [][]bool, o Options) ([]byte, error) {
	img := raster(bits, o)
	png, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	side := float64(img.Bounds().Dx())
	pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", Size: fpdf.SizeType{Wd: side, Ht: side}})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("codegate-events", true)
	pdf.AddPage()

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(png))
	pdf.ImageOptions("qr", 0, 0, side, side, false, opt, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return buf.Bytes(), nil
}
