// Package qrcode renders text as QR codes in raster (PNG), vector (SVG) and
// document (PDF) form. Rendering has no side effects; the same text and
// options always produce the same symbol.
package qrcode

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"

	goqr "github.com/skip2/go-qrcode"
)

// Format is an output kind.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	PDF Format = "pdf"
)

// Formats lists the supported output kinds.
var Formats = []Format{PNG, SVG, PDF}

func (f Format) Valid() bool { return f == PNG || f == SVG || f == PDF }

// MIME returns the media type of the rendered bytes.
func (f Format) MIME() string {
	switch f {
	case SVG:
		return "image/svg+xml"
	case PDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// Level is the error-correction level: L, M, Q or H (7, 15, 25, 30 percent
// recovery).
type Level string

const (
	LevelL Level = "L"
	LevelM Level = "M"
	LevelQ Level = "Q"
	LevelH Level = "H"
)

var Levels = []Level{LevelL, LevelM, LevelQ, LevelH}

func (l Level) Valid() bool { return l == LevelL || l == LevelM || l == LevelQ || l == LevelH }

func (l Level) recovery() goqr.RecoveryLevel {
	switch l {
	case LevelL:
		return goqr.Low
	case LevelQ:
		return goqr.High
	case LevelH:
		return goqr.Highest
	default:
		return goqr.Medium
	}
}

// Limits.
const (
	MinWidth      = 64
	MaxWidth      = 1024
	MaxMargin     = 10
	MaxTextLength = 2048
	MaxBatchSize  = 50
	MinQuality    = 0.1
	MaxQuality    = 1.0
)

// Options controls rendering. Width is the pixel (or point) size of the
// square output; Margin is the quiet zone in modules. Quality is accepted
// for compatibility and echoed back; lossless formats ignore it.
type Options struct {
	Format               Format  `json:"format"`
	Width                int     `json:"width"`
	Quality              float64 `json:"quality"`
	Margin               int     `json:"margin"`
	DarkColor            string  `json:"darkColor"`
	LightColor           string  `json:"lightColor"`
	ErrorCorrectionLevel Level   `json:"errorCorrectionLevel"`
}

// DefaultOptions returns the options used for anything a caller omits.
func DefaultOptions() Options {
	return Options{
		Format:               PNG,
		Width:                256,
		Quality:              0.92,
		Margin:               1,
		DarkColor:            "#000000",
		LightColor:           "#FFFFFF",
		ErrorCorrectionLevel: LevelM,
	}
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s is a #RRGGBB color.
func IsHexColor(s string) bool { return hexColor.MatchString(s) }

// OptionError reports an out-of-range option.
type OptionError struct {
	Field   string
	Message string
}

func (e *OptionError) Error() string { return e.Field + ": " + e.Message }

// Validate checks every option against its allowed range.
func (o Options) Validate() error {
	switch {
	case !o.Format.Valid():
		return &OptionError{"format", fmt.Sprintf("unsupported format %q", o.Format)}
	case o.Width < MinWidth || o.Width > MaxWidth:
		return &OptionError{"width", fmt.Sprintf("must be between %d and %d", MinWidth, MaxWidth)}
	case o.Quality < MinQuality || o.Quality > MaxQuality:
		return &OptionError{"quality", "must be between 0.1 and 1"}
	case o.Margin < 0 || o.Margin > MaxMargin:
		return &OptionError{"margin", fmt.Sprintf("must be between 0 and %d", MaxMargin)}
	case !IsHexColor(o.DarkColor):
		return &OptionError{"darkColor", "must be a #RRGGBB color"}
	case !IsHexColor(o.LightColor):
		return &OptionError{"lightColor", "must be a #RRGGBB color"}
	case !o.ErrorCorrectionLevel.Valid():
		return &OptionError{"errorCorrectionLevel", "must be one of L, M, Q, H"}
	}
	return nil
}

// parseColor converts a validated #RRGGBB string.
func parseColor(s string) color.NRGBA {
	v, _ := strconv.ParseUint(s[1:], 16, 32)
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
