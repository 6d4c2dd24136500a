package dto

import (
	"strings"

	"github.com/iliyamo/codegate-events/internal/qrcode"
)

// QROptionsInput overrides individual rendering options. Absent fields keep
// their defaults.
type QROptionsInput struct {
	Format               *qrcode.Format `json:"format" validate:"omitempty,enum"`
	Width                *int           `json:"width" validate:"omitempty,min=64,max=1024"`
	Quality              *float64       `json:"quality" validate:"omitempty,min=0.1,max=1"`
	Margin               *int           `json:"margin" validate:"omitempty,min=0,max=10"`
	DarkColor            *string        `json:"darkColor" validate:"omitempty,hexcolor6"`
	LightColor           *string        `json:"lightColor" validate:"omitempty,hexcolor6"`
	ErrorCorrectionLevel *qrcode.Level  `json:"errorCorrectionLevel" validate:"omitempty,enum"`
}

// Resolve merges the overrides onto the defaults. A nil receiver yields
// the defaults.
func (in *QROptionsInput) Resolve() qrcode.Options {
	o := qrcode.DefaultOptions()
	if in == nil {
		return o
	}
	setIf(&o.Format, in.Format)
	setIf(&o.Width, in.Width)
	setIf(&o.Quality, in.Quality)
	setIf(&o.Margin, in.Margin)
	setIf(&o.ErrorCorrectionLevel, in.ErrorCorrectionLevel)
	if in.DarkColor != nil {
		o.DarkColor = strings.ToUpper(*in.DarkColor)
	}
	if in.LightColor != nil {
		o.LightColor = strings.ToUpper(*in.LightColor)
	}
	return o
}

// GenerateQRRequest is the body of POST /api/qr/generate.
type GenerateQRRequest struct {
	Text    string          `json:"text" validate:"required,max=2048"`
	Options *QROptionsInput `json:"options"`
}

type BatchItemInput struct {
	ID   string `json:"id" validate:"omitempty,max=255"`
	Text string `json:"text" validate:"required,max=2048"`
}

// BatchQRRequest is the body of POST /api/qr/batch.
type BatchQRRequest struct {
	Items   []BatchItemInput `json:"items" validate:"required,min=1,max=50,dive"`
	Options *QROptionsInput  `json:"options"`
}

func (r BatchQRRequest) BatchItems() []qrcode.BatchItem {
	out := make([]qrcode.BatchItem, len(r.Items))
	for i, it := range r.Items {
		out[i] = qrcode.BatchItem{ID: it.ID, Text: it.Text}
	}
	return out
}
