package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/codegate-events/internal/dto"
	"github.com/iliyamo/codegate-events/internal/qrcode"
	"github.com/iliyamo/codegate-events/internal/validation"
)

// QRService renders QR codes for arbitrary text. It holds no state.
type QRService struct {
	validate *validation.Validator
	now      func() time.Time
}

func NewQRService(now func() time.Time) *QRService {
	if now == nil {
		now = time.Now
	}
	return &QRService{validate: validation.New(now), now: now}
}

// Generated is a single rendered code.
type Generated struct {
	QRCode      string         `json:"qrCode"`
	Text        string         `json:"text"`
	Options     qrcode.Options `json:"options"`
	MIME        string         `json:"mimeType"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// Batch is the outcome of a batch render.
type Batch struct {
	Results     []qrcode.BatchResult `json:"results"`
	Summary     qrcode.BatchSummary  `json:"summary"`
	Options     qrcode.Options       `json:"options"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

// Generate validates the request and options, then renders.
func (q *QRService) Generate(_ context.Context, req dto.GenerateQRRequest) (*Generated, error) {
	if errs := q.validate.Struct(req); errs != nil {
		return nil, invalid(errs)
	}
	opts := req.Options.Resolve()
	if err := opts.Validate(); err != nil {
		return nil, optionFailure(err)
	}
	r, err := qrcode.Render(req.Text, opts)
	if err != nil {
		return nil, renderFailure(err)
	}
	return &Generated{
		QRCode:      r.Inline(),
		Text:        req.Text,
		Options:     opts,
		MIME:        r.MIME(),
		GeneratedAt: q.now().UTC(),
	}, nil
}

// Batch renders every item with the shared options. Per-item failures are
// reported in the results; only request-level violations fail the call.
func (q *QRService) Batch(ctx context.Context, req dto.BatchQRRequest) (*Batch, error) {
	if errs := q.validate.Struct(req); errs != nil {
		return nil, invalid(errs)
	}
	opts := req.Options.Resolve()
	if err := opts.Validate(); err != nil {
		return nil, optionFailure(err)
	}
	results, sum := qrcode.RenderBatch(ctx, req.BatchItems(), opts)
	return &Batch{Results: results, Summary: sum, Options: opts, GeneratedAt: q.now().UTC()}, nil
}

// Info advises on encoding text.
func (q *QRService) Info(text string) (qrcode.Advice, error) {
	if strings.TrimSpace(text) == "" {
		return qrcode.Advice{}, invalidField("text", "Text parameter is required")
	}
	return qrcode.Advise(text), nil
}

func (q *QRService) Formats() qrcode.FormatsInfo { return qrcode.Describe() }

func optionFailure(err error) *Error {
	var oe *qrcode.OptionError
	if errors.As(err, &oe) {
		return invalidField("options."+oe.Field, oe.Field+" "+oe.Message)
	}
	return invalidField("options", err.Error())
}

// renderFailure reports encoder rejections (text too long for the chosen
// level) as validation errors on the text.
func renderFailure(err error) *Error {
	var oe *qrcode.OptionError
	if errors.As(err, &oe) && oe.Field != "text" {
		return optionFailure(err)
	}
	return invalidField("text", "Text "+strings.TrimPrefix(err.Error(), "text: "))
}
