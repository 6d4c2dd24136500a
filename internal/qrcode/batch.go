package qrcode

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// BatchItem is one text to render. ID is optional.
type BatchItem struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// BatchResult is the outcome for one item. QRCode is nil on failure.
type BatchResult struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	QRCode  *string `json:"qrCode"`
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
}

type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// batchWorkers bounds concurrent renders within one batch.
const batchWorkers = 8

// RenderBatch renders every item with the shared options. Results keep the
// input order; a failing item is reported inline and does not affect the
// others. Items without an ID are named qr_<index>.
func RenderBatch(ctx context.Context, items []BatchItem, o Options) ([]BatchResult, BatchSummary) {
	results := make([]BatchResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, item := range items {
		id := item.ID
		if id == "" {
			id = "qr_" + strconv.Itoa(i)
		}
		results[i] = BatchResult{ID: id, Text: item.Text}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Error = err.Error()
				return nil
			}
			r, err := Render(item.Text, o)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			inline := r.Inline()
			results[i].QRCode = &inline
			results[i].Success = true
			return nil
		})
	}
	_ = g.Wait()

	sum := BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			sum.Successful++
		} else {
			sum.Failed++
		}
	}
	return results, sum
}
