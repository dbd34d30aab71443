package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/clinicgeo/internal/metrics"
	"github.com/UnknownOlympus/clinicgeo/internal/models"
)

const formattedAddressPreview = 80

// Summary holds the counters of one batch pass. Successful + Failed == Total.
type Summary struct {
	Total      int // Total is the number of rows processed.
	Successful int // Successful is the number of rows that received coordinates.
	Failed     int // Failed counts rows that were skipped or could not be geocoded.
	Skipped    int // Skipped counts rows with a blank name or address, included in Failed.
	Fallbacks  int // Fallbacks counts rows where the address-only query was issued.
}

// SuccessRate returns Successful as a percentage of Total, 0 for an empty batch.
func (s Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total) * 100
}

// BatchService walks a table row by row and stores geocoding results on it.
type BatchService struct {
	log           *slog.Logger     // Logger for progress and per-row outcomes
	locator       Locator          // Locator resolving each clinic
	metrics       *metrics.Metrics // Metrics for tracking processed rows
	delay         time.Duration    // Pause after every row to stay under the provider rate limit
	progressEvery int              // Log a progress line every N rows, zero disables it
}

// NewBatchService creates a new instance of BatchService.
func NewBatchService(
	log *slog.Logger,
	locator Locator,
	metrics *metrics.Metrics,
	delay time.Duration,
	progressEvery int,
) *BatchService {
	return &BatchService{
		log:           log,
		locator:       locator,
		metrics:       metrics,
		delay:         delay,
		progressEvery: progressEvery,
	}
}

// Run geocodes every row of tbl in order. Rows are mutated in place. The only
// error returned is the context's, in which case the summary covers the rows
// processed so far.
func (bs *BatchService) Run(ctx context.Context, tbl *models.Table) (Summary, error) {
	var summary Summary
	total := len(tbl.Rows)

	bs.log.InfoContext(ctx, "Starting batch", "records", total, "columns", tbl.Header)

	for idx, row := range tbl.Rows {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("batch interrupted before row %d: %w", row.Line, err)
		}

		bs.processRow(ctx, idx, total, row, &summary)

		if err := bs.wait(ctx); err != nil {
			return summary, fmt.Errorf("batch interrupted after row %d: %w", row.Line, err)
		}

		if bs.progressEvery > 0 && (idx+1)%bs.progressEvery == 0 {
			bs.log.InfoContext(ctx, "Progress",
				"completed", idx+1,
				"total", total,
				"successful", summary.Successful,
				"failed", summary.Failed)
		}
	}

	bs.log.InfoContext(ctx, "Final summary",
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"success_rate", fmt.Sprintf("%.1f%%", summary.SuccessRate()))

	return summary, nil
}

// processRow geocodes a single row and updates the summary.
func (bs *BatchService) processRow(ctx context.Context, idx, total int, row *models.Row, summary *Summary) {
	summary.Total++

	bs.log.InfoContext(ctx, "Processing row",
		"row", fmt.Sprintf("%d/%d", idx+1, total),
		"name", row.Name,
		"address", row.Address)

	if strings.TrimSpace(row.Name) == "" || strings.TrimSpace(row.Address) == "" {
		bs.log.WarnContext(ctx, "Skipping row with empty name or address", "row", row.Line)
		summary.Failed++
		summary.Skipped++
		bs.metrics.RowsProcessed.WithLabelValues(string(models.ReasonMissingInput)).Inc()
		return
	}

	outcome := bs.locator.Geocode(ctx, row.Name, row.Address)
	if outcome.UsedFallback {
		summary.Fallbacks++
	}

	if !outcome.Success() {
		bs.log.WarnContext(ctx, "Failed to geocode", "row", row.Line, "name", row.Name, "reason", outcome.Reason)
		summary.Failed++
		bs.metrics.RowsProcessed.WithLabelValues(string(outcome.Reason)).Inc()
		return
	}

	res := outcome.Result
	row.SetResult(*res)
	summary.Successful++
	bs.metrics.RowsProcessed.WithLabelValues("success").Inc()

	bs.log.InfoContext(ctx, "Geocoded",
		"row", row.Line,
		"lat", res.Latitude,
		"lng", res.Longitude,
		"place_id", res.PlaceID,
		"fallback", outcome.UsedFallback,
		"result", preview(res.FormattedAddress, formattedAddressPreview))
}

// wait pauses for the configured delay unless the context ends first.
func (bs *BatchService) wait(ctx context.Context) error {
	if bs.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(bs.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
