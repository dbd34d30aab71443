package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/clinicgeo/internal/bounds"
	"github.com/UnknownOlympus/clinicgeo/internal/links"
	"github.com/UnknownOlympus/clinicgeo/internal/metrics"
	"github.com/UnknownOlympus/clinicgeo/internal/models"
	"github.com/UnknownOlympus/clinicgeo/internal/table"
)

const sampleRows = 3

// Archiver persists geocoded rows outside the output file.
type Archiver interface {
	SaveGeocodes(ctx context.Context, rows []*models.Row) (int, error)
}

// Stats describes how many rows of a table carry coordinates and place ids.
type Stats struct {
	Total           int
	WithCoordinates int
	WithPlaceID     int
}

// CoordinatesOnly returns the number of geocoded rows without a place id.
func (s Stats) CoordinatesOnly() int {
	return s.WithCoordinates - s.WithPlaceID
}

// CollectStats counts geocoded rows in tbl.
func CollectStats(tbl *models.Table) Stats {
	stats := Stats{Total: len(tbl.Rows)}
	for _, row := range tbl.Rows {
		if !row.HasCoordinates() {
			continue
		}
		stats.WithCoordinates++
		if row.PlaceID != "" {
			stats.WithPlaceID++
		}
	}
	return stats
}

// Report is everything a pipeline run produced.
type Report struct {
	Summary    Summary
	Validation bounds.Report
	Stats      Stats
	OutputPath string
	Archived   int
	Table      *models.Table
}

// Pipeline loads a table, geocodes it, writes it back and reports on the result.
type Pipeline struct {
	log     *slog.Logger
	batch   *BatchService
	archive Archiver // nil disables archiving
	metrics *metrics.Metrics
	box     bounds.Box
}

// NewPipeline creates a Pipeline. archive may be nil.
func NewPipeline(
	log *slog.Logger,
	batch *BatchService,
	archive Archiver,
	metrics *metrics.Metrics,
	box bounds.Box,
) *Pipeline {
	return &Pipeline{
		log:     log,
		batch:   batch,
		archive: archive,
		metrics: metrics,
		box:     box,
	}
}

// Run processes inputPath and writes the augmented table to outputPath, or to
// the derived default path when outputPath is empty. Nothing is written when
// loading or geocoding returns an error.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string) (*Report, error) {
	p.log.InfoContext(ctx, "Loading input file", "path", inputPath)

	tbl, err := table.Load(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", inputPath, err)
	}

	summary, err := p.batch.Run(ctx, tbl)
	if err != nil {
		return nil, err
	}

	if outputPath == "" {
		outputPath = table.DefaultOutputPath(inputPath)
	}
	if err = table.Write(outputPath, tbl); err != nil {
		return nil, fmt.Errorf("failed to save results: %w", err)
	}
	p.log.InfoContext(ctx, "Results saved", "path", outputPath)

	report := &Report{
		Summary:    summary,
		OutputPath: outputPath,
		Table:      tbl,
	}

	p.logSample(ctx, tbl)

	report.Validation = bounds.Validate(ctx, p.log, tbl.Rows, p.box)
	p.metrics.CoordinateChecks.WithLabelValues("valid").Add(float64(report.Validation.Valid))
	p.metrics.CoordinateChecks.WithLabelValues("invalid").Add(float64(report.Validation.Invalid))

	report.Stats = CollectStats(tbl)
	p.log.InfoContext(ctx, "Geocoding statistics",
		"successful", fmt.Sprintf("%d/%d", report.Stats.WithCoordinates, report.Stats.Total),
		"with_place_id", fmt.Sprintf("%d/%d", report.Stats.WithPlaceID, report.Stats.WithCoordinates),
		"coordinates_only", fmt.Sprintf("%d/%d", report.Stats.CoordinatesOnly(), report.Stats.WithCoordinates))

	if p.archive != nil {
		report.Archived = p.archiveRows(ctx, tbl)
	}

	return report, nil
}

// archiveRows stores the geocoded rows. A failing archive does not fail the run.
func (p *Pipeline) archiveRows(ctx context.Context, tbl *models.Table) int {
	saved, err := p.archive.SaveGeocodes(ctx, tbl.Rows)
	p.metrics.RowsArchived.Add(float64(saved))
	if err != nil {
		p.log.ErrorContext(ctx, "Failed to archive geocodes", "saved", saved, "error", err)
		return saved
	}

	p.log.InfoContext(ctx, "Geocodes archived", "rows", saved)
	return saved
}

func (p *Pipeline) logSample(ctx context.Context, tbl *models.Table) {
	for _, row := range tbl.Rows[:min(sampleRows, len(tbl.Rows))] {
		p.log.InfoContext(ctx, "Sample result",
			"name", row.Name,
			"address", row.Address,
			"lat", optional(row.Lat),
			"lng", optional(row.Lng),
			"place_id", row.PlaceID,
			"links", links.Generate(row.Lat, row.Lng, row.PlaceID))
	}
}

// optional unwraps a nullable coordinate for logging.
func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
