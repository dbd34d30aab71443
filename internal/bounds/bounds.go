// Package bounds checks geocoded coordinates against a fixed geographic extent.
package bounds

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/clinicgeo/internal/models"
)

// Box is an inclusive latitude/longitude rectangle.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Malaysia covers the southern tip of Johor to the northern tip of Sabah,
// and Langkawi in the west to eastern Sabah.
var Malaysia = Box{MinLat: 0.85, MaxLat: 7.36, MinLng: 99.64, MaxLng: 119.27}

// Contains reports whether the point lies within the box, edges included.
func (b Box) Contains(c models.Coordinates) bool {
	return b.MinLat <= c.Latitude && c.Latitude <= b.MaxLat &&
		b.MinLng <= c.Longitude && c.Longitude <= b.MaxLng
}

// Outlier is a row whose coordinates fall outside the box.
type Outlier struct {
	Name        string
	Coordinates models.Coordinates
}

// Report summarises a validation pass. Rows without coordinates are counted in neither field.
type Report struct {
	Valid    int
	Invalid  int
	Outliers []Outlier
}

// Validate classifies every row that has both coordinates and logs each outlier.
func Validate(ctx context.Context, log *slog.Logger, rows []*models.Row, box Box) Report {
	var report Report

	for _, row := range rows {
		if !row.HasCoordinates() {
			continue
		}

		coords := models.Coordinates{Latitude: *row.Lat, Longitude: *row.Lng}
		if box.Contains(coords) {
			report.Valid++
			continue
		}

		report.Invalid++
		report.Outliers = append(report.Outliers, Outlier{Name: row.Name, Coordinates: coords})
		log.WarnContext(ctx, "Coordinates outside bounds",
			"name", row.Name,
			"lat", coords.Latitude,
			"lng", coords.Longitude)
	}

	log.InfoContext(ctx, "Coordinate validation", "valid", report.Valid, "invalid", report.Invalid)

	return report
}
