package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/clinicgeo/internal/models"
)

const createSchemaQuery = `
		CREATE TABLE IF NOT EXISTS clinic_geocodes (
			name       TEXT NOT NULL,
			address    TEXT NOT NULL,
			latitude   DOUBLE PRECISION NOT NULL,
			longitude  DOUBLE PRECISION NOT NULL,
			place_id   TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (name, address)
		);
	`

const upsertGeocodeQuery = `
		INSERT INTO clinic_geocodes (name, address, latitude, longitude, place_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (name, address) DO UPDATE
		SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			place_id = EXCLUDED.place_id,
			updated_at = now();
	`

// EnsureSchema creates the clinic_geocodes table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createSchemaQuery); err != nil {
		return fmt.Errorf("failed to create clinic_geocodes table: %w", err)
	}

	return nil
}

// SaveGeocodes upserts every row that has coordinates, keyed by name and address.
// Rows without coordinates are ignored. It returns the number of rows stored
// before the first failure.
func (r *Repository) SaveGeocodes(ctx context.Context, rows []*models.Row) (int, error) {
	saved := 0

	for _, row := range rows {
		if !row.HasCoordinates() {
			continue
		}

		_, err := r.db.Exec(ctx, upsertGeocodeQuery, row.Name, row.Address, *row.Lat, *row.Lng, nullable(row.PlaceID))
		if err != nil {
			return saved, fmt.Errorf("failed to upsert geocode for row %d: %w", row.Line, err)
		}
		saved++
	}

	r.log.DebugContext(ctx, "Geocodes archived", "rows", saved)

	return saved, nil
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
