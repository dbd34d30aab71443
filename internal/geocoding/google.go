package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/clinicgeo/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode resolves a free-text query with the Google Maps Geocoding API.
// Only the first result is used. The maps client reports ZERO_RESULTS as an
// empty result list, which yields ErrNoResults. Other non-OK statuses yield
// ErrBadStatus and network failures yield ErrTransport.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, classifyGoogleError(err)
	}

	if len(geocodeResponse) == 0 {
		return nil, fmt.Errorf("%w: empty result list", ErrNoResults)
	}

	first := geocodeResponse[0]

	return &models.GeocodeResult{
		Coordinates: models.Coordinates{
			Latitude:  first.Geometry.Location.Lat,
			Longitude: first.Geometry.Location.Lng,
		},
		FormattedAddress: first.FormattedAddress,
		PlaceID:          first.PlaceID,
	}, nil
}

// classifyGoogleError distinguishes API status errors, which the maps client
// reports as "maps: <STATUS> - <message>", from transport failures.
func classifyGoogleError(err error) error {
	if strings.HasPrefix(err.Error(), "maps: ") {
		return fmt.Errorf("%w: %w", ErrBadStatus, err)
	}

	return fmt.Errorf("%w: %w", ErrTransport, err)
}
