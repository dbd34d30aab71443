package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/clinicgeo/internal/models"
	"golang.org/x/time/rate"
)

// NominatimBaseURL is the public OpenStreetMap Nominatim search endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// NominatimUserAgent identifies the client as required by the Nominatim usage policy.
const NominatimUserAgent = "Clinicgeo-Batch-Geocoder/1.0 (https://github.com/UnknownOlympus/clinicgeo)"

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client      HTTPClient    // HTTP client for making requests
	baseURL     string        // Base URL for the Nominatim API
	countryCode string        // ISO 3166-1 alpha-2 code results are restricted to, empty for worldwide
	log         *slog.Logger  // Logger for logging operations
	limiter     *rate.Limiter // Rate limiter
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents one element of the JSON array returned by Nominatim.
type nominatimResponse struct {
	Lat         string `json:"lat"`          // Latitude as string
	Lon         string `json:"lon"`          // Longitude as string
	DisplayName string `json:"display_name"` // Full formatted address
}

// ErrNominatimInvalidCoords is returned when Nominatim responds with coordinates that do not parse.
var ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")

// NewNominatimProvider creates a new Nominatim geocoding provider using the public endpoint.
func NewNominatimProvider(countryCode string, rateLimit int, timeout time.Duration, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:     NominatimBaseURL,
		countryCode: countryCode,
		log:         log,
		limiter:     rate.NewLimiter(rate.Limit(rateLimit), 1),
	}
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client and limiter.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(
	client HTTPClient,
	countryCode string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *NominatimProvider {
	return &NominatimProvider{
		client:      client,
		baseURL:     NominatimBaseURL,
		countryCode: countryCode,
		log:         log,
		limiter:     limiter,
	}
}

// Geocode converts a free-text query to geographic coordinates using the Nominatim API.
// Nominatim place ids are internal to OpenStreetMap, so the result never carries a PlaceID.
func (np *NominatimProvider) Geocode(ctx context.Context, query string) (*models.GeocodeResult, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", ErrTransport, err)
	}

	np.log.DebugContext(ctx, "Geocoding using Nominatim", "query", query)

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	if np.countryCode != "" {
		params.Set("countrycodes", np.countryCode)
	}
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", NominatimUserAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: nominatim API returned status %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	np.log.DebugContext(ctx, "Nominatim raw response", "body", string(body))

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("%w: failed to decode nominatim response: %w", ErrBadStatus, err)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: nominatim found nothing", ErrNoResults)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: invalid latitude: %s", ErrBadStatus, ErrNominatimInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: invalid longitude: %s", ErrBadStatus, ErrNominatimInvalidCoords, results[0].Lon)
	}

	return &models.GeocodeResult{
		Coordinates:      models.Coordinates{Latitude: lat, Longitude: lon},
		FormattedAddress: results[0].DisplayName,
	}, nil
}
