package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/clinicgeo/internal/models"
)

// Provider is an interface that defines a method for geocoding a free-text query.
// The Geocode method takes a context and a query string as input,
// and returns the first matching location or an error if none could be resolved.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.GeocodeResult, error)
}

// Errors shared by all providers. Provider-specific errors wrap one of these.
var (
	ErrNoResults = errors.New("geocoding service returned no results")
	ErrBadStatus = errors.New("geocoding service returned a non-OK status")
	ErrTransport = errors.New("geocoding request failed")
)

// ReasonFor maps a provider error onto a failure reason.
// Errors not wrapping a known sentinel are treated as transport failures.
func ReasonFor(err error) models.FailureReason {
	switch {
	case err == nil:
		return models.ReasonNone
	case errors.Is(err, ErrNoResults):
		return models.ReasonNoResults
	case errors.Is(err, ErrBadStatus):
		return models.ReasonBadStatus
	default:
		return models.ReasonTransport
	}
}
