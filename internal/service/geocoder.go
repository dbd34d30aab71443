package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/clinicgeo/internal/geocoding"
	"github.com/UnknownOlympus/clinicgeo/internal/metrics"
	"github.com/UnknownOlympus/clinicgeo/internal/models"
)

// Locator resolves a clinic to a location. Failures are reported in the outcome, never as errors.
type Locator interface {
	Geocode(ctx context.Context, name, address string) models.Outcome
}

// ClinicGeocoder queries a provider with the clinic name and address, and
// falls back to the address alone when the combined query does not resolve.
type ClinicGeocoder struct {
	log          *slog.Logger       // Logger for logging geocoding attempts
	provider     geocoding.Provider // Geocoding provider for external geocoding services
	providerName string             // Name of the provider for metrics labeling
	metrics      *metrics.Metrics   // Metrics for tracking provider calls
	timeout      time.Duration      // Per-request timeout, zero disables it
}

// NewClinicGeocoder creates a ClinicGeocoder around the given provider.
func NewClinicGeocoder(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	timeout time.Duration,
) *ClinicGeocoder {
	return &ClinicGeocoder{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		timeout:      timeout,
	}
}

// Geocode tries "<name>, <address>" first, which disambiguates clinics sharing
// one building, then the address alone. The fallback outcome is returned when
// both fail.
func (cg *ClinicGeocoder) Geocode(ctx context.Context, name, address string) models.Outcome {
	primary := cg.attempt(ctx, fmt.Sprintf("%s, %s", name, address))
	if primary.Success() {
		return primary
	}

	if ctx.Err() != nil {
		return primary
	}

	cg.log.WarnContext(ctx, "Primary geocoding failed, trying fallback with address only",
		"name", name,
		"reason", primary.Reason,
		"error", primary.Err)
	cg.metrics.FallbackAttempts.Inc()

	fallback := cg.attempt(ctx, address)
	fallback.UsedFallback = true

	if fallback.Success() {
		cg.log.InfoContext(ctx, "Fallback geocoding successful", "name", name)
	} else {
		cg.log.WarnContext(ctx, "Fallback geocoding failed",
			"name", name,
			"reason", fallback.Reason,
			"error", fallback.Err)
	}

	return fallback
}

// attempt issues one provider call under the configured timeout.
func (cg *ClinicGeocoder) attempt(ctx context.Context, query string) models.Outcome {
	reqCtx := ctx
	if cg.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, cg.timeout)
		defer cancel()
	}

	startTime := time.Now()
	res, err := cg.provider.Geocode(reqCtx, query)
	cg.metrics.RequestSeconds.WithLabelValues(cg.providerName).Observe(time.Since(startTime).Seconds())

	if err == nil && res == nil {
		err = geocoding.ErrNoResults
	}

	if err != nil {
		reason := geocoding.ReasonFor(err)
		cg.metrics.ProviderErrors.WithLabelValues(string(reason)).Inc()
		if reason == models.ReasonTransport {
			cg.log.ErrorContext(ctx, "Geocoding request error", "query", query, "error", err)
		}
		return models.Failed(reason, query, err)
	}

	return models.Outcome{Result: res, Query: query}
}
