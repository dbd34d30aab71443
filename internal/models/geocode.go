package models

// GeocodeResult is a single resolved location returned by a geocoding provider.
type GeocodeResult struct {
	Coordinates
	FormattedAddress string // FormattedAddress is the provider's canonical address string.
	PlaceID          string // PlaceID is the provider's stable place identifier, empty when absent.
}

// FailureReason describes why a row could not be geocoded.
type FailureReason string

const (
	ReasonNone         FailureReason = ""
	ReasonMissingInput FailureReason = "missing_input"
	ReasonNoResults    FailureReason = "no_results"
	ReasonBadStatus    FailureReason = "bad_status"
	ReasonTransport    FailureReason = "transport"
)

// Outcome is the result of geocoding one row, including the fallback attempt.
// Exactly one of Result and Reason is set.
type Outcome struct {
	Result       *GeocodeResult // Result is the resolved location on success.
	Reason       FailureReason  // Reason is why geocoding failed.
	Err          error          // Err is the last underlying error, if any.
	Query        string         // Query is the free-text query that produced Result (or was tried last).
	UsedFallback bool           // UsedFallback reports whether the address-only query was issued.
}

// Success reports whether the outcome carries a location.
func (o Outcome) Success() bool {
	return o.Result != nil
}

// Failed builds an unsuccessful outcome.
func Failed(reason FailureReason, query string, err error) Outcome {
	return Outcome{Reason: reason, Query: query, Err: err}
}
