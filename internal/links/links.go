// Package links builds Google Maps URLs for geocoded locations.
package links

import (
	"net/url"
	"strconv"
)

// Keys of the map returned by Generate.
const (
	KeyCoordinateSearch = "coordinate_search"
	KeyPlaceID          = "place_id"
)

const (
	searchBaseURL = "https://www.google.com/maps/search/"
	placeBaseURL  = "https://www.google.com/maps/place/?q=place_id:"
)

// Generate returns a coordinate search link when both coordinates are present,
// plus a place link when placeID is not empty. It returns an empty map when
// either coordinate is missing.
func Generate(lat, lng *float64, placeID string) map[string]string {
	result := make(map[string]string, 2)
	if lat == nil || lng == nil {
		return result
	}

	result[KeyCoordinateSearch] = searchBaseURL + format(*lat) + "," + format(*lng)
	if placeID != "" {
		result[KeyPlaceID] = placeBaseURL + url.QueryEscape(placeID)
	}

	return result
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
