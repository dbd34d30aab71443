package models

// Row is one clinic record. Values keeps every original cell aligned with Table.Header,
// the typed fields mirror the columns the geocoder reads and writes.
type Row struct {
	Line    int      // Line is the 1-based data row number in the input file.
	Name    string   // Name is the clinic name.
	Address string   // Address is the full free-text address.
	Lat     *float64 // Lat is the geocoded latitude, nil when unset.
	Lng     *float64 // Lng is the geocoded longitude, nil when unset.
	PlaceID string   // PlaceID is the provider place identifier, empty when unset.
	Values  []string // Values holds the original cells.
}

// SetResult stores a geocoding result on the row. Latitude and longitude are always set together.
func (r *Row) SetResult(res GeocodeResult) {
	lat, lng := res.Latitude, res.Longitude
	r.Lat = &lat
	r.Lng = &lng
	r.PlaceID = res.PlaceID
}

// HasCoordinates reports whether both latitude and longitude are set.
func (r *Row) HasCoordinates() bool {
	return r.Lat != nil && r.Lng != nil
}

// Table is an ordered sequence of rows sharing one header.
type Table struct {
	Header []string
	Rows   []*Row
}
