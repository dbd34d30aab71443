// Package table reads and writes the clinic spreadsheet as delimited text.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/clinicgeo/internal/models"
)

// Column names read from and written to the table.
const (
	ColumnName    = "name"
	ColumnAddress = "Full Address"
	ColumnLat     = "new lat"
	ColumnLng     = "new lng"
	ColumnPlaceID = "place_id"
)

// OutputSuffix is inserted before the input extension when no output path is configured.
const OutputSuffix = "_with_geocoding"

var (
	// ErrMissingColumn is returned when the input header lacks a required column.
	ErrMissingColumn = errors.New("required column is missing")
	// ErrTooManyFields is returned when a row is wider than the header.
	ErrTooManyFields = errors.New("row has more fields than the header")
)

const utf8BOM = "\ufeff"

// Load opens the file at path and parses it into a table.
func Load(path string) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses CSV data with a header row into a table. Existing output columns,
// if present, are parsed into the typed row fields.
func Read(r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("input has no header: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	nameIdx := indexOf(header, ColumnName)
	addrIdx := indexOf(header, ColumnAddress)
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnName)
	}
	if addrIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnAddress)
	}
	latIdx := indexOf(header, ColumnLat)
	lngIdx := indexOf(header, ColumnLng)
	placeIdx := indexOf(header, ColumnPlaceID)

	tbl := &models.Table{Header: header}
	for line := 1; ; line++ {
		record, errRead := reader.Read()
		if errors.Is(errRead, io.EOF) {
			break
		}
		if errRead != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, errRead)
		}

		if len(record) > len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				ErrTooManyFields, line, len(record), len(header))
		}

		values := make([]string, len(header))
		copy(values, record)

		row := &models.Row{
			Line:    line,
			Name:    values[nameIdx],
			Address: values[addrIdx],
			Values:  values,
		}

		lat, latOK := parseCoordinate(cell(values, latIdx))
		lng, lngOK := parseCoordinate(cell(values, lngIdx))
		if latOK && lngOK {
			row.Lat, row.Lng = &lat, &lng
		}
		row.PlaceID = strings.TrimSpace(cell(values, placeIdx))

		tbl.Rows = append(tbl.Rows, row)
	}

	return tbl, nil
}

// Write stores the table at path, creating or truncating the file.
func Write(path string, tbl *models.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err = Encode(file, tbl); err != nil {
		_ = file.Close()
		return err
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	return nil
}

// Encode writes the table as CSV. The original columns keep their order and
// the output columns are appended when the input did not already have them.
func Encode(w io.Writer, tbl *models.Table) error {
	header := append([]string(nil), tbl.Header...)
	latIdx := ensureColumn(&header, ColumnLat)
	lngIdx := ensureColumn(&header, ColumnLng)
	placeIdx := ensureColumn(&header, ColumnPlaceID)

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range tbl.Rows {
		record := make([]string, len(header))
		copy(record, row.Values)
		record[latIdx] = formatCoordinate(row.Lat)
		record[lngIdx] = formatCoordinate(row.Lng)
		record[placeIdx] = row.PlaceID

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.Line, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

// DefaultOutputPath derives the output path by inserting OutputSuffix before the extension.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + OutputSuffix + ext
}

func indexOf(header []string, column string) int {
	for i, h := range header {
		if h == column {
			return i
		}
	}
	return -1
}

func ensureColumn(header *[]string, column string) int {
	if idx := indexOf(*header, column); idx >= 0 {
		return idx
	}
	*header = append(*header, column)
	return len(*header) - 1
}

func cell(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}

func parseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
