// Package ingest implements the bulk data-ingestion pipeline: parsing an
// operator-supplied CSV against an upload descriptor, resolving dataset,
// data-source and geographic references, and committing deduplicated
// measurement rows in a single transaction.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/openatlas/geocatalog/internal/models"
)

// maxYear bounds the per-row year column. Years outside [1, maxYear] do
// not form a usable calendar date.
const maxYear = 9999

// FactKey is the identity tuple used for duplicate detection. The measured
// value is deliberately excluded: two rows with the same coordinates but
// different values are still the same fact, and the second one is an error.
type FactKey struct {
	Dataset   string
	StartDate models.Date
	EndDate   models.Date
	GeoID     int32
}

// ParsedFact is one candidate measurement parsed from the CSV, keyed by
// the CSV column name until dataset resolution assigns real ids.
type ParsedFact struct {
	Dataset   string      `json:"dataset"`
	StartDate models.Date `json:"start_date"`
	EndDate   models.Date `json:"end_date"`
	GeoID     int32       `json:"geo_id"`
	Value     float64     `json:"value"`
}

// Key returns the fact's identity tuple.
func (f ParsedFact) Key() FactKey {
	return FactKey{Dataset: f.Dataset, StartDate: f.StartDate, EndDate: f.EndDate, GeoID: f.GeoID}
}

// FactSet holds parsed facts indexed by identity.
type FactSet map[FactKey]ParsedFact

// Facts returns the set contents as a slice, in map order.
func (s FactSet) Facts() []ParsedFact {
	out := make([]ParsedFact, 0, len(s))
	for _, f := range s {
		out = append(out, f)
	}

	return out
}

// Parse streams the CSV and builds the deduplicated fact set.
//
// Processing is all-or-nothing: the first structural error aborts the
// whole file. A cell that is present but blank or unparseable as a number
// is treated as "no measurement" and contributes no fact; a column missing
// from the header is a hard MissingColumn error because every mapped
// column is structurally required.
func Parse(r io.Reader, meta *models.UploadMetadata) (FactSet, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, invalidCsv(err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	facts := make(FactSet)

	for row := 0; ; row++ {
		rec, err := reader.Read()
		if err == io.EOF {
			return facts, nil
		}

		if err != nil {
			// encoding/csv reports rows whose field count differs
			// from the header here.
			return nil, invalidCsv(err)
		}

		record := recordMap(header, rec)

		geoID, perr := parseGeoID(meta, record, row)
		if perr != nil {
			return nil, perr
		}

		start, end, perr := parseDates(meta, record, row)
		if perr != nil {
			return nil, perr
		}

		for i := range meta.Datasets {
			mapping := &meta.Datasets[i]

			cell, ok := record[mapping.Column]
			if !ok {
				return nil, missingColumn(mapping.Column, row, record)
			}

			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				// Blank or non-numeric cells are intentionally
				// empty: no measured value for this column.
				continue
			}

			fact := ParsedFact{
				Dataset: mapping.Column,
				GeoID:   geoID,
				Value:   value,
			}

			if meta.DateMode() == models.DatePerMapping {
				fact.StartDate = *mapping.StartDate
				fact.EndDate = *mapping.EndDate
			} else {
				fact.StartDate = start
				fact.EndDate = end
			}

			if _, dup := facts[fact.Key()]; dup {
				return nil, duplicateDataInCsv(row, fact)
			}

			facts[fact.Key()] = fact
		}
	}
}

func recordMap(header, rec []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, name := range header {
		m[name] = rec[i]
	}

	return m
}

func parseGeoID(meta *models.UploadMetadata, record map[string]string, row int) (int32, *Error) {
	cell, ok := record[meta.IDColumn]
	if !ok {
		return 0, missingColumn(meta.IDColumn, row, record)
	}

	id, err := strconv.ParseInt(cell, 10, 32)
	if err != nil {
		return 0, geoIdNotNumeric(cell, row)
	}

	return int32(id), nil
}

// parseDates derives the shared date range for a row. In per-mapping mode
// there is nothing to read from the row and zero dates are returned.
func parseDates(meta *models.UploadMetadata, record map[string]string, row int) (models.Date, models.Date, *Error) {
	if meta.DateMode() == models.DatePerMapping {
		return models.Date{}, models.Date{}, nil
	}

	cell, ok := record[meta.DateColumn]
	if !ok {
		return models.Date{}, models.Date{}, missingColumn(meta.DateColumn, row, record)
	}

	year, err := strconv.Atoi(cell)
	if err != nil || year < 1 || year > maxYear {
		return models.Date{}, models.Date{}, invalidYear(cell, row)
	}

	start := models.NewDate(year, time.January, 1)
	end := models.NewDate(year, time.December, 31)

	return start, end, nil
}
