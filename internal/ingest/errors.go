package ingest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/openatlas/geocatalog/internal/models"
)

// ErrorName tags one case of the closed upload failure taxonomy.
type ErrorName string

// The full taxonomy. Every upload failure is exactly one of these; there
// is no open-ended case beyond Internal.
const (
	NameInvalidCsv            ErrorName = "InvalidCsv"
	NameMissingColumn         ErrorName = "MissingColumn"
	NameGeoIdNotNumeric       ErrorName = "GeoIdNotNumeric"
	NameInvalidYear           ErrorName = "InvalidYear"
	NameDuplicateDataInCsv    ErrorName = "DuplicateDataInCsv"
	NameDuplicateDataInStore  ErrorName = "DuplicateDataInStore"
	NameDuplicateDatasets     ErrorName = "DuplicateDatasets"
	NameDuplicateDataSource   ErrorName = "DuplicateDataSource"
	NameDataSourceNotFound    ErrorName = "DataSourceNotFound"
	NameDataSourceIncomplete  ErrorName = "DataSourceIncomplete"
	NameDataSourceLinkInvalid ErrorName = "DataSourceLinkInvalid"
	NameInvalidGeoIds         ErrorName = "InvalidGeoIds"
	NameMissingMetadata       ErrorName = "MissingMetadata"
	NameInvalidMetadata       ErrorName = "InvalidMetadata"
	NameMissingFile           ErrorName = "MissingFile"
	NameInternal              ErrorName = "Internal"
)

// Error is a structured upload failure. It marshals to the wire shape
// {"name": <case>, "info": <payload>}; Info carries enough context (row
// index, offending value, or the full conflicting record) for the caller
// to fix the input without re-running the upload.
type Error struct {
	Name ErrorName `json:"name"`
	Info any       `json:"info,omitempty"`
}

// Error renders a human-readable description of the failure.
func (e *Error) Error() string {
	if e.Info == nil {
		return string(e.Name)
	}

	return fmt.Sprintf("%s: %+v", e.Name, e.Info)
}

// Status maps the failure class to an HTTP status: input the caller can
// correct is a client error, a conflict with persisted data is 409, and
// anything store-layer or unclassified is a server error.
func (e *Error) Status() int {
	switch e.Name {
	case NameInternal:
		return http.StatusInternalServerError
	case NameDuplicateDataInStore:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// MissingColumnInfo locates a structurally required column that a row did
// not provide. Record is the full offending row.
type MissingColumnInfo struct {
	Column string            `json:"column"`
	Row    int               `json:"row"`
	Record map[string]string `json:"record"`
}

// BadValueInfo carries a cell value that failed to parse and the row it
// came from.
type BadValueInfo struct {
	Value string `json:"value"`
	Row   int    `json:"row"`
}

// DuplicateFactInfo identifies the second occurrence of a fact identity
// within one file.
type DuplicateFactInfo struct {
	Row    int        `json:"row"`
	Parsed ParsedFact `json:"parsed"`
}

func invalidCsv(err error) *Error {
	return &Error{Name: NameInvalidCsv, Info: err.Error()}
}

func missingColumn(column string, row int, record map[string]string) *Error {
	return &Error{Name: NameMissingColumn, Info: MissingColumnInfo{Column: column, Row: row, Record: record}}
}

func geoIdNotNumeric(value string, row int) *Error {
	return &Error{Name: NameGeoIdNotNumeric, Info: BadValueInfo{Value: value, Row: row}}
}

func invalidYear(value string, row int) *Error {
	return &Error{Name: NameInvalidYear, Info: BadValueInfo{Value: value, Row: row}}
}

func duplicateDataInCsv(row int, fact ParsedFact) *Error {
	return &Error{Name: NameDuplicateDataInCsv, Info: DuplicateFactInfo{Row: row, Parsed: fact}}
}

func duplicateDataInStore(existing *models.Measurement) *Error {
	e := &Error{Name: NameDuplicateDataInStore}
	if existing != nil {
		e.Info = *existing
	}

	return e
}

func duplicateDatasets(existing []models.Dataset) *Error {
	return &Error{Name: NameDuplicateDatasets, Info: existing}
}

func duplicateDataSource(existing models.DataSource) *Error {
	return &Error{Name: NameDuplicateDataSource, Info: existing}
}

func dataSourceNotFound(id int32) *Error {
	return &Error{Name: NameDataSourceNotFound, Info: id}
}

func dataSourceIncomplete() *Error {
	return &Error{Name: NameDataSourceIncomplete}
}

func dataSourceLinkInvalid(link string) *Error {
	return &Error{Name: NameDataSourceLinkInvalid, Info: link}
}

func invalidGeoIds(ids []models.GeoID) *Error {
	return &Error{Name: NameInvalidGeoIds, Info: ids}
}

// MissingMetadata reports a multipart body without a metadata part.
func MissingMetadata() *Error {
	return &Error{Name: NameMissingMetadata}
}

// InvalidMetadata reports a metadata part that failed to parse or validate.
func InvalidMetadata(err error) *Error {
	return &Error{Name: NameInvalidMetadata, Info: err.Error()}
}

// MissingFile reports a multipart body without a file part.
func MissingFile() *Error {
	return &Error{Name: NameMissingFile}
}

// Internal wraps an unclassified failure, typically from the store layer.
func Internal(err error) *Error {
	return &Error{Name: NameInternal, Info: err.Error()}
}

// AsError coerces any error into the taxonomy: pipeline errors pass
// through, store-level duplicate keys become DuplicateDataInStore, and
// everything else is Internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if errors.Is(err, models.ErrDuplicateKey) {
		// Insert-time constraint hit; the offending row is unknown, so the
		// info carries the constraint detail instead of a measurement.
		return &Error{Name: NameDuplicateDataInStore, Info: err.Error()}
	}

	return Internal(err)
}
