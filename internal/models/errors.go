package models

import "errors"

// Sentinel errors for upload metadata validation.
var (
	ErrMissingIDColumn      = errors.New("id_column is required")
	ErrMissingGeographyType = errors.New("geography_type is required")
	ErrNoDatasets           = errors.New("at least one dataset mapping is required")
	ErrMissingColumnName    = errors.New("dataset mapping column is required")
	ErrMissingName          = errors.New("name is required")
	ErrMissingShortName     = errors.New("short_name is required")
	ErrMissingUnits         = errors.New("units is required")
)

// Sentinel errors for entity lookups.
var (
	ErrDatasetNotFound    = errors.New("dataset not found")
	ErrDataSourceNotFound = errors.New("data source not found")
)

// ErrDuplicateKey indicates a unique constraint violation at the store level.
var ErrDuplicateKey = errors.New("duplicate key")
