package models

import (
	"encoding/json"
	"fmt"
)

// Source identifies where uploaded measurements come from: either an
// existing data source by id, or a new one declared inline. Exactly one
// variant is set; the JSON form uses an external tag, e.g.
// {"ExistingId": 3} or {"New": {"name": ..., "link": ..., "description": ...}}.
type Source struct {
	ExistingID *int32
	New        *DataSourceDraft
}

type sourceJSON struct {
	ExistingID *int32           `json:"ExistingId,omitempty"`
	New        *DataSourceDraft `json:"New,omitempty"`
}

// MarshalJSON renders the active variant under its tag.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(sourceJSON{ExistingID: s.ExistingID, New: s.New})
}

// UnmarshalJSON parses the tagged form and rejects anything other than
// exactly one variant.
func (s *Source) UnmarshalJSON(b []byte) error {
	var raw sourceJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if (raw.ExistingID == nil) == (raw.New == nil) {
		return fmt.Errorf(`source must have exactly one of "ExistingId" or "New"`)
	}

	s.ExistingID = raw.ExistingID
	s.New = raw.New

	return nil
}

// Validate checks that exactly one variant is set. UnmarshalJSON enforces
// the same rule, but only when the "source" key is present; a zero-value
// Source from an absent key fails here instead.
func (s *Source) Validate() error {
	if (s.ExistingID == nil) == (s.New == nil) {
		return fmt.Errorf(`source must have exactly one of "ExistingId" or "New"`)
	}

	return nil
}

// DatasetMapping binds one CSV column to a dataset: either an existing
// dataset by id or a new one declared inline. When the upload does not use
// a shared date column, every mapping carries its own date range instead.
type DatasetMapping struct {
	Column     string        `json:"column"`
	ExistingID *int32        `json:"existing_id,omitempty"`
	New        *DatasetDraft `json:"new,omitempty"`
	StartDate  *Date         `json:"start_date,omitempty"`
	EndDate    *Date         `json:"end_date,omitempty"`
}

// Validate checks the exactly-one-variant rule and that explicit dates come
// in pairs with start before end.
func (m *DatasetMapping) Validate() error {
	if m.Column == "" {
		return ErrMissingColumnName
	}

	if (m.ExistingID == nil) == (m.New == nil) {
		return fmt.Errorf(`dataset mapping %q must have exactly one of "existing_id" or "new"`, m.Column)
	}

	if m.New != nil {
		if err := m.New.Validate(); err != nil {
			return fmt.Errorf("dataset mapping %q: %w", m.Column, err)
		}
	}

	if (m.StartDate == nil) != (m.EndDate == nil) {
		return fmt.Errorf("dataset mapping %q must set start_date and end_date together", m.Column)
	}

	if m.StartDate != nil && m.EndDate.Before(m.StartDate.Time) {
		return fmt.Errorf("dataset mapping %q has end_date before start_date", m.Column)
	}

	return nil
}

// DateMode says how the upload derives each fact's date range.
type DateMode int

const (
	// DateFromColumn derives the range from a per-row year column.
	DateFromColumn DateMode = iota
	// DatePerMapping takes an explicit range from each dataset mapping.
	DatePerMapping
)

// UploadMetadata is the declarative descriptor for one upload request.
// It is built once per request and never mutated.
type UploadMetadata struct {
	IDColumn      string           `json:"id_column"`
	DateColumn    string           `json:"date_column,omitempty"`
	GeographyType int32            `json:"geography_type"`
	Source        Source           `json:"source"`
	Datasets      []DatasetMapping `json:"datasets"`
}

// DateMode reports which date variant the metadata uses. Only meaningful
// after Validate has passed.
func (m *UploadMetadata) DateMode() DateMode {
	if m.DateColumn != "" {
		return DateFromColumn
	}

	return DatePerMapping
}

// Validate checks structural consistency of the descriptor: required
// fields, distinct columns, one-variant rules, and that the date handling
// is either a shared date column or explicit ranges on every mapping,
// never a mix.
func (m *UploadMetadata) Validate() error {
	if m.IDColumn == "" {
		return ErrMissingIDColumn
	}

	if m.GeographyType <= 0 {
		return ErrMissingGeographyType
	}

	if err := m.Source.Validate(); err != nil {
		return err
	}

	if len(m.Datasets) == 0 {
		return ErrNoDatasets
	}

	seen := make(map[string]struct{}, len(m.Datasets))

	for i := range m.Datasets {
		mapping := &m.Datasets[i]
		if err := mapping.Validate(); err != nil {
			return err
		}

		if _, dup := seen[mapping.Column]; dup {
			return fmt.Errorf("dataset mapping %q appears more than once", mapping.Column)
		}

		seen[mapping.Column] = struct{}{}

		if m.DateColumn != "" && mapping.StartDate != nil {
			return fmt.Errorf("dataset mapping %q sets explicit dates but date_column is also set", mapping.Column)
		}

		if m.DateColumn == "" && mapping.StartDate == nil {
			return fmt.Errorf("dataset mapping %q needs explicit dates when no date_column is set", mapping.Column)
		}
	}

	return nil
}
