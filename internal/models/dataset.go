// Package models defines data types for the geographic-statistics catalog.
package models

// Dataset is a named series of measurements sharing units and description.
type Dataset struct {
	ID            int32  `json:"id"`
	ShortName     string `json:"short_name"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Units         string `json:"units"`
	GeographyType int32  `json:"geography_type"`
}

// DatasetDraft describes a dataset declared inline in an upload, before it
// has been assigned an id.
type DatasetDraft struct {
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	Units       string `json:"units"`
	Description string `json:"description"`
}

// Validate checks that all required draft fields are present.
func (d *DatasetDraft) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}

	if d.ShortName == "" {
		return ErrMissingShortName
	}

	if d.Units == "" {
		return ErrMissingUnits
	}

	return nil
}

// DatasetDiff is a sparse update: nil fields are left unchanged.
type DatasetDiff struct {
	ShortName   *string `json:"short_name,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Units       *string `json:"units,omitempty"`
}

// Empty reports whether the diff contains no changes.
func (d *DatasetDiff) Empty() bool {
	return d.ShortName == nil && d.Name == nil && d.Description == nil && d.Units == nil
}
