package models

// DataSource is the origin or citation for a set of measurements.
type DataSource struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// DataSourceDraft describes a data source declared inline in an upload.
type DataSourceDraft struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// DataSourceDiff is a sparse update: nil fields are left unchanged.
type DataSourceDiff struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Link        *string `json:"link,omitempty"`
}

// Empty reports whether the diff contains no changes.
func (d *DataSourceDiff) Empty() bool {
	return d.Name == nil && d.Description == nil && d.Link == nil
}
