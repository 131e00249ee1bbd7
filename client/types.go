package client

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Dataset is a catalog dataset.
type Dataset struct {
	ID            int32  `json:"id"`
	ShortName     string `json:"short_name"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Units         string `json:"units"`
	GeographyType int32  `json:"geography_type"`
}

// DatasetUpdate is a sparse dataset update; nil fields are left unchanged.
type DatasetUpdate struct {
	ShortName   *string `json:"short_name,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Units       *string `json:"units,omitempty"`
}

// DataSource is the origin or citation for a set of measurements.
type DataSource struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// DataSourceUpdate is a sparse data source update.
type DataSourceUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Link        *string `json:"link,omitempty"`
}

// GeographyType is a class of geographic regions.
type GeographyType struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// GeoID identifies one region within a geography type.
type GeoID struct {
	ID            int32  `json:"id"`
	GeographyType int32  `json:"geography_type"`
	Name          string `json:"name,omitempty"`
}

// Measurement is one observed value for a dataset, region and date range.
type Measurement struct {
	Dataset       int32   `json:"dataset"`
	GeoID         int32   `json:"geo_id"`
	GeographyType int32   `json:"geography_type"`
	Source        int32   `json:"source"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Value         float64 `json:"value"`
}

// MeasurementFilter narrows a measurement query. Dates are YYYY-MM-DD.
type MeasurementFilter struct {
	Source    int32
	StartDate string
	EndDate   string
}

// UploadResult reports the outcome of a successful bulk upload.
type UploadResult struct {
	Inserted int64 `json:"inserted"`
}
