package models

// Measurement is one persisted measurement row: a value for a geographic
// identifier, dataset, time period and source.
type Measurement struct {
	Dataset       int32   `json:"dataset" csv:"dataset"`
	GeoID         int32   `json:"geo_id" csv:"geo_id"`
	GeographyType int32   `json:"geography_type" csv:"geography_type"`
	Source        int32   `json:"source" csv:"source"`
	StartDate     Date    `json:"start_date" csv:"start_date"`
	EndDate       Date    `json:"end_date" csv:"end_date"`
	Value         float64 `json:"value" csv:"value"`
}

// MeasurementQuery filters the measurement read endpoint. Zero values mean
// no filtering on that field.
type MeasurementQuery struct {
	Dataset   int32
	Source    int32
	StartDate *Date
	EndDate   *Date
}
