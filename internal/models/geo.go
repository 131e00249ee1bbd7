package models

// GeographyType is a category of geographic identifier (county, state,
// country) scoping identifier uniqueness.
type GeographyType struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// GeoID is one entry in the canonical geographic-identifier registry.
// The pipeline only ever looks these up, it never creates them.
type GeoID struct {
	ID            int32  `json:"id"`
	GeographyType int32  `json:"geography_type"`
	Name          string `json:"name,omitempty"`
}
