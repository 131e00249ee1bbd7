package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DatasetService accesses dataset catalog endpoints.
type DatasetService struct {
	c *Client
}

// List returns all datasets.
func (s *DatasetService) List(ctx context.Context) ([]Dataset, error) {
	var datasets []Dataset
	if err := s.c.get(ctx, "/api/v1/datasets", nil, &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

// Get returns one dataset by id.
func (s *DatasetService) Get(ctx context.Context, id int32) (*Dataset, error) {
	var dataset Dataset
	if err := s.c.get(ctx, fmt.Sprintf("/api/v1/datasets/%d", id), nil, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// Update applies a sparse update to a dataset. Requires the editor key.
func (s *DatasetService) Update(ctx context.Context, id int32, update DatasetUpdate) error {
	return s.c.patch(ctx, fmt.Sprintf("/api/v1/editor/datasets/%d", id), update)
}

// DataSourceService accesses data source endpoints.
type DataSourceService struct {
	c *Client
}

// List returns all data sources.
func (s *DataSourceService) List(ctx context.Context) ([]DataSource, error) {
	var sources []DataSource
	if err := s.c.get(ctx, "/api/v1/data-sources", nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// ByDataset returns the sources that contributed measurements to a dataset.
func (s *DataSourceService) ByDataset(ctx context.Context, datasetID int32) ([]DataSource, error) {
	var sources []DataSource
	if err := s.c.get(ctx, fmt.Sprintf("/api/v1/datasets/%d/sources", datasetID), nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// Update applies a sparse update to a data source. Requires the editor key.
func (s *DataSourceService) Update(ctx context.Context, id int32, update DataSourceUpdate) error {
	return s.c.patch(ctx, fmt.Sprintf("/api/v1/editor/data-sources/%d", id), update)
}

// GeoService accesses geography type and geo ID endpoints.
type GeoService struct {
	c *Client
}

// Types returns all geography types.
func (s *GeoService) Types(ctx context.Context) ([]GeographyType, error) {
	var types []GeographyType
	if err := s.c.get(ctx, "/api/v1/geography-types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// IDs returns the known geo IDs for one geography type.
func (s *GeoService) IDs(ctx context.Context, geographyType int32) ([]GeoID, error) {
	var ids []GeoID
	if err := s.c.get(ctx, fmt.Sprintf("/api/v1/geography-types/%d/geo-ids", geographyType), nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// MeasurementService accesses the measurement read endpoint.
type MeasurementService struct {
	c *Client
}

// Query returns measurements for one dataset, optionally narrowed by the filter.
func (s *MeasurementService) Query(ctx context.Context, datasetID int32, filter MeasurementFilter) ([]Measurement, error) {
	params := url.Values{}
	if filter.Source != 0 {
		params.Set("source", strconv.FormatInt(int64(filter.Source), 10))
	}
	if filter.StartDate != "" {
		params.Set("start_date", filter.StartDate)
	}
	if filter.EndDate != "" {
		params.Set("end_date", filter.EndDate)
	}

	var measurements []Measurement
	if err := s.c.get(ctx, fmt.Sprintf("/api/v1/datasets/%d/data", datasetID), params, &measurements); err != nil {
		return nil, err
	}
	return measurements, nil
}
