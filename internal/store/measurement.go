package store

import (
	"context"
	"fmt"

	"github.com/openatlas/geocatalog/internal/models"
)

const measurementColumns = "dataset, geo_id, geography_type, source, start_date, end_date, value"

// MeasurementStore serves the measurement read endpoint. Writes go through
// the upload pipeline only.
type MeasurementStore struct {
	Base
}

// NewMeasurementStore creates a MeasurementStore with the given shared base.
func NewMeasurementStore(base Base) *MeasurementStore {
	return &MeasurementStore{Base: base}
}

// QueryMeasurements returns measurement rows for one dataset, optionally
// narrowed by source and date range, ordered by geo id then start date.
func (s *MeasurementStore) QueryMeasurements(ctx context.Context, query models.MeasurementQuery) ([]models.Measurement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql := "SELECT " + measurementColumns + " FROM measurement WHERE dataset = $1"
	args := []any{query.Dataset}

	if query.Source != 0 {
		args = append(args, query.Source)
		sql += fmt.Sprintf(" AND source = $%d", len(args))
	}

	if query.StartDate != nil {
		args = append(args, *query.StartDate)
		sql += fmt.Sprintf(" AND start_date = $%d", len(args))
	}

	if query.EndDate != nil {
		args = append(args, *query.EndDate)
		sql += fmt.Sprintf(" AND end_date = $%d", len(args))
	}

	sql += " ORDER BY geo_id, start_date"

	rows, err := s.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var measurements []models.Measurement

	for rows.Next() {
		var m models.Measurement
		if err := rows.Scan(&m.Dataset, &m.GeoID, &m.GeographyType, &m.Source, &m.StartDate, &m.EndDate, &m.Value); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}

		measurements = append(measurements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating measurements: %w", err)
	}

	return measurements, nil
}
