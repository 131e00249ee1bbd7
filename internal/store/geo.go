package store

import (
	"context"
	"fmt"

	"github.com/openatlas/geocatalog/internal/models"
)

// GeoStore serves the geography-type catalog and the canonical
// geographic-identifier registry. The registry is read-only: identifiers
// are seeded by migrations, never created through the API.
type GeoStore struct {
	Base
}

// NewGeoStore creates a GeoStore with the given shared base.
func NewGeoStore(base Base) *GeoStore {
	return &GeoStore{Base: base}
}

// ListGeographyTypes returns every geography type ordered by id.
func (s *GeoStore) ListGeographyTypes(ctx context.Context) ([]models.GeographyType, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, "SELECT id, name FROM geography_type ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing geography types: %w", err)
	}
	defer rows.Close()

	var types []models.GeographyType

	for rows.Next() {
		var gt models.GeographyType
		if err := rows.Scan(&gt.ID, &gt.Name); err != nil {
			return nil, fmt.Errorf("scanning geography type: %w", err)
		}

		types = append(types, gt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating geography types: %w", err)
	}

	return types, nil
}

// ListGeoIDs returns the registry entries for one geography type.
func (s *GeoStore) ListGeoIDs(ctx context.Context, geographyType int32) ([]models.GeoID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT id, geography_type, name FROM geo_id WHERE geography_type = $1 ORDER BY id",
		geographyType)
	if err != nil {
		return nil, fmt.Errorf("listing geo ids for type %d: %w", geographyType, err)
	}
	defer rows.Close()

	var ids []models.GeoID

	for rows.Next() {
		var g models.GeoID
		if err := rows.Scan(&g.ID, &g.GeographyType, &g.Name); err != nil {
			return nil, fmt.Errorf("scanning geo id: %w", err)
		}

		ids = append(ids, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating geo ids: %w", err)
	}

	return ids, nil
}

// missingGeoIDs returns the subset of ids that is absent from the
// registry, ordered by id. Shared by the pipeline transaction.
func missingGeoIDs(ctx context.Context, q querier, ids []models.GeoID) ([]models.GeoID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	plainIDs := make([]int32, 0, len(ids))
	geographyTypes := make([]int32, 0, len(ids))

	for _, id := range ids {
		plainIDs = append(plainIDs, id.ID)
		geographyTypes = append(geographyTypes, id.GeographyType)
	}

	rows, err := q.Query(ctx, `
		SELECT missing.id, missing.geography_type
		FROM UNNEST($1::int4[], $2::int4[]) AS missing(id, geography_type)
		LEFT JOIN geo_id
			ON geo_id.geography_type = missing.geography_type
			AND geo_id.id = missing.id
		WHERE geo_id.id IS NULL
		ORDER BY missing.id`,
		plainIDs, geographyTypes)
	if err != nil {
		return nil, fmt.Errorf("finding missing geo ids: %w", err)
	}
	defer rows.Close()

	var missing []models.GeoID

	for rows.Next() {
		var g models.GeoID
		if err := rows.Scan(&g.ID, &g.GeographyType); err != nil {
			return nil, fmt.Errorf("scanning missing geo id: %w", err)
		}

		missing = append(missing, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating missing geo ids: %w", err)
	}

	return missing, nil
}
