package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openatlas/geocatalog/internal/models"
)

const dataSourceColumns = "id, name, description, link"

// DataSourceStore handles data-source reads and sparse updates.
type DataSourceStore struct {
	Base
}

// NewDataSourceStore creates a DataSourceStore with the given shared base.
func NewDataSourceStore(base Base) *DataSourceStore {
	return &DataSourceStore{Base: base}
}

// ListDataSources returns every data source ordered by id.
func (s *DataSourceStore) ListDataSources(ctx context.Context) ([]models.DataSource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, "SELECT "+dataSourceColumns+" FROM data_source ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing data sources: %w", err)
	}
	defer rows.Close()

	return scanDataSources(rows)
}

// DataSourcesByDataset returns the distinct sources that measurements of
// the given dataset cite.
func (s *DataSourceStore) DataSourcesByDataset(ctx context.Context, datasetID int32) ([]models.DataSource, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
		SELECT DISTINCT data_source.id, data_source.name, data_source.description, data_source.link
		FROM measurement, data_source
		WHERE measurement.dataset = $1
		AND data_source.id = measurement.source
		ORDER BY data_source.id`,
		datasetID)
	if err != nil {
		return nil, fmt.Errorf("listing data sources for dataset %d: %w", datasetID, err)
	}
	defer rows.Close()

	return scanDataSources(rows)
}

// UpdateDataSource applies a sparse diff; nil fields keep their current value.
func (s *DataSourceStore) UpdateDataSource(ctx context.Context, id int32, diff models.DataSourceDiff) error {
	if diff.Empty() {
		return nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `
		UPDATE data_source
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			link = COALESCE($3, link)
		WHERE id = $4`,
		diff.Name, diff.Description, diff.Link, id)
	if err != nil {
		return fmt.Errorf("updating data source %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrDataSourceNotFound
	}

	return nil
}

func scanDataSources(rows pgx.Rows) ([]models.DataSource, error) {
	var sources []models.DataSource

	for rows.Next() {
		var ds models.DataSource
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.Description, &ds.Link); err != nil {
			return nil, fmt.Errorf("scanning data source: %w", err)
		}

		sources = append(sources, ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating data sources: %w", err)
	}

	return sources, nil
}

// dataSourceByID returns the source with the given id, or nil when absent.
func dataSourceByID(ctx context.Context, q querier, id int32) (*models.DataSource, error) {
	row := q.QueryRow(ctx, "SELECT "+dataSourceColumns+" FROM data_source WHERE id = $1", id)

	return scanOptionalDataSource(row, fmt.Sprintf("data source %d", id))
}

// dataSourceByName returns the source with the given name, or nil when absent.
func dataSourceByName(ctx context.Context, q querier, name string) (*models.DataSource, error) {
	row := q.QueryRow(ctx, "SELECT "+dataSourceColumns+" FROM data_source WHERE name = $1", name)

	return scanOptionalDataSource(row, fmt.Sprintf("data source %q", name))
}

func scanOptionalDataSource(row pgx.Row, what string) (*models.DataSource, error) {
	var ds models.DataSource

	err := row.Scan(&ds.ID, &ds.Name, &ds.Description, &ds.Link)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting %s: %w", what, err)
	}

	return &ds, nil
}
