package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/openatlas/geocatalog/internal/models"
)

const datasetColumns = "id, short_name, name, description, units, geography_type"

// DatasetStore handles dataset reads and sparse updates.
type DatasetStore struct {
	Base
}

// NewDatasetStore creates a DatasetStore with the given shared base.
func NewDatasetStore(base Base) *DatasetStore {
	return &DatasetStore{Base: base}
}

// ListDatasets returns every dataset ordered by id.
func (s *DatasetStore) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, "SELECT "+datasetColumns+" FROM dataset ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	return scanDatasets(rows)
}

// GetDataset returns one dataset by id.
func (s *DatasetStore) GetDataset(ctx context.Context, id int32) (*models.Dataset, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+datasetColumns+" FROM dataset WHERE id = $1", id)

	var d models.Dataset

	err := row.Scan(&d.ID, &d.ShortName, &d.Name, &d.Description, &d.Units, &d.GeographyType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDatasetNotFound
		}

		return nil, fmt.Errorf("getting dataset %d: %w", id, err)
	}

	return &d, nil
}

// UpdateDataset applies a sparse diff; nil fields keep their current value.
func (s *DatasetStore) UpdateDataset(ctx context.Context, id int32, diff models.DatasetDiff) error {
	if diff.Empty() {
		return nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `
		UPDATE dataset
		SET short_name = COALESCE($1, short_name),
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			units = COALESCE($4, units)
		WHERE id = $5`,
		diff.ShortName, diff.Name, diff.Description, diff.Units, id)
	if err != nil {
		return fmt.Errorf("updating dataset %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrDatasetNotFound
	}

	return nil
}

func scanDatasets(rows pgx.Rows) ([]models.Dataset, error) {
	var datasets []models.Dataset

	for rows.Next() {
		var d models.Dataset
		if err := rows.Scan(&d.ID, &d.ShortName, &d.Name, &d.Description, &d.Units, &d.GeographyType); err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}

		datasets = append(datasets, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating datasets: %w", err)
	}

	return datasets, nil
}

// findDuplicateDatasets returns every existing dataset whose name or short
// name matches any draft. Shared by the pipeline transaction.
func findDuplicateDatasets(ctx context.Context, q querier, drafts []models.DatasetDraft) ([]models.Dataset, error) {
	names := make([]string, 0, len(drafts))
	shortNames := make([]string, 0, len(drafts))

	for _, d := range drafts {
		names = append(names, d.Name)
		shortNames = append(shortNames, d.ShortName)
	}

	rows, err := q.Query(ctx, `
		SELECT `+datasetColumns+`
		FROM dataset
		WHERE name = ANY($1) OR short_name = ANY($2)
		ORDER BY id`,
		names, shortNames)
	if err != nil {
		return nil, fmt.Errorf("finding duplicate datasets: %w", err)
	}
	defer rows.Close()

	return scanDatasets(rows)
}

// sqlPlaceholders builds "($1, $2, ...), ($k+1, ...)" groups for multi-row
// inserts.
func sqlPlaceholders(rowCount, colCount int) string {
	var b strings.Builder

	for row := 0; row < rowCount; row++ {
		if row > 0 {
			b.WriteString(", ")
		}

		b.WriteByte('(')

		for col := 0; col < colCount; col++ {
			if col > 0 {
				b.WriteString(", ")
			}

			fmt.Fprintf(&b, "$%d", row*colCount+col+1)
		}

		b.WriteByte(')')
	}

	return b.String()
}
