package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openatlas/geocatalog/internal/ingest"
	"github.com/openatlas/geocatalog/internal/models"
)

// maxInsertBatchSize limits the number of rows per INSERT statement to
// avoid exceeding PostgreSQL's parameter limit (65535 params).
const maxInsertBatchSize = 500

// measurementInsertColumns is the column count of one measurement row in
// the bulk insert.
const measurementInsertColumns = 7

// IngestStore gives the upload pipeline its transactional scope: one
// serializable transaction per upload so that duplicate checks, dataset
// and source creation, and the bulk insert are atomic against concurrent
// uploads.
type IngestStore struct {
	Base
}

// NewIngestStore creates an IngestStore with the given shared base.
func NewIngestStore(base Base) *IngestStore {
	return &IngestStore{Base: base}
}

// Compile-time check: *IngestStore must satisfy ingest.Runner.
var _ ingest.Runner = (*IngestStore)(nil)

// Run executes fn within a single serializable transaction and commits
// only if fn returns nil. Any error rolls the whole upload back.
func (s *IngestStore) Run(ctx context.Context, fn func(ctx context.Context, tx ingest.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	start := time.Now()

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("beginning upload transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := fn(ctx, &ingestTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing upload transaction: %w", err)
	}

	s.Log.WithField("duration", time.Since(start).String()).Debug("upload transaction committed")

	return nil
}

// ingestTx implements ingest.Tx on one pgx transaction.
type ingestTx struct {
	tx pgx.Tx
}

func (t *ingestTx) FindDuplicateDatasets(ctx context.Context, drafts []models.DatasetDraft) ([]models.Dataset, error) {
	return findDuplicateDatasets(ctx, t.tx, drafts)
}

func (t *ingestTx) DatasetByID(ctx context.Context, id int32) (*models.Dataset, error) {
	row := t.tx.QueryRow(ctx, "SELECT "+datasetColumns+" FROM dataset WHERE id = $1", id)

	var d models.Dataset

	err := row.Scan(&d.ID, &d.ShortName, &d.Name, &d.Description, &d.Units, &d.GeographyType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dataset %d: %w", id, models.ErrDatasetNotFound)
		}

		return nil, fmt.Errorf("getting dataset %d: %w", id, err)
	}

	return &d, nil
}

func (t *ingestTx) CreateDataset(ctx context.Context, draft models.DatasetDraft, geographyType int32) (*models.Dataset, error) {
	row := t.tx.QueryRow(ctx, `
		INSERT INTO dataset (short_name, name, description, units, geography_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+datasetColumns,
		draft.ShortName, draft.Name, draft.Description, draft.Units, geographyType)

	var d models.Dataset

	err := row.Scan(&d.ID, &d.ShortName, &d.Name, &d.Description, &d.Units, &d.GeographyType)
	if err != nil {
		return nil, fmt.Errorf("creating dataset %q: %w", draft.Name, err)
	}

	return &d, nil
}

func (t *ingestTx) DataSourceByID(ctx context.Context, id int32) (*models.DataSource, error) {
	return dataSourceByID(ctx, t.tx, id)
}

func (t *ingestTx) DataSourceByName(ctx context.Context, name string) (*models.DataSource, error) {
	return dataSourceByName(ctx, t.tx, name)
}

func (t *ingestTx) CreateDataSource(ctx context.Context, draft models.DataSourceDraft) (int32, error) {
	var id int32

	err := t.tx.QueryRow(ctx,
		"INSERT INTO data_source (name, description, link) VALUES ($1, $2, $3) RETURNING id",
		draft.Name, draft.Description, draft.Link).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating data source %q: %w", draft.Name, err)
	}

	return id, nil
}

func (t *ingestTx) MissingGeoIDs(ctx context.Context, ids []models.GeoID) ([]models.GeoID, error) {
	return missingGeoIDs(ctx, t.tx, ids)
}

// FirstDuplicateMeasurement probes for a persisted row sharing any fact's
// identity tuple, so the caller can report the precise conflict instead of
// a generic constraint violation.
func (t *ingestTx) FirstDuplicateMeasurement(ctx context.Context, facts []ingest.ResolvedFact) (*models.Measurement, error) {
	if len(facts) == 0 {
		return nil, nil
	}

	datasets := make([]int32, 0, len(facts))
	geoIDs := make([]int32, 0, len(facts))
	geographyTypes := make([]int32, 0, len(facts))
	startDates := make([]time.Time, 0, len(facts))
	endDates := make([]time.Time, 0, len(facts))

	for _, f := range facts {
		datasets = append(datasets, f.Dataset)
		geoIDs = append(geoIDs, f.GeoID)
		geographyTypes = append(geographyTypes, f.GeographyType)
		startDates = append(startDates, f.StartDate.Time)
		endDates = append(endDates, f.EndDate.Time)
	}

	row := t.tx.QueryRow(ctx, `
		SELECT m.dataset, m.geo_id, m.geography_type, m.source, m.start_date, m.end_date, m.value
		FROM UNNEST($1::int4[], $2::int4[], $3::int4[], $4::date[], $5::date[])
			AS f(dataset, geo_id, geography_type, start_date, end_date)
		JOIN measurement m
			ON m.dataset = f.dataset
			AND m.geo_id = f.geo_id
			AND m.geography_type = f.geography_type
			AND m.start_date = f.start_date
			AND m.end_date = f.end_date
		ORDER BY m.dataset, m.geo_id
		LIMIT 1`,
		datasets, geoIDs, geographyTypes, startDates, endDates)

	var m models.Measurement

	err := row.Scan(&m.Dataset, &m.GeoID, &m.GeographyType, &m.Source, &m.StartDate, &m.EndDate, &m.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("probing for duplicate measurements: %w", err)
	}

	return &m, nil
}

// InsertMeasurements performs the set-oriented insert in batches and
// returns the total affected row count. A unique-constraint violation is
// reported as models.ErrDuplicateKey.
func (t *ingestTx) InsertMeasurements(ctx context.Context, facts []ingest.ResolvedFact) (int64, error) {
	var total int64

	for i := 0; i < len(facts); i += maxInsertBatchSize {
		end := i + maxInsertBatchSize
		if end > len(facts) {
			end = len(facts)
		}

		batch := facts[i:end]

		args := make([]any, 0, len(batch)*measurementInsertColumns)
		for _, f := range batch {
			args = append(args, f.Dataset, f.GeoID, f.GeographyType, f.Source, f.StartDate.Time, f.EndDate.Time, f.Value)
		}

		sql := "INSERT INTO measurement (dataset, geo_id, geography_type, source, start_date, end_date, value) VALUES " +
			sqlPlaceholders(len(batch), measurementInsertColumns)

		tag, err := t.tx.Exec(ctx, sql, args...)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return 0, fmt.Errorf("%w on %s", models.ErrDuplicateKey, pgErr.ConstraintName)
			}

			return 0, fmt.Errorf("bulk inserting measurements: %w", err)
		}

		total += tag.RowsAffected()
	}

	return total, nil
}
