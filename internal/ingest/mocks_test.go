package ingest_test

import (
	"context"

	"github.com/openatlas/geocatalog/internal/ingest"
	"github.com/openatlas/geocatalog/internal/models"
)

// mockRunner implements ingest.Runner. It records whether the transaction
// callback completed so tests can assert nothing would have committed.
type mockRunner struct {
	tx        *mockTx
	committed bool
}

func (r *mockRunner) Run(ctx context.Context, fn func(ctx context.Context, tx ingest.Tx) error) error {
	if err := fn(ctx, r.tx); err != nil {
		return err
	}

	r.committed = true

	return nil
}

// mockTx implements ingest.Tx with overridable functions. The zero value
// behaves like an empty store that assigns sequential ids.
type mockTx struct {
	findDuplicateDatasetsFn     func(ctx context.Context, drafts []models.DatasetDraft) ([]models.Dataset, error)
	datasetByIDFn               func(ctx context.Context, id int32) (*models.Dataset, error)
	createDatasetFn             func(ctx context.Context, draft models.DatasetDraft, geographyType int32) (*models.Dataset, error)
	dataSourceByIDFn            func(ctx context.Context, id int32) (*models.DataSource, error)
	dataSourceByNameFn          func(ctx context.Context, name string) (*models.DataSource, error)
	createDataSourceFn          func(ctx context.Context, draft models.DataSourceDraft) (int32, error)
	missingGeoIDsFn             func(ctx context.Context, ids []models.GeoID) ([]models.GeoID, error)
	firstDuplicateMeasurementFn func(ctx context.Context, facts []ingest.ResolvedFact) (*models.Measurement, error)
	insertMeasurementsFn        func(ctx context.Context, facts []ingest.ResolvedFact) (int64, error)

	createdDatasets    []models.DatasetDraft
	createdDataSources []models.DataSourceDraft
	inserted           []ingest.ResolvedFact
	nextID             int32
}

func (m *mockTx) FindDuplicateDatasets(ctx context.Context, drafts []models.DatasetDraft) ([]models.Dataset, error) {
	if m.findDuplicateDatasetsFn != nil {
		return m.findDuplicateDatasetsFn(ctx, drafts)
	}

	return nil, nil
}

func (m *mockTx) DatasetByID(ctx context.Context, id int32) (*models.Dataset, error) {
	if m.datasetByIDFn != nil {
		return m.datasetByIDFn(ctx, id)
	}

	return &models.Dataset{ID: id, GeographyType: 1}, nil
}

func (m *mockTx) CreateDataset(ctx context.Context, draft models.DatasetDraft, geographyType int32) (*models.Dataset, error) {
	if m.createDatasetFn != nil {
		return m.createDatasetFn(ctx, draft, geographyType)
	}

	m.createdDatasets = append(m.createdDatasets, draft)
	m.nextID++

	return &models.Dataset{
		ID:            100 + m.nextID,
		Name:          draft.Name,
		ShortName:     draft.ShortName,
		Units:         draft.Units,
		Description:   draft.Description,
		GeographyType: geographyType,
	}, nil
}

func (m *mockTx) DataSourceByID(ctx context.Context, id int32) (*models.DataSource, error) {
	if m.dataSourceByIDFn != nil {
		return m.dataSourceByIDFn(ctx, id)
	}

	return &models.DataSource{ID: id, Name: "existing"}, nil
}

func (m *mockTx) DataSourceByName(ctx context.Context, name string) (*models.DataSource, error) {
	if m.dataSourceByNameFn != nil {
		return m.dataSourceByNameFn(ctx, name)
	}

	return nil, nil
}

func (m *mockTx) CreateDataSource(ctx context.Context, draft models.DataSourceDraft) (int32, error) {
	if m.createDataSourceFn != nil {
		return m.createDataSourceFn(ctx, draft)
	}

	m.createdDataSources = append(m.createdDataSources, draft)

	return 50, nil
}

func (m *mockTx) MissingGeoIDs(ctx context.Context, ids []models.GeoID) ([]models.GeoID, error) {
	if m.missingGeoIDsFn != nil {
		return m.missingGeoIDsFn(ctx, ids)
	}

	return nil, nil
}

func (m *mockTx) FirstDuplicateMeasurement(ctx context.Context, facts []ingest.ResolvedFact) (*models.Measurement, error) {
	if m.firstDuplicateMeasurementFn != nil {
		return m.firstDuplicateMeasurementFn(ctx, facts)
	}

	return nil, nil
}

func (m *mockTx) InsertMeasurements(ctx context.Context, facts []ingest.ResolvedFact) (int64, error) {
	if m.insertMeasurementsFn != nil {
		return m.insertMeasurementsFn(ctx, facts)
	}

	m.inserted = append(m.inserted, facts...)

	return int64(len(facts)), nil
}
