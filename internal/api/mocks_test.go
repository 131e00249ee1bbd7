package api_test

import (
	"context"
	"io"

	"github.com/openatlas/geocatalog/internal/models"
)

// mockDatasetRepo implements api.DatasetRepository for testing.
type mockDatasetRepo struct {
	listFn   func(ctx context.Context) ([]models.Dataset, error)
	getFn    func(ctx context.Context, id int32) (*models.Dataset, error)
	updateFn func(ctx context.Context, id int32, diff models.DatasetDiff) error
}

func (m *mockDatasetRepo) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	return m.listFn(ctx)
}

func (m *mockDatasetRepo) GetDataset(ctx context.Context, id int32) (*models.Dataset, error) {
	if m.getFn == nil {
		return &models.Dataset{ID: id, GeographyType: 1}, nil
	}
	return m.getFn(ctx, id)
}

func (m *mockDatasetRepo) UpdateDataset(ctx context.Context, id int32, diff models.DatasetDiff) error {
	return m.updateFn(ctx, id, diff)
}

// mockDataSourceRepo implements api.DataSourceRepository for testing.
type mockDataSourceRepo struct {
	listFn      func(ctx context.Context) ([]models.DataSource, error)
	byDatasetFn func(ctx context.Context, datasetID int32) ([]models.DataSource, error)
	updateFn    func(ctx context.Context, id int32, diff models.DataSourceDiff) error
}

func (m *mockDataSourceRepo) ListDataSources(ctx context.Context) ([]models.DataSource, error) {
	return m.listFn(ctx)
}

func (m *mockDataSourceRepo) DataSourcesByDataset(ctx context.Context, datasetID int32) ([]models.DataSource, error) {
	return m.byDatasetFn(ctx, datasetID)
}

func (m *mockDataSourceRepo) UpdateDataSource(ctx context.Context, id int32, diff models.DataSourceDiff) error {
	return m.updateFn(ctx, id, diff)
}

// mockGeoRepo implements api.GeoRepository for testing.
type mockGeoRepo struct {
	typesFn  func(ctx context.Context) ([]models.GeographyType, error)
	geoIDsFn func(ctx context.Context, geographyType int32) ([]models.GeoID, error)
}

func (m *mockGeoRepo) ListGeographyTypes(ctx context.Context) ([]models.GeographyType, error) {
	return m.typesFn(ctx)
}

func (m *mockGeoRepo) ListGeoIDs(ctx context.Context, geographyType int32) ([]models.GeoID, error) {
	return m.geoIDsFn(ctx, geographyType)
}

// mockMeasurementRepo implements api.MeasurementRepository for testing.
type mockMeasurementRepo struct {
	queryFn func(ctx context.Context, query models.MeasurementQuery) ([]models.Measurement, error)
}

func (m *mockMeasurementRepo) QueryMeasurements(ctx context.Context, query models.MeasurementQuery) ([]models.Measurement, error) {
	return m.queryFn(ctx, query)
}

// mockUploader implements api.Uploader for testing.
type mockUploader struct {
	runFn func(ctx context.Context, meta *models.UploadMetadata, csvFile io.Reader) (int64, error)
}

func (m *mockUploader) Run(ctx context.Context, meta *models.UploadMetadata, csvFile io.Reader) (int64, error) {
	return m.runFn(ctx, meta, csvFile)
}
