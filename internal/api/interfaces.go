package api

import (
	"context"
	"io"

	"github.com/openatlas/geocatalog/internal/models"
)

// DatasetRepository defines dataset operations used by DatasetHandler.
type DatasetRepository interface {
	ListDatasets(ctx context.Context) ([]models.Dataset, error)
	GetDataset(ctx context.Context, id int32) (*models.Dataset, error)
	UpdateDataset(ctx context.Context, id int32, diff models.DatasetDiff) error
}

// DataSourceRepository defines data source operations used by DataSourceHandler.
type DataSourceRepository interface {
	ListDataSources(ctx context.Context) ([]models.DataSource, error)
	DataSourcesByDataset(ctx context.Context, datasetID int32) ([]models.DataSource, error)
	UpdateDataSource(ctx context.Context, id int32, diff models.DataSourceDiff) error
}

// GeoRepository defines geography lookups used by GeoHandler.
type GeoRepository interface {
	ListGeographyTypes(ctx context.Context) ([]models.GeographyType, error)
	ListGeoIDs(ctx context.Context, geographyType int32) ([]models.GeoID, error)
}

// MeasurementRepository defines measurement queries used by MeasurementHandler.
type MeasurementRepository interface {
	QueryMeasurements(ctx context.Context, query models.MeasurementQuery) ([]models.Measurement, error)
}

// Uploader runs the CSV ingestion pipeline for UploadHandler.
type Uploader interface {
	Run(ctx context.Context, meta *models.UploadMetadata, csvFile io.Reader) (int64, error)
}
