package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/dbpool"
	"github.com/openatlas/geocatalog/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log            *logrus.Logger
	Pool           *dbpool.Pool
	Datasets       DatasetRepository
	Sources        DataSourceRepository
	Geo            GeoRepository
	Measurements   MeasurementRepository
	Pipeline       Uploader
	CORSOrigins    []string
	EditorAPIKey   string
	MaxUploadBytes int64
	Version        string
}

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID())
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.MaxBodySize(deps.MaxUploadBytes))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "PATCH", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, log, deps.Version)
	datasets := NewDatasetHandler(deps.Datasets, log)
	sources := NewDataSourceHandler(deps.Sources, log)
	geo := NewGeoHandler(deps.Geo, log)
	measurements := NewMeasurementHandler(deps.Datasets, deps.Measurements, log)
	upload := NewUploadHandler(deps.Pipeline, log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Catalog reads are unauthenticated.
	api.GET("/datasets", datasets.List)
	api.GET("/datasets/:id", datasets.Get)
	api.GET("/datasets/:id/sources", sources.ByDataset)
	api.GET("/datasets/:id/data", measurements.Query)
	api.GET("/data-sources", sources.List)
	api.GET("/geography-types", geo.ListTypes)
	api.GET("/geography-types/:id/geo-ids", geo.ListGeoIDs)

	// Mutations require the editor API key.
	editor := api.Group("/editor", middleware.EditorAuth(deps.EditorAPIKey, log))
	editor.PATCH("/datasets/:id", datasets.Update)
	editor.PATCH("/data-sources/:id", sources.Update)
	editor.POST("/upload", upload.Upload)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
