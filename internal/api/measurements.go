package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jszwec/csvutil"
	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/models"
)

// MeasurementHandler serves the measurement read endpoint.
type MeasurementHandler struct {
	datasets DatasetRepository
	repo     MeasurementRepository
	log      *logrus.Logger
}

// NewMeasurementHandler creates a MeasurementHandler with the given repositories and logger.
func NewMeasurementHandler(datasets DatasetRepository, repo MeasurementRepository, log *logrus.Logger) *MeasurementHandler {
	return &MeasurementHandler{datasets: datasets, repo: repo, log: log}
}

// Query handles GET /api/v1/datasets/:id/data. Optional query parameters
// narrow the result: source (data source id), start_date and end_date
// (YYYY-MM-DD). With format=csv the rows are returned as a CSV document
// instead of JSON.
func (h *MeasurementHandler) Query(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	query := models.MeasurementQuery{Dataset: id}

	if raw := c.Query("source"); raw != "" {
		source, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrNameInvalidRequest, "source must be a 32-bit integer")

			return
		}

		query.Source = int32(source)
	}

	var err error
	if query.StartDate, err = dateParam(c, "start_date"); err != nil {
		return
	}
	if query.EndDate, err = dateParam(c, "end_date"); err != nil {
		return
	}

	// Resolve the dataset first so an unknown id is a 404 rather than an
	// empty result set.
	if _, err := h.datasets.GetDataset(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrDatasetNotFound) {
			respondError(c, http.StatusNotFound, ErrNameNotFound, "dataset not found")

			return
		}

		h.log.WithError(err).Error("resolving dataset for measurement query")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	measurements, err := h.repo.QueryMeasurements(c.Request.Context(), query)
	if err != nil {
		h.log.WithError(err).Error("querying measurements")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	if c.Query("format") == "csv" {
		h.respondCSV(c, measurements)

		return
	}

	c.JSON(http.StatusOK, measurements)
}

func (h *MeasurementHandler) respondCSV(c *gin.Context, measurements []models.Measurement) {
	body, err := csvutil.Marshal(measurements)
	if err != nil {
		h.log.WithError(err).Error("encoding measurements as csv")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	c.Header("Content-Disposition", `attachment; filename="measurements.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// dateParam parses an optional YYYY-MM-DD query parameter. On a malformed
// value it writes the error response and returns a non-nil error.
func dateParam(c *gin.Context, name string) (*models.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	date, err := models.ParseDate(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrNameInvalidRequest, name+" must be a YYYY-MM-DD date")

		return nil, err
	}

	return &date, nil
}
