package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/models"
)

// DataSourceHandler serves data source endpoints.
type DataSourceHandler struct {
	repo DataSourceRepository
	log  *logrus.Logger
}

// NewDataSourceHandler creates a DataSourceHandler with the given repository and logger.
func NewDataSourceHandler(repo DataSourceRepository, log *logrus.Logger) *DataSourceHandler {
	return &DataSourceHandler{repo: repo, log: log}
}

// List handles GET /api/v1/data-sources.
func (h *DataSourceHandler) List(c *gin.Context) {
	sources, err := h.repo.ListDataSources(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("listing data sources")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	c.JSON(http.StatusOK, sources)
}

// ByDataset handles GET /api/v1/datasets/:id/sources. It lists the sources
// that contributed at least one measurement to the dataset.
func (h *DataSourceHandler) ByDataset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	sources, err := h.repo.DataSourcesByDataset(c.Request.Context(), id)
	if err != nil {
		h.log.WithError(err).Error("listing dataset sources")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	c.JSON(http.StatusOK, sources)
}

// Update handles PATCH /api/v1/editor/data-sources/:id.
func (h *DataSourceHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var diff models.DataSourceDiff
	if err := c.ShouldBindJSON(&diff); err != nil {
		respondError(c, http.StatusBadRequest, ErrNameInvalidRequest, "invalid request body")

		return
	}

	if diff.Empty() {
		respondError(c, http.StatusBadRequest, ErrNameInvalidRequest, "no fields to update")

		return
	}

	if err := h.repo.UpdateDataSource(c.Request.Context(), id, diff); err != nil {
		if errors.Is(err, models.ErrDataSourceNotFound) {
			respondError(c, http.StatusNotFound, ErrNameNotFound, "data source not found")

			return
		}

		h.log.WithError(err).Error("updating data source")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "data_source.update", "data_source_id": id}).Info("audit")

	c.Status(http.StatusNoContent)
}
