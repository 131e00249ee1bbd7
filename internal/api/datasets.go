package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/models"
)

// DatasetHandler serves dataset catalog endpoints.
type DatasetHandler struct {
	repo DatasetRepository
	log  *logrus.Logger
}

// NewDatasetHandler creates a DatasetHandler with the given repository and logger.
func NewDatasetHandler(repo DatasetRepository, log *logrus.Logger) *DatasetHandler {
	return &DatasetHandler{repo: repo, log: log}
}

// List handles GET /api/v1/datasets.
func (h *DatasetHandler) List(c *gin.Context) {
	datasets, err := h.repo.ListDatasets(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("listing datasets")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	c.JSON(http.StatusOK, datasets)
}

// Get handles GET /api/v1/datasets/:id.
func (h *DatasetHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	dataset, err := h.repo.GetDataset(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrDatasetNotFound) {
			respondError(c, http.StatusNotFound, ErrNameNotFound, "dataset not found")

			return
		}

		h.log.WithError(err).Error("getting dataset")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	c.JSON(http.StatusOK, dataset)
}

// Update handles PATCH /api/v1/editor/datasets/:id. Only fields present in
// the body are changed.
func (h *DatasetHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var diff models.DatasetDiff
	if err := c.ShouldBindJSON(&diff); err != nil {
		respondError(c, http.StatusBadRequest, ErrNameInvalidRequest, "invalid request body")

		return
	}

	if diff.Empty() {
		respondError(c, http.StatusBadRequest, ErrNameInvalidRequest, "no fields to update")

		return
	}

	if err := h.repo.UpdateDataset(c.Request.Context(), id, diff); err != nil {
		if errors.Is(err, models.ErrDatasetNotFound) {
			respondError(c, http.StatusNotFound, ErrNameNotFound, "dataset not found")

			return
		}

		h.log.WithError(err).Error("updating dataset")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "dataset.update", "dataset_id": id}).Info("audit")

	c.Status(http.StatusNoContent)
}
