package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GeoHandler serves geography type and geo ID endpoints.
type GeoHandler struct {
	repo GeoRepository
	log  *logrus.Logger
}

// NewGeoHandler creates a GeoHandler with the given repository and logger.
func NewGeoHandler(repo GeoRepository, log *logrus.Logger) *GeoHandler {
	return &GeoHandler{repo: repo, log: log}
}

// ListTypes handles GET /api/v1/geography-types.
func (h *GeoHandler) ListTypes(c *gin.Context) {
	types, err := h.repo.ListGeographyTypes(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("listing geography types")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	c.JSON(http.StatusOK, types)
}

// ListGeoIDs handles GET /api/v1/geography-types/:id/geo-ids.
func (h *GeoHandler) ListGeoIDs(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ids, err := h.repo.ListGeoIDs(c.Request.Context(), id)
	if err != nil {
		h.log.WithError(err).Error("listing geo ids")
		respondError(c, http.StatusInternalServerError, ErrNameInternal, nil)

		return
	}

	c.JSON(http.StatusOK, ids)
}
