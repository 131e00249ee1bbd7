package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/ingest"
	"github.com/openatlas/geocatalog/internal/metrics"
	"github.com/openatlas/geocatalog/internal/models"
)

// UploadHandler serves the CSV bulk upload endpoint.
type UploadHandler struct {
	pipeline Uploader
	log      *logrus.Logger
}

// NewUploadHandler creates an UploadHandler with the given pipeline and logger.
func NewUploadHandler(pipeline Uploader, log *logrus.Logger) *UploadHandler {
	return &UploadHandler{pipeline: pipeline, log: log}
}

// Upload handles POST /api/v1/editor/upload. The request is multipart form
// data with a "metadata" JSON field and a "file" CSV part. The whole upload
// succeeds or fails as a unit; on success the response reports the number of
// inserted measurements.
func (h *UploadHandler) Upload(c *gin.Context) {
	start := time.Now()

	raw := c.PostForm("metadata")
	if raw == "" {
		h.reject(c, ingest.MissingMetadata())

		return
	}

	var meta models.UploadMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		h.reject(c, ingest.InvalidMetadata(err))

		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.reject(c, ingest.MissingFile())

		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.WithError(err).Error("opening uploaded file")
		h.reject(c, ingest.Internal(err))

		return
	}
	defer file.Close()

	inserted, err := h.pipeline.Run(c.Request.Context(), &meta, file)
	if err != nil {
		var ingestErr *ingest.Error
		if !errors.As(err, &ingestErr) {
			ingestErr = ingest.Internal(err)
		}

		if ingestErr.Status() == http.StatusInternalServerError {
			h.log.WithError(err).Error("upload pipeline failed")
		}

		h.reject(c, ingestErr)

		return
	}

	metrics.UploadsTotal.WithLabelValues("success").Inc()
	metrics.UploadRowsInserted.Add(float64(inserted))
	metrics.UploadDuration.Observe(time.Since(start).Seconds())

	h.log.WithFields(logrus.Fields{
		"action":   "upload",
		"inserted": inserted,
		"file":     fileHeader.Filename,
		"duration": time.Since(start).String(),
	}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

func (h *UploadHandler) reject(c *gin.Context, err *ingest.Error) {
	metrics.UploadsTotal.WithLabelValues("error").Inc()
	respondIngestError(c, err)
}
