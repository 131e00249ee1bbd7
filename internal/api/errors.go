package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openatlas/geocatalog/internal/httputil"
	"github.com/openatlas/geocatalog/internal/ingest"
	"github.com/openatlas/geocatalog/internal/metrics"
)

// Error names for responses outside the ingestion taxonomy.
const (
	ErrNameInvalidRequest = "InvalidRequest"
	ErrNameNotFound       = "NotFound"
	ErrNameInternal       = "Internal"
)

// respondError writes a standardized JSON error response in the
// {"name": ..., "info": ...} shape shared with the ingestion pipeline.
func respondError(c *gin.Context, status int, name string, info any) {
	metrics.ErrorsTotal.WithLabelValues(name).Inc()
	httputil.RespondError(c, status, name, info)
}

// respondIngestError renders a pipeline error at its mapped HTTP status.
// Internal errors keep their detail out of the response body.
func respondIngestError(c *gin.Context, err *ingest.Error) {
	metrics.ErrorsTotal.WithLabelValues(string(err.Name)).Inc()

	if err.Status() == http.StatusInternalServerError {
		httputil.RespondError(c, http.StatusInternalServerError, string(err.Name), nil)
		return
	}

	c.AbortWithStatusJSON(err.Status(), err)
}
