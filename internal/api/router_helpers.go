package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/middleware"
)

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid := middleware.RequestIDFrom(c); rid != "" {
			fields["request_id"] = rid
		}
		if cid := middleware.ClientRequestIDFrom(c); cid != "" {
			fields["client_request_id"] = cid
		}
		log.WithFields(fields).Info("request")
	}
}

// pathID parses the :id path parameter as an int32 and responds with a
// client error when it is not one. The second return value reports success.
func pathID(c *gin.Context) (int32, bool) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrNameInvalidRequest, "id must be a 32-bit integer")

		return 0, false
	}

	return int32(id), true
}
