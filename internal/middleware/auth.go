package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/httputil"
)

// authTimingFloor is the minimum response time for rejected editor requests
// to prevent timing oracles that could distinguish valid from invalid keys.
const authTimingFloor = 50 * time.Millisecond

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// EditorAuth returns Gin middleware that gates editor endpoints behind a
// single shared API key presented as a Bearer token.
func EditorAuth(editorKey string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		key := ExtractBearerToken(c)
		if key == "" {
			httputil.RespondError(c, http.StatusUnauthorized, "Unauthorized", "missing or invalid authorization header")
			return
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(editorKey)) != 1 {
			log.WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"remote_ip":  c.ClientIP(),
				"key_prefix": truncateKey(key),
			}).Warn("editor authentication failed")

			httputil.RespondError(c, http.StatusUnauthorized, "Unauthorized", "invalid api key")
			return
		}

		c.Next()
	}
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimPrefix(header, prefix)
}
