package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// doRequest performs an HTTP request against the test router and returns the recorder.
func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// multipartUpload builds a multipart request body with optional metadata and
// file parts, as the upload endpoint expects.
func multipartUpload(t *testing.T, metadata, csvBody string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if metadata != "" {
		if err := mw.WriteField("metadata", metadata); err != nil {
			t.Fatalf("writing metadata field: %v", err)
		}
	}

	if csvBody != "" {
		part, err := mw.CreateFormFile("file", "data.csv")
		if err != nil {
			t.Fatalf("creating file part: %v", err)
		}
		if _, err := part.Write([]byte(csvBody)); err != nil {
			t.Fatalf("writing file part: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	return &buf, mw.FormDataContentType()
}

// doUpload posts a multipart upload request against the test router.
func doUpload(t *testing.T, r *gin.Engine, metadata, csvBody string) *httptest.ResponseRecorder {
	t.Helper()

	buf, contentType := multipartUpload(t, metadata, csvBody)
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
