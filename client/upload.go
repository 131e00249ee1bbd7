package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadService accesses the bulk CSV upload endpoint.
type UploadService struct {
	c *Client
}

// Upload submits a CSV file with its JSON metadata descriptor. The metadata
// is passed as raw JSON so callers can build it however they like. Requires
// the editor key.
func (s *UploadService) Upload(ctx context.Context, metadata []byte, filename string, csvFile io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("metadata", string(metadata)); err != nil {
		return nil, fmt.Errorf("write metadata field: %w", err)
	}

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, csvFile); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.c.baseURL+"/api/v1/editor/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result UploadResult
	if err := s.c.send(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
