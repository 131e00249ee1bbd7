package client

import (
	"encoding/json"
	"fmt"
)

// APIError represents a structured error response from the geocatalog API.
type APIError struct {
	StatusCode int    `json:"-"`
	Name       string `json:"name"`
	Info       any    `json:"info,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("geocatalog: %d %s: %+v", e.StatusCode, e.Name, e.Info)
	}
	return fmt.Sprintf("geocatalog: %d %s", e.StatusCode, e.Name)
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 404
	}
	return false
}

// IsConflict returns true if the error is a 409 conflict, meaning the upload
// collided with measurements already in the store.
func IsConflict(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 409
	}
	return false
}

// IsUnauthorized returns true if the error is a 401, meaning the editor key
// was missing or wrong.
func IsUnauthorized(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 401
	}
	return false
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Name == "" {
		apiErr.Name = "Unknown"
		apiErr.Info = string(body)
	}
	return apiErr
}
