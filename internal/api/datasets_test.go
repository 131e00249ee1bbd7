package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/openatlas/geocatalog/internal/api"
	"github.com/openatlas/geocatalog/internal/models"
)

func TestDatasetList(t *testing.T) {
	t.Parallel()

	repo := &mockDatasetRepo{
		listFn: func(_ context.Context) ([]models.Dataset, error) {
			return []models.Dataset{
				{ID: 1, ShortName: "pop", Name: "Population", Units: "people", GeographyType: 1},
				{ID: 2, ShortName: "gdp", Name: "GDP", Units: "USD", GeographyType: 3},
			}, nil
		},
	}

	r := gin.New()
	h := api.NewDatasetHandler(repo, testLogger())
	r.GET("/datasets", h.List)

	w := doRequest(r, http.MethodGet, "/datasets", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var datasets []models.Dataset
	if err := json.Unmarshal(w.Body.Bytes(), &datasets); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(datasets))
	}

	if datasets[0].ShortName != "pop" {
		t.Errorf("expected short name 'pop', got %q", datasets[0].ShortName)
	}
}

func TestDatasetGet_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockDatasetRepo{
		getFn: func(_ context.Context, _ int32) (*models.Dataset, error) {
			return nil, models.ErrDatasetNotFound
		},
	}

	r := gin.New()
	h := api.NewDatasetHandler(repo, testLogger())
	r.GET("/datasets/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/datasets/99", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["name"] != "NotFound" {
		t.Errorf("expected error name NotFound, got %v", body["name"])
	}
}

func TestDatasetGet_InvalidID(t *testing.T) {
	t.Parallel()

	r := gin.New()
	h := api.NewDatasetHandler(&mockDatasetRepo{}, testLogger())
	r.GET("/datasets/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/datasets/abc", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDatasetUpdate_SparseDiff(t *testing.T) {
	t.Parallel()

	var got models.DatasetDiff
	repo := &mockDatasetRepo{
		updateFn: func(_ context.Context, id int32, diff models.DatasetDiff) error {
			if id != 7 {
				t.Errorf("expected id 7, got %d", id)
			}
			got = diff
			return nil
		},
	}

	r := gin.New()
	h := api.NewDatasetHandler(repo, testLogger())
	r.PATCH("/datasets/:id", h.Update)

	w := doRequest(r, http.MethodPatch, "/datasets/7", `{"description":"updated"}`)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	if got.Description == nil || *got.Description != "updated" {
		t.Errorf("expected description diff 'updated', got %+v", got)
	}

	if got.Name != nil || got.ShortName != nil || got.Units != nil {
		t.Errorf("expected untouched fields to stay nil, got %+v", got)
	}
}

func TestDatasetUpdate_EmptyDiff(t *testing.T) {
	t.Parallel()

	r := gin.New()
	h := api.NewDatasetHandler(&mockDatasetRepo{}, testLogger())
	r.PATCH("/datasets/:id", h.Update)

	w := doRequest(r, http.MethodPatch, "/datasets/7", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDatasetUpdate_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockDatasetRepo{
		updateFn: func(_ context.Context, _ int32, _ models.DatasetDiff) error {
			return models.ErrDatasetNotFound
		},
	}

	r := gin.New()
	h := api.NewDatasetHandler(repo, testLogger())
	r.PATCH("/datasets/:id", h.Update)

	w := doRequest(r, http.MethodPatch, "/datasets/99", `{"name":"x"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
