package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/ingest"
	"github.com/openatlas/geocatalog/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

const validCsv = "id,date,value1,value2\n1001,2020,500,1000\n1002,2020,10,1\n"

func TestPipeline_InsertsAllDistinctFacts(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{tx: &mockTx{}}
	p := ingest.New(runner, testLogger())

	inserted, err := p.Run(context.Background(), testMetadata(), strings.NewReader(validCsv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 rows x 2 mapped columns, all parseable and distinct.
	if inserted != 4 {
		t.Fatalf("expected 4 rows inserted, got %d", inserted)
	}

	if !runner.committed {
		t.Fatal("expected transaction to commit")
	}

	if len(runner.tx.inserted) != 4 {
		t.Fatalf("expected 4 resolved facts, got %d", len(runner.tx.inserted))
	}

	for _, fact := range runner.tx.inserted {
		if fact.Source != 50 {
			t.Errorf("expected created source id 50 on fact, got %d", fact.Source)
		}

		if fact.GeographyType != 1 {
			t.Errorf("expected geography type 1 on fact, got %d", fact.GeographyType)
		}
	}
}

func TestPipeline_InvalidMetadata(t *testing.T) {
	t.Parallel()

	meta := testMetadata()
	meta.IDColumn = ""

	runner := &mockRunner{tx: &mockTx{}}
	p := ingest.New(runner, testLogger())

	_, err := p.Run(context.Background(), meta, strings.NewReader(validCsv))

	wantError(t, err, ingest.NameInvalidMetadata)

	if runner.committed {
		t.Fatal("transaction must not commit on metadata error")
	}
}

func TestPipeline_MetadataWithoutSourceIsClientError(t *testing.T) {
	t.Parallel()

	// The "source" key is absent, so Source.UnmarshalJSON never runs and
	// the descriptor carries a zero-value Source.
	raw := `{
		"id_column": "id",
		"date_column": "date",
		"geography_type": 1,
		"datasets": [{"column": "value1", "existing_id": 3}]
	}`

	var meta models.UploadMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	runner := &mockRunner{tx: &mockTx{}}
	p := ingest.New(runner, testLogger())

	_, err := p.Run(context.Background(), &meta, strings.NewReader(validCsv))

	wantError(t, err, ingest.NameInvalidMetadata)

	if runner.committed {
		t.Fatal("transaction must not commit on metadata error")
	}
}

func TestPipeline_DuplicateDatasetsAbortBeforeAnyWrite(t *testing.T) {
	t.Parallel()

	existing := []models.Dataset{{ID: 9, Name: "dataset name", ShortName: "ds"}}

	tx := &mockTx{
		findDuplicateDatasetsFn: func(_ context.Context, drafts []models.DatasetDraft) ([]models.Dataset, error) {
			if len(drafts) != 1 {
				t.Errorf("expected 1 draft, got %d", len(drafts))
			}

			return existing, nil
		},
	}
	runner := &mockRunner{tx: tx}
	p := ingest.New(runner, testLogger())

	_, err := p.Run(context.Background(), testMetadata(), strings.NewReader(validCsv))

	ingErr := wantError(t, err, ingest.NameDuplicateDatasets)

	got := ingErr.Info.([]models.Dataset)
	if len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("expected the colliding dataset in info, got %+v", got)
	}

	if runner.committed {
		t.Fatal("transaction must not commit")
	}

	if len(tx.createdDatasets) != 0 || len(tx.createdDataSources) != 0 || len(tx.inserted) != 0 {
		t.Fatal("no creation or insert may happen after a failed duplicate check")
	}
}

func TestPipeline_InvalidGeoIDsListsOnlyMissing(t *testing.T) {
	t.Parallel()

	tx := &mockTx{
		missingGeoIDsFn: func(_ context.Context, ids []models.GeoID) ([]models.GeoID, error) {
			if len(ids) != 2 {
				t.Errorf("expected 2 distinct geo ids, got %+v", ids)
			}

			return []models.GeoID{{ID: 9999, GeographyType: 1}}, nil
		},
	}
	runner := &mockRunner{tx: tx}
	p := ingest.New(runner, testLogger())

	csv := "id,date,value1,value2\n1001,2020,500,1000\n9999,2020,10,1\n"

	_, err := p.Run(context.Background(), testMetadata(), strings.NewReader(csv))

	ingErr := wantError(t, err, ingest.NameInvalidGeoIds)

	got := ingErr.Info.([]models.GeoID)
	if len(got) != 1 || got[0].ID != 9999 {
		t.Fatalf("expected exactly geo id 9999, got %+v", got)
	}

	if len(tx.createdDatasets) != 0 || len(tx.inserted) != 0 {
		t.Fatal("new dataset must not be created when geo check fails")
	}
}

func TestPipeline_SourceValidation(t *testing.T) {
	t.Parallel()

	t.Run("invalid link", func(t *testing.T) {
		t.Parallel()

		meta := testMetadata()
		meta.Source.New.Link = "not a uri"

		p := ingest.New(&mockRunner{tx: &mockTx{}}, testLogger())

		_, err := p.Run(context.Background(), meta, strings.NewReader(validCsv))

		ingErr := wantError(t, err, ingest.NameDataSourceLinkInvalid)
		if ingErr.Info != "not a uri" {
			t.Fatalf("expected offending link in info, got %v", ingErr.Info)
		}
	})

	t.Run("incomplete fields", func(t *testing.T) {
		t.Parallel()

		meta := testMetadata()
		meta.Source.New.Description = ""

		p := ingest.New(&mockRunner{tx: &mockTx{}}, testLogger())

		_, err := p.Run(context.Background(), meta, strings.NewReader(validCsv))

		wantError(t, err, ingest.NameDataSourceIncomplete)
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()

		existing := models.DataSource{ID: 4, Name: "name", Link: "https://x.example", Description: "d"}
		tx := &mockTx{
			dataSourceByNameFn: func(_ context.Context, name string) (*models.DataSource, error) {
				return &existing, nil
			},
		}

		p := ingest.New(&mockRunner{tx: tx}, testLogger())

		_, err := p.Run(context.Background(), testMetadata(), strings.NewReader(validCsv))

		ingErr := wantError(t, err, ingest.NameDuplicateDataSource)
		if ingErr.Info.(models.DataSource).ID != 4 {
			t.Fatalf("expected existing source in info, got %v", ingErr.Info)
		}

		if len(tx.createdDataSources) != 0 {
			t.Fatal("duplicate source must not be created")
		}
	})

	t.Run("existing id not found", func(t *testing.T) {
		t.Parallel()

		meta := testMetadata()
		meta.Source = models.Source{ExistingID: int32p(42)}

		tx := &mockTx{
			dataSourceByIDFn: func(_ context.Context, id int32) (*models.DataSource, error) {
				return nil, nil
			},
		}

		p := ingest.New(&mockRunner{tx: tx}, testLogger())

		_, err := p.Run(context.Background(), meta, strings.NewReader(validCsv))

		ingErr := wantError(t, err, ingest.NameDataSourceNotFound)
		if ingErr.Info.(int32) != 42 {
			t.Fatalf("expected id 42 in info, got %v", ingErr.Info)
		}
	})
}

func TestPipeline_DuplicateDataInStore(t *testing.T) {
	t.Parallel()

	existing := models.Measurement{Dataset: 1, GeoID: 1001, GeographyType: 1, Source: 7, Value: 500}

	tx := &mockTx{
		firstDuplicateMeasurementFn: func(_ context.Context, facts []ingest.ResolvedFact) (*models.Measurement, error) {
			return &existing, nil
		},
	}
	runner := &mockRunner{tx: tx}
	p := ingest.New(runner, testLogger())

	_, err := p.Run(context.Background(), testMetadata(), strings.NewReader(validCsv))

	ingErr := wantError(t, err, ingest.NameDuplicateDataInStore)

	if ingErr.Info.(models.Measurement).GeoID != 1001 {
		t.Fatalf("expected conflicting row in info, got %v", ingErr.Info)
	}

	if len(tx.inserted) != 0 {
		t.Fatal("insert must not run after a store-duplicate probe hit")
	}

	if runner.committed {
		t.Fatal("transaction must not commit")
	}
}

func TestPipeline_ConstraintRaceMapsToDuplicateInStore(t *testing.T) {
	t.Parallel()

	tx := &mockTx{
		insertMeasurementsFn: func(_ context.Context, facts []ingest.ResolvedFact) (int64, error) {
			return 0, fmt.Errorf("%w on measurement_identity", models.ErrDuplicateKey)
		},
	}
	p := ingest.New(&mockRunner{tx: tx}, testLogger())

	_, err := p.Run(context.Background(), testMetadata(), strings.NewReader(validCsv))

	ingErr := wantError(t, err, ingest.NameDuplicateDataInStore)

	detail, ok := ingErr.Info.(string)
	if !ok || !strings.Contains(detail, "measurement_identity") {
		t.Fatalf("expected constraint detail in info, got %#v", ingErr.Info)
	}
}

func TestPipeline_StoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	tx := &mockTx{
		missingGeoIDsFn: func(_ context.Context, ids []models.GeoID) ([]models.GeoID, error) {
			return nil, errors.New("connection refused")
		},
	}
	p := ingest.New(&mockRunner{tx: tx}, testLogger())

	_, err := p.Run(context.Background(), testMetadata(), strings.NewReader(validCsv))

	ingErr := wantError(t, err, ingest.NameInternal)

	if ingErr.Status() != 500 {
		t.Fatalf("internal errors must map to 500, got %d", ingErr.Status())
	}
}

func TestPipeline_UnknownExistingDatasetIsClientError(t *testing.T) {
	t.Parallel()

	tx := &mockTx{
		datasetByIDFn: func(_ context.Context, id int32) (*models.Dataset, error) {
			return nil, models.ErrDatasetNotFound
		},
	}
	p := ingest.New(&mockRunner{tx: tx}, testLogger())

	_, err := p.Run(context.Background(), testMetadata(), strings.NewReader(validCsv))

	ingErr := wantError(t, err, ingest.NameInvalidMetadata)

	if ingErr.Status() != 400 {
		t.Fatalf("expected 400, got %d", ingErr.Status())
	}
}
