package ingest

import (
	"context"
	"errors"
	"io"
	"net/url"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/models"
)

// ResolvedFact is a storage-ready measurement record. Its identity mirrors
// ParsedFact's and is preserved through the bulk insert.
type ResolvedFact struct {
	GeoID         int32
	GeographyType int32
	Source        int32
	Dataset       int32
	StartDate     models.Date
	EndDate       models.Date
	Value         float64
}

// resolvedDataset is the resolution-table entry for one CSV column.
type resolvedDataset struct {
	id            int32
	geographyType int32
}

// Tx is the store capability contract the pipeline needs for one upload.
// All methods run against the same transaction so that checks, creations
// and the final insert are atomic against concurrent uploads.
type Tx interface {
	FindDuplicateDatasets(ctx context.Context, drafts []models.DatasetDraft) ([]models.Dataset, error)
	DatasetByID(ctx context.Context, id int32) (*models.Dataset, error)
	CreateDataset(ctx context.Context, draft models.DatasetDraft, geographyType int32) (*models.Dataset, error)
	DataSourceByID(ctx context.Context, id int32) (*models.DataSource, error)
	DataSourceByName(ctx context.Context, name string) (*models.DataSource, error)
	CreateDataSource(ctx context.Context, draft models.DataSourceDraft) (int32, error)
	MissingGeoIDs(ctx context.Context, ids []models.GeoID) ([]models.GeoID, error)
	FirstDuplicateMeasurement(ctx context.Context, facts []ResolvedFact) (*models.Measurement, error)
	InsertMeasurements(ctx context.Context, facts []ResolvedFact) (int64, error)
}

// Runner opens one serializable transaction per upload and runs fn inside
// it, committing only if fn returns nil.
type Runner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Pipeline executes whole uploads: parse, resolve, materialize, commit.
type Pipeline struct {
	store Runner
	log   *logrus.Logger
}

// New creates a Pipeline on the given transactional store.
func New(store Runner, log *logrus.Logger) *Pipeline {
	return &Pipeline{store: store, log: log}
}

// Run processes one upload end to end and returns the number of rows
// inserted. Any failure aborts the whole upload with no partial writes;
// the returned error is always an *Error from the taxonomy.
func (p *Pipeline) Run(ctx context.Context, meta *models.UploadMetadata, csvFile io.Reader) (int64, error) {
	if err := meta.Validate(); err != nil {
		return 0, InvalidMetadata(err)
	}

	facts, err := Parse(csvFile, meta)
	if err != nil {
		return 0, err
	}

	var inserted int64

	txErr := p.store.Run(ctx, func(ctx context.Context, tx Tx) error {
		n, err := p.run(ctx, tx, meta, facts)
		if err != nil {
			return err
		}

		inserted = n

		return nil
	})
	if txErr != nil {
		return 0, AsError(txErr)
	}

	p.log.WithFields(logrus.Fields{
		"geography_type": meta.GeographyType,
		"datasets":       len(meta.Datasets),
		"inserted":       inserted,
	}).Info("upload committed")

	return inserted, nil
}

// run performs every stage that touches the store. The stages are strictly
// ordered: all validation (dataset duplicates, geo ids, source) happens
// before any creation, and creation before the insert.
func (p *Pipeline) run(ctx context.Context, tx Tx, meta *models.UploadMetadata, facts FactSet) (int64, error) {
	if err := p.checkDatasetDuplicates(ctx, tx, meta); err != nil {
		return 0, err
	}

	if err := p.checkGeoIDs(ctx, tx, meta, facts); err != nil {
		return 0, err
	}

	if err := p.checkSource(ctx, tx, meta); err != nil {
		return 0, err
	}

	sourceID, err := p.resolveSource(ctx, tx, meta)
	if err != nil {
		return 0, err
	}

	datasets, err := p.resolveDatasets(ctx, tx, meta)
	if err != nil {
		return 0, err
	}

	resolved, err := materialize(facts, datasets, sourceID)
	if err != nil {
		return 0, err
	}

	return p.commit(ctx, tx, resolved)
}

// checkDatasetDuplicates fails if any inline dataset draft collides by
// name or short name with an existing dataset. The full list of colliding
// datasets is reported, never just the first.
func (p *Pipeline) checkDatasetDuplicates(ctx context.Context, tx Tx, meta *models.UploadMetadata) error {
	var drafts []models.DatasetDraft

	for i := range meta.Datasets {
		if meta.Datasets[i].New != nil {
			drafts = append(drafts, *meta.Datasets[i].New)
		}
	}

	if len(drafts) == 0 {
		return nil
	}

	existing, err := tx.FindDuplicateDatasets(ctx, drafts)
	if err != nil {
		return Internal(err)
	}

	if len(existing) > 0 {
		return duplicateDatasets(existing)
	}

	return nil
}

// checkGeoIDs verifies every distinct geographic identifier in the fact
// set against the registry and reports the full list of absentees.
func (p *Pipeline) checkGeoIDs(ctx context.Context, tx Tx, meta *models.UploadMetadata, facts FactSet) error {
	distinct := make(map[int32]struct{})
	for key := range facts {
		distinct[key.GeoID] = struct{}{}
	}

	ids := make([]models.GeoID, 0, len(distinct))
	for id := range distinct {
		ids = append(ids, models.GeoID{ID: id, GeographyType: meta.GeographyType})
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].ID < ids[j].ID })

	missing, err := tx.MissingGeoIDs(ctx, ids)
	if err != nil {
		return Internal(err)
	}

	if len(missing) > 0 {
		return invalidGeoIds(missing)
	}

	return nil
}

// checkSource validates the source variant without creating anything. An
// existing id must exist in the store; a new source needs a well-formed
// absolute link, a non-empty name and description, and an unused name.
func (p *Pipeline) checkSource(ctx context.Context, tx Tx, meta *models.UploadMetadata) error {
	if id := meta.Source.ExistingID; id != nil {
		existing, err := tx.DataSourceByID(ctx, *id)
		if err != nil {
			return Internal(err)
		}

		if existing == nil {
			return dataSourceNotFound(*id)
		}

		return nil
	}

	draft := meta.Source.New

	if u, err := url.ParseRequestURI(draft.Link); err != nil || u.Scheme == "" || u.Host == "" {
		return dataSourceLinkInvalid(draft.Link)
	}

	if draft.Name == "" || draft.Description == "" {
		return dataSourceIncomplete()
	}

	existing, err := tx.DataSourceByName(ctx, draft.Name)
	if err != nil {
		return Internal(err)
	}

	if existing != nil {
		return duplicateDataSource(*existing)
	}

	return nil
}

// resolveSource returns the source id to stamp on every fact, creating the
// new data source if the metadata declared one. checkSource has already
// passed by the time this runs.
func (p *Pipeline) resolveSource(ctx context.Context, tx Tx, meta *models.UploadMetadata) (int32, error) {
	if meta.Source.ExistingID != nil {
		return *meta.Source.ExistingID, nil
	}

	id, err := tx.CreateDataSource(ctx, *meta.Source.New)
	if err != nil {
		return 0, Internal(err)
	}

	return id, nil
}

// resolveDatasets builds the column → dataset resolution table, creating
// inline drafts and looking up existing ids for their geography type.
func (p *Pipeline) resolveDatasets(ctx context.Context, tx Tx, meta *models.UploadMetadata) (map[string]resolvedDataset, error) {
	datasets := make(map[string]resolvedDataset, len(meta.Datasets))

	for i := range meta.Datasets {
		mapping := &meta.Datasets[i]

		if mapping.New != nil {
			created, err := tx.CreateDataset(ctx, *mapping.New, meta.GeographyType)
			if err != nil {
				return nil, Internal(err)
			}

			datasets[mapping.Column] = resolvedDataset{id: created.ID, geographyType: created.GeographyType}

			continue
		}

		existing, err := tx.DatasetByID(ctx, *mapping.ExistingID)
		if err != nil {
			if errors.Is(err, models.ErrDatasetNotFound) {
				return nil, InvalidMetadata(err)
			}

			return nil, Internal(err)
		}

		datasets[mapping.Column] = resolvedDataset{id: existing.ID, geographyType: existing.GeographyType}
	}

	return datasets, nil
}

// materialize joins parsed facts to resolved dataset ids. Every fact must
// find its dataset key in the resolution table; a miss is an invariant
// violation, never a silent skip, so the resolved count always equals the
// parsed count.
func materialize(facts FactSet, datasets map[string]resolvedDataset, sourceID int32) ([]ResolvedFact, error) {
	resolved := make([]ResolvedFact, 0, len(facts))

	for _, fact := range facts {
		ds, ok := datasets[fact.Dataset]
		if !ok {
			return nil, Internal(errors.New("could not match dataset " + fact.Dataset + " to parsed data"))
		}

		resolved = append(resolved, ResolvedFact{
			GeoID:         fact.GeoID,
			GeographyType: ds.geographyType,
			Source:        sourceID,
			Dataset:       ds.id,
			StartDate:     fact.StartDate,
			EndDate:       fact.EndDate,
			Value:         fact.Value,
		})
	}

	return resolved, nil
}

// commit probes for a collision with already persisted data, then performs
// the set-oriented insert and reports the affected row count.
func (p *Pipeline) commit(ctx context.Context, tx Tx, facts []ResolvedFact) (int64, error) {
	existing, err := tx.FirstDuplicateMeasurement(ctx, facts)
	if err != nil {
		return 0, Internal(err)
	}

	if existing != nil {
		return 0, duplicateDataInStore(existing)
	}

	inserted, err := tx.InsertMeasurements(ctx, facts)
	if err != nil {
		return 0, AsError(err)
	}

	return inserted, nil
}
