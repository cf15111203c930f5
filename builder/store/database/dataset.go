package database

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type datasetStoreImpl struct {
	db *DB
}

type DatasetStore interface {
	Create(ctx context.Context, dataset Dataset) (Dataset, error)
	ByName(ctx context.Context, name string) (Dataset, error)
	List(ctx context.Context, per, page int) ([]Dataset, int, error)
	// NextVersion bumps latest_version and returns the new number.
	NextVersion(ctx context.Context, name string) (int, error)
}

func NewDatasetStore() DatasetStore {
	return &datasetStoreImpl{
		db: defaultDB,
	}
}

func NewDatasetStoreWithDB(db *DB) DatasetStore {
	return &datasetStoreImpl{
		db: db,
	}
}

type Dataset struct {
	ID   int64  `bun:",pk,autoincrement" json:"id"`
	Name string `bun:",notnull,unique" json:"name"`
	Task string `bun:",notnull" json:"task"`
	// where the raw split files come from, kept so a later version can be
	// prepared without re-supplying the urls
	SourceURLs    map[string]string `bun:",type:jsonb,nullzero" json:"source_urls"`
	VocabURL      string            `bun:",nullzero" json:"vocab_url"`
	LatestVersion int               `bun:",notnull,default:0" json:"latest_version"`
	times
}

type DatasetVersion struct {
	ID        int64                      `bun:",pk,autoincrement" json:"id"`
	DatasetID int64                      `bun:",notnull,unique:dataset_version_uq" json:"dataset_id"`
	Dataset   *Dataset                   `bun:"rel:belongs-to,join:dataset_id=id" json:"dataset"`
	Version   int                        `bun:",notnull,unique:dataset_version_uq" json:"version"`
	Status    types.DatasetVersionStatus `bun:",notnull" json:"status"`
	// s3 prefix holding the tokenized parquet shards, one dir per split
	StoragePrefix     string                           `bun:",nullzero" json:"storage_prefix"`
	Model             string                           `bun:",nullzero" json:"model"`
	VocabFingerprint  string                           `bun:",nullzero" json:"vocab_fingerprint"`
	MaxSequenceLength int                              `bun:",notnull,default:0" json:"max_sequence_length"`
	SizeBytes         int64                            `bun:",notnull,default:0" json:"size_bytes"`
	Splits            map[string]types.DatasetSplitRes `bun:",type:jsonb,nullzero" json:"splits"`
	Metadata          map[string]string                `bun:",type:jsonb,nullzero" json:"metadata"`
	Message           string                           `bun:",nullzero" json:"message"`
	times
}

func (s *datasetStoreImpl) Create(ctx context.Context, dataset Dataset) (Dataset, error) {
	err := s.db.Operator.Core.NewInsert().Model(&dataset).Scan(ctx, &dataset)
	return dataset, errorx.HandleDBError(err, nil)
}

func (s *datasetStoreImpl) ByName(ctx context.Context, name string) (Dataset, error) {
	var dataset Dataset
	err := s.db.Operator.Core.NewSelect().Model(&dataset).Where("name = ?", name).Scan(ctx)
	return dataset, errorx.HandleDBError(err, errorx.Ctx().Set("dataset", name))
}

func (s *datasetStoreImpl) List(ctx context.Context, per, page int) ([]Dataset, int, error) {
	var datasets []Dataset
	q := s.db.Operator.Core.NewSelect().Model(&datasets)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errorx.HandleDBError(err, nil)
	}
	err = q.Order("name").
		Limit(per).
		Offset((page - 1) * per).
		Scan(ctx)
	return datasets, total, errorx.HandleDBError(err, nil)
}

func (s *datasetStoreImpl) NextVersion(ctx context.Context, name string) (int, error) {
	var dataset Dataset
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&dataset).
			Where("name = ?", name).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}
		dataset.LatestVersion += 1
		dataset.UpdatedAt = time.Now()
		_, err = tx.NewUpdate().Model(&dataset).WherePK().Exec(ctx)
		return err
	})
	return dataset.LatestVersion, errorx.HandleDBError(err, errorx.Ctx().Set("dataset", name))
}

type datasetVersionStoreImpl struct {
	db *DB
}

type DatasetVersionStore interface {
	Create(ctx context.Context, version DatasetVersion) (DatasetVersion, error)
	ByNameAndVersion(ctx context.Context, name string, version int) (*DatasetVersion, error)
	// LatestReady returns the newest Ready version of the dataset.
	LatestReady(ctx context.Context, name string) (*DatasetVersion, error)
	ListByDatasetID(ctx context.Context, datasetID int64) ([]DatasetVersion, error)
	Update(ctx context.Context, version DatasetVersion) (DatasetVersion, error)
	MarkFailed(ctx context.Context, id int64, message string) error
}

func NewDatasetVersionStore() DatasetVersionStore {
	return &datasetVersionStoreImpl{
		db: defaultDB,
	}
}

func NewDatasetVersionStoreWithDB(db *DB) DatasetVersionStore {
	return &datasetVersionStoreImpl{
		db: db,
	}
}

func (s *datasetVersionStoreImpl) Create(ctx context.Context, version DatasetVersion) (DatasetVersion, error) {
	err := s.db.Operator.Core.NewInsert().Model(&version).Scan(ctx, &version)
	return version, errorx.HandleDBError(err, nil)
}

func (s *datasetVersionStoreImpl) ByNameAndVersion(ctx context.Context, name string, version int) (*DatasetVersion, error) {
	var dv DatasetVersion
	err := s.db.Operator.Core.NewSelect().
		Model(&dv).
		Relation("Dataset").
		Where("dataset.name = ?", name).
		Where("dataset_version.version = ?", version).
		Scan(ctx)
	return &dv, errorx.HandleDBError(err, errorx.Ctx().Set("dataset", name).Set("version", version))
}

func (s *datasetVersionStoreImpl) LatestReady(ctx context.Context, name string) (*DatasetVersion, error) {
	var dv DatasetVersion
	err := s.db.Operator.Core.NewSelect().
		Model(&dv).
		Relation("Dataset").
		Where("dataset.name = ?", name).
		Where("dataset_version.status = ?", types.DatasetVersionReady).
		Order("dataset_version.version DESC").
		Limit(1).
		Scan(ctx)
	return &dv, errorx.HandleDBError(err, errorx.Ctx().Set("dataset", name))
}

func (s *datasetVersionStoreImpl) ListByDatasetID(ctx context.Context, datasetID int64) ([]DatasetVersion, error) {
	var versions []DatasetVersion
	err := s.db.Operator.Core.NewSelect().
		Model(&versions).
		Where("dataset_id = ?", datasetID).
		Order("version DESC").
		Scan(ctx)
	return versions, errorx.HandleDBError(err, nil)
}

func (s *datasetVersionStoreImpl) Update(ctx context.Context, version DatasetVersion) (DatasetVersion, error) {
	version.UpdatedAt = time.Now()
	_, err := s.db.Operator.Core.NewUpdate().Model(&version).WherePK().Exec(ctx)
	return version, errorx.HandleDBError(err, nil)
}

func (s *datasetVersionStoreImpl) MarkFailed(ctx context.Context, id int64, message string) error {
	_, err := s.db.Operator.Core.NewUpdate().
		Model((*DatasetVersion)(nil)).
		Set("status = ?", types.DatasetVersionFailed).
		Set("message = ?", message).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return errorx.HandleDBError(err, nil)
}
