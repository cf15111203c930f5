package database

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type registeredModelStoreImpl struct {
	db *DB
}

type RegisteredModelStore interface {
	// CreateIfNotExist returns the existing row when the name is taken.
	CreateIfNotExist(ctx context.Context, model RegisteredModel) (RegisteredModel, error)
	ByName(ctx context.Context, name string) (RegisteredModel, error)
	List(ctx context.Context, per, page int) ([]RegisteredModel, int, error)
	// RegisterVersion bumps latest_version and inserts the version row
	// in one transaction.
	RegisterVersion(ctx context.Context, name string, version ModelVersion) (ModelVersion, error)
}

func NewRegisteredModelStore() RegisteredModelStore {
	return &registeredModelStoreImpl{
		db: defaultDB,
	}
}

func NewRegisteredModelStoreWithDB(db *DB) RegisteredModelStore {
	return &registeredModelStoreImpl{
		db: db,
	}
}

type RegisteredModel struct {
	ID            int64  `bun:",pk,autoincrement" json:"id"`
	Name          string `bun:",notnull,unique" json:"name"`
	Description   string `bun:",nullzero" json:"description"`
	LatestVersion int    `bun:",notnull,default:0" json:"latest_version"`
	times
}

type ModelVersion struct {
	ID      int64            `bun:",pk,autoincrement" json:"id"`
	ModelID int64            `bun:",notnull,unique:model_version_uq" json:"model_id"`
	Model   *RegisteredModel `bun:"rel:belongs-to,join:model_id=id" json:"model"`
	Version int              `bun:",notnull,unique:model_version_uq" json:"version"`
	JobName string           `bun:",notnull" json:"job_name"`
	// experiment the producing job ran under
	Experiment    string                   `bun:",nullzero" json:"experiment"`
	Status        types.ModelVersionStatus `bun:",notnull" json:"status"`
	StoragePrefix string                   `bun:",notnull" json:"storage_prefix"`
	Metric        string                   `bun:",nullzero" json:"metric"`
	MetricValue   float64                  `bun:",notnull,default:0" json:"metric_value"`
	Tags          map[string]string        `bun:",type:jsonb,nullzero" json:"tags"`
	SizeBytes     int64                    `bun:",notnull,default:0" json:"size_bytes"`
	times
}

func (s *registeredModelStoreImpl) CreateIfNotExist(ctx context.Context, model RegisteredModel) (RegisteredModel, error) {
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing := RegisteredModel{}
		err := tx.NewSelect().Model(&existing).Where("name = ?", model.Name).Scan(ctx)
		if err == nil {
			model = existing
			return nil
		}
		return tx.NewInsert().Model(&model).Scan(ctx, &model)
	})
	return model, errorx.HandleDBError(err, nil)
}

func (s *registeredModelStoreImpl) ByName(ctx context.Context, name string) (RegisteredModel, error) {
	var model RegisteredModel
	err := s.db.Operator.Core.NewSelect().Model(&model).Where("name = ?", name).Scan(ctx)
	return model, errorx.HandleDBError(err, errorx.Ctx().Set("model", name))
}

func (s *registeredModelStoreImpl) List(ctx context.Context, per, page int) ([]RegisteredModel, int, error) {
	var models []RegisteredModel
	q := s.db.Operator.Core.NewSelect().Model(&models)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errorx.HandleDBError(err, nil)
	}
	err = q.Order("name").
		Limit(per).
		Offset((page - 1) * per).
		Scan(ctx)
	return models, total, errorx.HandleDBError(err, nil)
}

func (s *registeredModelStoreImpl) RegisterVersion(ctx context.Context, name string, version ModelVersion) (ModelVersion, error) {
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var model RegisteredModel
		err := tx.NewSelect().
			Model(&model).
			Where("name = ?", name).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}
		model.LatestVersion += 1
		model.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().Model(&model).WherePK().Exec(ctx); err != nil {
			return err
		}
		version.ModelID = model.ID
		version.Version = model.LatestVersion
		return tx.NewInsert().Model(&version).Scan(ctx, &version)
	})
	return version, errorx.HandleDBError(err, errorx.Ctx().Set("model", name))
}

type modelVersionStoreImpl struct {
	db *DB
}

type ModelVersionStore interface {
	ByNameAndVersion(ctx context.Context, name string, version int) (*ModelVersion, error)
	// Latest returns the newest registered version of the model.
	Latest(ctx context.Context, name string) (*ModelVersion, error)
	ListByModelID(ctx context.Context, modelID int64) ([]ModelVersion, error)
	ByJobName(ctx context.Context, jobName string) (*ModelVersion, error)
	Archive(ctx context.Context, name string, version int) error
}

func NewModelVersionStore() ModelVersionStore {
	return &modelVersionStoreImpl{
		db: defaultDB,
	}
}

func NewModelVersionStoreWithDB(db *DB) ModelVersionStore {
	return &modelVersionStoreImpl{
		db: db,
	}
}

func (s *modelVersionStoreImpl) ByNameAndVersion(ctx context.Context, name string, version int) (*ModelVersion, error) {
	var mv ModelVersion
	err := s.db.Operator.Core.NewSelect().
		Model(&mv).
		Relation("Model").
		Where("model.name = ?", name).
		Where("model_version.version = ?", version).
		Scan(ctx)
	return &mv, errorx.HandleDBError(err, errorx.Ctx().Set("model", name).Set("version", version))
}

func (s *modelVersionStoreImpl) Latest(ctx context.Context, name string) (*ModelVersion, error) {
	var mv ModelVersion
	err := s.db.Operator.Core.NewSelect().
		Model(&mv).
		Relation("Model").
		Where("model.name = ?", name).
		Order("model_version.version DESC").
		Limit(1).
		Scan(ctx)
	return &mv, errorx.HandleDBError(err, errorx.Ctx().Set("model", name))
}

func (s *modelVersionStoreImpl) ListByModelID(ctx context.Context, modelID int64) ([]ModelVersion, error) {
	var versions []ModelVersion
	err := s.db.Operator.Core.NewSelect().
		Model(&versions).
		Where("model_id = ?", modelID).
		Order("version DESC").
		Scan(ctx)
	return versions, errorx.HandleDBError(err, nil)
}

func (s *modelVersionStoreImpl) Archive(ctx context.Context, name string, version int) error {
	_, err := s.db.Operator.Core.NewUpdate().
		Model((*ModelVersion)(nil)).
		TableExpr("registered_models AS model").
		Set("status = ?", types.ModelVersionStatusArchived).
		Set("updated_at = ?", time.Now()).
		Where("model.id = model_version.model_id").
		Where("model.name = ?", name).
		Where("model_version.version = ?", version).
		Exec(ctx)
	return errorx.HandleDBError(err, errorx.Ctx().Set("model", name).Set("version", version))
}

func (s *modelVersionStoreImpl) ByJobName(ctx context.Context, jobName string) (*ModelVersion, error) {
	var mv ModelVersion
	err := s.db.Operator.Core.NewSelect().
		Model(&mv).
		Relation("Model").
		Where("model_version.job_name = ?", jobName).
		Scan(ctx)
	return &mv, errorx.HandleDBError(err, errorx.Ctx().Set("job_name", jobName))
}
