package database

import (
	"context"
	"time"

	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type inferenceServiceStoreImpl struct {
	db *DB
}

type InferenceServiceStore interface {
	Create(ctx context.Context, svc InferenceService) (InferenceService, error)
	ByName(ctx context.Context, name string) (*InferenceService, error)
	List(ctx context.Context, per, page int) ([]InferenceService, int, error)
	Update(ctx context.Context, svc InferenceService) (InferenceService, error)
	UpdateStatus(ctx context.Context, name string, status types.InferenceStatus, endpoint, message string) error
	Delete(ctx context.Context, name string) error
}

func NewInferenceServiceStore() InferenceServiceStore {
	return &inferenceServiceStoreImpl{
		db: defaultDB,
	}
}

func NewInferenceServiceStoreWithDB(db *DB) InferenceServiceStore {
	return &inferenceServiceStoreImpl{
		db: db,
	}
}

type InferenceService struct {
	ID           int64  `bun:",pk,autoincrement" json:"id"`
	Name         string `bun:",notnull,unique" json:"name"`
	ModelName    string `bun:",notnull" json:"model_name"`
	ModelVersion int    `bun:",notnull" json:"model_version"`
	Image        string `bun:",notnull" json:"image"`
	Command      string `bun:",nullzero" json:"command"`
	// 1 means a plain knative service, more means a leader worker set
	NodeCount    int                   `bun:",notnull,default:1" json:"node_count"`
	ProcessCount int                   `bun:",notnull,default:1" json:"process_count"`
	ComputeSize  string                `bun:",nullzero" json:"compute_size"`
	Status       types.InferenceStatus `bun:",notnull" json:"status"`
	Endpoint     string                `bun:",nullzero" json:"endpoint"`
	Message      string                `bun:",nullzero" json:"message"`
	PoolID       string                `bun:"" json:"pool_id"`
	times
}

func (s *inferenceServiceStoreImpl) Create(ctx context.Context, svc InferenceService) (InferenceService, error) {
	err := s.db.Operator.Core.NewInsert().Model(&svc).Scan(ctx, &svc)
	return svc, errorx.HandleDBError(err, nil)
}

func (s *inferenceServiceStoreImpl) ByName(ctx context.Context, name string) (*InferenceService, error) {
	var svc InferenceService
	err := s.db.Operator.Core.NewSelect().Model(&svc).Where("name = ?", name).Scan(ctx)
	return &svc, errorx.HandleDBError(err, errorx.Ctx().Set("service", name))
}

func (s *inferenceServiceStoreImpl) List(ctx context.Context, per, page int) ([]InferenceService, int, error) {
	var svcs []InferenceService
	q := s.db.Operator.Core.NewSelect().Model(&svcs)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errorx.HandleDBError(err, nil)
	}
	err = q.Order("created_at DESC").
		Limit(per).
		Offset((page - 1) * per).
		Scan(ctx)
	return svcs, total, errorx.HandleDBError(err, nil)
}

func (s *inferenceServiceStoreImpl) Update(ctx context.Context, svc InferenceService) (InferenceService, error) {
	svc.UpdatedAt = time.Now()
	_, err := s.db.Operator.Core.NewUpdate().Model(&svc).WherePK().Exec(ctx)
	return svc, errorx.HandleDBError(err, nil)
}

func (s *inferenceServiceStoreImpl) UpdateStatus(ctx context.Context, name string, status types.InferenceStatus, endpoint, message string) error {
	q := s.db.Operator.Core.NewUpdate().
		Model((*InferenceService)(nil)).
		Set("status = ?", status).
		Set("message = ?", message).
		Set("updated_at = ?", time.Now()).
		Where("name = ?", name)
	if endpoint != "" {
		q = q.Set("endpoint = ?", endpoint)
	}
	_, err := q.Exec(ctx)
	return errorx.HandleDBError(err, errorx.Ctx().Set("service", name))
}

func (s *inferenceServiceStoreImpl) Delete(ctx context.Context, name string) error {
	_, err := s.db.Operator.Core.NewDelete().
		Model((*InferenceService)(nil)).
		Where("name = ?", name).
		Exec(ctx)
	return errorx.HandleDBError(err, nil)
}
