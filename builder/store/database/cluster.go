package database

import (
	"context"
	"time"

	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type computeClusterStoreImpl struct {
	db *DB
}

type ComputeClusterStore interface {
	Create(ctx context.Context, cluster ComputeCluster) (ComputeCluster, error)
	ByName(ctx context.Context, name string) (ComputeCluster, error)
	List(ctx context.Context) ([]ComputeCluster, error)
	Update(ctx context.Context, cluster ComputeCluster) (ComputeCluster, error)
	UpdateStatus(ctx context.Context, name string, status types.ComputeClusterStatus, message string) error
	Delete(ctx context.Context, name string) error
}

func NewComputeClusterStore() ComputeClusterStore {
	return &computeClusterStoreImpl{
		db: defaultDB,
	}
}

func NewComputeClusterStoreWithDB(db *DB) ComputeClusterStore {
	return &computeClusterStoreImpl{
		db: db,
	}
}

type ComputeCluster struct {
	ID           int64                      `bun:",pk,autoincrement" json:"id"`
	Name         string                     `bun:",notnull,unique" json:"name"`
	DisplayName  string                     `bun:"" json:"display_name"`
	InstanceSize string                     `bun:",notnull" json:"instance_size"`
	NodeCount    int                        `bun:",notnull" json:"node_count"`
	PoolID       string                     `bun:"" json:"pool_id"`
	Status       types.ComputeClusterStatus `bun:",notnull" json:"status"`
	Message      string                     `bun:",nullzero" json:"message"`
	times
}

func (s *computeClusterStoreImpl) Create(ctx context.Context, cluster ComputeCluster) (ComputeCluster, error) {
	err := s.db.Operator.Core.NewInsert().Model(&cluster).Scan(ctx, &cluster)
	return cluster, errorx.HandleDBError(err, nil)
}

func (s *computeClusterStoreImpl) ByName(ctx context.Context, name string) (ComputeCluster, error) {
	var cluster ComputeCluster
	err := s.db.Operator.Core.NewSelect().Model(&cluster).Where("name = ?", name).Scan(ctx)
	return cluster, errorx.HandleDBError(err, errorx.Ctx().Set("cluster", name))
}

func (s *computeClusterStoreImpl) List(ctx context.Context) ([]ComputeCluster, error) {
	var clusters []ComputeCluster
	err := s.db.Operator.Core.NewSelect().Model(&clusters).Order("name").Scan(ctx)
	return clusters, errorx.HandleDBError(err, nil)
}

func (s *computeClusterStoreImpl) Update(ctx context.Context, cluster ComputeCluster) (ComputeCluster, error) {
	cluster.UpdatedAt = time.Now()
	_, err := s.db.Operator.Core.NewUpdate().Model(&cluster).WherePK().Exec(ctx)
	return cluster, errorx.HandleDBError(err, nil)
}

func (s *computeClusterStoreImpl) UpdateStatus(ctx context.Context, name string, status types.ComputeClusterStatus, message string) error {
	_, err := s.db.Operator.Core.NewUpdate().
		Model((*ComputeCluster)(nil)).
		Set("status = ?", status).
		Set("message = ?", message).
		Set("updated_at = ?", time.Now()).
		Where("name = ?", name).
		Exec(ctx)
	return errorx.HandleDBError(err, errorx.Ctx().Set("cluster", name))
}

func (s *computeClusterStoreImpl) Delete(ctx context.Context, name string) error {
	_, err := s.db.Operator.Core.NewDelete().
		Model((*ComputeCluster)(nil)).
		Where("name = ?", name).
		Exec(ctx)
	return errorx.HandleDBError(err, nil)
}
