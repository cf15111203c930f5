package database

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type environmentStoreImpl struct {
	db *DB
}

type EnvironmentStore interface {
	Create(ctx context.Context, env Environment) (Environment, error)
	ByName(ctx context.Context, name string) (Environment, error)
	List(ctx context.Context) ([]Environment, error)
	// NextVersion bumps latest_version and returns the new number.
	NextVersion(ctx context.Context, name string) (int, error)
	Update(ctx context.Context, env Environment) (Environment, error)
}

func NewEnvironmentStore() EnvironmentStore {
	return &environmentStoreImpl{
		db: defaultDB,
	}
}

func NewEnvironmentStoreWithDB(db *DB) EnvironmentStore {
	return &environmentStoreImpl{
		db: db,
	}
}

type Environment struct {
	ID            int64  `bun:",pk,autoincrement" json:"id"`
	Name          string `bun:",notnull,unique" json:"name"`
	Description   string `bun:",nullzero" json:"description"`
	LatestVersion int    `bun:",notnull,default:0" json:"latest_version"`
	// image of the latest successful build
	Image string `bun:",nullzero" json:"image"`
	times
}

type EnvironmentBuild struct {
	ID            int64                        `bun:",pk,autoincrement" json:"id"`
	BuildID       string                       `bun:",notnull,unique" json:"build_id"`
	EnvironmentID int64                        `bun:",notnull" json:"environment_id"`
	Environment   *Environment                 `bun:"rel:belongs-to,join:environment_id=id" json:"environment"`
	Version       int                          `bun:",notnull" json:"version"`
	Dockerfile    string                       `bun:",notnull" json:"dockerfile"`
	BuildArgs     map[string]string            `bun:",type:jsonb,nullzero" json:"build_args"`
	Image         string                       `bun:",nullzero" json:"image"`
	Status        types.EnvironmentBuildStatus `bun:",notnull" json:"status"`
	Message       string                       `bun:",nullzero" json:"message"`
	PoolID        string                       `bun:"" json:"pool_id"`

	StartedAt  time.Time `bun:",nullzero" json:"started_at"`
	FinishedAt time.Time `bun:",nullzero" json:"finished_at"`
	times
}

func (s *environmentStoreImpl) Create(ctx context.Context, env Environment) (Environment, error) {
	err := s.db.Operator.Core.NewInsert().Model(&env).Scan(ctx, &env)
	return env, errorx.HandleDBError(err, nil)
}

func (s *environmentStoreImpl) ByName(ctx context.Context, name string) (Environment, error) {
	var env Environment
	err := s.db.Operator.Core.NewSelect().Model(&env).Where("name = ?", name).Scan(ctx)
	return env, errorx.HandleDBError(err, errorx.Ctx().Set("environment", name))
}

func (s *environmentStoreImpl) List(ctx context.Context) ([]Environment, error) {
	var envs []Environment
	err := s.db.Operator.Core.NewSelect().Model(&envs).Order("name").Scan(ctx)
	return envs, errorx.HandleDBError(err, nil)
}

func (s *environmentStoreImpl) NextVersion(ctx context.Context, name string) (int, error) {
	var env Environment
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&env).
			Where("name = ?", name).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}
		env.LatestVersion += 1
		env.UpdatedAt = time.Now()
		_, err = tx.NewUpdate().Model(&env).WherePK().Exec(ctx)
		return err
	})
	return env.LatestVersion, errorx.HandleDBError(err, errorx.Ctx().Set("environment", name))
}

func (s *environmentStoreImpl) Update(ctx context.Context, env Environment) (Environment, error) {
	env.UpdatedAt = time.Now()
	_, err := s.db.Operator.Core.NewUpdate().Model(&env).WherePK().Exec(ctx)
	return env, errorx.HandleDBError(err, nil)
}

type environmentBuildStoreImpl struct {
	db *DB
}

type EnvironmentBuildStore interface {
	Create(ctx context.Context, build EnvironmentBuild) (EnvironmentBuild, error)
	ByBuildID(ctx context.Context, buildID string) (*EnvironmentBuild, error)
	ListByEnvironmentID(ctx context.Context, environmentID int64, per, page int) ([]EnvironmentBuild, error)
	RunningByEnvironmentID(ctx context.Context, environmentID int64) ([]EnvironmentBuild, error)
	UpdateStatus(ctx context.Context, buildID string, status types.EnvironmentBuildStatus, message string) error
	// MarkSucceeded flips the build and publishes the image onto the
	// environment row in one transaction.
	MarkSucceeded(ctx context.Context, buildID string, image string) error
}

func NewEnvironmentBuildStore() EnvironmentBuildStore {
	return &environmentBuildStoreImpl{
		db: defaultDB,
	}
}

func NewEnvironmentBuildStoreWithDB(db *DB) EnvironmentBuildStore {
	return &environmentBuildStoreImpl{
		db: db,
	}
}

func (s *environmentBuildStoreImpl) Create(ctx context.Context, build EnvironmentBuild) (EnvironmentBuild, error) {
	err := s.db.Operator.Core.NewInsert().Model(&build).Scan(ctx, &build)
	return build, errorx.HandleDBError(err, nil)
}

func (s *environmentBuildStoreImpl) ByBuildID(ctx context.Context, buildID string) (*EnvironmentBuild, error) {
	var build EnvironmentBuild
	err := s.db.Operator.Core.NewSelect().
		Model(&build).
		Relation("Environment").
		Where("environment_build.build_id = ?", buildID).
		Scan(ctx)
	return &build, errorx.HandleDBError(err, errorx.Ctx().Set("build_id", buildID))
}

func (s *environmentBuildStoreImpl) ListByEnvironmentID(ctx context.Context, environmentID int64, per, page int) ([]EnvironmentBuild, error) {
	var builds []EnvironmentBuild
	err := s.db.Operator.Core.NewSelect().
		Model(&builds).
		Where("environment_id = ?", environmentID).
		Order("version DESC").
		Limit(per).
		Offset((page - 1) * per).
		Scan(ctx)
	return builds, errorx.HandleDBError(err, nil)
}

func (s *environmentBuildStoreImpl) RunningByEnvironmentID(ctx context.Context, environmentID int64) ([]EnvironmentBuild, error) {
	var builds []EnvironmentBuild
	err := s.db.Operator.Core.NewSelect().
		Model(&builds).
		Where("environment_id = ?", environmentID).
		Where("status IN (?)", bun.In([]types.EnvironmentBuildStatus{
			types.BuildStatusPending,
			types.BuildStatusBuilding,
		})).
		Scan(ctx)
	return builds, errorx.HandleDBError(err, nil)
}

func (s *environmentBuildStoreImpl) UpdateStatus(ctx context.Context, buildID string, status types.EnvironmentBuildStatus, message string) error {
	q := s.db.Operator.Core.NewUpdate().
		Model((*EnvironmentBuild)(nil)).
		Set("status = ?", status).
		Set("message = ?", message).
		Set("updated_at = ?", time.Now()).
		Where("build_id = ?", buildID)
	switch status {
	case types.BuildStatusBuilding:
		q = q.Set("started_at = ?", time.Now())
	case types.BuildStatusFailed, types.BuildStatusStopped:
		q = q.Set("finished_at = ?", time.Now())
	}
	_, err := q.Exec(ctx)
	return errorx.HandleDBError(err, errorx.Ctx().Set("build_id", buildID))
}

func (s *environmentBuildStoreImpl) MarkSucceeded(ctx context.Context, buildID string, image string) error {
	err := s.db.Operator.Core.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var build EnvironmentBuild
		err := tx.NewSelect().
			Model(&build).
			Where("build_id = ?", buildID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}
		build.Status = types.BuildStatusSucceeded
		build.Image = image
		build.FinishedAt = time.Now()
		build.UpdatedAt = time.Now()
		if _, err := tx.NewUpdate().Model(&build).WherePK().Exec(ctx); err != nil {
			return err
		}
		_, err = tx.NewUpdate().
			Model((*Environment)(nil)).
			Set("image = ?", image).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", build.EnvironmentID).
			Exec(ctx)
		return err
	})
	return errorx.HandleDBError(err, errorx.Ctx().Set("build_id", buildID))
}
