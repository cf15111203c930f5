package migrations

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/types"
)

type Environment struct {
	ID            int64  `bun:",pk,autoincrement" json:"id"`
	Name          string `bun:",notnull,unique" json:"name"`
	Description   string `bun:",nullzero" json:"description"`
	LatestVersion int    `bun:",notnull,default:0" json:"latest_version"`
	Image         string `bun:",nullzero" json:"image"`
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

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, Environment{}, EnvironmentBuild{})
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*EnvironmentBuild)(nil)).
			Index("idx_environment_builds_environment_id").
			Column("environment_id").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, EnvironmentBuild{}, Environment{})
	})
}
