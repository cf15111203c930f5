package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/types"
)

type RegisteredModel struct {
	ID            int64  `bun:",pk,autoincrement" json:"id"`
	Name          string `bun:",notnull,unique" json:"name"`
	Description   string `bun:",nullzero" json:"description"`
	LatestVersion int    `bun:",notnull,default:0" json:"latest_version"`
	times
}

type ModelVersion struct {
	ID            int64                    `bun:",pk,autoincrement" json:"id"`
	ModelID       int64                    `bun:",notnull,unique:model_version_uq" json:"model_id"`
	Model         *RegisteredModel         `bun:"rel:belongs-to,join:model_id=id" json:"model"`
	Version       int                      `bun:",notnull,unique:model_version_uq" json:"version"`
	JobName       string                   `bun:",notnull" json:"job_name"`
	Experiment    string                   `bun:",nullzero" json:"experiment"`
	Status        types.ModelVersionStatus `bun:",notnull" json:"status"`
	StoragePrefix string                   `bun:",notnull" json:"storage_prefix"`
	Metric        string                   `bun:",nullzero" json:"metric"`
	MetricValue   float64                  `bun:",notnull,default:0" json:"metric_value"`
	Tags          map[string]string        `bun:",type:jsonb,nullzero" json:"tags"`
	SizeBytes     int64                    `bun:",notnull,default:0" json:"size_bytes"`
	times
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, RegisteredModel{}, ModelVersion{})
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*ModelVersion)(nil)).
			Index("idx_model_versions_job_name").
			Column("job_name").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, ModelVersion{}, RegisteredModel{})
	})
}
