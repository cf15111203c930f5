package migrations

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/types"
)

type TrainJob struct {
	ID             int64                `bun:",pk,autoincrement" json:"id"`
	Name           string               `bun:",notnull,unique" json:"name"`
	Experiment     string               `bun:",notnull" json:"experiment"`
	ComputeTarget  string               `bun:",notnull" json:"compute_target"`
	Environment    string               `bun:",notnull" json:"environment"`
	Image          string               `bun:",nullzero" json:"image"`
	DatasetName    string               `bun:",nullzero" json:"dataset_name"`
	DatasetVersion int                  `bun:",notnull,default:0" json:"dataset_version"`
	Command        string               `bun:",notnull" json:"command"`
	NodeCount      int                  `bun:",notnull" json:"node_count"`
	ProcessCount   int                  `bun:",notnull" json:"process_count"`
	Settings       string               `bun:",nullzero" json:"settings"`
	Accelerator    string               `bun:",nullzero" json:"accelerator"`
	Status         types.TrainJobStatus `bun:",notnull" json:"status"`
	Message        string               `bun:",nullzero" json:"message"`
	Reason         string               `bun:",nullzero" json:"reason"`
	SourcePrefix   string               `bun:",nullzero" json:"source_prefix"`
	ArtifactPrefix string               `bun:",nullzero" json:"artifact_prefix"`
	Metrics        map[string]float64   `bun:",type:jsonb,nullzero" json:"metrics"`
	PoolID         string               `bun:"" json:"pool_id"`

	StartedAt  time.Time `bun:",nullzero" json:"started_at"`
	FinishedAt time.Time `bun:",nullzero" json:"finished_at"`
	times
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, TrainJob{})
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*TrainJob)(nil)).
			Index("idx_train_jobs_experiment").
			Column("experiment").
			Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*TrainJob)(nil)).
			Index("idx_train_jobs_status").
			Column("status").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, TrainJob{})
	})
}
