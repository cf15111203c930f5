package migrations

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"tunehub.io/tunehub-server/common/types"
)

type PipelineRun struct {
	ID               int64                   `bun:",pk,autoincrement" json:"id"`
	WorkflowID       string                  `bun:",notnull,unique" json:"workflow_id"`
	Experiment       string                  `bun:",notnull" json:"experiment"`
	Status           types.PipelineRunStatus `bun:",notnull" json:"status"`
	Stage            types.PipelineStage     `bun:",nullzero" json:"stage"`
	Settings         string                  `bun:",notnull" json:"settings"`
	Accelerator      string                  `bun:",nullzero" json:"accelerator"`
	TrainJobName     string                  `bun:",nullzero" json:"train_job_name"`
	ModelName        string                  `bun:",nullzero" json:"model_name"`
	ModelVersion     int                     `bun:",nullzero" json:"model_version"`
	DatasetName      string                  `bun:",nullzero" json:"dataset_name"`
	DatasetVersion   int                     `bun:",nullzero" json:"dataset_version"`
	Message          string                  `bun:",nullzero" json:"message"`
	DeployAfterTrain bool                    `bun:",notnull,default:false" json:"deploy_after_train"`

	StartedAt  time.Time `bun:",nullzero" json:"started_at"`
	FinishedAt time.Time `bun:",nullzero" json:"finished_at"`
	times
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		err := createTables(ctx, db, PipelineRun{})
		if err != nil {
			return err
		}
		_, err = db.NewCreateIndex().
			Model((*PipelineRun)(nil)).
			Index("idx_pipeline_runs_experiment").
			Column("experiment").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		return dropTables(ctx, db, PipelineRun{})
	})
}
