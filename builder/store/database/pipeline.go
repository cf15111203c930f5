package database

import (
	"context"
	"time"

	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type pipelineRunStoreImpl struct {
	db *DB
}

type PipelineRunStore interface {
	Create(ctx context.Context, run PipelineRun) (PipelineRun, error)
	ByID(ctx context.Context, id int64) (*PipelineRun, error)
	ByWorkflowID(ctx context.Context, workflowID string) (*PipelineRun, error)
	ByExperiment(ctx context.Context, experiment string, per, page int) ([]PipelineRun, int, error)
	List(ctx context.Context, per, page int) ([]PipelineRun, int, error)
	Update(ctx context.Context, run PipelineRun) (PipelineRun, error)
	UpdateStage(ctx context.Context, workflowID string, stage types.PipelineStage) error
	MarkFinished(ctx context.Context, workflowID string, status types.PipelineRunStatus, message string) error
}

func NewPipelineRunStore() PipelineRunStore {
	return &pipelineRunStoreImpl{
		db: defaultDB,
	}
}

func NewPipelineRunStoreWithDB(db *DB) PipelineRunStore {
	return &pipelineRunStoreImpl{
		db: db,
	}
}

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

func (s *pipelineRunStoreImpl) Create(ctx context.Context, run PipelineRun) (PipelineRun, error) {
	err := s.db.Operator.Core.NewInsert().Model(&run).Scan(ctx, &run)
	return run, errorx.HandleDBError(err, nil)
}

func (s *pipelineRunStoreImpl) ByID(ctx context.Context, id int64) (*PipelineRun, error) {
	var run PipelineRun
	err := s.db.Operator.Core.NewSelect().Model(&run).Where("id = ?", id).Scan(ctx)
	return &run, errorx.HandleDBError(err, errorx.Ctx().Set("pipeline_run_id", id))
}

func (s *pipelineRunStoreImpl) ByWorkflowID(ctx context.Context, workflowID string) (*PipelineRun, error) {
	var run PipelineRun
	err := s.db.Operator.Core.NewSelect().Model(&run).Where("workflow_id = ?", workflowID).Scan(ctx)
	return &run, errorx.HandleDBError(err, errorx.Ctx().Set("workflow_id", workflowID))
}

func (s *pipelineRunStoreImpl) ByExperiment(ctx context.Context, experiment string, per, page int) ([]PipelineRun, int, error) {
	var runs []PipelineRun
	q := s.db.Operator.Core.NewSelect().Model(&runs).Where("experiment = ?", experiment)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errorx.HandleDBError(err, nil)
	}
	err = q.Order("created_at DESC").
		Limit(per).
		Offset((page - 1) * per).
		Scan(ctx)
	return runs, total, errorx.HandleDBError(err, nil)
}

func (s *pipelineRunStoreImpl) List(ctx context.Context, per, page int) ([]PipelineRun, int, error) {
	var runs []PipelineRun
	q := s.db.Operator.Core.NewSelect().Model(&runs)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errorx.HandleDBError(err, nil)
	}
	err = q.Order("created_at DESC").
		Limit(per).
		Offset((page - 1) * per).
		Scan(ctx)
	return runs, total, errorx.HandleDBError(err, nil)
}

func (s *pipelineRunStoreImpl) Update(ctx context.Context, run PipelineRun) (PipelineRun, error) {
	run.UpdatedAt = time.Now()
	_, err := s.db.Operator.Core.NewUpdate().Model(&run).WherePK().Exec(ctx)
	return run, errorx.HandleDBError(err, nil)
}

func (s *pipelineRunStoreImpl) UpdateStage(ctx context.Context, workflowID string, stage types.PipelineStage) error {
	_, err := s.db.Operator.Core.NewUpdate().
		Model((*PipelineRun)(nil)).
		Set("stage = ?", stage).
		Set("status = ?", types.PipelineRunStatusRunning).
		Set("updated_at = ?", time.Now()).
		Where("workflow_id = ?", workflowID).
		Exec(ctx)
	return errorx.HandleDBError(err, errorx.Ctx().Set("workflow_id", workflowID))
}

func (s *pipelineRunStoreImpl) MarkFinished(ctx context.Context, workflowID string, status types.PipelineRunStatus, message string) error {
	_, err := s.db.Operator.Core.NewUpdate().
		Model((*PipelineRun)(nil)).
		Set("status = ?", status).
		Set("message = ?", message).
		Set("finished_at = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("workflow_id = ?", workflowID).
		Exec(ctx)
	return errorx.HandleDBError(err, errorx.Ctx().Set("workflow_id", workflowID))
}
