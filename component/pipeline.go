package component

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"tunehub.io/tunehub-server/builder/event"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/builder/temporal"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
	pipelinecommon "tunehub.io/tunehub-server/pipeline/common"
)

type PipelineComponent interface {
	// Submit validates the settings snapshot, records the run and starts
	// the workflow. Re-submitting an experiment whose last run failed
	// reuses the workflow id; a live run rejects the duplicate.
	Submit(ctx context.Context, req types.SubmitPipelineReq) (*types.PipelineRunRes, error)
	Get(ctx context.Context, id int64) (*types.PipelineRunRes, error)
	GetByWorkflowID(ctx context.Context, workflowID string) (*types.PipelineRunRes, error)
	List(ctx context.Context, experiment string, per, page int) ([]types.PipelineRunRes, int, error)
	// Cancel requests workflow cancellation and stops a live train job.
	Cancel(ctx context.Context, workflowID string) error
}

type pipelineComponentImpl struct {
	config   *config.Config
	runStore database.PipelineRunStore
	jobStore database.TrainJobStore
	wfClient temporal.Client
	jobComp  TrainJobComponent
}

func NewPipelineComponent(config *config.Config) (PipelineComponent, error) {
	jobComp, err := NewTrainJobComponent(config)
	if err != nil {
		return nil, err
	}
	return &pipelineComponentImpl{
		config:   config,
		runStore: database.NewPipelineRunStore(),
		jobStore: database.NewTrainJobStore(),
		wfClient: temporal.GetClient(),
		jobComp:  jobComp,
	}, nil
}

func (c *pipelineComponentImpl) Submit(ctx context.Context, req types.SubmitPipelineReq) (*types.PipelineRunRes, error) {
	settings := req.Settings
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, errorx.PipelineSettingsInvalid(err, nil)
	}
	if settings.Experiment == "" {
		return nil, errorx.PipelineSettingsInvalid(
			fmt.Errorf("settings key experiment is required for a pipeline run"), nil)
	}
	if settings.DataDir == "" {
		return nil, errorx.PipelineSettingsInvalid(
			fmt.Errorf("settings key data_dir is required for a pipeline run"), nil)
	}

	accelerator := req.Accelerator
	if len(accelerator) == 0 {
		accelerator = types.DefaultAcceleratorConfig()
	}
	if err := accelerator.Validate(); err != nil {
		return nil, errorx.PipelineSettingsInvalid(err, nil)
	}
	accelerator, err := accelerator.Compact()
	if err != nil {
		return nil, errorx.PipelineSettingsInvalid(err, nil)
	}

	settingsSnapshot, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot settings: %w", err)
	}

	workflowID := fmt.Sprintf("fine-tune-%s", settings.Experiment)
	run, err := c.ensureRunRecord(ctx, workflowID, settings, string(settingsSnapshot), accelerator, req.DeployAfterTrain)
	if err != nil {
		return nil, err
	}

	params := pipelinecommon.PipelineParams{
		WorkflowID:       workflowID,
		Settings:         settings,
		Accelerator:      accelerator,
		DeployAfterTrain: req.DeployAfterTrain,
	}
	we, err := c.wfClient.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       workflowID,
		TaskQueue:                pipelinecommon.FineTuneQueue,
		WorkflowExecutionTimeout: time.Duration(c.config.WorkFlow.ExecutionTimeout) * time.Second,
		WorkflowTaskTimeout:      time.Duration(c.config.WorkFlow.TaskTimeout) * time.Second,
		WorkflowIDReusePolicy:    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}, pipelinecommon.FineTuneWorkflowName, params, c.config)
	if err != nil {
		if merr := c.runStore.MarkFinished(ctx, workflowID, types.PipelineRunStatusFailed, err.Error()); merr != nil {
			slog.ErrorContext(ctx, "failed to mark unstartable run", slog.Any("error", merr))
		}
		return nil, errorx.PipelineStageFailed(
			fmt.Errorf("failed to start workflow: %w", err),
			errorx.Ctx().Set("workflow_id", workflowID),
		)
	}
	slog.InfoContext(ctx, "pipeline run started",
		slog.String("workflow_id", we.GetID()), slog.String("run_id", we.GetRunID()),
		slog.String("experiment", settings.Experiment))

	c.publishRunEvent(ctx, run, types.PipelineRunStatusPending)
	res := toPipelineRunRes(*run)
	return &res, nil
}

// ensureRunRecord creates the run row, or resets it when a previous run of
// the same experiment ended in failure. A run that is still live refuses
// resubmission, matching the workflow id reuse policy.
func (c *pipelineComponentImpl) ensureRunRecord(ctx context.Context, workflowID string, settings *types.PipelineSettings, snapshot string, accelerator types.AcceleratorConfig, deploy bool) (*database.PipelineRun, error) {
	run, err := c.runStore.Create(ctx, database.PipelineRun{
		WorkflowID:       workflowID,
		Experiment:       settings.Experiment,
		Status:           types.PipelineRunStatusPending,
		Settings:         snapshot,
		Accelerator:      accelerator.String(),
		DatasetName:      settings.DataDir,
		DeployAfterTrain: deploy,
	})
	if err == nil {
		return &run, nil
	}
	if !errors.Is(err, errorx.ErrDatabaseDuplicateKey) {
		return nil, err
	}

	prior, err := c.runStore.ByWorkflowID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if prior.Status != types.PipelineRunStatusFailed && prior.Status != types.PipelineRunStatusCanceled {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("experiment %s already has a %s run", settings.Experiment, prior.Status), nil)
	}
	prior.Status = types.PipelineRunStatusPending
	prior.Stage = ""
	prior.Settings = snapshot
	prior.Accelerator = accelerator.String()
	prior.TrainJobName = ""
	prior.ModelName = ""
	prior.ModelVersion = 0
	prior.DatasetName = settings.DataDir
	prior.DatasetVersion = 0
	prior.Message = ""
	prior.DeployAfterTrain = deploy
	prior.StartedAt = time.Time{}
	prior.FinishedAt = time.Time{}
	updated, err := c.runStore.Update(ctx, *prior)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *pipelineComponentImpl) Get(ctx context.Context, id int64) (*types.PipelineRunRes, error) {
	run, err := c.runStore.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toPipelineRunRes(*run)
	return &res, nil
}

func (c *pipelineComponentImpl) GetByWorkflowID(ctx context.Context, workflowID string) (*types.PipelineRunRes, error) {
	run, err := c.runStore.ByWorkflowID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	res := toPipelineRunRes(*run)
	return &res, nil
}

func (c *pipelineComponentImpl) List(ctx context.Context, experiment string, per, page int) ([]types.PipelineRunRes, int, error) {
	var (
		runs  []database.PipelineRun
		total int
		err   error
	)
	if experiment != "" {
		runs, total, err = c.runStore.ByExperiment(ctx, experiment, per, page)
	} else {
		runs, total, err = c.runStore.List(ctx, per, page)
	}
	if err != nil {
		return nil, 0, err
	}
	res := make([]types.PipelineRunRes, 0, len(runs))
	for _, run := range runs {
		res = append(res, toPipelineRunRes(run))
	}
	return res, total, nil
}

func (c *pipelineComponentImpl) Cancel(ctx context.Context, workflowID string) error {
	run, err := c.runStore.ByWorkflowID(ctx, workflowID)
	if err != nil {
		return err
	}
	if run.Status.IsTerminal() {
		return errorx.ReqParamInvalid(
			fmt.Errorf("run %s already ended %s", workflowID, run.Status), nil)
	}

	if err := c.wfClient.CancelWorkflow(ctx, workflowID, ""); err != nil {
		return errorx.PipelineStageFailed(
			fmt.Errorf("failed to cancel workflow: %w", err),
			errorx.Ctx().Set("workflow_id", workflowID),
		)
	}

	if run.TrainJobName != "" {
		job, err := c.jobStore.ByName(ctx, run.TrainJobName)
		if err == nil && !job.Status.IsTerminal() {
			if err := c.jobComp.Stop(ctx, run.TrainJobName); err != nil {
				slog.ErrorContext(ctx, "failed to stop train job of canceled run",
					slog.Any("error", err), slog.String("job_name", run.TrainJobName))
			}
		}
	}
	return c.runStore.MarkFinished(ctx, workflowID, types.PipelineRunStatusCanceled, "canceled by request")
}

func (c *pipelineComponentImpl) publishRunEvent(ctx context.Context, run *database.PipelineRun, status types.PipelineRunStatus) {
	payload, err := json.Marshal(map[string]any{
		"workflow_id": run.WorkflowID,
		"experiment":  run.Experiment,
		"status":      status,
	})
	if err != nil {
		return
	}
	if err := event.DefaultEventPublisher.PublishPipelineEvent(payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish pipeline event",
			slog.Any("error", err), slog.String("workflow_id", run.WorkflowID))
	}
}

func toPipelineRunRes(run database.PipelineRun) types.PipelineRunRes {
	return types.PipelineRunRes{
		ID:             run.ID,
		WorkflowID:     run.WorkflowID,
		Experiment:     run.Experiment,
		Status:         run.Status,
		Stage:          run.Stage,
		TrainJobName:   run.TrainJobName,
		ModelName:      run.ModelName,
		ModelVersion:   run.ModelVersion,
		DatasetName:    run.DatasetName,
		DatasetVersion: run.DatasetVersion,
		Message:        run.Message,
		CreatedAt:      run.CreatedAt,
		UpdatedAt:      run.UpdatedAt,
	}
}
