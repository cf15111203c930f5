package workflows

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/pipeline/activity"
	"tunehub.io/tunehub-server/pipeline/common"
)

// FineTunePipelineWorkflow drives one fine-tune run end to end: compute,
// environment, dataset, source bundle, training, registration and an
// optional deployment with a smoke prediction. Stage activities run inside
// a session so local staging (dataset files, source bundle) stays on one
// worker. The terminal status lands on the run record via a deferred
// activity on a disconnected context, so it survives stage failures and
// cancellation alike.
func FineTunePipelineWorkflow(ctx workflow.Context, params common.PipelineParams, config *config.Config) error {
	logger := workflow.GetLogger(ctx)

	retryPolicy := &temporal.RetryPolicy{
		InitialInterval: time.Second,
		MaximumAttempts: config.Pipeline.ActivityMaximumAttempts,
	}
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Duration(config.Pipeline.ActivityStartToCloseTimeout) * time.Second,
		HeartbeatTimeout:    5 * time.Minute,
		RetryPolicy:         retryPolicy,
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, activity.MarkRunStarted, params.WorkflowID, config).Get(ctx, nil); err != nil {
		logger.Error("failed to mark run started", "error", err)
		return err
	}

	runErr := runStages(ctx, params, config)

	finish := common.FinishRunArgs{
		WorkflowID: params.WorkflowID,
		Status:     types.PipelineRunStatusSucceeded,
	}
	if runErr != nil {
		finish.Status = types.PipelineRunStatusFailed
		finish.Message = runErr.Error()
		if temporal.IsCanceledError(runErr) || errors.Is(ctx.Err(), workflow.ErrCanceled) {
			finish.Status = types.PipelineRunStatusCanceled
		}
	}
	// a canceled workflow context no longer schedules activities
	finishCtx := ctx
	if ctx.Err() != nil {
		disconnectedCtx, _ := workflow.NewDisconnectedContext(ctx)
		finishCtx = workflow.WithActivityOptions(disconnectedCtx, options)
	}
	if err := workflow.ExecuteActivity(finishCtx, activity.FinishRun, finish, config).Get(finishCtx, nil); err != nil {
		logger.Error("failed to record run result", "error", err, "status", finish.Status)
	}
	return runErr
}

func runStages(ctx workflow.Context, params common.PipelineParams, config *config.Config) error {
	logger := workflow.GetLogger(ctx)

	sessCtx, err := workflow.CreateSession(ctx, &workflow.SessionOptions{
		CreationTimeout:  10 * time.Minute,
		ExecutionTimeout: time.Duration(config.Pipeline.SessionExecutionTimeout) * time.Minute,
	})
	if err != nil {
		return err
	}
	defer workflow.CompleteSession(sessCtx)

	setStage := func(stage types.PipelineStage) error {
		return workflow.ExecuteActivity(sessCtx, activity.SetRunStage, params.WorkflowID, stage, config).Get(sessCtx, nil)
	}

	// stage 1: compute
	if err := setStage(types.PipelineStageCompute); err != nil {
		return err
	}
	var cluster types.ComputeClusterRes
	if err := workflow.ExecuteActivity(sessCtx, activity.EnsureComputeTarget, params, config).Get(sessCtx, &cluster); err != nil {
		logger.Error("compute stage failed", "error", err, "compute_target", params.Settings.ComputeTarget)
		return err
	}

	// stage 2: environment
	if err := setStage(types.PipelineStageEnvironment); err != nil {
		return err
	}
	var image string
	if err := workflow.ExecuteActivity(sessCtx, activity.EnsureEnvironment, params, config).Get(sessCtx, &image); err != nil {
		logger.Error("environment stage failed", "error", err, "environment", params.Settings.Environment)
		return err
	}

	// stage 3: dataset
	if err := setStage(types.PipelineStageDataset); err != nil {
		return err
	}
	var dataset types.DatasetVersionRes
	if err := workflow.ExecuteActivity(sessCtx, activity.EnsureDataset, params, config).Get(sessCtx, &dataset); err != nil {
		logger.Error("dataset stage failed", "error", err, "dataset", params.Settings.DataDir)
		return err
	}

	// stage 4: training
	if err := setStage(types.PipelineStageTraining); err != nil {
		return err
	}
	var sourcePrefix string
	if err := workflow.ExecuteActivity(sessCtx, activity.PackageSourceBundle, params, config).Get(sessCtx, &sourcePrefix); err != nil {
		logger.Error("source packaging failed", "error", err, "source_directory", params.Settings.SourceDirectory)
		return err
	}
	var jobName string
	submitArgs := common.SubmitJobArgs{
		Params:         params,
		DatasetName:    dataset.DatasetName,
		DatasetVersion: dataset.Version,
		SourcePrefix:   sourcePrefix,
	}
	if err := workflow.ExecuteActivity(sessCtx, activity.SubmitTrainJob, submitArgs, config).Get(sessCtx, &jobName); err != nil {
		logger.Error("training submission failed", "error", err)
		return err
	}
	var job types.TrainJobRes
	if err := workflow.ExecuteActivity(sessCtx, activity.AwaitJobTerminal, jobName, config).Get(sessCtx, &job); err != nil {
		logger.Error("training stage failed", "error", err, "job_name", jobName)
		return err
	}
	if job.Status != types.TrainJobSucceeded {
		return temporal.NewNonRetryableApplicationError(
			"train job "+jobName+" ended "+string(job.Status)+": "+job.Message,
			"TrainJobFailed", nil)
	}

	// stage 4, tail: registration
	if err := setStage(types.PipelineStageRegistration); err != nil {
		return err
	}
	var model types.ModelVersionRes
	registerArgs := common.RegisterModelArgs{Params: params, JobName: jobName}
	if err := workflow.ExecuteActivity(sessCtx, activity.RegisterModel, registerArgs, config).Get(sessCtx, &model); err != nil {
		logger.Error("registration failed", "error", err, "job_name", jobName)
		return err
	}

	if !params.DeployAfterTrain {
		return nil
	}

	// optional: deploy and smoke test
	if err := setStage(types.PipelineStageInference); err != nil {
		return err
	}
	deployArgs := common.DeployArgs{
		Params:       params,
		ModelName:    model.ModelName,
		ModelVersion: model.Version,
	}
	var endpoint string
	if err := workflow.ExecuteActivity(sessCtx, activity.DeployAndSmokeTest, deployArgs, config).Get(sessCtx, &endpoint); err != nil {
		logger.Error("inference stage failed", "error", err, "model", model.ModelName)
		return err
	}
	logger.Info("pipeline run finished", "endpoint", endpoint, "cluster", cluster.Name)
	return nil
}
