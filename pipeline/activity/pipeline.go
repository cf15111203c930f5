package activity

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/component"
	"tunehub.io/tunehub-server/pipeline/common"
)

// MarkRunStarted flips the run to Running once the workflow picks it up.
func MarkRunStarted(ctx context.Context, workflowID string, config *config.Config) error {
	store := database.NewPipelineRunStore()
	run, err := store.ByWorkflowID(ctx, workflowID)
	if err != nil {
		return err
	}
	run.Status = types.PipelineRunStatusRunning
	run.StartedAt = time.Now()
	_, err = store.Update(ctx, *run)
	return err
}

// SetRunStage records which stage the workflow is entering.
func SetRunStage(ctx context.Context, workflowID string, stage types.PipelineStage, config *config.Config) error {
	return database.NewPipelineRunStore().UpdateStage(ctx, workflowID, stage)
}

// FinishRun records the terminal state of the run. The workflow defers
// this so it lands even when a stage activity fails.
func FinishRun(ctx context.Context, args common.FinishRunArgs, config *config.Config) error {
	return database.NewPipelineRunStore().MarkFinished(ctx, args.WorkflowID, args.Status, args.Message)
}

// EnsureComputeTarget looks the compute target up by name and creates it
// when absent, per the get-or-create contract of the cluster component.
func EnsureComputeTarget(ctx context.Context, params common.PipelineParams, config *config.Config) (*types.ComputeClusterRes, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("ensure compute target start", "compute_target", params.Settings.ComputeTarget)
	cc, err := component.NewClusterComponent(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster component: %w", err)
	}
	return cc.GetOrCreate(ctx, types.ComputeClusterReq{
		Name:         params.Settings.ComputeTarget,
		InstanceSize: params.Settings.ComputeSize,
		NodeCount:    params.Settings.ComputeNodeCount,
	})
}

// EnsureEnvironment returns the image the training job should run on.
// When the environment has no succeeded build yet, it registers a build
// from the settings' dockerfile and polls it to a terminal state.
func EnsureEnvironment(ctx context.Context, params common.PipelineParams, config *config.Config) (string, error) {
	logger := activity.GetLogger(ctx)
	ec, err := component.NewEnvironmentComponent(ctx, config)
	if err != nil {
		return "", fmt.Errorf("failed to create environment component: %w", err)
	}

	name := params.Settings.Environment
	env, err := ec.Get(ctx, name)
	if err == nil && env.Image != "" {
		logger.Info("environment already built", "environment", name, "image", env.Image)
		return env.Image, nil
	}
	if err != nil && params.Settings.EnvironmentDockerfile == "" {
		return "", err
	}
	if params.Settings.EnvironmentDockerfile == "" {
		return "", errorx.EnvironmentBuildFailed(
			fmt.Errorf("environment %s has no succeeded build and no dockerfile was supplied", name),
			errorx.Ctx().Set("environment", name),
		)
	}

	build, err := ec.Register(ctx, types.EnvironmentReq{
		Name:       name,
		Dockerfile: params.Settings.EnvironmentDockerfile,
	})
	if err != nil {
		return "", err
	}
	logger.Info("environment build dispatched", "environment", name, "build_id", build.BuildID)

	interval := time.Duration(config.Pipeline.JobPollIntervalInSEC) * time.Second
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
		build, err = ec.GetBuild(ctx, build.BuildID)
		if err != nil {
			return "", err
		}
		activity.RecordHeartbeat(ctx, build.Status)
		switch build.Status {
		case types.BuildStatusSucceeded:
			return build.Image, nil
		case types.BuildStatusFailed, types.BuildStatusStopped:
			return "", errorx.EnvironmentBuildFailed(
				fmt.Errorf("build %s ended %s: %s", build.BuildID, build.Status, build.Message),
				errorx.Ctx().Set("environment", name),
			)
		}
	}
}

// EnsureDataset resolves the newest Ready version of the dataset named by
// the settings, preparing one when none exists, and records it on the run.
func EnsureDataset(ctx context.Context, params common.PipelineParams, config *config.Config) (*types.DatasetVersionRes, error) {
	logger := activity.GetLogger(ctx)
	dc, err := component.NewDatasetComponent(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset component: %w", err)
	}
	dv, err := dc.EnsureReady(ctx, params.Settings.DataDir, params.Settings.Model)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset ready", "dataset", dv.DatasetName, "version", dv.Version)

	store := database.NewPipelineRunStore()
	run, err := store.ByWorkflowID(ctx, params.WorkflowID)
	if err != nil {
		return nil, err
	}
	run.DatasetName = dv.DatasetName
	run.DatasetVersion = dv.Version
	if _, err := store.Update(ctx, *run); err != nil {
		return nil, err
	}
	return dv, nil
}

// PackageSourceBundle tars the settings' source directory and uploads it
// to object storage, returning the bundle's object name.
func PackageSourceBundle(ctx context.Context, params common.PipelineParams, config *config.Config) (string, error) {
	if params.Settings.SourceDirectory == "" {
		return "", nil
	}
	tc, err := component.NewTrainJobComponent(config)
	if err != nil {
		return "", fmt.Errorf("failed to create train job component: %w", err)
	}
	return tc.PackageSource(ctx, params.Settings.SourceDirectory, params.WorkflowID)
}

// SubmitTrainJob submits the training job built from the settings and the
// earlier stage outputs, and records the job name on the run.
func SubmitTrainJob(ctx context.Context, args common.SubmitJobArgs, config *config.Config) (string, error) {
	logger := activity.GetLogger(ctx)
	tc, err := component.NewTrainJobComponent(config)
	if err != nil {
		return "", fmt.Errorf("failed to create train job component: %w", err)
	}
	settings := args.Params.Settings
	job, err := tc.Submit(ctx, types.SubmitTrainJobReq{
		Experiment:     settings.Experiment,
		ComputeTarget:  settings.ComputeTarget,
		Environment:    settings.Environment,
		DatasetName:    args.DatasetName,
		DatasetVersion: args.DatasetVersion,
		Command:        settings.TrainingCommand,
		Settings:       settings,
		Accelerator:    args.Params.Accelerator,
		SourcePrefix:   args.SourcePrefix,
	})
	if err != nil {
		return "", err
	}
	logger.Info("train job submitted", "job_name", job.Name)

	store := database.NewPipelineRunStore()
	run, err := store.ByWorkflowID(ctx, args.Params.WorkflowID)
	if err != nil {
		return "", err
	}
	run.TrainJobName = job.Name
	if _, err := store.Update(ctx, *run); err != nil {
		return "", err
	}
	return job.Name, nil
}

// AwaitJobTerminal polls the job until the status machine reaches a
// terminal state, heartbeating so a dead worker surfaces quickly.
func AwaitJobTerminal(ctx context.Context, jobName string, config *config.Config) (*types.TrainJobRes, error) {
	tc, err := component.NewTrainJobComponent(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create train job component: %w", err)
	}
	interval := time.Duration(config.Pipeline.JobPollIntervalInSEC) * time.Second
	for {
		job, err := tc.Get(ctx, jobName)
		if err != nil {
			return nil, err
		}
		activity.RecordHeartbeat(ctx, job.Status)
		if job.Status.IsTerminal() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// RegisterModel records a new model version from the succeeded job and
// stamps it on the run.
func RegisterModel(ctx context.Context, args common.RegisterModelArgs, config *config.Config) (*types.ModelVersionRes, error) {
	logger := activity.GetLogger(ctx)
	mc, err := component.NewModelComponent(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create model component: %w", err)
	}
	name := args.Params.Settings.RegisteredModelName
	if name == "" {
		name = args.Params.Settings.Experiment
	}
	mv, err := mc.RegisterFromJob(ctx, types.RegisterModelReq{
		Name:    name,
		JobName: args.JobName,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("model registered", "model", mv.ModelName, "version", mv.Version)

	store := database.NewPipelineRunStore()
	run, err := store.ByWorkflowID(ctx, args.Params.WorkflowID)
	if err != nil {
		return nil, err
	}
	run.ModelName = mv.ModelName
	run.ModelVersion = mv.Version
	if _, err := store.Update(ctx, *run); err != nil {
		return nil, err
	}
	return mv, nil
}

const smokeTestInput = "the movie was surprisingly good"

// DeployAndSmokeTest deploys the registered version, waits for the
// service endpoint and sends one prediction through it.
func DeployAndSmokeTest(ctx context.Context, args common.DeployArgs, config *config.Config) (string, error) {
	logger := activity.GetLogger(ctx)
	ic, err := component.NewInferenceComponent(config)
	if err != nil {
		return "", fmt.Errorf("failed to create inference component: %w", err)
	}
	settings := args.Params.Settings
	svc, err := ic.Deploy(ctx, types.DeployInferenceReq{
		ModelName:    args.ModelName,
		ModelVersion: args.ModelVersion,
		Cluster:      settings.ComputeTarget,
		Environment:  settings.Environment,
		ComputeSize:  settings.ComputeSize,
	})
	if err != nil {
		return "", err
	}

	interval := time.Duration(config.Pipeline.JobPollIntervalInSEC) * time.Second
	for svc.Status != types.InferenceStatusRunning {
		if svc.Status == types.InferenceStatusFailed {
			return "", errorx.PredictFailed(
				fmt.Errorf("service %s failed to come up: %s", svc.Name, svc.Message),
				errorx.Ctx().Set("service", svc.Name),
			)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
		svc, err = ic.Get(ctx, svc.Name)
		if err != nil {
			return "", err
		}
		activity.RecordHeartbeat(ctx, svc.Status)
	}

	out, err := ic.Predict(ctx, types.PredictReq{
		ServiceName: svc.Name,
		Input:       smokeTestInput,
	})
	if err != nil {
		return "", err
	}
	logger.Info("smoke prediction succeeded",
		"service", svc.Name, "output", out.Output, "latency_ms", out.LatencyMs)
	return svc.Endpoint, nil
}
