package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/worker"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/pipeline/activity"
	"tunehub.io/tunehub-server/pipeline/common"
)

func testParams(deploy bool) common.PipelineParams {
	return common.PipelineParams{
		WorkflowID: "fine-tune-sentiment-01",
		Settings: &types.PipelineSettings{
			Model:            "bert-base-uncased",
			Task:             "text-classification",
			Experiment:       "sentiment-01",
			DataDir:          "imdb-reviews",
			Environment:      "pytorch-2.1",
			TrainingCommand:  "python train.py",
			ComputeTarget:    "gpu-east",
			ComputeSize:      "gpu.a100.4xlarge",
			ComputeNodeCount: 2,
		},
		DeployAfterTrain: deploy,
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Pipeline.ActivityMaximumAttempts = 1
	cfg.Pipeline.ActivityStartToCloseTimeout = 60
	cfg.Pipeline.SessionExecutionTimeout = 10
	return cfg
}

func newPipelineEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	env.SetWorkerOptions(worker.Options{EnableSessionWorker: true})
	env.RegisterWorkflow(FineTunePipelineWorkflow)
	env.RegisterActivity(activity.MarkRunStarted)
	env.RegisterActivity(activity.SetRunStage)
	env.RegisterActivity(activity.FinishRun)
	env.RegisterActivity(activity.EnsureComputeTarget)
	env.RegisterActivity(activity.EnsureEnvironment)
	env.RegisterActivity(activity.EnsureDataset)
	env.RegisterActivity(activity.PackageSourceBundle)
	env.RegisterActivity(activity.SubmitTrainJob)
	env.RegisterActivity(activity.AwaitJobTerminal)
	env.RegisterActivity(activity.RegisterModel)
	env.RegisterActivity(activity.DeployAndSmokeTest)
	return env
}

func TestFineTunePipelineWorkflow_Succeeds(t *testing.T) {
	env := newPipelineEnv(t)
	params := testParams(false)
	cfg := testConfig()

	env.OnActivity(activity.MarkRunStarted, mock.Anything, params.WorkflowID, cfg).Return(nil)
	env.OnActivity(activity.SetRunStage, mock.Anything, params.WorkflowID, mock.Anything, cfg).Return(nil)
	env.OnActivity(activity.EnsureComputeTarget, mock.Anything, params, cfg).
		Return(&types.ComputeClusterRes{Name: "gpu-east"}, nil)
	env.OnActivity(activity.EnsureEnvironment, mock.Anything, params, cfg).
		Return("registry.local/environments/pytorch-2.1:v3", nil)
	env.OnActivity(activity.EnsureDataset, mock.Anything, params, cfg).
		Return(&types.DatasetVersionRes{DatasetName: "imdb-reviews", Version: 2}, nil)
	env.OnActivity(activity.PackageSourceBundle, mock.Anything, params, cfg).Return("", nil)
	env.OnActivity(activity.SubmitTrainJob, mock.Anything, common.SubmitJobArgs{
		Params:         params,
		DatasetName:    "imdb-reviews",
		DatasetVersion: 2,
	}, cfg).Return("ft-sentiment-01-1", nil)
	env.OnActivity(activity.AwaitJobTerminal, mock.Anything, "ft-sentiment-01-1", cfg).
		Return(&types.TrainJobRes{Name: "ft-sentiment-01-1", Status: types.TrainJobSucceeded}, nil)
	env.OnActivity(activity.RegisterModel, mock.Anything, common.RegisterModelArgs{
		Params:  params,
		JobName: "ft-sentiment-01-1",
	}, cfg).Return(&types.ModelVersionRes{ModelName: "sentiment-01", Version: 1}, nil)
	env.OnActivity(activity.FinishRun, mock.Anything, common.FinishRunArgs{
		WorkflowID: params.WorkflowID,
		Status:     types.PipelineRunStatusSucceeded,
	}, cfg).Return(nil)

	env.ExecuteWorkflow(FineTunePipelineWorkflow, params, cfg)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

func TestFineTunePipelineWorkflow_DeployAfterTrain(t *testing.T) {
	env := newPipelineEnv(t)
	params := testParams(true)
	cfg := testConfig()

	env.OnActivity(activity.MarkRunStarted, mock.Anything, params.WorkflowID, cfg).Return(nil)
	env.OnActivity(activity.SetRunStage, mock.Anything, params.WorkflowID, mock.Anything, cfg).Return(nil)
	env.OnActivity(activity.EnsureComputeTarget, mock.Anything, params, cfg).
		Return(&types.ComputeClusterRes{Name: "gpu-east"}, nil)
	env.OnActivity(activity.EnsureEnvironment, mock.Anything, params, cfg).
		Return("registry.local/environments/pytorch-2.1:v3", nil)
	env.OnActivity(activity.EnsureDataset, mock.Anything, params, cfg).
		Return(&types.DatasetVersionRes{DatasetName: "imdb-reviews", Version: 2}, nil)
	env.OnActivity(activity.PackageSourceBundle, mock.Anything, params, cfg).Return("bundles/fine-tune-sentiment-01.tar.gz", nil)
	env.OnActivity(activity.SubmitTrainJob, mock.Anything, mock.Anything, cfg).Return("ft-sentiment-01-1", nil)
	env.OnActivity(activity.AwaitJobTerminal, mock.Anything, "ft-sentiment-01-1", cfg).
		Return(&types.TrainJobRes{Name: "ft-sentiment-01-1", Status: types.TrainJobSucceeded}, nil)
	env.OnActivity(activity.RegisterModel, mock.Anything, mock.Anything, cfg).
		Return(&types.ModelVersionRes{ModelName: "sentiment-01", Version: 3}, nil)
	env.OnActivity(activity.DeployAndSmokeTest, mock.Anything, common.DeployArgs{
		Params:       params,
		ModelName:    "sentiment-01",
		ModelVersion: 3,
	}, cfg).Return("http://serve-sentiment-01-v3.tunehub-serving.svc", nil)
	env.OnActivity(activity.FinishRun, mock.Anything, common.FinishRunArgs{
		WorkflowID: params.WorkflowID,
		Status:     types.PipelineRunStatusSucceeded,
	}, cfg).Return(nil)

	env.ExecuteWorkflow(FineTunePipelineWorkflow, params, cfg)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

func TestFineTunePipelineWorkflow_TrainJobFails(t *testing.T) {
	env := newPipelineEnv(t)
	params := testParams(false)
	cfg := testConfig()

	env.OnActivity(activity.MarkRunStarted, mock.Anything, params.WorkflowID, cfg).Return(nil)
	env.OnActivity(activity.SetRunStage, mock.Anything, params.WorkflowID, mock.Anything, cfg).Return(nil)
	env.OnActivity(activity.EnsureComputeTarget, mock.Anything, params, cfg).
		Return(&types.ComputeClusterRes{Name: "gpu-east"}, nil)
	env.OnActivity(activity.EnsureEnvironment, mock.Anything, params, cfg).
		Return("registry.local/environments/pytorch-2.1:v3", nil)
	env.OnActivity(activity.EnsureDataset, mock.Anything, params, cfg).
		Return(&types.DatasetVersionRes{DatasetName: "imdb-reviews", Version: 2}, nil)
	env.OnActivity(activity.PackageSourceBundle, mock.Anything, params, cfg).Return("", nil)
	env.OnActivity(activity.SubmitTrainJob, mock.Anything, mock.Anything, cfg).Return("ft-sentiment-01-1", nil)
	env.OnActivity(activity.AwaitJobTerminal, mock.Anything, "ft-sentiment-01-1", cfg).
		Return(&types.TrainJobRes{
			Name:    "ft-sentiment-01-1",
			Status:  types.TrainJobFailed,
			Message: "CUDA out of memory",
		}, nil)
	env.OnActivity(activity.FinishRun, mock.Anything, mock.MatchedBy(func(args common.FinishRunArgs) bool {
		return args.Status == types.PipelineRunStatusFailed
	}), cfg).Return(nil)

	env.ExecuteWorkflow(FineTunePipelineWorkflow, params, cfg)

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "TrainJobFailed", appErr.Type())
	env.AssertExpectations(t)
}

func TestFineTunePipelineWorkflow_StageFailureRecordsFailed(t *testing.T) {
	env := newPipelineEnv(t)
	params := testParams(false)
	cfg := testConfig()

	env.OnActivity(activity.MarkRunStarted, mock.Anything, params.WorkflowID, cfg).Return(nil)
	env.OnActivity(activity.SetRunStage, mock.Anything, params.WorkflowID, mock.Anything, cfg).Return(nil)
	env.OnActivity(activity.EnsureComputeTarget, mock.Anything, params, cfg).
		Return(nil, temporal.NewNonRetryableApplicationError("cluster gpu-east is Failed", "ClusterNotReady", nil))
	env.OnActivity(activity.FinishRun, mock.Anything, mock.MatchedBy(func(args common.FinishRunArgs) bool {
		return args.Status == types.PipelineRunStatusFailed && args.Message != ""
	}), cfg).Return(nil)

	env.ExecuteWorkflow(FineTunePipelineWorkflow, params, cfg)

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}
