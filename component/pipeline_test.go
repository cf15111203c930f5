package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	temporal_mock "go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/worker"
	mockcomponent "tunehub.io/tunehub-server/_mocks/tunehub.io/tunehub-server/component"
	mockmq "tunehub.io/tunehub-server/_mocks/tunehub.io/tunehub-server/builder/mq"
	mockdb "tunehub.io/tunehub-server/_mocks/tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/builder/event"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
	pipelinecommon "tunehub.io/tunehub-server/pipeline/common"
)

// testWorkflowClient wraps the sdk client mock with the worker registry
// methods the pipeline component never touches.
type testWorkflowClient struct {
	*temporal_mock.Client
}

func (t *testWorkflowClient) NewWorker(queue string, options worker.Options) worker.Registry {
	return nil
}

func (t *testWorkflowClient) Start() error { return nil }

func (t *testWorkflowClient) Stop() {}

type pipelineTester struct {
	*pipelineComponentImpl
	runStore *mockdb.MockPipelineRunStore
	jobStore *mockdb.MockTrainJobStore
	wfClient *temporal_mock.Client
	jobComp  *mockcomponent.MockTrainJobComponent
}

func newPipelineTester(t *testing.T) *pipelineTester {
	t.Helper()
	queue := &mockmq.MockMessageQueue{}
	queue.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	event.DefaultEventPublisher = &event.EventPublisher{Connector: queue, Cfg: &config.Config{}}

	tester := &pipelineTester{
		runStore: &mockdb.MockPipelineRunStore{},
		jobStore: &mockdb.MockTrainJobStore{},
		wfClient: &temporal_mock.Client{},
		jobComp:  &mockcomponent.MockTrainJobComponent{},
	}
	tester.pipelineComponentImpl = &pipelineComponentImpl{
		config:   &config.Config{},
		runStore: tester.runStore,
		jobStore: tester.jobStore,
		wfClient: &testWorkflowClient{Client: tester.wfClient},
		jobComp:  tester.jobComp,
	}
	return tester
}

func submitReq() types.SubmitPipelineReq {
	return types.SubmitPipelineReq{
		Settings: &types.PipelineSettings{
			Model:            "bert-base-uncased",
			Task:             "text-classification",
			Experiment:       "sentiment-01",
			DataDir:          "imdb-reviews",
			Environment:      "pytorch-2.1",
			TrainingCommand:  "python train.py",
			ComputeTarget:    "gpu-east",
			ComputeNodeCount: 2,
		},
	}
}

func TestPipelineComponent_Submit(t *testing.T) {
	ctx := context.TODO()
	tester := newPipelineTester(t)

	tester.runStore.On("Create", ctx, mock.MatchedBy(func(run database.PipelineRun) bool {
		return run.WorkflowID == "fine-tune-sentiment-01" &&
			run.Status == types.PipelineRunStatusPending &&
			run.DatasetName == "imdb-reviews"
	})).Return(database.PipelineRun{
		ID:         1,
		WorkflowID: "fine-tune-sentiment-01",
		Experiment: "sentiment-01",
		Status:     types.PipelineRunStatusPending,
	}, nil)

	wfRun := &temporal_mock.WorkflowRun{}
	wfRun.On("GetID").Return("fine-tune-sentiment-01")
	wfRun.On("GetRunID").Return("run-1")
	tester.wfClient.On("ExecuteWorkflow", ctx, mock.MatchedBy(func(opts client.StartWorkflowOptions) bool {
		return opts.ID == "fine-tune-sentiment-01" && opts.TaskQueue == pipelinecommon.FineTuneQueue
	}), pipelinecommon.FineTuneWorkflowName, mock.Anything, mock.Anything).Return(wfRun, nil)

	res, err := tester.Submit(ctx, submitReq())
	require.NoError(t, err)
	require.Equal(t, "fine-tune-sentiment-01", res.WorkflowID)
	require.Equal(t, types.PipelineRunStatusPending, res.Status)
	tester.wfClient.AssertExpectations(t)
}

func TestPipelineComponent_SubmitRejectsInvalidSettings(t *testing.T) {
	ctx := context.TODO()
	tester := newPipelineTester(t)

	req := submitReq()
	req.Settings.TrainingCommand = ""

	_, err := tester.Submit(ctx, req)
	require.True(t, errors.Is(err, errorx.ErrPipelineSettingsInvalid))
	tester.runStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPipelineComponent_SubmitRejectsLiveRun(t *testing.T) {
	ctx := context.TODO()
	tester := newPipelineTester(t)

	tester.runStore.On("Create", ctx, mock.Anything).
		Return(database.PipelineRun{}, errorx.ErrDatabaseDuplicateKey)
	tester.runStore.On("ByWorkflowID", ctx, "fine-tune-sentiment-01").Return(&database.PipelineRun{
		WorkflowID: "fine-tune-sentiment-01",
		Status:     types.PipelineRunStatusRunning,
	}, nil)

	_, err := tester.Submit(ctx, submitReq())
	require.True(t, errors.Is(err, errorx.ErrReqParamInvalid))
	tester.wfClient.AssertNotCalled(t, "ExecuteWorkflow",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipelineComponent_SubmitResetsFailedRun(t *testing.T) {
	ctx := context.TODO()
	tester := newPipelineTester(t)

	tester.runStore.On("Create", ctx, mock.Anything).
		Return(database.PipelineRun{}, errorx.ErrDatabaseDuplicateKey)
	tester.runStore.On("ByWorkflowID", ctx, "fine-tune-sentiment-01").Return(&database.PipelineRun{
		ID:           7,
		WorkflowID:   "fine-tune-sentiment-01",
		Experiment:   "sentiment-01",
		Status:       types.PipelineRunStatusFailed,
		Stage:        types.PipelineStageTraining,
		TrainJobName: "ft-sentiment-01-1",
		Message:      "CUDA out of memory",
	}, nil)
	tester.runStore.On("Update", ctx, mock.MatchedBy(func(run database.PipelineRun) bool {
		return run.ID == 7 &&
			run.Status == types.PipelineRunStatusPending &&
			run.Stage == "" &&
			run.TrainJobName == "" &&
			run.Message == ""
	})).Return(database.PipelineRun{
		ID:         7,
		WorkflowID: "fine-tune-sentiment-01",
		Experiment: "sentiment-01",
		Status:     types.PipelineRunStatusPending,
	}, nil)

	wfRun := &temporal_mock.WorkflowRun{}
	wfRun.On("GetID").Return("fine-tune-sentiment-01")
	wfRun.On("GetRunID").Return("run-2")
	tester.wfClient.On("ExecuteWorkflow", ctx, mock.Anything,
		pipelinecommon.FineTuneWorkflowName, mock.Anything, mock.Anything).Return(wfRun, nil)

	res, err := tester.Submit(ctx, submitReq())
	require.NoError(t, err)
	require.Equal(t, types.PipelineRunStatusPending, res.Status)
	tester.runStore.AssertExpectations(t)
}

func TestPipelineComponent_SubmitMarksRunFailedWhenStartFails(t *testing.T) {
	ctx := context.TODO()
	tester := newPipelineTester(t)

	tester.runStore.On("Create", ctx, mock.Anything).Return(database.PipelineRun{
		WorkflowID: "fine-tune-sentiment-01",
		Status:     types.PipelineRunStatusPending,
	}, nil)
	tester.wfClient.On("ExecuteWorkflow", ctx, mock.Anything,
		pipelinecommon.FineTuneWorkflowName, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))
	tester.runStore.On("MarkFinished", ctx, "fine-tune-sentiment-01",
		types.PipelineRunStatusFailed, mock.Anything).Return(nil)

	_, err := tester.Submit(ctx, submitReq())
	require.True(t, errors.Is(err, errorx.ErrPipelineStageFailed))
	tester.runStore.AssertExpectations(t)
}

func TestPipelineComponent_Cancel(t *testing.T) {
	ctx := context.TODO()
	tester := newPipelineTester(t)

	tester.runStore.On("ByWorkflowID", ctx, "fine-tune-sentiment-01").Return(&database.PipelineRun{
		WorkflowID:   "fine-tune-sentiment-01",
		Status:       types.PipelineRunStatusRunning,
		TrainJobName: "ft-sentiment-01-1",
	}, nil)
	tester.wfClient.On("CancelWorkflow", ctx, "fine-tune-sentiment-01", "").Return(nil)
	tester.jobStore.On("ByName", ctx, "ft-sentiment-01-1").Return(&database.TrainJob{
		Name:   "ft-sentiment-01-1",
		Status: types.TrainJobRunning,
	}, nil)
	tester.jobComp.On("Stop", ctx, "ft-sentiment-01-1").Return(nil)
	tester.runStore.On("MarkFinished", ctx, "fine-tune-sentiment-01",
		types.PipelineRunStatusCanceled, "canceled by request").Return(nil)

	err := tester.Cancel(ctx, "fine-tune-sentiment-01")
	require.NoError(t, err)
	tester.jobComp.AssertExpectations(t)
	tester.runStore.AssertExpectations(t)
}

func TestPipelineComponent_CancelRejectsFinishedRun(t *testing.T) {
	ctx := context.TODO()
	tester := newPipelineTester(t)

	tester.runStore.On("ByWorkflowID", ctx, "fine-tune-sentiment-01").Return(&database.PipelineRun{
		WorkflowID: "fine-tune-sentiment-01",
		Status:     types.PipelineRunStatusSucceeded,
	}, nil)

	err := tester.Cancel(ctx, "fine-tune-sentiment-01")
	require.True(t, errors.Is(err, errorx.ErrReqParamInvalid))
	tester.wfClient.AssertNotCalled(t, "CancelWorkflow", mock.Anything, mock.Anything, mock.Anything)
}
