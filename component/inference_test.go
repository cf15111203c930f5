package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	mockmq "tunehub.io/tunehub-server/_mocks/tunehub.io/tunehub-server/builder/mq"
	mockrunner "tunehub.io/tunehub-server/_mocks/tunehub.io/tunehub-server/builder/runnerclient"
	mockdb "tunehub.io/tunehub-server/_mocks/tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/builder/event"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type inferenceTester struct {
	*inferenceComponentImpl
	svcStore     *mockdb.MockInferenceServiceStore
	versionStore *mockdb.MockModelVersionStore
	envStore     *mockdb.MockEnvironmentStore
	clusterStore *mockdb.MockComputeClusterStore
	runner       *mockrunner.MockRunner
}

func newInferenceTester(t *testing.T) *inferenceTester {
	t.Helper()
	tester := &inferenceTester{
		svcStore:     &mockdb.MockInferenceServiceStore{},
		versionStore: &mockdb.MockModelVersionStore{},
		envStore:     &mockdb.MockEnvironmentStore{},
		clusterStore: &mockdb.MockComputeClusterStore{},
		runner:       &mockrunner.MockRunner{},
	}
	tester.inferenceComponentImpl = &inferenceComponentImpl{
		config:       &config.Config{},
		svcStore:     tester.svcStore,
		versionStore: tester.versionStore,
		envStore:     tester.envStore,
		clusterStore: tester.clusterStore,
		runner:       tester.runner,
	}
	return tester
}

func TestInferenceComponent_Deploy(t *testing.T) {
	ctx := context.TODO()
	tester := newInferenceTester(t)

	tester.versionStore.On("Latest", ctx, "sentiment").Return(&database.ModelVersion{
		Version:       3,
		Status:        types.ModelVersionStatusRegistered,
		StoragePrefix: "models/sentiment/v3",
	}, nil)
	tester.clusterStore.On("ByName", ctx, "gpu-east").Return(database.ComputeCluster{
		Name:         "gpu-east",
		Status:       types.ClusterStatusReady,
		InstanceSize: "gpu.t4.xlarge",
		PoolID:       "pool-1",
	}, nil)
	tester.envStore.On("ByName", ctx, "pytorch-2.1").Return(database.Environment{
		Name:  "pytorch-2.1",
		Image: "registry.local/environments/pytorch-2.1:v3",
	}, nil)
	tester.svcStore.On("Create", ctx, mock.MatchedBy(func(svc database.InferenceService) bool {
		return svc.Name == "serve-sentiment-v3" &&
			svc.Status == types.InferenceStatusPending &&
			svc.PoolID == "pool-1" &&
			svc.NodeCount == 1
	})).Return(database.InferenceService{
		Name:         "serve-sentiment-v3",
		ModelName:    "sentiment",
		ModelVersion: 3,
		Status:       types.InferenceStatusPending,
	}, nil)
	tester.runner.On("RunService", ctx, mock.MatchedBy(func(req *types.RunServiceReq) bool {
		return req.ServiceName == "serve-sentiment-v3" &&
			req.ModelPrefix == "models/sentiment/v3" &&
			req.PoolID == "pool-1" &&
			req.Env["MODEL_NAME"] == "sentiment" &&
			req.Env["MODEL_VERSION"] == "3"
	})).Return(&types.RunServiceResponse{}, nil)
	tester.svcStore.On("UpdateStatus", ctx, "serve-sentiment-v3", types.InferenceStatusDeploying, "", "").Return(nil)

	res, err := tester.Deploy(ctx, types.DeployInferenceReq{
		ModelName:   "sentiment",
		Cluster:     "gpu-east",
		Environment: "pytorch-2.1",
	})
	require.NoError(t, err)
	require.Equal(t, "serve-sentiment-v3", res.Name)
	require.Equal(t, types.InferenceStatusDeploying, res.Status)
	tester.runner.AssertExpectations(t)
	tester.svcStore.AssertExpectations(t)
}

func TestInferenceComponent_DeployRejectsArchivedVersion(t *testing.T) {
	ctx := context.TODO()
	tester := newInferenceTester(t)

	tester.versionStore.On("ByNameAndVersion", ctx, "sentiment", 2).Return(&database.ModelVersion{
		Version: 2,
		Status:  types.ModelVersionStatusArchived,
	}, nil)

	_, err := tester.Deploy(ctx, types.DeployInferenceReq{
		ModelName:    "sentiment",
		ModelVersion: 2,
		Cluster:      "gpu-east",
		Environment:  "pytorch-2.1",
	})
	require.True(t, errors.Is(err, errorx.ErrReqParamInvalid))
	tester.clusterStore.AssertNotCalled(t, "ByName", mock.Anything, mock.Anything)
}

func TestInferenceComponent_DeployRejectsUnreadyCluster(t *testing.T) {
	ctx := context.TODO()
	tester := newInferenceTester(t)

	tester.versionStore.On("Latest", ctx, "sentiment").Return(&database.ModelVersion{
		Version: 3,
		Status:  types.ModelVersionStatusRegistered,
	}, nil)
	tester.clusterStore.On("ByName", ctx, "gpu-east").Return(database.ComputeCluster{
		Name:   "gpu-east",
		Status: types.ClusterStatusUnavailable,
	}, nil)

	_, err := tester.Deploy(ctx, types.DeployInferenceReq{
		ModelName:   "sentiment",
		Cluster:     "gpu-east",
		Environment: "pytorch-2.1",
	})
	require.True(t, errors.Is(err, errorx.ErrClusterNotFound))
}

func TestInferenceComponent_DeployMarksFailedWhenRunnerRejects(t *testing.T) {
	ctx := context.TODO()
	tester := newInferenceTester(t)

	tester.versionStore.On("Latest", ctx, "sentiment").Return(&database.ModelVersion{
		Version:       3,
		Status:        types.ModelVersionStatusRegistered,
		StoragePrefix: "models/sentiment/v3",
	}, nil)
	tester.clusterStore.On("ByName", ctx, "gpu-east").Return(database.ComputeCluster{
		Name:         "gpu-east",
		Status:       types.ClusterStatusReady,
		InstanceSize: "gpu.t4.xlarge",
		PoolID:       "pool-1",
	}, nil)
	tester.envStore.On("ByName", ctx, "pytorch-2.1").Return(database.Environment{
		Name:  "pytorch-2.1",
		Image: "registry.local/environments/pytorch-2.1:v3",
	}, nil)
	tester.svcStore.On("Create", ctx, mock.Anything).Return(database.InferenceService{
		Name: "serve-sentiment-v3",
	}, nil)
	tester.runner.On("RunService", ctx, mock.Anything).Return(nil, errors.New("no nodes satisfy the resource request"))
	tester.svcStore.On("UpdateStatus", ctx, "serve-sentiment-v3", types.InferenceStatusFailed, "", mock.Anything).Return(nil)

	_, err := tester.Deploy(ctx, types.DeployInferenceReq{
		ModelName:   "sentiment",
		Cluster:     "gpu-east",
		Environment: "pytorch-2.1",
	})
	require.True(t, errors.Is(err, errorx.ErrRemoteServiceFail))
	tester.svcStore.AssertExpectations(t)
}

func TestInferenceComponent_PredictRequiresRunningService(t *testing.T) {
	ctx := context.TODO()
	tester := newInferenceTester(t)

	tester.svcStore.On("ByName", ctx, "serve-sentiment-v3").Return(&database.InferenceService{
		Name:   "serve-sentiment-v3",
		Status: types.InferenceStatusDeploying,
	}, nil)

	_, err := tester.Predict(ctx, types.PredictReq{ServiceName: "serve-sentiment-v3"})
	require.True(t, errors.Is(err, errorx.ErrPredictFailed))
}

func TestInferenceComponent_Undeploy(t *testing.T) {
	ctx := context.TODO()
	tester := newInferenceTester(t)

	tester.svcStore.On("ByName", ctx, "serve-sentiment-v3").Return(&database.InferenceService{
		Name:   "serve-sentiment-v3",
		Status: types.InferenceStatusRunning,
		PoolID: "pool-1",
	}, nil)
	tester.runner.On("StopService", ctx, &types.StopServiceReq{
		ServiceName: "serve-sentiment-v3",
		PoolID:      "pool-1",
	}).Return(&types.RunServiceResponse{}, nil)
	tester.svcStore.On("UpdateStatus", ctx, "serve-sentiment-v3", types.InferenceStatusStopped, "", "stopped by request").Return(nil)

	err := tester.Undeploy(ctx, "serve-sentiment-v3")
	require.NoError(t, err)
	tester.runner.AssertExpectations(t)
	tester.svcStore.AssertExpectations(t)
}

func TestInferenceComponent_HandleServiceEvent(t *testing.T) {
	ctx := context.TODO()
	tester := newInferenceTester(t)

	queue := &mockmq.MockMessageQueue{}
	queue.On("Publish", mock.Anything, mock.Anything).Return(nil)
	event.DefaultEventPublisher = &event.EventPublisher{Connector: queue, Cfg: &config.Config{}}

	tester.svcStore.On("ByName", ctx, "serve-sentiment-v3").Return(&database.InferenceService{
		Name:   "serve-sentiment-v3",
		Status: types.InferenceStatusDeploying,
	}, nil)
	tester.svcStore.On("UpdateStatus", ctx, "serve-sentiment-v3", types.InferenceStatusRunning,
		"http://serve-sentiment-v3.tunehub-serving.svc", "").Return(nil)

	err := tester.HandleServiceEvent(ctx, &types.InferenceEvent{
		ServiceName: "serve-sentiment-v3",
		Status:      types.InferenceStatusRunning,
		Endpoint:    "http://serve-sentiment-v3.tunehub-serving.svc",
	})
	require.NoError(t, err)
	queue.AssertNumberOfCalls(t, "Publish", 1)
}

func TestInferenceComponent_HandleServiceEventKeepsStoppedState(t *testing.T) {
	ctx := context.TODO()
	tester := newInferenceTester(t)

	tester.svcStore.On("ByName", ctx, "serve-sentiment-v3").Return(&database.InferenceService{
		Name:   "serve-sentiment-v3",
		Status: types.InferenceStatusStopped,
	}, nil)

	err := tester.HandleServiceEvent(ctx, &types.InferenceEvent{
		ServiceName: "serve-sentiment-v3",
		Status:      types.InferenceStatusFailed,
	})
	require.NoError(t, err)
	tester.svcStore.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
