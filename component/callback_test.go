package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	mockcomponent "tunehub.io/tunehub-server/_mocks/tunehub.io/tunehub-server/component"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type callbackTester struct {
	*callbackComponentImpl
	envComp *mockcomponent.MockEnvironmentComponent
	jobComp *mockcomponent.MockTrainJobComponent
	infComp *mockcomponent.MockInferenceComponent
}

func newCallbackTester(t *testing.T) *callbackTester {
	t.Helper()
	tester := &callbackTester{
		envComp: &mockcomponent.MockEnvironmentComponent{},
		jobComp: &mockcomponent.MockTrainJobComponent{},
		infComp: &mockcomponent.MockInferenceComponent{},
	}
	tester.callbackComponentImpl = &callbackComponentImpl{
		envComp: tester.envComp,
		jobComp: tester.jobComp,
		infComp: tester.infComp,
	}
	return tester
}

func TestCallbackComponent_HandleRunnerEvent(t *testing.T) {
	ctx := context.TODO()

	t.Run("build event", func(t *testing.T) {
		tester := newCallbackTester(t)
		buildEvent := &types.EnvironmentBuildEvent{BuildID: "build-1", Status: types.BuildStatusSucceeded}
		tester.envComp.On("HandleBuildEvent", ctx, buildEvent).Return(nil)

		err := tester.HandleRunnerEvent(ctx, &types.WebHookEvent{
			EventType: types.WebHookEventEnvironmentBuild,
			Build:     buildEvent,
		})
		require.NoError(t, err)
		tester.envComp.AssertExpectations(t)
	})

	t.Run("job event", func(t *testing.T) {
		tester := newCallbackTester(t)
		jobEvent := &types.TrainJobEvent{JobName: "ft-sentiment-01-1", Status: types.TrainJobRunning}
		tester.jobComp.On("HandleJobEvent", ctx, jobEvent).Return(nil)

		err := tester.HandleRunnerEvent(ctx, &types.WebHookEvent{
			EventType: types.WebHookEventTrainJob,
			Job:       jobEvent,
		})
		require.NoError(t, err)
		tester.jobComp.AssertExpectations(t)
	})

	t.Run("service event", func(t *testing.T) {
		tester := newCallbackTester(t)
		svcEvent := &types.InferenceEvent{ServiceName: "serve-sentiment-v3", Status: types.InferenceStatusRunning}
		tester.infComp.On("HandleServiceEvent", ctx, svcEvent).Return(nil)

		err := tester.HandleRunnerEvent(ctx, &types.WebHookEvent{
			EventType: types.WebHookEventInferenceService,
			Service:   svcEvent,
		})
		require.NoError(t, err)
		tester.infComp.AssertExpectations(t)
	})

	t.Run("missing payload", func(t *testing.T) {
		tester := newCallbackTester(t)
		err := tester.HandleRunnerEvent(ctx, &types.WebHookEvent{
			EventType: types.WebHookEventTrainJob,
		})
		require.True(t, errors.Is(err, errorx.ErrReqBodyFormat))
		tester.jobComp.AssertNotCalled(t, "HandleJobEvent", mock.Anything, mock.Anything)
	})

	t.Run("unknown event type", func(t *testing.T) {
		tester := newCallbackTester(t)
		err := tester.HandleRunnerEvent(ctx, &types.WebHookEvent{EventType: "node_drain"})
		require.True(t, errors.Is(err, errorx.ErrReqBodyFormat))
	})
}
