// Code generated manually to mirror mockery patterns. DO NOT EDIT.

package component

import (
	context "context"
	http "net/http"

	mock "github.com/stretchr/testify/mock"
	types "tunehub.io/tunehub-server/common/types"
)

// MockTrainJobComponent is a mock for component.TrainJobComponent.
type MockTrainJobComponent struct {
	mock.Mock
}

func (m *MockTrainJobComponent) Submit(ctx context.Context, req types.SubmitTrainJobReq) (*types.TrainJobRes, error) {
	ret := m.Called(ctx, req)
	var r0 *types.TrainJobRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.TrainJobRes)
	}
	return r0, ret.Error(1)
}

func (m *MockTrainJobComponent) Get(ctx context.Context, name string) (*types.TrainJobRes, error) {
	ret := m.Called(ctx, name)
	var r0 *types.TrainJobRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.TrainJobRes)
	}
	return r0, ret.Error(1)
}

func (m *MockTrainJobComponent) List(ctx context.Context, experiment string, per, page int) ([]types.TrainJobRes, int, error) {
	ret := m.Called(ctx, experiment, per, page)
	var r0 []types.TrainJobRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]types.TrainJobRes)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockTrainJobComponent) Stop(ctx context.Context, name string) error {
	ret := m.Called(ctx, name)
	return ret.Error(0)
}

func (m *MockTrainJobComponent) Logs(ctx context.Context, name string, rank int) (*http.Response, error) {
	ret := m.Called(ctx, name, rank)
	var r0 *http.Response
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*http.Response)
	}
	return r0, ret.Error(1)
}

func (m *MockTrainJobComponent) HandleJobEvent(ctx context.Context, jobEvent *types.TrainJobEvent) error {
	ret := m.Called(ctx, jobEvent)
	return ret.Error(0)
}

func (m *MockTrainJobComponent) PackageSource(ctx context.Context, sourceDir, jobName string) (string, error) {
	ret := m.Called(ctx, sourceDir, jobName)
	return ret.String(0), ret.Error(1)
}

func (m *MockTrainJobComponent) FailTimedOut(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}
