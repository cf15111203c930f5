// Code generated manually to mirror mockery patterns. DO NOT EDIT.

package component

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
	types "tunehub.io/tunehub-server/common/types"
)

// MockInferenceComponent is a mock for component.InferenceComponent.
type MockInferenceComponent struct {
	mock.Mock
}

func (m *MockInferenceComponent) Deploy(ctx context.Context, req types.DeployInferenceReq) (*types.InferenceServiceRes, error) {
	ret := m.Called(ctx, req)
	var r0 *types.InferenceServiceRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.InferenceServiceRes)
	}
	return r0, ret.Error(1)
}

func (m *MockInferenceComponent) Get(ctx context.Context, name string) (*types.InferenceServiceRes, error) {
	ret := m.Called(ctx, name)
	var r0 *types.InferenceServiceRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.InferenceServiceRes)
	}
	return r0, ret.Error(1)
}

func (m *MockInferenceComponent) List(ctx context.Context, per, page int) ([]types.InferenceServiceRes, int, error) {
	ret := m.Called(ctx, per, page)
	var r0 []types.InferenceServiceRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]types.InferenceServiceRes)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockInferenceComponent) Predict(ctx context.Context, req types.PredictReq) (*types.PredictRes, error) {
	ret := m.Called(ctx, req)
	var r0 *types.PredictRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.PredictRes)
	}
	return r0, ret.Error(1)
}

func (m *MockInferenceComponent) Undeploy(ctx context.Context, name string) error {
	ret := m.Called(ctx, name)
	return ret.Error(0)
}

func (m *MockInferenceComponent) HandleServiceEvent(ctx context.Context, svcEvent *types.InferenceEvent) error {
	ret := m.Called(ctx, svcEvent)
	return ret.Error(0)
}
