// Code generated manually to mirror mockery patterns. DO NOT EDIT.

package component

import (
	context "context"
	http "net/http"

	mock "github.com/stretchr/testify/mock"
	types "tunehub.io/tunehub-server/common/types"
)

// MockEnvironmentComponent is a mock for component.EnvironmentComponent.
type MockEnvironmentComponent struct {
	mock.Mock
}

func (m *MockEnvironmentComponent) Register(ctx context.Context, req types.EnvironmentReq) (*types.EnvironmentBuildRes, error) {
	ret := m.Called(ctx, req)
	var r0 *types.EnvironmentBuildRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.EnvironmentBuildRes)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentComponent) Get(ctx context.Context, name string) (*types.EnvironmentRes, error) {
	ret := m.Called(ctx, name)
	var r0 *types.EnvironmentRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.EnvironmentRes)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentComponent) List(ctx context.Context) ([]types.EnvironmentRes, error) {
	ret := m.Called(ctx)
	var r0 []types.EnvironmentRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]types.EnvironmentRes)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentComponent) ListBuilds(ctx context.Context, name string, per, page int) ([]types.EnvironmentBuildRes, error) {
	ret := m.Called(ctx, name, per, page)
	var r0 []types.EnvironmentBuildRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]types.EnvironmentBuildRes)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentComponent) GetBuild(ctx context.Context, buildID string) (*types.EnvironmentBuildRes, error) {
	ret := m.Called(ctx, buildID)
	var r0 *types.EnvironmentBuildRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.EnvironmentBuildRes)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentComponent) StopBuild(ctx context.Context, buildID string) error {
	ret := m.Called(ctx, buildID)
	return ret.Error(0)
}

func (m *MockEnvironmentComponent) BuildLogs(ctx context.Context, buildID string) (*http.Response, error) {
	ret := m.Called(ctx, buildID)
	var r0 *http.Response
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*http.Response)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentComponent) HandleBuildEvent(ctx context.Context, event *types.EnvironmentBuildEvent) error {
	ret := m.Called(ctx, event)
	return ret.Error(0)
}

func (m *MockEnvironmentComponent) ResolveImage(ctx context.Context, name string) (string, error) {
	ret := m.Called(ctx, name)
	return ret.String(0), ret.Error(1)
}
