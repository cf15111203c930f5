// Code generated manually to mirror mockery patterns. DO NOT EDIT.

package runnerclient

import (
	context "context"
	http "net/http"

	mock "github.com/stretchr/testify/mock"
	types "tunehub.io/tunehub-server/common/types"
)

// MockRunner is a mock for runnerclient.Runner.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) BuildEnvironment(ctx context.Context, req *types.EnvironmentBuildReq) (*types.EnvironmentBuildResponse, error) {
	ret := m.Called(ctx, req)
	var r0 *types.EnvironmentBuildResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.EnvironmentBuildResponse)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) StopBuild(ctx context.Context, req *types.EnvironmentBuildStopReq) (*types.EnvironmentBuildResponse, error) {
	ret := m.Called(ctx, req)
	var r0 *types.EnvironmentBuildResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.EnvironmentBuildResponse)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) BuildLogs(ctx context.Context, buildID string) (*http.Response, error) {
	ret := m.Called(ctx, buildID)
	var r0 *http.Response
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*http.Response)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) RunJob(ctx context.Context, req *types.RunJobReq) (*types.RunJobResponse, error) {
	ret := m.Called(ctx, req)
	var r0 *types.RunJobResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.RunJobResponse)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) StopJob(ctx context.Context, req *types.StopJobReq) (*types.RunJobResponse, error) {
	ret := m.Called(ctx, req)
	var r0 *types.RunJobResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.RunJobResponse)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) JobStatus(ctx context.Context, jobName string) (*types.JobStatusRes, error) {
	ret := m.Called(ctx, jobName)
	var r0 *types.JobStatusRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.JobStatusRes)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) JobLogs(ctx context.Context, jobName string, rank int) (*http.Response, error) {
	ret := m.Called(ctx, jobName, rank)
	var r0 *http.Response
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*http.Response)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) RunService(ctx context.Context, req *types.RunServiceReq) (*types.RunServiceResponse, error) {
	ret := m.Called(ctx, req)
	var r0 *types.RunServiceResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.RunServiceResponse)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) StopService(ctx context.Context, req *types.StopServiceReq) (*types.RunServiceResponse, error) {
	ret := m.Called(ctx, req)
	var r0 *types.RunServiceResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.RunServiceResponse)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) ServiceStatus(ctx context.Context, serviceName string) (*types.ServiceStatusRes, error) {
	ret := m.Called(ctx, serviceName)
	var r0 *types.ServiceStatusRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.ServiceStatusRes)
	}
	return r0, ret.Error(1)
}

func (m *MockRunner) ClusterResources(ctx context.Context, poolID string) (*types.ClusterRes, error) {
	ret := m.Called(ctx, poolID)
	var r0 *types.ClusterRes
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.ClusterRes)
	}
	return r0, ret.Error(1)
}
