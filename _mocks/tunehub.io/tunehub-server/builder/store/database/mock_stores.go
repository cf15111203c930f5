// Code generated manually to mirror mockery patterns. DO NOT EDIT.

package database

import (
	context "context"
	time "time"

	mock "github.com/stretchr/testify/mock"
	database "tunehub.io/tunehub-server/builder/store/database"
	types "tunehub.io/tunehub-server/common/types"
)

// MockComputeClusterStore is a mock for database.ComputeClusterStore.
type MockComputeClusterStore struct {
	mock.Mock
}

func (m *MockComputeClusterStore) Create(ctx context.Context, cluster database.ComputeCluster) (database.ComputeCluster, error) {
	ret := m.Called(ctx, cluster)
	return ret.Get(0).(database.ComputeCluster), ret.Error(1)
}

func (m *MockComputeClusterStore) ByName(ctx context.Context, name string) (database.ComputeCluster, error) {
	ret := m.Called(ctx, name)
	return ret.Get(0).(database.ComputeCluster), ret.Error(1)
}

func (m *MockComputeClusterStore) List(ctx context.Context) ([]database.ComputeCluster, error) {
	ret := m.Called(ctx)
	var r0 []database.ComputeCluster
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.ComputeCluster)
	}
	return r0, ret.Error(1)
}

func (m *MockComputeClusterStore) Update(ctx context.Context, cluster database.ComputeCluster) (database.ComputeCluster, error) {
	ret := m.Called(ctx, cluster)
	return ret.Get(0).(database.ComputeCluster), ret.Error(1)
}

func (m *MockComputeClusterStore) UpdateStatus(ctx context.Context, name string, status types.ComputeClusterStatus, message string) error {
	ret := m.Called(ctx, name, status, message)
	return ret.Error(0)
}

func (m *MockComputeClusterStore) Delete(ctx context.Context, name string) error {
	ret := m.Called(ctx, name)
	return ret.Error(0)
}

// MockDatasetStore is a mock for database.DatasetStore.
type MockDatasetStore struct {
	mock.Mock
}

func (m *MockDatasetStore) Create(ctx context.Context, dataset database.Dataset) (database.Dataset, error) {
	ret := m.Called(ctx, dataset)
	return ret.Get(0).(database.Dataset), ret.Error(1)
}

func (m *MockDatasetStore) ByName(ctx context.Context, name string) (database.Dataset, error) {
	ret := m.Called(ctx, name)
	return ret.Get(0).(database.Dataset), ret.Error(1)
}

func (m *MockDatasetStore) List(ctx context.Context, per, page int) ([]database.Dataset, int, error) {
	ret := m.Called(ctx, per, page)
	var r0 []database.Dataset
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.Dataset)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockDatasetStore) NextVersion(ctx context.Context, name string) (int, error) {
	ret := m.Called(ctx, name)
	return ret.Int(0), ret.Error(1)
}

// MockDatasetVersionStore is a mock for database.DatasetVersionStore.
type MockDatasetVersionStore struct {
	mock.Mock
}

func (m *MockDatasetVersionStore) Create(ctx context.Context, version database.DatasetVersion) (database.DatasetVersion, error) {
	ret := m.Called(ctx, version)
	return ret.Get(0).(database.DatasetVersion), ret.Error(1)
}

func (m *MockDatasetVersionStore) ByNameAndVersion(ctx context.Context, name string, version int) (*database.DatasetVersion, error) {
	ret := m.Called(ctx, name, version)
	var r0 *database.DatasetVersion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.DatasetVersion)
	}
	return r0, ret.Error(1)
}

func (m *MockDatasetVersionStore) LatestReady(ctx context.Context, name string) (*database.DatasetVersion, error) {
	ret := m.Called(ctx, name)
	var r0 *database.DatasetVersion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.DatasetVersion)
	}
	return r0, ret.Error(1)
}

func (m *MockDatasetVersionStore) ListByDatasetID(ctx context.Context, datasetID int64) ([]database.DatasetVersion, error) {
	ret := m.Called(ctx, datasetID)
	var r0 []database.DatasetVersion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.DatasetVersion)
	}
	return r0, ret.Error(1)
}

func (m *MockDatasetVersionStore) Update(ctx context.Context, version database.DatasetVersion) (database.DatasetVersion, error) {
	ret := m.Called(ctx, version)
	return ret.Get(0).(database.DatasetVersion), ret.Error(1)
}

func (m *MockDatasetVersionStore) MarkFailed(ctx context.Context, id int64, message string) error {
	ret := m.Called(ctx, id, message)
	return ret.Error(0)
}

// MockEnvironmentStore is a mock for database.EnvironmentStore.
type MockEnvironmentStore struct {
	mock.Mock
}

func (m *MockEnvironmentStore) Create(ctx context.Context, env database.Environment) (database.Environment, error) {
	ret := m.Called(ctx, env)
	return ret.Get(0).(database.Environment), ret.Error(1)
}

func (m *MockEnvironmentStore) ByName(ctx context.Context, name string) (database.Environment, error) {
	ret := m.Called(ctx, name)
	return ret.Get(0).(database.Environment), ret.Error(1)
}

func (m *MockEnvironmentStore) List(ctx context.Context) ([]database.Environment, error) {
	ret := m.Called(ctx)
	var r0 []database.Environment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.Environment)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentStore) NextVersion(ctx context.Context, name string) (int, error) {
	ret := m.Called(ctx, name)
	return ret.Int(0), ret.Error(1)
}

func (m *MockEnvironmentStore) Update(ctx context.Context, env database.Environment) (database.Environment, error) {
	ret := m.Called(ctx, env)
	return ret.Get(0).(database.Environment), ret.Error(1)
}

// MockEnvironmentBuildStore is a mock for database.EnvironmentBuildStore.
type MockEnvironmentBuildStore struct {
	mock.Mock
}

func (m *MockEnvironmentBuildStore) Create(ctx context.Context, build database.EnvironmentBuild) (database.EnvironmentBuild, error) {
	ret := m.Called(ctx, build)
	return ret.Get(0).(database.EnvironmentBuild), ret.Error(1)
}

func (m *MockEnvironmentBuildStore) ByBuildID(ctx context.Context, buildID string) (*database.EnvironmentBuild, error) {
	ret := m.Called(ctx, buildID)
	var r0 *database.EnvironmentBuild
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.EnvironmentBuild)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentBuildStore) ListByEnvironmentID(ctx context.Context, environmentID int64, per, page int) ([]database.EnvironmentBuild, error) {
	ret := m.Called(ctx, environmentID, per, page)
	var r0 []database.EnvironmentBuild
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.EnvironmentBuild)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentBuildStore) RunningByEnvironmentID(ctx context.Context, environmentID int64) ([]database.EnvironmentBuild, error) {
	ret := m.Called(ctx, environmentID)
	var r0 []database.EnvironmentBuild
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.EnvironmentBuild)
	}
	return r0, ret.Error(1)
}

func (m *MockEnvironmentBuildStore) UpdateStatus(ctx context.Context, buildID string, status types.EnvironmentBuildStatus, message string) error {
	ret := m.Called(ctx, buildID, status, message)
	return ret.Error(0)
}

func (m *MockEnvironmentBuildStore) MarkSucceeded(ctx context.Context, buildID string, image string) error {
	ret := m.Called(ctx, buildID, image)
	return ret.Error(0)
}

// MockInferenceServiceStore is a mock for database.InferenceServiceStore.
type MockInferenceServiceStore struct {
	mock.Mock
}

func (m *MockInferenceServiceStore) Create(ctx context.Context, svc database.InferenceService) (database.InferenceService, error) {
	ret := m.Called(ctx, svc)
	return ret.Get(0).(database.InferenceService), ret.Error(1)
}

func (m *MockInferenceServiceStore) ByName(ctx context.Context, name string) (*database.InferenceService, error) {
	ret := m.Called(ctx, name)
	var r0 *database.InferenceService
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.InferenceService)
	}
	return r0, ret.Error(1)
}

func (m *MockInferenceServiceStore) List(ctx context.Context, per, page int) ([]database.InferenceService, int, error) {
	ret := m.Called(ctx, per, page)
	var r0 []database.InferenceService
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.InferenceService)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockInferenceServiceStore) Update(ctx context.Context, svc database.InferenceService) (database.InferenceService, error) {
	ret := m.Called(ctx, svc)
	return ret.Get(0).(database.InferenceService), ret.Error(1)
}

func (m *MockInferenceServiceStore) UpdateStatus(ctx context.Context, name string, status types.InferenceStatus, endpoint, message string) error {
	ret := m.Called(ctx, name, status, endpoint, message)
	return ret.Error(0)
}

func (m *MockInferenceServiceStore) Delete(ctx context.Context, name string) error {
	ret := m.Called(ctx, name)
	return ret.Error(0)
}

// MockRegisteredModelStore is a mock for database.RegisteredModelStore.
type MockRegisteredModelStore struct {
	mock.Mock
}

func (m *MockRegisteredModelStore) CreateIfNotExist(ctx context.Context, model database.RegisteredModel) (database.RegisteredModel, error) {
	ret := m.Called(ctx, model)
	return ret.Get(0).(database.RegisteredModel), ret.Error(1)
}

func (m *MockRegisteredModelStore) ByName(ctx context.Context, name string) (database.RegisteredModel, error) {
	ret := m.Called(ctx, name)
	return ret.Get(0).(database.RegisteredModel), ret.Error(1)
}

func (m *MockRegisteredModelStore) List(ctx context.Context, per, page int) ([]database.RegisteredModel, int, error) {
	ret := m.Called(ctx, per, page)
	var r0 []database.RegisteredModel
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.RegisteredModel)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockRegisteredModelStore) RegisterVersion(ctx context.Context, name string, version database.ModelVersion) (database.ModelVersion, error) {
	ret := m.Called(ctx, name, version)
	return ret.Get(0).(database.ModelVersion), ret.Error(1)
}

// MockModelVersionStore is a mock for database.ModelVersionStore.
type MockModelVersionStore struct {
	mock.Mock
}

func (m *MockModelVersionStore) ByNameAndVersion(ctx context.Context, name string, version int) (*database.ModelVersion, error) {
	ret := m.Called(ctx, name, version)
	var r0 *database.ModelVersion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.ModelVersion)
	}
	return r0, ret.Error(1)
}

func (m *MockModelVersionStore) Latest(ctx context.Context, name string) (*database.ModelVersion, error) {
	ret := m.Called(ctx, name)
	var r0 *database.ModelVersion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.ModelVersion)
	}
	return r0, ret.Error(1)
}

func (m *MockModelVersionStore) ListByModelID(ctx context.Context, modelID int64) ([]database.ModelVersion, error) {
	ret := m.Called(ctx, modelID)
	var r0 []database.ModelVersion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.ModelVersion)
	}
	return r0, ret.Error(1)
}

func (m *MockModelVersionStore) ByJobName(ctx context.Context, jobName string) (*database.ModelVersion, error) {
	ret := m.Called(ctx, jobName)
	var r0 *database.ModelVersion
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.ModelVersion)
	}
	return r0, ret.Error(1)
}

func (m *MockModelVersionStore) Archive(ctx context.Context, name string, version int) error {
	ret := m.Called(ctx, name, version)
	return ret.Error(0)
}

// MockPipelineRunStore is a mock for database.PipelineRunStore.
type MockPipelineRunStore struct {
	mock.Mock
}

func (m *MockPipelineRunStore) Create(ctx context.Context, run database.PipelineRun) (database.PipelineRun, error) {
	ret := m.Called(ctx, run)
	return ret.Get(0).(database.PipelineRun), ret.Error(1)
}

func (m *MockPipelineRunStore) ByID(ctx context.Context, id int64) (*database.PipelineRun, error) {
	ret := m.Called(ctx, id)
	var r0 *database.PipelineRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.PipelineRun)
	}
	return r0, ret.Error(1)
}

func (m *MockPipelineRunStore) ByWorkflowID(ctx context.Context, workflowID string) (*database.PipelineRun, error) {
	ret := m.Called(ctx, workflowID)
	var r0 *database.PipelineRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.PipelineRun)
	}
	return r0, ret.Error(1)
}

func (m *MockPipelineRunStore) ByExperiment(ctx context.Context, experiment string, per, page int) ([]database.PipelineRun, int, error) {
	ret := m.Called(ctx, experiment, per, page)
	var r0 []database.PipelineRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.PipelineRun)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockPipelineRunStore) List(ctx context.Context, per, page int) ([]database.PipelineRun, int, error) {
	ret := m.Called(ctx, per, page)
	var r0 []database.PipelineRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.PipelineRun)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockPipelineRunStore) Update(ctx context.Context, run database.PipelineRun) (database.PipelineRun, error) {
	ret := m.Called(ctx, run)
	return ret.Get(0).(database.PipelineRun), ret.Error(1)
}

func (m *MockPipelineRunStore) UpdateStage(ctx context.Context, workflowID string, stage types.PipelineStage) error {
	ret := m.Called(ctx, workflowID, stage)
	return ret.Error(0)
}

func (m *MockPipelineRunStore) MarkFinished(ctx context.Context, workflowID string, status types.PipelineRunStatus, message string) error {
	ret := m.Called(ctx, workflowID, status, message)
	return ret.Error(0)
}

// MockTrainJobStore is a mock for database.TrainJobStore.
type MockTrainJobStore struct {
	mock.Mock
}

func (m *MockTrainJobStore) Create(ctx context.Context, job database.TrainJob) (database.TrainJob, error) {
	ret := m.Called(ctx, job)
	return ret.Get(0).(database.TrainJob), ret.Error(1)
}

func (m *MockTrainJobStore) Update(ctx context.Context, job database.TrainJob) (database.TrainJob, error) {
	ret := m.Called(ctx, job)
	return ret.Get(0).(database.TrainJob), ret.Error(1)
}

func (m *MockTrainJobStore) ByName(ctx context.Context, name string) (*database.TrainJob, error) {
	ret := m.Called(ctx, name)
	var r0 *database.TrainJob
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.TrainJob)
	}
	return r0, ret.Error(1)
}

func (m *MockTrainJobStore) ByExperiment(ctx context.Context, experiment string, per, page int) ([]database.TrainJob, int, error) {
	ret := m.Called(ctx, experiment, per, page)
	var r0 []database.TrainJob
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.TrainJob)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockTrainJobStore) List(ctx context.Context, per, page int) ([]database.TrainJob, int, error) {
	ret := m.Called(ctx, per, page)
	var r0 []database.TrainJob
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.TrainJob)
	}
	return r0, ret.Int(1), ret.Error(2)
}

func (m *MockTrainJobStore) Transition(ctx context.Context, name string, event string, message string) (*database.TrainJob, error) {
	ret := m.Called(ctx, name, event, message)
	var r0 *database.TrainJob
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*database.TrainJob)
	}
	return r0, ret.Error(1)
}

func (m *MockTrainJobStore) ClaimTimedOut(ctx context.Context, timeout time.Duration) ([]database.TrainJob, error) {
	ret := m.Called(ctx, timeout)
	var r0 []database.TrainJob
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]database.TrainJob)
	}
	return r0, ret.Error(1)
}


// NewMockComputeClusterStore creates a new instance of MockComputeClusterStore.
func NewMockComputeClusterStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockComputeClusterStore {
	mockObj := &MockComputeClusterStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockDatasetStore creates a new instance of MockDatasetStore.
func NewMockDatasetStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDatasetStore {
	mockObj := &MockDatasetStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockDatasetVersionStore creates a new instance of MockDatasetVersionStore.
func NewMockDatasetVersionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDatasetVersionStore {
	mockObj := &MockDatasetVersionStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockEnvironmentStore creates a new instance of MockEnvironmentStore.
func NewMockEnvironmentStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEnvironmentStore {
	mockObj := &MockEnvironmentStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockEnvironmentBuildStore creates a new instance of MockEnvironmentBuildStore.
func NewMockEnvironmentBuildStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEnvironmentBuildStore {
	mockObj := &MockEnvironmentBuildStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockInferenceServiceStore creates a new instance of MockInferenceServiceStore.
func NewMockInferenceServiceStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockInferenceServiceStore {
	mockObj := &MockInferenceServiceStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockRegisteredModelStore creates a new instance of MockRegisteredModelStore.
func NewMockRegisteredModelStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRegisteredModelStore {
	mockObj := &MockRegisteredModelStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockModelVersionStore creates a new instance of MockModelVersionStore.
func NewMockModelVersionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockModelVersionStore {
	mockObj := &MockModelVersionStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockPipelineRunStore creates a new instance of MockPipelineRunStore.
func NewMockPipelineRunStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPipelineRunStore {
	mockObj := &MockPipelineRunStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}

// NewMockTrainJobStore creates a new instance of MockTrainJobStore.
func NewMockTrainJobStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTrainJobStore {
	mockObj := &MockTrainJobStore{}
	mockObj.Mock.Test(t)

	t.Cleanup(func() { mockObj.AssertExpectations(t) })

	return mockObj
}
