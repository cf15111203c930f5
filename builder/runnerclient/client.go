package runnerclient

import (
	"context"
	"fmt"
	"net/http"

	"tunehub.io/tunehub-server/builder/rpc"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
)

// Runner is the api server's view of the Kubernetes execution plane. Every
// method is a thin JSON call into the runner service; log methods hand the
// raw streaming response to the caller.
type Runner interface {
	BuildEnvironment(ctx context.Context, req *types.EnvironmentBuildReq) (*types.EnvironmentBuildResponse, error)
	StopBuild(ctx context.Context, req *types.EnvironmentBuildStopReq) (*types.EnvironmentBuildResponse, error)
	BuildLogs(ctx context.Context, buildID string) (*http.Response, error)

	RunJob(ctx context.Context, req *types.RunJobReq) (*types.RunJobResponse, error)
	StopJob(ctx context.Context, req *types.StopJobReq) (*types.RunJobResponse, error)
	JobStatus(ctx context.Context, jobName string) (*types.JobStatusRes, error)
	JobLogs(ctx context.Context, jobName string, rank int) (*http.Response, error)

	RunService(ctx context.Context, req *types.RunServiceReq) (*types.RunServiceResponse, error)
	StopService(ctx context.Context, req *types.StopServiceReq) (*types.RunServiceResponse, error)
	ServiceStatus(ctx context.Context, serviceName string) (*types.ServiceStatusRes, error)

	ClusterResources(ctx context.Context, poolID string) (*types.ClusterRes, error)
}

type remoteRunner struct {
	client *rpc.HttpClient
}

func NewRemoteRunner(cfg *config.Config) Runner {
	client := rpc.NewHttpClient(cfg.Runner.Endpoint, rpc.AuthWithApiKey(cfg.APIToken)).WithRetry(3)
	return &remoteRunner{client: client}
}

func (r *remoteRunner) BuildEnvironment(ctx context.Context, req *types.EnvironmentBuildReq) (*types.EnvironmentBuildResponse, error) {
	var res types.EnvironmentBuildResponse
	if err := r.client.Post(ctx, "/api/v1/builds", req, &res); err != nil {
		return nil, fmt.Errorf("failed to submit environment build %s: %w", req.BuildID, err)
	}
	return &res, nil
}

func (r *remoteRunner) StopBuild(ctx context.Context, req *types.EnvironmentBuildStopReq) (*types.EnvironmentBuildResponse, error) {
	var res types.EnvironmentBuildResponse
	if err := r.client.Post(ctx, "/api/v1/builds/stop", req, &res); err != nil {
		return nil, fmt.Errorf("failed to stop environment build %s: %w", req.BuildID, err)
	}
	return &res, nil
}

func (r *remoteRunner) BuildLogs(ctx context.Context, buildID string) (*http.Response, error) {
	return r.client.GetResponse(ctx, fmt.Sprintf("/api/v1/builds/%s/logs", buildID))
}

func (r *remoteRunner) RunJob(ctx context.Context, req *types.RunJobReq) (*types.RunJobResponse, error) {
	var res types.RunJobResponse
	if err := r.client.Post(ctx, "/api/v1/jobs", req, &res); err != nil {
		return nil, fmt.Errorf("failed to submit train job %s: %w", req.JobName, err)
	}
	return &res, nil
}

func (r *remoteRunner) StopJob(ctx context.Context, req *types.StopJobReq) (*types.RunJobResponse, error) {
	var res types.RunJobResponse
	if err := r.client.Post(ctx, "/api/v1/jobs/stop", req, &res); err != nil {
		return nil, fmt.Errorf("failed to stop train job %s: %w", req.JobName, err)
	}
	return &res, nil
}

func (r *remoteRunner) JobStatus(ctx context.Context, jobName string) (*types.JobStatusRes, error) {
	var res types.JobStatusRes
	if err := r.client.Get(ctx, fmt.Sprintf("/api/v1/jobs/%s/status", jobName), &res); err != nil {
		return nil, fmt.Errorf("failed to query train job %s status: %w", jobName, err)
	}
	return &res, nil
}

func (r *remoteRunner) JobLogs(ctx context.Context, jobName string, rank int) (*http.Response, error) {
	return r.client.GetResponse(ctx, fmt.Sprintf("/api/v1/jobs/%s/logs?rank=%d", jobName, rank))
}

func (r *remoteRunner) RunService(ctx context.Context, req *types.RunServiceReq) (*types.RunServiceResponse, error) {
	var res types.RunServiceResponse
	if err := r.client.Post(ctx, "/api/v1/services", req, &res); err != nil {
		return nil, fmt.Errorf("failed to deploy inference service %s: %w", req.ServiceName, err)
	}
	return &res, nil
}

func (r *remoteRunner) StopService(ctx context.Context, req *types.StopServiceReq) (*types.RunServiceResponse, error) {
	var res types.RunServiceResponse
	if err := r.client.Post(ctx, "/api/v1/services/stop", req, &res); err != nil {
		return nil, fmt.Errorf("failed to stop inference service %s: %w", req.ServiceName, err)
	}
	return &res, nil
}

func (r *remoteRunner) ServiceStatus(ctx context.Context, serviceName string) (*types.ServiceStatusRes, error) {
	var res types.ServiceStatusRes
	if err := r.client.Get(ctx, fmt.Sprintf("/api/v1/services/%s/status", serviceName), &res); err != nil {
		return nil, fmt.Errorf("failed to query inference service %s status: %w", serviceName, err)
	}
	return &res, nil
}

func (r *remoteRunner) ClusterResources(ctx context.Context, poolID string) (*types.ClusterRes, error) {
	var res types.ClusterRes
	if err := r.client.Get(ctx, fmt.Sprintf("/api/v1/cluster/%s/resources", poolID), &res); err != nil {
		return nil, fmt.Errorf("failed to query cluster %s resources: %w", poolID, err)
	}
	return &res, nil
}
