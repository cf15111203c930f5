package component

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"tunehub.io/tunehub-server/builder/event"
	"tunehub.io/tunehub-server/builder/rpc"
	"tunehub.io/tunehub-server/builder/runnerclient"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type InferenceComponent interface {
	// Deploy serves a registered model version behind an HTTP endpoint.
	Deploy(ctx context.Context, req types.DeployInferenceReq) (*types.InferenceServiceRes, error)
	Get(ctx context.Context, name string) (*types.InferenceServiceRes, error)
	List(ctx context.Context, per, page int) ([]types.InferenceServiceRes, int, error)
	// Predict proxies a JSON predict request to the service endpoint.
	Predict(ctx context.Context, req types.PredictReq) (*types.PredictRes, error)
	Undeploy(ctx context.Context, name string) error
	// HandleServiceEvent applies a runner webhook to the registry.
	HandleServiceEvent(ctx context.Context, svcEvent *types.InferenceEvent) error
}

type inferenceComponentImpl struct {
	config       *config.Config
	svcStore     database.InferenceServiceStore
	versionStore database.ModelVersionStore
	envStore     database.EnvironmentStore
	clusterStore database.ComputeClusterStore
	runner       runnerclient.Runner
}

func NewInferenceComponent(config *config.Config) (InferenceComponent, error) {
	return &inferenceComponentImpl{
		config:       config,
		svcStore:     database.NewInferenceServiceStore(),
		versionStore: database.NewModelVersionStore(),
		envStore:     database.NewEnvironmentStore(),
		clusterStore: database.NewComputeClusterStore(),
		runner:       runnerclient.NewRemoteRunner(config),
	}, nil
}

func (c *inferenceComponentImpl) Deploy(ctx context.Context, req types.DeployInferenceReq) (*types.InferenceServiceRes, error) {
	var mv *database.ModelVersion
	var err error
	if req.ModelVersion > 0 {
		mv, err = c.versionStore.ByNameAndVersion(ctx, req.ModelName, req.ModelVersion)
	} else {
		mv, err = c.versionStore.Latest(ctx, req.ModelName)
	}
	if err != nil {
		return nil, err
	}
	if mv.Status == types.ModelVersionStatusArchived {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("model %s v%d is archived", req.ModelName, mv.Version), nil)
	}

	cluster, err := c.clusterStore.ByName(ctx, req.Cluster)
	if err != nil {
		return nil, err
	}
	if cluster.Status != types.ClusterStatusReady {
		return nil, errorx.ClusterNotFound(
			fmt.Errorf("cluster %s is %s", cluster.Name, cluster.Status),
			errorx.Ctx().Set("cluster", cluster.Name),
		)
	}

	env, err := c.envStore.ByName(ctx, req.Environment)
	if err != nil {
		return nil, err
	}
	if env.Image == "" {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("environment %s has no succeeded build", req.Environment), nil)
	}

	nodeCount := req.NodeCount
	if nodeCount < 1 {
		nodeCount = 1
	}
	computeSize := req.ComputeSize
	if computeSize == "" {
		computeSize = cluster.InstanceSize
	}
	size, ok := InstanceSizeByName(computeSize)
	if !ok {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("unknown instance size %q", computeSize), nil)
	}
	hardware := sizeToHardware(size)

	serviceName := fmt.Sprintf("serve-%s-v%d", req.ModelName, mv.Version)
	svc, err := c.svcStore.Create(ctx, database.InferenceService{
		Name:         serviceName,
		ModelName:    req.ModelName,
		ModelVersion: mv.Version,
		Image:        env.Image,
		Command:      req.Command,
		NodeCount:    nodeCount,
		ProcessCount: req.ProcessCount,
		ComputeSize:  computeSize,
		Status:       types.InferenceStatusPending,
		PoolID:       cluster.PoolID,
	})
	if err != nil {
		if errors.Is(err, errorx.ErrDatabaseDuplicateKey) {
			return nil, errorx.ReqParamInvalid(
				fmt.Errorf("model %s v%d is already deployed as %s", req.ModelName, mv.Version, serviceName), nil)
		}
		return nil, err
	}

	serveEnv := map[string]string{
		"MODEL_NAME":    req.ModelName,
		"MODEL_VERSION": strconv.Itoa(mv.Version),
	}
	for k, v := range req.Env {
		serveEnv[k] = v
	}

	_, err = c.runner.RunService(ctx, &types.RunServiceReq{
		ServiceName:  serviceName,
		Image:        env.Image,
		Command:      req.Command,
		ModelPrefix:  mv.StoragePrefix,
		NodeCount:    nodeCount,
		ProcessCount: req.ProcessCount,
		Hardware:     hardware,
		Env:          serveEnv,
		PoolID:       cluster.PoolID,
	})
	if err != nil {
		if uerr := c.svcStore.UpdateStatus(ctx, serviceName, types.InferenceStatusFailed, "", err.Error()); uerr != nil {
			slog.ErrorContext(ctx, "failed to fail undeployable service", slog.Any("error", uerr))
		}
		return nil, errorx.RemoteServiceFail(err, errorx.Ctx().Set("service", serviceName))
	}

	if err := c.svcStore.UpdateStatus(ctx, serviceName, types.InferenceStatusDeploying, "", ""); err != nil {
		slog.ErrorContext(ctx, "failed to mark service deploying", slog.Any("error", err))
	}
	svc.Status = types.InferenceStatusDeploying
	res := toInferenceRes(svc)
	return &res, nil
}

func (c *inferenceComponentImpl) Get(ctx context.Context, name string) (*types.InferenceServiceRes, error) {
	svc, err := c.svcStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	res := toInferenceRes(*svc)
	return &res, nil
}

func (c *inferenceComponentImpl) List(ctx context.Context, per, page int) ([]types.InferenceServiceRes, int, error) {
	svcs, total, err := c.svcStore.List(ctx, per, page)
	if err != nil {
		return nil, 0, err
	}
	res := make([]types.InferenceServiceRes, 0, len(svcs))
	for _, svc := range svcs {
		res = append(res, toInferenceRes(svc))
	}
	return res, total, nil
}

func (c *inferenceComponentImpl) Predict(ctx context.Context, req types.PredictReq) (*types.PredictRes, error) {
	svc, err := c.svcStore.ByName(ctx, req.ServiceName)
	if err != nil {
		return nil, err
	}
	if svc.Status != types.InferenceStatusRunning || svc.Endpoint == "" {
		return nil, errorx.PredictFailed(
			fmt.Errorf("service %s is %s", svc.Name, svc.Status),
			errorx.Ctx().Set("service", svc.Name),
		)
	}

	client := rpc.NewHttpClient(svc.Endpoint)
	start := time.Now()
	var out types.PredictRes
	if err := client.Post(ctx, "/predict", req, &out); err != nil {
		return nil, errorx.PredictFailed(err, errorx.Ctx().Set("service", svc.Name))
	}
	out.LatencyMs = float64(time.Since(start).Microseconds()) / 1000
	return &out, nil
}

func (c *inferenceComponentImpl) Undeploy(ctx context.Context, name string) error {
	svc, err := c.svcStore.ByName(ctx, name)
	if err != nil {
		return err
	}
	if _, err := c.runner.StopService(ctx, &types.StopServiceReq{
		ServiceName: name,
		PoolID:      svc.PoolID,
	}); err != nil {
		return errorx.RemoteServiceFail(err, errorx.Ctx().Set("service", name))
	}
	return c.svcStore.UpdateStatus(ctx, name, types.InferenceStatusStopped, "", "stopped by request")
}

func (c *inferenceComponentImpl) HandleServiceEvent(ctx context.Context, svcEvent *types.InferenceEvent) error {
	svc, err := c.svcStore.ByName(ctx, svcEvent.ServiceName)
	if err != nil {
		return err
	}
	// stopped services keep their terminal state whatever the informer sees
	if svc.Status == types.InferenceStatusStopped {
		return nil
	}
	if err := c.svcStore.UpdateStatus(ctx, svcEvent.ServiceName, svcEvent.Status, svcEvent.Endpoint, svcEvent.Message); err != nil {
		return err
	}

	if svcEvent.Status == types.InferenceStatusRunning || svcEvent.Status == types.InferenceStatusFailed {
		payload, err := json.Marshal(svcEvent)
		if err != nil {
			return err
		}
		if err := event.DefaultEventPublisher.PublishInferenceEvent(payload); err != nil {
			slog.ErrorContext(ctx, "failed to publish inference event",
				slog.Any("error", err), slog.String("service", svcEvent.ServiceName))
		}
	}
	return nil
}

func toInferenceRes(svc database.InferenceService) types.InferenceServiceRes {
	return types.InferenceServiceRes{
		Name:         svc.Name,
		ModelName:    svc.ModelName,
		ModelVersion: svc.ModelVersion,
		Status:       svc.Status,
		Endpoint:     svc.Endpoint,
		NodeCount:    svc.NodeCount,
		Message:      svc.Message,
		CreatedAt:    svc.CreatedAt,
		UpdatedAt:    svc.UpdatedAt,
	}
}
