package component

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tunehub.io/tunehub-server/builder/runnerclient"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

// instanceSizes is the compute size catalog. Sizes describe the per-node
// resource shape a request must find on the backing cluster; they carry no
// provisioning semantics.
var instanceSizes = map[string]types.InstanceSize{
	"cpu.medium":      {Name: "cpu.medium", CPU: 4, MemoryGB: 16},
	"cpu.xlarge":      {Name: "cpu.xlarge", CPU: 16, MemoryGB: 64},
	"gpu.t4.xlarge":   {Name: "gpu.t4.xlarge", CPU: 8, MemoryGB: 32, GPU: 1, GPUVendor: "nvidia"},
	"gpu.a10.2xlarge": {Name: "gpu.a10.2xlarge", CPU: 16, MemoryGB: 64, GPU: 1, GPUVendor: "nvidia"},
	"gpu.a100.4xlarge": {
		Name: "gpu.a100.4xlarge", CPU: 32, MemoryGB: 128, GPU: 4, GPUVendor: "nvidia",
	},
	"gpu.a100.8xlarge": {
		Name: "gpu.a100.8xlarge", CPU: 64, MemoryGB: 256, GPU: 8, GPUVendor: "nvidia",
	},
}

// InstanceSizeByName looks a size up in the catalog.
func InstanceSizeByName(name string) (types.InstanceSize, bool) {
	size, ok := instanceSizes[name]
	return size, ok
}

type ClusterComponent interface {
	// GetOrCreate looks the compute target up by name and falls back to
	// creating it only when the lookup failed with ErrNotFound. Any other
	// lookup error propagates untouched.
	GetOrCreate(ctx context.Context, req types.ComputeClusterReq) (*types.ComputeClusterRes, error)
	Get(ctx context.Context, name string) (*types.ComputeClusterRes, error)
	List(ctx context.Context) ([]types.ComputeClusterRes, error)
	Delete(ctx context.Context, name string) error
	// Resources reports the live node inventory of the pool backing the
	// named cluster, straight from the runner.
	Resources(ctx context.Context, name string) (*types.ClusterRes, error)
}

type clusterComponentImpl struct {
	config       *config.Config
	clusterStore database.ComputeClusterStore
	runner       runnerclient.Runner
}

func NewClusterComponent(config *config.Config) (ClusterComponent, error) {
	return &clusterComponentImpl{
		config:       config,
		clusterStore: database.NewComputeClusterStore(),
		runner:       runnerclient.NewRemoteRunner(config),
	}, nil
}

func (c *clusterComponentImpl) GetOrCreate(ctx context.Context, req types.ComputeClusterReq) (*types.ComputeClusterRes, error) {
	cluster, err := c.clusterStore.ByName(ctx, req.Name)
	if err == nil {
		return toClusterRes(cluster), nil
	}
	if !errors.Is(err, errorx.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up compute cluster %s: %w", req.Name, err)
	}

	slog.InfoContext(ctx, "compute cluster not found, creating it",
		slog.String("name", req.Name), slog.String("size", req.InstanceSize))
	return c.create(ctx, req)
}

func (c *clusterComponentImpl) create(ctx context.Context, req types.ComputeClusterReq) (*types.ComputeClusterRes, error) {
	size, ok := InstanceSizeByName(req.InstanceSize)
	if !ok {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("unknown instance size %q", req.InstanceSize),
			errorx.Ctx().Set("cluster", req.Name),
		)
	}

	if err := c.checkCapacity(ctx, req.PoolID, size, req.NodeCount); err != nil {
		return nil, err
	}

	cluster, err := c.clusterStore.Create(ctx, database.ComputeCluster{
		Name:         req.Name,
		DisplayName:  req.DisplayName,
		InstanceSize: req.InstanceSize,
		NodeCount:    req.NodeCount,
		PoolID:       req.PoolID,
		Status:       types.ClusterStatusReady,
	})
	if err != nil {
		// a concurrent create won the unique constraint race, read theirs
		if errors.Is(err, errorx.ErrDatabaseDuplicateKey) {
			existing, gerr := c.clusterStore.ByName(ctx, req.Name)
			if gerr != nil {
				return nil, gerr
			}
			return toClusterRes(existing), nil
		}
		return nil, fmt.Errorf("failed to create compute cluster %s: %w", req.Name, err)
	}
	return toClusterRes(cluster), nil
}

// checkCapacity verifies the backing cluster currently has at least
// nodeCount ready nodes satisfying the size's shape.
func (c *clusterComponentImpl) checkCapacity(ctx context.Context, poolID string, size types.InstanceSize, nodeCount int) error {
	res, err := c.runner.ClusterResources(ctx, poolID)
	if err != nil {
		return errorx.RemoteServiceFail(
			fmt.Errorf("failed to read node resources: %w", err),
			errorx.Ctx().Set("pool_id", poolID),
		)
	}

	fitting := 0
	for _, node := range res.Resources {
		if node.AvailableCPU < size.CPU || node.AvailableMem < size.MemoryGB {
			continue
		}
		if size.GPU > 0 {
			if node.AvailableGPU < size.GPU || node.GPUVendor != size.GPUVendor {
				continue
			}
		}
		fitting++
	}
	if fitting < nodeCount {
		return errorx.InsufficientCapacity(
			fmt.Errorf("size %s needs %d nodes, pool has %d fitting", size.Name, nodeCount, fitting),
			errorx.Ctx().Set("pool_id", poolID).Set("size", size.Name),
		)
	}
	return nil
}

func (c *clusterComponentImpl) Get(ctx context.Context, name string) (*types.ComputeClusterRes, error) {
	cluster, err := c.clusterStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toClusterRes(cluster), nil
}

func (c *clusterComponentImpl) List(ctx context.Context) ([]types.ComputeClusterRes, error) {
	clusters, err := c.clusterStore.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]types.ComputeClusterRes, 0, len(clusters))
	for _, cluster := range clusters {
		res = append(res, *toClusterRes(cluster))
	}
	return res, nil
}

func (c *clusterComponentImpl) Delete(ctx context.Context, name string) error {
	if _, err := c.clusterStore.ByName(ctx, name); err != nil {
		return err
	}
	return c.clusterStore.Delete(ctx, name)
}

func (c *clusterComponentImpl) Resources(ctx context.Context, name string) (*types.ClusterRes, error) {
	cluster, err := c.clusterStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	res, err := c.runner.ClusterResources(ctx, cluster.PoolID)
	if err != nil {
		// registry rows outlive their backing connection
		if uerr := c.clusterStore.UpdateStatus(ctx, name, types.ClusterStatusUnavailable, err.Error()); uerr != nil {
			slog.ErrorContext(ctx, "failed to mark cluster unavailable", slog.Any("error", uerr))
		}
		return nil, errorx.ClusterNotFound(err, errorx.Ctx().Set("cluster", name))
	}
	return res, nil
}

func toClusterRes(cluster database.ComputeCluster) *types.ComputeClusterRes {
	return &types.ComputeClusterRes{
		ID:           cluster.ID,
		Name:         cluster.Name,
		DisplayName:  cluster.DisplayName,
		InstanceSize: cluster.InstanceSize,
		NodeCount:    cluster.NodeCount,
		PoolID:       cluster.PoolID,
		Status:       cluster.Status,
		CreatedAt:    cluster.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    cluster.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
