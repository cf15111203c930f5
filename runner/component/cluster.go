package component

import (
	"context"
	"fmt"

	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
)

type ClusterComponent interface {
	Resources(ctx context.Context, poolID string) (*types.ClusterRes, error)
}

type clusterComponentImpl struct {
	config      *config.Config
	clusterPool *cluster.ClusterPool
}

func NewClusterComponent(config *config.Config, clusterPool *cluster.ClusterPool) ClusterComponent {
	return &clusterComponentImpl{
		config:      config,
		clusterPool: clusterPool,
	}
}

// Resources reports the live node inventory of one backing connection.
func (c *clusterComponentImpl) Resources(ctx context.Context, poolID string) (*types.ClusterRes, error) {
	cls, err := c.clusterPool.ByPoolID(poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cluster pool %s: %w", poolID, err)
	}
	version, err := cls.ServerVersion()
	if err != nil {
		return nil, err
	}
	nodes, err := cls.GetResourcesInCluster(ctx, c.config)
	if err != nil {
		return nil, fmt.Errorf("failed to read node resources of pool %s: %w", poolID, err)
	}
	res := &types.ClusterRes{
		PoolID:        cls.PoolID,
		ServerVersion: version,
	}
	for _, node := range nodes {
		res.Resources = append(res.Resources, node)
	}
	return res, nil
}
