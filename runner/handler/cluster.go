package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/runner/component"
)

type ClusterHandler struct {
	clusters component.ClusterComponent
}

func NewClusterHandler(config *config.Config, clusterPool *cluster.ClusterPool) (*ClusterHandler, error) {
	if clusterPool == nil || len(clusterPool.Clusters) == 0 {
		return nil, errors.New("cluster pool is empty")
	}
	return &ClusterHandler{
		clusters: component.NewClusterComponent(config, clusterPool),
	}, nil
}

// Resources reports live node inventory for one pool
//
//	@Summary  Cluster node resources
//	@Tags     Cluster
//	@Produce  json
//	@Param    pool_id path string true "pool id"
//	@Success  200 {object} types.ClusterRes
//	@Router   /cluster/{pool_id}/resources [get]
func (h *ClusterHandler) Resources(ctx *gin.Context) {
	poolID := ctx.Param("pool_id")
	res, err := h.clusters.Resources(ctx.Request.Context(), poolID)
	if err != nil {
		slog.Error("failed to read cluster resources", slog.Any("error", err), slog.String("pool_id", poolID))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, res)
}
