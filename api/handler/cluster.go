package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/component"
)

func NewClusterHandler(config *config.Config) (*ClusterHandler, error) {
	cc, err := component.NewClusterComponent(config)
	if err != nil {
		return nil, err
	}
	return &ClusterHandler{
		c: cc,
	}, nil
}

type ClusterHandler struct {
	c component.ClusterComponent
}

// Create godoc
// @Security     ApiKey
// @Summary      Get or create a compute target
// @Description  looks the compute target up by name and creates it when absent
// @Tags         Cluster
// @Accept       json
// @Produce      json
// @Param        body body types.ComputeClusterReq true "body"
// @Success      200  {object}  types.Response{data=types.ComputeClusterRes} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /clusters [post]
func (h *ClusterHandler) Create(ctx *gin.Context) {
	var req types.ComputeClusterReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad cluster request: "+err.Error())
		return
	}
	cluster, err := h.c.GetOrCreate(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to get or create cluster", slog.Any("error", err), slog.String("cluster", req.Name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, cluster)
}

// Index godoc
// @Security     ApiKey
// @Summary      List compute targets
// @Tags         Cluster
// @Produce      json
// @Success      200  {object}  types.Response{data=[]types.ComputeClusterRes} "OK"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /clusters [get]
func (h *ClusterHandler) Index(ctx *gin.Context) {
	clusters, err := h.c.List(ctx.Request.Context())
	if err != nil {
		slog.Error("failed to list clusters", slog.Any("error", err))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, clusters)
}

// Show godoc
// @Security     ApiKey
// @Summary      Get one compute target
// @Tags         Cluster
// @Produce      json
// @Param        name path string true "cluster name"
// @Success      200  {object}  types.Response{data=types.ComputeClusterRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /clusters/{name} [get]
func (h *ClusterHandler) Show(ctx *gin.Context) {
	name := ctx.Param("name")
	cluster, err := h.c.Get(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to get cluster", slog.Any("error", err), slog.String("cluster", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, cluster)
}

// Delete godoc
// @Security     ApiKey
// @Summary      Delete a compute target
// @Tags         Cluster
// @Produce      json
// @Param        name path string true "cluster name"
// @Success      200  {object}  types.Response{} "OK"
// @Router       /clusters/{name} [delete]
func (h *ClusterHandler) Delete(ctx *gin.Context) {
	name := ctx.Param("name")
	if err := h.c.Delete(ctx.Request.Context(), name); err != nil {
		slog.Error("failed to delete cluster", slog.Any("error", err), slog.String("cluster", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}

// Resources godoc
// @Security     ApiKey
// @Summary      Live node inventory of the cluster's pool
// @Tags         Cluster
// @Produce      json
// @Param        name path string true "cluster name"
// @Success      200  {object}  types.Response{data=types.ClusterRes} "OK"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /clusters/{name}/resources [get]
func (h *ClusterHandler) Resources(ctx *gin.Context) {
	name := ctx.Param("name")
	res, err := h.c.Resources(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to get cluster resources", slog.Any("error", err), slog.String("cluster", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, res)
}
