package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/runner/component"
)

type InferenceHandler struct {
	services component.InferenceComponent
}

func NewInferenceHandler(config *config.Config, clusterPool *cluster.ClusterPool) (*InferenceHandler, error) {
	if clusterPool == nil || len(clusterPool.Clusters) == 0 {
		return nil, errors.New("cluster pool is empty")
	}
	return &InferenceHandler{
		services: component.NewInferenceComponent(config, clusterPool),
	}, nil
}

func (h *InferenceHandler) Component() component.InferenceComponent {
	return h.services
}

// Deploy creates the serving resources for a model
//
//	@Summary  Deploy an inference service
//	@Tags     Services
//	@Accept   json
//	@Produce  json
//	@Param    request body types.RunServiceReq true "deploy request"
//	@Success  200 {object} types.RunServiceResponse
//	@Router   /services [post]
func (h *InferenceHandler) Deploy(ctx *gin.Context) {
	var req types.RunServiceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad inference deploy request: "+err.Error())
		return
	}
	res, err := h.services.Deploy(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to deploy inference service", slog.Any("error", err), slog.String("service", req.ServiceName))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, res)
}

// Stop removes the serving resources
//
//	@Summary  Stop an inference service
//	@Tags     Services
//	@Accept   json
//	@Produce  json
//	@Param    request body types.StopServiceReq true "stop request"
//	@Success  200 {object} nil
//	@Router   /services/stop [post]
func (h *InferenceHandler) Stop(ctx *gin.Context) {
	var req types.StopServiceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad inference stop request: "+err.Error())
		return
	}
	if err := h.services.Stop(ctx.Request.Context(), req); err != nil {
		slog.Error("failed to stop inference service", slog.Any("error", err), slog.String("service", req.ServiceName))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}

// Status reads the service's readiness from the cluster
//
//	@Summary  Inference service status
//	@Tags     Services
//	@Produce  json
//	@Param    service_name path string true "service name"
//	@Success  200 {object} types.ServiceStatusRes
//	@Router   /services/{service_name}/status [get]
func (h *InferenceHandler) Status(ctx *gin.Context) {
	serviceName := ctx.Param("service_name")
	res, err := h.services.Status(ctx.Request.Context(), serviceName)
	if err != nil {
		slog.Error("failed to query inference service status", slog.Any("error", err), slog.String("service", serviceName))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, res)
}
