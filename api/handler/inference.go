package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/common/utils/common"
	"tunehub.io/tunehub-server/component"
)

func NewInferenceHandler(config *config.Config) (*InferenceHandler, error) {
	ic, err := component.NewInferenceComponent(config)
	if err != nil {
		return nil, err
	}
	return &InferenceHandler{
		c: ic,
	}, nil
}

type InferenceHandler struct {
	c component.InferenceComponent
}

// Deploy godoc
// @Security     ApiKey
// @Summary      Deploy a registered model version
// @Tags         Inference
// @Accept       json
// @Produce      json
// @Param        body body types.DeployInferenceReq true "body"
// @Success      200  {object}  types.Response{data=types.InferenceServiceRes} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /services [post]
func (h *InferenceHandler) Deploy(ctx *gin.Context) {
	var req types.DeployInferenceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad deploy request: "+err.Error())
		return
	}
	svc, err := h.c.Deploy(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to deploy inference service", slog.Any("error", err), slog.String("model", req.ModelName))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, svc)
}

// Index godoc
// @Security     ApiKey
// @Summary      List inference services
// @Tags         Inference
// @Produce      json
// @Param        per query int false "per" default(50)
// @Param        page query int false "per page" default(1)
// @Success      200  {object}  types.ResponseWithTotal{data=[]types.InferenceServiceRes,total=int} "OK"
// @Router       /services [get]
func (h *InferenceHandler) Index(ctx *gin.Context) {
	per, page, err := common.GetPerAndPageFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	svcs, total, err := h.c.List(ctx.Request.Context(), per, page)
	if err != nil {
		slog.Error("failed to list inference services", slog.Any("error", err))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"data":  svcs,
		"total": total,
	})
}

// Show godoc
// @Security     ApiKey
// @Summary      Get one inference service
// @Tags         Inference
// @Produce      json
// @Param        name path string true "service name"
// @Success      200  {object}  types.Response{data=types.InferenceServiceRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /services/{name} [get]
func (h *InferenceHandler) Show(ctx *gin.Context) {
	name := ctx.Param("name")
	svc, err := h.c.Get(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to get inference service", slog.Any("error", err), slog.String("service", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, svc)
}

// Predict godoc
// @Security     ApiKey
// @Summary      Run a prediction through a running service
// @Tags         Inference
// @Accept       json
// @Produce      json
// @Param        name path string true "service name"
// @Param        body body types.PredictReq true "body"
// @Success      200  {object}  types.Response{data=types.PredictRes} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /services/{name}/predict [post]
func (h *InferenceHandler) Predict(ctx *gin.Context) {
	var req types.PredictReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad predict request: "+err.Error())
		return
	}
	req.ServiceName = ctx.Param("name")
	out, err := h.c.Predict(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("prediction failed", slog.Any("error", err), slog.String("service", req.ServiceName))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, out)
}

// Undeploy godoc
// @Security     ApiKey
// @Summary      Stop and remove an inference service
// @Tags         Inference
// @Produce      json
// @Param        name path string true "service name"
// @Success      200  {object}  types.Response{} "OK"
// @Router       /services/{name} [delete]
func (h *InferenceHandler) Undeploy(ctx *gin.Context) {
	name := ctx.Param("name")
	if err := h.c.Undeploy(ctx.Request.Context(), name); err != nil {
		slog.Error("failed to undeploy inference service", slog.Any("error", err), slog.String("service", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}
