package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/common/utils/common"
	"tunehub.io/tunehub-server/component"
)

func NewTrainJobHandler(config *config.Config) (*TrainJobHandler, error) {
	tc, err := component.NewTrainJobComponent(config)
	if err != nil {
		return nil, err
	}
	return &TrainJobHandler{
		c: tc,
	}, nil
}

type TrainJobHandler struct {
	c component.TrainJobComponent
}

// Submit godoc
// @Security     ApiKey
// @Summary      Submit a distributed training job
// @Tags         TrainJob
// @Accept       json
// @Produce      json
// @Param        body body types.SubmitTrainJobReq true "body"
// @Success      200  {object}  types.Response{data=types.TrainJobRes} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /jobs [post]
func (h *TrainJobHandler) Submit(ctx *gin.Context) {
	var req types.SubmitTrainJobReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad train job request: "+err.Error())
		return
	}
	job, err := h.c.Submit(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to submit train job", slog.Any("error", err), slog.String("experiment", req.Experiment))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, job)
}

// Index godoc
// @Security     ApiKey
// @Summary      List training jobs
// @Tags         TrainJob
// @Produce      json
// @Param        experiment query string false "filter by experiment"
// @Param        per query int false "per" default(50)
// @Param        page query int false "per page" default(1)
// @Success      200  {object}  types.ResponseWithTotal{data=[]types.TrainJobRes,total=int} "OK"
// @Router       /jobs [get]
func (h *TrainJobHandler) Index(ctx *gin.Context) {
	per, page, err := common.GetPerAndPageFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	jobs, total, err := h.c.List(ctx.Request.Context(), ctx.Query("experiment"), per, page)
	if err != nil {
		slog.Error("failed to list train jobs", slog.Any("error", err))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"data":  jobs,
		"total": total,
	})
}

// Show godoc
// @Security     ApiKey
// @Summary      Get one training job
// @Tags         TrainJob
// @Produce      json
// @Param        name path string true "job name"
// @Success      200  {object}  types.Response{data=types.TrainJobRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /jobs/{name} [get]
func (h *TrainJobHandler) Show(ctx *gin.Context) {
	name := ctx.Param("name")
	job, err := h.c.Get(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to get train job", slog.Any("error", err), slog.String("job_name", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, job)
}

// Stop godoc
// @Security     ApiKey
// @Summary      Stop a running training job
// @Tags         TrainJob
// @Produce      json
// @Param        name path string true "job name"
// @Success      200  {object}  types.Response{} "OK"
// @Router       /jobs/{name}/stop [post]
func (h *TrainJobHandler) Stop(ctx *gin.Context) {
	name := ctx.Param("name")
	if err := h.c.Stop(ctx.Request.Context(), name); err != nil {
		slog.Error("failed to stop train job", slog.Any("error", err), slog.String("job_name", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}

// Logs godoc
// @Security     ApiKey
// @Summary      Follow the log stream of one rank's pod
// @Tags         TrainJob
// @Produce      plain
// @Param        name path string true "job name"
// @Param        rank query int false "node rank" default(0)
// @Success      200  {string}  string
// @Router       /jobs/{name}/logs [get]
func (h *TrainJobHandler) Logs(ctx *gin.Context) {
	name := ctx.Param("name")
	rank, err := strconv.Atoi(ctx.DefaultQuery("rank", "0"))
	if err != nil {
		httpbase.BadRequest(ctx, "bad rank param: "+err.Error())
		return
	}
	resp, err := h.c.Logs(ctx.Request.Context(), name, rank)
	if err != nil {
		slog.Error("failed to open job log stream", slog.Any("error", err), slog.String("job_name", name))
		respondError(ctx, err)
		return
	}
	proxyStream(ctx, resp)
}
