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

func NewPipelineHandler(config *config.Config) (*PipelineHandler, error) {
	pc, err := component.NewPipelineComponent(config)
	if err != nil {
		return nil, err
	}
	return &PipelineHandler{
		c: pc,
	}, nil
}

type PipelineHandler struct {
	c component.PipelineComponent
}

// Submit godoc
// @Security     ApiKey
// @Summary      Submit a fine-tune pipeline run
// @Description  validates the settings snapshot, records the run and starts the workflow
// @Tags         Pipeline
// @Accept       json
// @Produce      json
// @Param        body body types.SubmitPipelineReq true "body"
// @Success      200  {object}  types.Response{data=types.PipelineRunRes} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /pipelines [post]
func (h *PipelineHandler) Submit(ctx *gin.Context) {
	var req types.SubmitPipelineReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad pipeline request: "+err.Error())
		return
	}
	run, err := h.c.Submit(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to submit pipeline run", slog.Any("error", err))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, run)
}

// Index godoc
// @Security     ApiKey
// @Summary      List pipeline runs
// @Tags         Pipeline
// @Produce      json
// @Param        experiment query string false "filter by experiment"
// @Param        per query int false "per" default(50)
// @Param        page query int false "per page" default(1)
// @Success      200  {object}  types.ResponseWithTotal{data=[]types.PipelineRunRes,total=int} "OK"
// @Router       /pipelines [get]
func (h *PipelineHandler) Index(ctx *gin.Context) {
	per, page, err := common.GetPerAndPageFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	runs, total, err := h.c.List(ctx.Request.Context(), ctx.Query("experiment"), per, page)
	if err != nil {
		slog.Error("failed to list pipeline runs", slog.Any("error", err))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"data":  runs,
		"total": total,
	})
}

// Show godoc
// @Security     ApiKey
// @Summary      Get one pipeline run with stage detail
// @Tags         Pipeline
// @Produce      json
// @Param        workflow_id path string true "workflow id"
// @Success      200  {object}  types.Response{data=types.PipelineRunRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /pipelines/{workflow_id} [get]
func (h *PipelineHandler) Show(ctx *gin.Context) {
	workflowID := ctx.Param("workflow_id")
	run, err := h.c.GetByWorkflowID(ctx.Request.Context(), workflowID)
	if err != nil {
		slog.Error("failed to get pipeline run", slog.Any("error", err), slog.String("workflow_id", workflowID))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, run)
}

// Cancel godoc
// @Security     ApiKey
// @Summary      Cancel a live pipeline run
// @Description  cancels the workflow and stops a live train job
// @Tags         Pipeline
// @Produce      json
// @Param        workflow_id path string true "workflow id"
// @Success      200  {object}  types.Response{} "OK"
// @Router       /pipelines/{workflow_id}/cancel [post]
func (h *PipelineHandler) Cancel(ctx *gin.Context) {
	workflowID := ctx.Param("workflow_id")
	if err := h.c.Cancel(ctx.Request.Context(), workflowID); err != nil {
		slog.Error("failed to cancel pipeline run", slog.Any("error", err), slog.String("workflow_id", workflowID))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}
