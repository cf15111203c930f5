package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/common/utils/common"
	"tunehub.io/tunehub-server/component"
)

func NewEnvironmentHandler(config *config.Config) (*EnvironmentHandler, error) {
	ec, err := component.NewEnvironmentComponent(context.Background(), config)
	if err != nil {
		return nil, err
	}
	return &EnvironmentHandler{
		c: ec,
	}, nil
}

type EnvironmentHandler struct {
	c component.EnvironmentComponent
}

// Register godoc
// @Security     ApiKey
// @Summary      Register an environment and build its image
// @Description  stores the dockerfile, allocates the next version and dispatches a build
// @Tags         Environment
// @Accept       json
// @Produce      json
// @Param        body body types.EnvironmentReq true "body"
// @Success      200  {object}  types.Response{data=types.EnvironmentBuildRes} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /environments [post]
func (h *EnvironmentHandler) Register(ctx *gin.Context) {
	var req types.EnvironmentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad environment request: "+err.Error())
		return
	}
	build, err := h.c.Register(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to register environment", slog.Any("error", err), slog.String("environment", req.Name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, build)
}

// Index godoc
// @Security     ApiKey
// @Summary      List environments
// @Tags         Environment
// @Produce      json
// @Success      200  {object}  types.Response{data=[]types.EnvironmentRes} "OK"
// @Router       /environments [get]
func (h *EnvironmentHandler) Index(ctx *gin.Context) {
	envs, err := h.c.List(ctx.Request.Context())
	if err != nil {
		slog.Error("failed to list environments", slog.Any("error", err))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, envs)
}

// Show godoc
// @Security     ApiKey
// @Summary      Get one environment
// @Tags         Environment
// @Produce      json
// @Param        name path string true "environment name"
// @Success      200  {object}  types.Response{data=types.EnvironmentRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /environments/{name} [get]
func (h *EnvironmentHandler) Show(ctx *gin.Context) {
	name := ctx.Param("name")
	env, err := h.c.Get(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to get environment", slog.Any("error", err), slog.String("environment", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, env)
}

// Builds godoc
// @Security     ApiKey
// @Summary      List builds of an environment
// @Tags         Environment
// @Produce      json
// @Param        name path string true "environment name"
// @Param        per query int false "per" default(50)
// @Param        page query int false "per page" default(1)
// @Success      200  {object}  types.Response{data=[]types.EnvironmentBuildRes} "OK"
// @Router       /environments/{name}/builds [get]
func (h *EnvironmentHandler) Builds(ctx *gin.Context) {
	per, page, err := common.GetPerAndPageFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	name := ctx.Param("name")
	builds, err := h.c.ListBuilds(ctx.Request.Context(), name, per, page)
	if err != nil {
		slog.Error("failed to list builds", slog.Any("error", err), slog.String("environment", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, builds)
}

// ShowBuild godoc
// @Security     ApiKey
// @Summary      Get one environment build
// @Tags         Environment
// @Produce      json
// @Param        build_id path string true "build id"
// @Success      200  {object}  types.Response{data=types.EnvironmentBuildRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /environments/builds/{build_id} [get]
func (h *EnvironmentHandler) ShowBuild(ctx *gin.Context) {
	buildID := ctx.Param("build_id")
	build, err := h.c.GetBuild(ctx.Request.Context(), buildID)
	if err != nil {
		slog.Error("failed to get build", slog.Any("error", err), slog.String("build_id", buildID))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, build)
}

// StopBuild godoc
// @Security     ApiKey
// @Summary      Stop a running environment build
// @Tags         Environment
// @Produce      json
// @Param        build_id path string true "build id"
// @Success      200  {object}  types.Response{} "OK"
// @Router       /environments/builds/{build_id}/stop [post]
func (h *EnvironmentHandler) StopBuild(ctx *gin.Context) {
	buildID := ctx.Param("build_id")
	if err := h.c.StopBuild(ctx.Request.Context(), buildID); err != nil {
		slog.Error("failed to stop build", slog.Any("error", err), slog.String("build_id", buildID))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}

// BuildLogs godoc
// @Security     ApiKey
// @Summary      Follow the build log stream
// @Tags         Environment
// @Produce      plain
// @Param        build_id path string true "build id"
// @Success      200  {string}  string
// @Router       /environments/builds/{build_id}/logs [get]
func (h *EnvironmentHandler) BuildLogs(ctx *gin.Context) {
	buildID := ctx.Param("build_id")
	resp, err := h.c.BuildLogs(ctx.Request.Context(), buildID)
	if err != nil {
		slog.Error("failed to open build log stream", slog.Any("error", err), slog.String("build_id", buildID))
		respondError(ctx, err)
		return
	}
	proxyStream(ctx, resp)
}
