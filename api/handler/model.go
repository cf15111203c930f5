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

func NewModelHandler(config *config.Config) (*ModelHandler, error) {
	mc, err := component.NewModelComponent(config)
	if err != nil {
		return nil, err
	}
	return &ModelHandler{
		c: mc,
	}, nil
}

type ModelHandler struct {
	c component.ModelComponent
}

// Register godoc
// @Security     ApiKey
// @Summary      Register a model version from a succeeded job
// @Tags         Model
// @Accept       json
// @Produce      json
// @Param        body body types.RegisterModelReq true "body"
// @Success      200  {object}  types.Response{data=types.ModelVersionRes} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /models [post]
func (h *ModelHandler) Register(ctx *gin.Context) {
	var req types.RegisterModelReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad model request: "+err.Error())
		return
	}
	mv, err := h.c.RegisterFromJob(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to register model", slog.Any("error", err),
			slog.String("model", req.Name), slog.String("job_name", req.JobName))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, mv)
}

// Index godoc
// @Security     ApiKey
// @Summary      List registered models
// @Tags         Model
// @Produce      json
// @Param        per query int false "per" default(50)
// @Param        page query int false "per page" default(1)
// @Success      200  {object}  types.ResponseWithTotal{data=[]types.RegisteredModelRes,total=int} "OK"
// @Router       /models [get]
func (h *ModelHandler) Index(ctx *gin.Context) {
	per, page, err := common.GetPerAndPageFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	models, total, err := h.c.List(ctx.Request.Context(), per, page)
	if err != nil {
		slog.Error("failed to list models", slog.Any("error", err))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"data":  models,
		"total": total,
	})
}

// Show godoc
// @Security     ApiKey
// @Summary      Get one registered model
// @Tags         Model
// @Produce      json
// @Param        name path string true "model name"
// @Success      200  {object}  types.Response{data=types.RegisteredModelRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /models/{name} [get]
func (h *ModelHandler) Show(ctx *gin.Context) {
	name := ctx.Param("name")
	model, err := h.c.Get(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to get model", slog.Any("error", err), slog.String("model", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, model)
}

// Versions godoc
// @Security     ApiKey
// @Summary      List versions of a model
// @Tags         Model
// @Produce      json
// @Param        name path string true "model name"
// @Success      200  {object}  types.Response{data=[]types.ModelVersionRes} "OK"
// @Router       /models/{name}/versions [get]
func (h *ModelHandler) Versions(ctx *gin.Context) {
	name := ctx.Param("name")
	versions, err := h.c.ListVersions(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to list model versions", slog.Any("error", err), slog.String("model", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, versions)
}

// ShowVersion godoc
// @Security     ApiKey
// @Summary      Get one model version
// @Description  version "latest" or 0 resolves to the newest registered version
// @Tags         Model
// @Produce      json
// @Param        name path string true "model name"
// @Param        version path string true "version number or latest"
// @Success      200  {object}  types.Response{data=types.ModelVersionRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /models/{name}/versions/{version} [get]
func (h *ModelHandler) ShowVersion(ctx *gin.Context) {
	name := ctx.Param("name")
	version, err := common.GetVersionFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, "bad version param: "+err.Error())
		return
	}
	var mv *types.ModelVersionRes
	if version == 0 {
		mv, err = h.c.Latest(ctx.Request.Context(), name)
	} else {
		mv, err = h.c.GetVersion(ctx.Request.Context(), name, version)
	}
	if err != nil {
		slog.Error("failed to get model version", slog.Any("error", err),
			slog.String("model", name), slog.Int("version", version))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, mv)
}

// Files godoc
// @Security     ApiKey
// @Summary      List artifact files with presigned download urls
// @Tags         Model
// @Produce      json
// @Param        name path string true "model name"
// @Param        version path string true "version number or latest"
// @Success      200  {object}  types.Response{data=[]types.ModelFileRes} "OK"
// @Router       /models/{name}/versions/{version}/files [get]
func (h *ModelHandler) Files(ctx *gin.Context) {
	name := ctx.Param("name")
	version, err := common.GetVersionFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, "bad version param: "+err.Error())
		return
	}
	files, err := h.c.Files(ctx.Request.Context(), name, version)
	if err != nil {
		slog.Error("failed to list model files", slog.Any("error", err),
			slog.String("model", name), slog.Int("version", version))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, files)
}

// Archive godoc
// @Security     ApiKey
// @Summary      Archive a model version
// @Tags         Model
// @Produce      json
// @Param        name path string true "model name"
// @Param        version path string true "version number"
// @Success      200  {object}  types.Response{} "OK"
// @Router       /models/{name}/versions/{version}/archive [post]
func (h *ModelHandler) Archive(ctx *gin.Context) {
	name := ctx.Param("name")
	version, err := common.GetVersionFromContext(ctx)
	if err != nil || version == 0 {
		httpbase.BadRequest(ctx, "archive requires an explicit version number")
		return
	}
	if err := h.c.Archive(ctx.Request.Context(), name, version); err != nil {
		slog.Error("failed to archive model version", slog.Any("error", err),
			slog.String("model", name), slog.Int("version", version))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}
