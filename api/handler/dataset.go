package handler

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/common/utils/common"
	"tunehub.io/tunehub-server/component"
)

func NewDatasetHandler(config *config.Config) (*DatasetHandler, error) {
	dc, err := component.NewDatasetComponent(context.Background(), config)
	if err != nil {
		return nil, err
	}
	return &DatasetHandler{
		c: dc,
	}, nil
}

type DatasetHandler struct {
	c component.DatasetComponent
}

// Prepare godoc
// @Security     ApiKey
// @Summary      Prepare a new dataset version
// @Description  downloads the raw splits, tokenizes them and registers a Ready version
// @Tags         Dataset
// @Accept       json
// @Produce      json
// @Param        body body types.PrepareDatasetReq true "body"
// @Success      200  {object}  types.Response{data=types.DatasetVersionRes} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Failure      500  {object}  types.APIInternalServerError "Internal server error"
// @Router       /datasets [post]
func (h *DatasetHandler) Prepare(ctx *gin.Context) {
	var req types.PrepareDatasetReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad dataset request: "+err.Error())
		return
	}
	dv, err := h.c.Prepare(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to prepare dataset", slog.Any("error", err), slog.String("dataset", req.Name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, dv)
}

// Index godoc
// @Security     ApiKey
// @Summary      List datasets
// @Tags         Dataset
// @Produce      json
// @Param        per query int false "per" default(50)
// @Param        page query int false "per page" default(1)
// @Success      200  {object}  types.ResponseWithTotal{data=[]types.DatasetRes,total=int} "OK"
// @Router       /datasets [get]
func (h *DatasetHandler) Index(ctx *gin.Context) {
	per, page, err := common.GetPerAndPageFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, err.Error())
		return
	}
	datasets, total, err := h.c.List(ctx.Request.Context(), per, page)
	if err != nil {
		slog.Error("failed to list datasets", slog.Any("error", err))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, gin.H{
		"data":  datasets,
		"total": total,
	})
}

// Show godoc
// @Security     ApiKey
// @Summary      Get one dataset
// @Tags         Dataset
// @Produce      json
// @Param        name path string true "dataset name"
// @Success      200  {object}  types.Response{data=types.DatasetRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /datasets/{name} [get]
func (h *DatasetHandler) Show(ctx *gin.Context) {
	name := ctx.Param("name")
	dataset, err := h.c.Get(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to get dataset", slog.Any("error", err), slog.String("dataset", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, dataset)
}

// Versions godoc
// @Security     ApiKey
// @Summary      List versions of a dataset
// @Tags         Dataset
// @Produce      json
// @Param        name path string true "dataset name"
// @Success      200  {object}  types.Response{data=[]types.DatasetVersionRes} "OK"
// @Router       /datasets/{name}/versions [get]
func (h *DatasetHandler) Versions(ctx *gin.Context) {
	name := ctx.Param("name")
	versions, err := h.c.ListVersions(ctx.Request.Context(), name)
	if err != nil {
		slog.Error("failed to list dataset versions", slog.Any("error", err), slog.String("dataset", name))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, versions)
}

// ShowVersion godoc
// @Security     ApiKey
// @Summary      Get one dataset version
// @Description  version "latest" or 0 resolves to the newest Ready version
// @Tags         Dataset
// @Produce      json
// @Param        name path string true "dataset name"
// @Param        version path string true "version number or latest"
// @Success      200  {object}  types.Response{data=types.DatasetVersionRes} "OK"
// @Failure      404  {object}  types.APIBadRequest "Not found"
// @Router       /datasets/{name}/versions/{version} [get]
func (h *DatasetHandler) ShowVersion(ctx *gin.Context) {
	name := ctx.Param("name")
	version, err := common.GetVersionFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, "bad version param: "+err.Error())
		return
	}
	var dv *types.DatasetVersionRes
	if version == 0 {
		dv, err = h.c.LatestReady(ctx.Request.Context(), name)
	} else {
		dv, err = h.c.GetVersion(ctx.Request.Context(), name, version)
	}
	if err != nil {
		slog.Error("failed to get dataset version", slog.Any("error", err),
			slog.String("dataset", name), slog.Int("version", version))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, dv)
}

// Preview godoc
// @Security     ApiKey
// @Summary      Preview tokenized rows of a split
// @Tags         Dataset
// @Produce      json
// @Param        name path string true "dataset name"
// @Param        version path string true "version number or latest"
// @Param        split query string false "split name" default(train)
// @Param        count query int false "row count" default(20)
// @Success      200  {object}  types.Response{data=types.DatasetPreviewRes} "OK"
// @Router       /datasets/{name}/versions/{version}/preview [get]
func (h *DatasetHandler) Preview(ctx *gin.Context) {
	name := ctx.Param("name")
	version, err := common.GetVersionFromContext(ctx)
	if err != nil {
		httpbase.BadRequest(ctx, "bad version param: "+err.Error())
		return
	}
	split := ctx.DefaultQuery("split", "train")
	count, err := strconv.Atoi(ctx.DefaultQuery("count", "0"))
	if err != nil {
		httpbase.BadRequest(ctx, "bad count param: "+err.Error())
		return
	}
	preview, err := h.c.Preview(ctx.Request.Context(), name, version, split, count)
	if err != nil {
		slog.Error("failed to preview dataset", slog.Any("error", err),
			slog.String("dataset", name), slog.String("split", split))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, preview)
}
