package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/runner/component"
)

type EnvBuilderHandler struct {
	builder component.EnvBuilderComponent
}

func NewEnvBuilderHandler(config *config.Config, clusterPool *cluster.ClusterPool) (*EnvBuilderHandler, error) {
	if clusterPool == nil || len(clusterPool.Clusters) == 0 {
		return nil, errors.New("cluster pool is empty")
	}
	return &EnvBuilderHandler{
		builder: component.NewEnvBuilderComponent(config, clusterPool),
	}, nil
}

// Component exposes the underlying component so the service can run its
// informer alongside the http server.
func (h *EnvBuilderHandler) Component() component.EnvBuilderComponent {
	return h.builder
}

// Build starts an environment image build
//
//	@Summary  Submit an environment image build
//	@Tags     Builds
//	@Accept   json
//	@Produce  json
//	@Param    request body types.EnvironmentBuildReq true "build request"
//	@Success  200 {object} types.EnvironmentBuildResponse
//	@Router   /builds [post]
func (h *EnvBuilderHandler) Build(ctx *gin.Context) {
	var req types.EnvironmentBuildReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad environment build request: "+err.Error())
		return
	}
	res, err := h.builder.Build(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to submit environment build", slog.Any("error", err), slog.String("build_id", req.BuildID))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, res)
}

// Stop terminates a running build
//
//	@Summary  Stop an environment image build
//	@Tags     Builds
//	@Accept   json
//	@Produce  json
//	@Param    request body types.EnvironmentBuildStopReq true "stop request"
//	@Success  200 {object} nil
//	@Router   /builds/stop [post]
func (h *EnvBuilderHandler) Stop(ctx *gin.Context) {
	var req types.EnvironmentBuildStopReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad environment build stop request: "+err.Error())
		return
	}
	if err := h.builder.Stop(ctx.Request.Context(), req); err != nil {
		slog.Error("failed to stop environment build", slog.Any("error", err), slog.String("build_id", req.BuildID))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}

// Logs streams the kaniko build log
//
//	@Summary  Follow environment build logs
//	@Tags     Builds
//	@Produce  plain
//	@Param    build_id path string true "build id"
//	@Success  200 {string} string
//	@Router   /builds/{build_id}/logs [get]
func (h *EnvBuilderHandler) Logs(ctx *gin.Context) {
	buildID := ctx.Param("build_id")
	logs, err := h.builder.Logs(ctx.Request.Context(), buildID)
	if err != nil {
		slog.Error("failed to open build log stream", slog.Any("error", err), slog.String("build_id", buildID))
		httpbase.ServerError(ctx, err)
		return
	}
	streamLogs(ctx, logs)
}

func streamLogs(ctx *gin.Context, logs <-chan []byte) {
	ctx.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	ctx.Writer.Header().Set("Transfer-Encoding", "chunked")
	ctx.Writer.WriteHeader(http.StatusOK)
	ctx.Writer.Flush()
	ctx.Stream(func(w io.Writer) bool {
		select {
		case line, ok := <-logs:
			if !ok {
				return false
			}
			_, _ = w.Write(line)
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
