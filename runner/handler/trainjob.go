package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/runner/component"
)

type TrainJobHandler struct {
	jobs component.TrainJobComponent
}

func NewTrainJobHandler(config *config.Config, clusterPool *cluster.ClusterPool) (*TrainJobHandler, error) {
	if clusterPool == nil || len(clusterPool.Clusters) == 0 {
		return nil, errors.New("cluster pool is empty")
	}
	return &TrainJobHandler{
		jobs: component.NewTrainJobComponent(config, clusterPool),
	}, nil
}

func (h *TrainJobHandler) Component() component.TrainJobComponent {
	return h.jobs
}

// Run creates the distributed training job
//
//	@Summary  Submit a distributed train job
//	@Tags     Jobs
//	@Accept   json
//	@Produce  json
//	@Param    request body types.RunJobReq true "run request"
//	@Success  200 {object} types.RunJobResponse
//	@Router   /jobs [post]
func (h *TrainJobHandler) Run(ctx *gin.Context) {
	var req types.RunJobReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad train job request: "+err.Error())
		return
	}
	res, err := h.jobs.Run(ctx.Request.Context(), req)
	if err != nil {
		slog.Error("failed to run train job", slog.Any("error", err), slog.String("job", req.JobName))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, res)
}

// Stop deletes the training job
//
//	@Summary  Stop a train job
//	@Tags     Jobs
//	@Accept   json
//	@Produce  json
//	@Param    request body types.StopJobReq true "stop request"
//	@Success  200 {object} nil
//	@Router   /jobs/stop [post]
func (h *TrainJobHandler) Stop(ctx *gin.Context) {
	var req types.StopJobReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		httpbase.BadRequest(ctx, "bad train job stop request: "+err.Error())
		return
	}
	if err := h.jobs.Stop(ctx.Request.Context(), req); err != nil {
		slog.Error("failed to stop train job", slog.Any("error", err), slog.String("job", req.JobName))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}

// Status reads the job's current state from the cluster
//
//	@Summary  Train job status
//	@Tags     Jobs
//	@Produce  json
//	@Param    job_name path string true "job name"
//	@Success  200 {object} types.JobStatusRes
//	@Router   /jobs/{job_name}/status [get]
func (h *TrainJobHandler) Status(ctx *gin.Context) {
	jobName := ctx.Param("job_name")
	res, err := h.jobs.Status(ctx.Request.Context(), jobName)
	if err != nil {
		slog.Error("failed to query train job status", slog.Any("error", err), slog.String("job", jobName))
		httpbase.ServerError(ctx, err)
		return
	}
	httpbase.OK(ctx, res)
}

// Logs follows one rank's pod log
//
//	@Summary  Follow train job logs
//	@Tags     Jobs
//	@Produce  plain
//	@Param    job_name path string true "job name"
//	@Param    rank query int false "node rank" default(0)
//	@Success  200 {string} string
//	@Router   /jobs/{job_name}/logs [get]
func (h *TrainJobHandler) Logs(ctx *gin.Context) {
	jobName := ctx.Param("job_name")
	rank, err := strconv.Atoi(ctx.DefaultQuery("rank", "0"))
	if err != nil || rank < 0 {
		httpbase.BadRequest(ctx, "rank must be a non-negative integer")
		return
	}
	logs, err := h.jobs.Logs(ctx.Request.Context(), jobName, rank)
	if err != nil {
		slog.Error("failed to open job log stream", slog.Any("error", err), slog.String("job", jobName))
		httpbase.ServerError(ctx, err)
		return
	}
	streamLogs(ctx, logs)
}
