package component

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/minio/minio-go/v7"
	"github.com/tidwall/gjson"

	"tunehub.io/tunehub-server/builder/event"
	"tunehub.io/tunehub-server/builder/runnerclient"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/builder/store/s3"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

const metricsObjectName = "metrics.json"

type TrainJobComponent interface {
	// Submit resolves the compute target, environment image and dataset
	// version, snapshots the settings and accelerator config, records the
	// job and hands it to the runner.
	Submit(ctx context.Context, req types.SubmitTrainJobReq) (*types.TrainJobRes, error)
	Get(ctx context.Context, name string) (*types.TrainJobRes, error)
	List(ctx context.Context, experiment string, per, page int) ([]types.TrainJobRes, int, error)
	Stop(ctx context.Context, name string) error
	// Logs proxies the runner's follow-mode log stream of one rank's pod.
	Logs(ctx context.Context, name string, rank int) (*http.Response, error)
	// HandleJobEvent applies a runner webhook through the status machine;
	// stale transitions are dropped, terminal ones publish events and, on
	// success, collect the final metrics.
	HandleJobEvent(ctx context.Context, jobEvent *types.TrainJobEvent) error
	// PackageSource tars the source directory (honoring ignore rules) and
	// uploads it under the job's source prefix.
	PackageSource(ctx context.Context, sourceDir, jobName string) (string, error)
	// FailTimedOut fails jobs that ran past the configured deadline.
	FailTimedOut(ctx context.Context) error
}

type trainJobComponentImpl struct {
	config        *config.Config
	jobStore      database.TrainJobStore
	clusterStore  database.ComputeClusterStore
	envStore      database.EnvironmentStore
	versionStore  database.DatasetVersionStore
	runner        runnerclient.Runner
	s3Client      s3.Client
	snowflakeNode *snowflake.Node
}

func NewTrainJobComponent(config *config.Config) (TrainJobComponent, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	s3Client, err := s3.NewMinio(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &trainJobComponentImpl{
		config:        config,
		jobStore:      database.NewTrainJobStore(),
		clusterStore:  database.NewComputeClusterStore(),
		envStore:      database.NewEnvironmentStore(),
		versionStore:  database.NewDatasetVersionStore(),
		runner:        runnerclient.NewRemoteRunner(config),
		s3Client:      s3Client,
		snowflakeNode: node,
	}, nil
}

func (c *trainJobComponentImpl) Submit(ctx context.Context, req types.SubmitTrainJobReq) (*types.TrainJobRes, error) {
	cluster, err := c.clusterStore.ByName(ctx, req.ComputeTarget)
	if err != nil {
		return nil, err
	}
	size, ok := InstanceSizeByName(cluster.InstanceSize)
	if !ok {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("cluster %s has unknown instance size %q", cluster.Name, cluster.InstanceSize), nil)
	}

	env, err := c.envStore.ByName(ctx, req.Environment)
	if err != nil {
		return nil, err
	}
	if env.Image == "" {
		return nil, errorx.JobSubmitFailed(
			fmt.Errorf("environment %s has no succeeded build", req.Environment),
			errorx.Ctx().Set("environment", req.Environment),
		)
	}

	var datasetPrefix string
	datasetVersion := req.DatasetVersion
	if req.DatasetName != "" {
		var dv *database.DatasetVersion
		if datasetVersion > 0 {
			dv, err = c.versionStore.ByNameAndVersion(ctx, req.DatasetName, datasetVersion)
		} else {
			dv, err = c.versionStore.LatestReady(ctx, req.DatasetName)
		}
		if err != nil {
			return nil, err
		}
		if dv.Status != types.DatasetVersionReady {
			return nil, errorx.JobSubmitFailed(
				fmt.Errorf("dataset %s v%d is %s", req.DatasetName, dv.Version, dv.Status), nil)
		}
		datasetPrefix = dv.StoragePrefix
		datasetVersion = dv.Version
	}

	nodeCount := cluster.NodeCount
	processCount := types.DefaultProcessCount
	var settingsSnapshot string
	if req.Settings != nil {
		if err := req.Settings.Validate(); err != nil {
			return nil, errorx.PipelineSettingsInvalid(err, nil)
		}
		nodeCount = req.Settings.PyTorchConfiguration.NodeCount
		processCount = req.Settings.PyTorchConfiguration.ProcessCount
		raw, err := json.Marshal(req.Settings)
		if err != nil {
			return nil, err
		}
		settingsSnapshot = string(raw)
	}
	if nodeCount > cluster.NodeCount {
		return nil, errorx.JobSubmitFailed(
			fmt.Errorf("job wants %d nodes, cluster %s has %d", nodeCount, cluster.Name, cluster.NodeCount), nil)
	}

	accelerator, err := c.patchedAccelerator(req)
	if err != nil {
		return nil, err
	}

	jobName := fmt.Sprintf("job-%s", c.snowflakeNode.Generate().Base36())
	artifactPrefix := fmt.Sprintf("artifacts/%s", jobName)

	job, err := c.jobStore.Create(ctx, database.TrainJob{
		Name:           jobName,
		Experiment:     req.Experiment,
		ComputeTarget:  req.ComputeTarget,
		Environment:    req.Environment,
		Image:          env.Image,
		DatasetName:    req.DatasetName,
		DatasetVersion: datasetVersion,
		Command:        req.Command,
		NodeCount:      nodeCount,
		ProcessCount:   processCount,
		Settings:       settingsSnapshot,
		Accelerator:    accelerator.String(),
		Status:         types.TrainJobPending,
		SourcePrefix:   req.SourcePrefix,
		ArtifactPrefix: artifactPrefix,
		PoolID:         cluster.PoolID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record train job: %w", err)
	}

	_, err = c.runner.RunJob(ctx, &types.RunJobReq{
		JobName:        jobName,
		Image:          env.Image,
		Command:        req.Command,
		NodeCount:      nodeCount,
		ProcessCount:   processCount,
		Hardware:       sizeToHardware(size),
		Env:            c.trainEnv(req),
		Accelerator:    accelerator,
		DatasetPrefix:  datasetPrefix,
		SourcePrefix:   req.SourcePrefix,
		ArtifactPrefix: artifactPrefix,
		PoolID:         cluster.PoolID,
	})
	if err != nil {
		if _, terr := c.jobStore.Transition(ctx, jobName, database.JobFail, err.Error()); terr != nil {
			slog.ErrorContext(ctx, "failed to fail unsubmittable job", slog.Any("error", terr))
		}
		return nil, errorx.JobSubmitFailed(err, errorx.Ctx().Set("job_name", jobName))
	}

	if _, err := c.jobStore.Transition(ctx, jobName, database.JobSchedule, ""); err != nil {
		slog.ErrorContext(ctx, "failed to mark job scheduling", slog.Any("error", err))
	}
	job.Status = types.TrainJobScheduling
	res := toJobRes(job)
	return &res, nil
}

// patchedAccelerator snapshots the accelerator document with the
// settings-derived overrides applied.
func (c *trainJobComponentImpl) patchedAccelerator(req types.SubmitTrainJobReq) (types.AcceleratorConfig, error) {
	accelerator := req.Accelerator
	if len(accelerator) == 0 {
		accelerator = types.DefaultAcceleratorConfig()
	}
	if err := accelerator.Validate(); err != nil {
		return nil, errorx.ReqParamInvalid(err, nil)
	}
	microBatch := 0
	if req.Settings != nil {
		microBatch = req.Settings.TrainingArgs.BatchSize
	}
	patched, err := accelerator.WithOverrides(0, microBatch)
	if err != nil {
		return nil, errorx.ReqParamInvalid(err, nil)
	}
	return patched.Compact()
}

func (c *trainJobComponentImpl) trainEnv(req types.SubmitTrainJobReq) map[string]string {
	env := map[string]string{
		"EXPERIMENT": req.Experiment,
	}
	if req.Settings != nil {
		env["MODEL"] = req.Settings.Model
		env["TASK"] = req.Settings.Task
		env["METRIC"] = req.Settings.Metric
		env["EPOCHS"] = strconv.Itoa(req.Settings.TrainingArgs.Epochs)
		env["BATCH_SIZE"] = strconv.Itoa(req.Settings.TrainingArgs.BatchSize)
		// forwarded, never interpreted
		env["EVAL_STRATEGY"] = req.Settings.TrainingArgs.EvaluationStrategy
	}
	return env
}

func sizeToHardware(size types.InstanceSize) types.HardWare {
	hw := types.HardWare{
		Cpu:    types.CPU{Num: strconv.FormatFloat(size.CPU, 'f', -1, 64)},
		Memory: fmt.Sprintf("%.0fGi", size.MemoryGB),
	}
	if size.GPU > 0 {
		hw.Gpu = types.Processor{
			Type: size.GPUVendor,
			Num:  strconv.FormatInt(size.GPU, 10),
		}
	}
	return hw
}

func (c *trainJobComponentImpl) Get(ctx context.Context, name string) (*types.TrainJobRes, error) {
	job, err := c.jobStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	res := toJobRes(*job)
	return &res, nil
}

func (c *trainJobComponentImpl) List(ctx context.Context, experiment string, per, page int) ([]types.TrainJobRes, int, error) {
	var jobs []database.TrainJob
	var total int
	var err error
	if experiment != "" {
		jobs, total, err = c.jobStore.ByExperiment(ctx, experiment, per, page)
	} else {
		jobs, total, err = c.jobStore.List(ctx, per, page)
	}
	if err != nil {
		return nil, 0, err
	}
	res := make([]types.TrainJobRes, 0, len(jobs))
	for _, job := range jobs {
		res = append(res, toJobRes(job))
	}
	return res, total, nil
}

func (c *trainJobComponentImpl) Stop(ctx context.Context, name string) error {
	job, err := c.jobStore.ByName(ctx, name)
	if err != nil {
		return err
	}
	if job.Status.IsTerminal() {
		return errorx.JobInvalidTransition(
			fmt.Errorf("job %s is already %s", name, job.Status),
			errorx.Ctx().Set("job_name", name),
		)
	}
	if _, err := c.runner.StopJob(ctx, &types.StopJobReq{
		JobName: name,
		PoolID:  job.PoolID,
	}); err != nil {
		return errorx.RemoteServiceFail(err, errorx.Ctx().Set("job_name", name))
	}
	_, err = c.jobStore.Transition(ctx, name, database.JobStop, "stopped by request")
	return err
}

func (c *trainJobComponentImpl) Logs(ctx context.Context, name string, rank int) (*http.Response, error) {
	job, err := c.jobStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if rank < 0 || rank >= job.NodeCount {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("rank %d out of range, job has %d nodes", rank, job.NodeCount), nil)
	}
	return c.runner.JobLogs(ctx, name, rank)
}

func (c *trainJobComponentImpl) HandleJobEvent(ctx context.Context, jobEvent *types.TrainJobEvent) error {
	fsmEvent, ok := jobEventForStatus(jobEvent.Status)
	if !ok {
		return errorx.ReqParamInvalid(
			fmt.Errorf("unexpected job status %q in webhook", jobEvent.Status), nil)
	}

	job, err := c.jobStore.Transition(ctx, jobEvent.JobName, fsmEvent, jobEvent.Message)
	if err != nil {
		// a webhook delivering an out of order transition is dropped
		if errors.Is(err, errorx.ErrJobInvalidTransition) {
			slog.InfoContext(ctx, "ignoring stale job transition",
				slog.String("job_name", jobEvent.JobName), slog.String("to", string(jobEvent.Status)))
			return nil
		}
		return err
	}

	if jobEvent.Status == types.TrainJobSucceeded {
		if err := c.collectMetrics(ctx, job); err != nil {
			slog.ErrorContext(ctx, "failed to collect job metrics",
				slog.Any("error", err), slog.String("job_name", job.Name))
		}
	}

	if jobEvent.Status.IsTerminal() {
		payload, err := json.Marshal(jobEvent)
		if err != nil {
			return err
		}
		if err := event.DefaultEventPublisher.PublishTrainJobEvent(payload); err != nil {
			slog.ErrorContext(ctx, "failed to publish train job event",
				slog.Any("error", err), slog.String("job_name", jobEvent.JobName))
		}
	}
	return nil
}

// collectMetrics reads the metrics file rank 0 wrote to the artifact prefix
// and stores the numeric top-level fields on the job.
func (c *trainJobComponentImpl) collectMetrics(ctx context.Context, job *database.TrainJob) error {
	objName := fmt.Sprintf("%s/%s", job.ArtifactPrefix, metricsObjectName)
	obj, err := c.s3Client.GetObject(ctx, c.config.S3.Bucket, objName, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", objName, err)
	}
	defer obj.Close()
	raw, err := io.ReadAll(obj)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", objName, err)
	}
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("%s is not valid JSON", objName)
	}

	metrics := map[string]float64{}
	gjson.ParseBytes(raw).ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number {
			metrics[key.String()] = value.Float()
		}
		return true
	})
	job.Metrics = metrics
	_, err = c.jobStore.Update(ctx, *job)
	return err
}

func (c *trainJobComponentImpl) FailTimedOut(ctx context.Context) error {
	timeout := time.Duration(c.config.TrainJob.TimeoutInMin) * time.Minute
	jobs, err := c.jobStore.ClaimTimedOut(ctx, timeout)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		slog.WarnContext(ctx, "failing timed out train job",
			slog.String("job_name", job.Name), slog.Duration("timeout", timeout))
		if _, err := c.runner.StopJob(ctx, &types.StopJobReq{
			JobName: job.Name,
			PoolID:  job.PoolID,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to stop timed out job on the cluster",
				slog.Any("error", err), slog.String("job_name", job.Name))
		}
	}
	return nil
}

func jobEventForStatus(status types.TrainJobStatus) (string, bool) {
	switch status {
	case types.TrainJobScheduling:
		return database.JobSchedule, true
	case types.TrainJobRunning:
		return database.JobRun, true
	case types.TrainJobSucceeded:
		return database.JobSucceed, true
	case types.TrainJobFailed:
		return database.JobFail, true
	case types.TrainJobStopped:
		return database.JobStop, true
	}
	return "", false
}

func toJobRes(job database.TrainJob) types.TrainJobRes {
	res := types.TrainJobRes{
		ID:             job.ID,
		Name:           job.Name,
		Experiment:     job.Experiment,
		ComputeTarget:  job.ComputeTarget,
		Environment:    job.Environment,
		Image:          job.Image,
		DatasetName:    job.DatasetName,
		DatasetVersion: job.DatasetVersion,
		Command:        job.Command,
		NodeCount:      job.NodeCount,
		ProcessCount:   job.ProcessCount,
		Status:         job.Status,
		Message:        job.Message,
		ArtifactPrefix: job.ArtifactPrefix,
		Metrics:        job.Metrics,
		CreatedAt:      job.CreatedAt.Format(time.RFC3339),
	}
	if !job.StartedAt.IsZero() {
		res.StartedAt = job.StartedAt.Format(time.RFC3339)
	}
	if !job.FinishedAt.IsZero() {
		res.FinishedAt = job.FinishedAt.Format(time.RFC3339)
	}
	return res
}
