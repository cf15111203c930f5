package component

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"

	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/builder/store/s3"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

type ModelComponent interface {
	// RegisterFromJob records a new version of the named model pointing
	// at a succeeded job's artifacts, with the job's final metrics.
	RegisterFromJob(ctx context.Context, req types.RegisterModelReq) (*types.ModelVersionRes, error)
	Get(ctx context.Context, name string) (*types.RegisteredModelRes, error)
	List(ctx context.Context, per, page int) ([]types.RegisteredModelRes, int, error)
	GetVersion(ctx context.Context, name string, version int) (*types.ModelVersionRes, error)
	// Latest resolves version 0 to the newest registered version.
	Latest(ctx context.Context, name string) (*types.ModelVersionRes, error)
	ListVersions(ctx context.Context, name string) ([]types.ModelVersionRes, error)
	// Files lists the artifact objects of a version with presigned
	// download urls.
	Files(ctx context.Context, name string, version int) ([]types.ModelFileRes, error)
	Archive(ctx context.Context, name string, version int) error
}

type modelComponentImpl struct {
	config       *config.Config
	modelStore   database.RegisteredModelStore
	versionStore database.ModelVersionStore
	jobStore     database.TrainJobStore
	s3Client     s3.Client
}

func NewModelComponent(config *config.Config) (ModelComponent, error) {
	s3Client, err := s3.NewMinio(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &modelComponentImpl{
		config:       config,
		modelStore:   database.NewRegisteredModelStore(),
		versionStore: database.NewModelVersionStore(),
		jobStore:     database.NewTrainJobStore(),
		s3Client:     s3Client,
	}, nil
}

func (c *modelComponentImpl) RegisterFromJob(ctx context.Context, req types.RegisterModelReq) (*types.ModelVersionRes, error) {
	job, err := c.jobStore.ByName(ctx, req.JobName)
	if err != nil {
		return nil, err
	}
	if job.Status != types.TrainJobSucceeded {
		return nil, errorx.ModelArtifactsMissing(
			fmt.Errorf("job %s is %s, only succeeded jobs can register models", job.Name, job.Status),
			errorx.Ctx().Set("job_name", job.Name),
		)
	}

	model, err := c.modelStore.CreateIfNotExist(ctx, database.RegisteredModel{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure registered model %s: %w", req.Name, err)
	}

	metric, metricValue := primaryMetric(job)
	sizeBytes := c.artifactSize(ctx, job.ArtifactPrefix)

	version, err := c.modelStore.RegisterVersion(ctx, req.Name, database.ModelVersion{
		JobName:       job.Name,
		Experiment:    job.Experiment,
		Status:        types.ModelVersionStatusRegistered,
		StoragePrefix: job.ArtifactPrefix,
		Metric:        metric,
		MetricValue:   metricValue,
		Tags:          req.Tags,
		SizeBytes:     sizeBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register model version: %w", err)
	}
	version.Model = &model
	res := toModelVersionRes(version)
	return &res, nil
}

// primaryMetric picks the metric the job's settings asked for, falling back
// to the first metric alphabetically.
func primaryMetric(job *database.TrainJob) (string, float64) {
	if len(job.Metrics) == 0 {
		return "", 0
	}
	if job.Settings != "" {
		if settings, err := types.ParsePipelineSettings([]byte(job.Settings)); err == nil {
			if value, ok := job.Metrics[settings.Metric]; ok {
				return settings.Metric, value
			}
		}
	}
	names := make([]string, 0, len(job.Metrics))
	for name := range job.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0], job.Metrics[names[0]]
}

func (c *modelComponentImpl) artifactSize(ctx context.Context, prefix string) int64 {
	var total int64
	for obj := range c.s3Client.ListObjects(ctx, c.config.S3.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			continue
		}
		total += obj.Size
	}
	return total
}

func (c *modelComponentImpl) Get(ctx context.Context, name string) (*types.RegisteredModelRes, error) {
	model, err := c.modelStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	res := toModelRes(model)
	return &res, nil
}

func (c *modelComponentImpl) List(ctx context.Context, per, page int) ([]types.RegisteredModelRes, int, error) {
	models, total, err := c.modelStore.List(ctx, per, page)
	if err != nil {
		return nil, 0, err
	}
	res := make([]types.RegisteredModelRes, 0, len(models))
	for _, model := range models {
		res = append(res, toModelRes(model))
	}
	return res, total, nil
}

func (c *modelComponentImpl) GetVersion(ctx context.Context, name string, version int) (*types.ModelVersionRes, error) {
	mv, err := c.versionStore.ByNameAndVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}
	res := toModelVersionRes(*mv)
	return &res, nil
}

func (c *modelComponentImpl) Latest(ctx context.Context, name string) (*types.ModelVersionRes, error) {
	mv, err := c.versionStore.Latest(ctx, name)
	if err != nil {
		return nil, err
	}
	res := toModelVersionRes(*mv)
	return &res, nil
}

func (c *modelComponentImpl) ListVersions(ctx context.Context, name string) ([]types.ModelVersionRes, error) {
	model, err := c.modelStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	versions, err := c.versionStore.ListByModelID(ctx, model.ID)
	if err != nil {
		return nil, err
	}
	res := make([]types.ModelVersionRes, 0, len(versions))
	for _, mv := range versions {
		mv.Model = &model
		res = append(res, toModelVersionRes(mv))
	}
	return res, nil
}

func (c *modelComponentImpl) Files(ctx context.Context, name string, version int) ([]types.ModelFileRes, error) {
	mv, err := c.versionStore.ByNameAndVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}

	expires := time.Duration(c.config.Model.PresignExpireInHours) * time.Hour
	var files []types.ModelFileRes
	for obj := range c.s3Client.ListObjects(ctx, c.config.S3.Bucket, minio.ListObjectsOptions{
		Prefix:    mv.StoragePrefix + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list model artifacts: %w", obj.Err)
		}
		signed, err := c.s3Client.PresignedGetObject(ctx, c.config.S3.Bucket, obj.Key, expires, url.Values{})
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s: %w", obj.Key, err)
		}
		files = append(files, types.ModelFileRes{
			Path:        obj.Key,
			SizeBytes:   obj.Size,
			DownloadURL: signed.String(),
		})
	}
	if len(files) == 0 {
		return nil, errorx.ModelArtifactsMissing(
			fmt.Errorf("model %s v%d has no artifacts under %s", name, version, mv.StoragePrefix),
			errorx.Ctx().Set("model", name),
		)
	}
	return files, nil
}

func (c *modelComponentImpl) Archive(ctx context.Context, name string, version int) error {
	if _, err := c.versionStore.ByNameAndVersion(ctx, name, version); err != nil {
		return err
	}
	return c.versionStore.Archive(ctx, name, version)
}

func toModelRes(model database.RegisteredModel) types.RegisteredModelRes {
	return types.RegisteredModelRes{
		Name:          model.Name,
		Description:   model.Description,
		LatestVersion: model.LatestVersion,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toModelVersionRes(mv database.ModelVersion) types.ModelVersionRes {
	res := types.ModelVersionRes{
		Version:       mv.Version,
		JobName:       mv.JobName,
		Experiment:    mv.Experiment,
		Status:        mv.Status,
		StoragePrefix: mv.StoragePrefix,
		Metric:        mv.Metric,
		MetricValue:   mv.MetricValue,
		Tags:          mv.Tags,
		SizeBytes:     mv.SizeBytes,
		Size:          humanize.IBytes(uint64(mv.SizeBytes)),
		CreatedAt:     mv.CreatedAt,
	}
	if mv.Model != nil {
		res.ModelName = mv.Model.Name
	}
	return res
}
