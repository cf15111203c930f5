package component

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"tunehub.io/tunehub-server/builder/event"
	"tunehub.io/tunehub-server/builder/runnerclient"
	"tunehub.io/tunehub-server/builder/store/cache"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
	"tunehub.io/tunehub-server/common/types"
)

const buildLockExpiration = 30 * time.Second

type EnvironmentComponent interface {
	// Register stores the Dockerfile, allocates the next version and
	// dispatches a build to the runner.
	Register(ctx context.Context, req types.EnvironmentReq) (*types.EnvironmentBuildRes, error)
	Get(ctx context.Context, name string) (*types.EnvironmentRes, error)
	List(ctx context.Context) ([]types.EnvironmentRes, error)
	ListBuilds(ctx context.Context, name string, per, page int) ([]types.EnvironmentBuildRes, error)
	GetBuild(ctx context.Context, buildID string) (*types.EnvironmentBuildRes, error)
	StopBuild(ctx context.Context, buildID string) error
	// BuildLogs proxies the runner's follow-mode log stream.
	BuildLogs(ctx context.Context, buildID string) (*http.Response, error)
	// HandleBuildEvent applies a runner webhook to the registry and
	// publishes the platform event on terminal states.
	HandleBuildEvent(ctx context.Context, event *types.EnvironmentBuildEvent) error
	// ResolveImage returns the image a job should run on: the newest
	// succeeded build of the environment.
	ResolveImage(ctx context.Context, name string) (string, error)
}

type environmentComponentImpl struct {
	config     *config.Config
	envStore   database.EnvironmentStore
	buildStore database.EnvironmentBuildStore
	runner     runnerclient.Runner
	locker     cache.RedisClient
}

func NewEnvironmentComponent(ctx context.Context, config *config.Config) (EnvironmentComponent, error) {
	locker, err := cache.NewCache(ctx, cache.RedisConfig{
		Addr:         config.Redis.Endpoint,
		Username:     config.Redis.User,
		Password:     config.Redis.Password,
		MaxRetries:   config.Redis.MaxRetries,
		MinIdleConns: config.Redis.MinIdleConnections,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis locker: %w", err)
	}
	return &environmentComponentImpl{
		config:     config,
		envStore:   database.NewEnvironmentStore(),
		buildStore: database.NewEnvironmentBuildStore(),
		runner:     runnerclient.NewRemoteRunner(config),
		locker:     locker,
	}, nil
}

func (c *environmentComponentImpl) Register(ctx context.Context, req types.EnvironmentReq) (*types.EnvironmentBuildRes, error) {
	if int64(len(req.Dockerfile)) > c.config.Build.MaxDockerfileSizeKB*1024 {
		return nil, errorx.ReqParamInvalid(
			fmt.Errorf("dockerfile exceeds %d KB", c.config.Build.MaxDockerfileSizeKB),
			errorx.Ctx().Set("environment", req.Name),
		)
	}

	env, err := c.envStore.ByName(ctx, req.Name)
	if err != nil {
		if !errors.Is(err, errorx.ErrNotFound) {
			return nil, err
		}
		env, err = c.envStore.Create(ctx, database.Environment{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil && !errors.Is(err, errorx.ErrDatabaseDuplicateKey) {
			return nil, fmt.Errorf("failed to create environment %s: %w", req.Name, err)
		}
		if errors.Is(err, errorx.ErrDatabaseDuplicateKey) {
			env, err = c.envStore.ByName(ctx, req.Name)
			if err != nil {
				return nil, err
			}
		}
	}

	var build database.EnvironmentBuild
	// version allocation and build creation run under a distributed lock
	// so two concurrent registers cannot race the same version number
	err = c.locker.WaitLockToRun(ctx, "environment:build:"+req.Name, buildLockExpiration, func(ctx context.Context) error {
		version, err := c.envStore.NextVersion(ctx, req.Name)
		if err != nil {
			return err
		}
		suffix, err := gonanoid.New(6)
		if err != nil {
			return err
		}
		build, err = c.buildStore.Create(ctx, database.EnvironmentBuild{
			BuildID:       fmt.Sprintf("%s-%s", uuid.NewString()[:8], suffix),
			EnvironmentID: env.ID,
			Version:       version,
			Dockerfile:    req.Dockerfile,
			BuildArgs:     req.BuildArgs,
			Status:        types.BuildStatusPending,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate build for environment %s: %w", req.Name, err)
	}

	_, err = c.runner.BuildEnvironment(ctx, &types.EnvironmentBuildReq{
		BuildID:         build.BuildID,
		EnvironmentName: req.Name,
		Version:         build.Version,
		Dockerfile:      req.Dockerfile,
		BuildArgs:       req.BuildArgs,
	})
	if err != nil {
		if uerr := c.buildStore.UpdateStatus(ctx, build.BuildID, types.BuildStatusFailed, err.Error()); uerr != nil {
			slog.ErrorContext(ctx, "failed to fail unsubmittable build", slog.Any("error", uerr))
		}
		return nil, errorx.EnvironmentBuildFailed(err, errorx.Ctx().Set("build_id", build.BuildID))
	}

	build.Environment = &env
	res := toBuildRes(build)
	return &res, nil
}

func (c *environmentComponentImpl) Get(ctx context.Context, name string) (*types.EnvironmentRes, error) {
	env, err := c.envStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	res := toEnvironmentRes(env)
	return &res, nil
}

func (c *environmentComponentImpl) List(ctx context.Context) ([]types.EnvironmentRes, error) {
	envs, err := c.envStore.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]types.EnvironmentRes, 0, len(envs))
	for _, env := range envs {
		res = append(res, toEnvironmentRes(env))
	}
	return res, nil
}

func (c *environmentComponentImpl) ListBuilds(ctx context.Context, name string, per, page int) ([]types.EnvironmentBuildRes, error) {
	env, err := c.envStore.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	builds, err := c.buildStore.ListByEnvironmentID(ctx, env.ID, per, page)
	if err != nil {
		return nil, err
	}
	res := make([]types.EnvironmentBuildRes, 0, len(builds))
	for _, build := range builds {
		build.Environment = &env
		res = append(res, toBuildRes(build))
	}
	return res, nil
}

func (c *environmentComponentImpl) GetBuild(ctx context.Context, buildID string) (*types.EnvironmentBuildRes, error) {
	build, err := c.buildStore.ByBuildID(ctx, buildID)
	if err != nil {
		return nil, err
	}
	res := toBuildRes(*build)
	return &res, nil
}

func (c *environmentComponentImpl) StopBuild(ctx context.Context, buildID string) error {
	build, err := c.buildStore.ByBuildID(ctx, buildID)
	if err != nil {
		return err
	}
	if build.Status != types.BuildStatusPending && build.Status != types.BuildStatusBuilding {
		return errorx.ReqParamInvalid(
			fmt.Errorf("build %s is already %s", buildID, build.Status),
			errorx.Ctx().Set("build_id", buildID),
		)
	}
	if _, err := c.runner.StopBuild(ctx, &types.EnvironmentBuildStopReq{
		BuildID: buildID,
		PoolID:  build.PoolID,
	}); err != nil {
		return errorx.RemoteServiceFail(err, errorx.Ctx().Set("build_id", buildID))
	}
	return c.buildStore.UpdateStatus(ctx, buildID, types.BuildStatusStopped, "stopped by request")
}

func (c *environmentComponentImpl) BuildLogs(ctx context.Context, buildID string) (*http.Response, error) {
	if _, err := c.buildStore.ByBuildID(ctx, buildID); err != nil {
		return nil, err
	}
	return c.runner.BuildLogs(ctx, buildID)
}

func (c *environmentComponentImpl) HandleBuildEvent(ctx context.Context, buildEvent *types.EnvironmentBuildEvent) error {
	switch buildEvent.Status {
	case types.BuildStatusSucceeded:
		if err := c.buildStore.MarkSucceeded(ctx, buildEvent.BuildID, buildEvent.Image); err != nil {
			return err
		}
	default:
		if err := c.buildStore.UpdateStatus(ctx, buildEvent.BuildID, buildEvent.Status, buildEvent.Message); err != nil {
			return err
		}
	}

	if buildEvent.Status == types.BuildStatusSucceeded || buildEvent.Status == types.BuildStatusFailed {
		payload, err := json.Marshal(buildEvent)
		if err != nil {
			return err
		}
		if err := event.DefaultEventPublisher.PublishEnvironmentEvent(payload); err != nil {
			slog.ErrorContext(ctx, "failed to publish environment build event",
				slog.Any("error", err), slog.String("build_id", buildEvent.BuildID))
		}
	}
	return nil
}

func (c *environmentComponentImpl) ResolveImage(ctx context.Context, name string) (string, error) {
	env, err := c.envStore.ByName(ctx, name)
	if err != nil {
		return "", err
	}
	if env.Image == "" {
		return "", errorx.EnvironmentBuildFailed(
			fmt.Errorf("environment %s has no succeeded build yet", name),
			errorx.Ctx().Set("environment", name),
		)
	}
	return env.Image, nil
}

func toEnvironmentRes(env database.Environment) types.EnvironmentRes {
	return types.EnvironmentRes{
		ID:            env.ID,
		Name:          env.Name,
		Description:   env.Description,
		LatestVersion: env.LatestVersion,
		Image:         env.Image,
		CreatedAt:     env.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     env.UpdatedAt.Format(time.RFC3339),
	}
}

func toBuildRes(build database.EnvironmentBuild) types.EnvironmentBuildRes {
	res := types.EnvironmentBuildRes{
		ID:        build.ID,
		BuildID:   build.BuildID,
		Version:   build.Version,
		Image:     build.Image,
		Status:    build.Status,
		Message:   build.Message,
		CreatedAt: build.CreatedAt.Format(time.RFC3339),
		UpdatedAt: build.UpdatedAt.Format(time.RFC3339),
	}
	if build.Environment != nil {
		res.EnvironmentName = build.Environment.Name
	}
	return res
}
