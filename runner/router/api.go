package router

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tunehub.io/tunehub-server/api/middleware"
	"tunehub.io/tunehub-server/builder/deploy/cluster"
	"tunehub.io/tunehub-server/builder/instrumentation"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/runner/common"
	"tunehub.io/tunehub-server/runner/handler"
)

// NewHttpServer builds the runner's gin engine, starts the per-cluster
// informers and the failed-webhook replay loop. The informers stop when ctx
// is cancelled.
func NewHttpServer(ctx context.Context, config *config.Config) (*gin.Engine, error) {
	r := gin.New()
	middleware.SetInfraMiddleware(r, config, instrumentation.Runner)

	clusterPool, err := cluster.NewClusterPool()
	if err != nil {
		return nil, fmt.Errorf("failed to build cluster pool: %w", err)
	}

	envBuilderHandler, err := handler.NewEnvBuilderHandler(config, clusterPool)
	if err != nil {
		return nil, fmt.Errorf("failed to build env builder handler: %w", err)
	}
	trainJobHandler, err := handler.NewTrainJobHandler(config, clusterPool)
	if err != nil {
		return nil, fmt.Errorf("failed to build train job handler: %w", err)
	}
	inferenceHandler, err := handler.NewInferenceHandler(config, clusterPool)
	if err != nil {
		return nil, fmt.Errorf("failed to build inference handler: %w", err)
	}
	clusterHandler, err := handler.NewClusterHandler(config, clusterPool)
	if err != nil {
		return nil, fmt.Errorf("failed to build cluster handler: %w", err)
	}

	go envBuilderHandler.Component().RunInformer(ctx)
	go trainJobHandler.Component().RunInformer(ctx)
	go inferenceHandler.Component().RunInformer(ctx)
	go replayFailedWebhooks(ctx, config)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api/v1")
	apiGroup.Use(middleware.Authenticator(config))

	builds := apiGroup.Group("/builds")
	{
		builds.POST("", envBuilderHandler.Build)
		builds.POST("/stop", envBuilderHandler.Stop)
		builds.GET("/:build_id/logs", envBuilderHandler.Logs)
	}

	jobs := apiGroup.Group("/jobs")
	{
		jobs.POST("", trainJobHandler.Run)
		jobs.POST("/stop", trainJobHandler.Stop)
		jobs.GET("/:job_name/status", trainJobHandler.Status)
		jobs.GET("/:job_name/logs", trainJobHandler.Logs)
	}

	services := apiGroup.Group("/services")
	{
		services.POST("", inferenceHandler.Deploy)
		services.POST("/stop", inferenceHandler.Stop)
		services.GET("/:service_name/status", inferenceHandler.Status)
	}

	clusterGroup := apiGroup.Group("/cluster")
	{
		clusterGroup.GET("/:pool_id/resources", clusterHandler.Resources)
	}

	return r, nil
}

// replayFailedWebhooks periodically retries webhook events the runner could
// not deliver to the api server.
func replayFailedWebhooks(ctx context.Context, config *config.Config) {
	ticker := time.NewTicker(2 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			common.PushCachedFailedEvents(config.Runner.CallbackEndpoint, config.APIToken)
		}
	}
}
