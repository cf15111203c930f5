package router

import (
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"tunehub.io/tunehub-server/api/middleware"
	"tunehub.io/tunehub-server/builder/instrumentation"
	"tunehub.io/tunehub-server/common/config"
)

// NewRouter builds the api server's gin engine: infra middleware, bearer
// token auth and the registry routes for every resource the platform
// manages.
func NewRouter(config *config.Config, enableSwagger bool) (*gin.Engine, error) {
	registry, err := initHandlerRegistry(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build handler registry: %w", err)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowHeaders:     []string{"*"},
		AllowMethods:     []string{"*"},
		AllowAllOrigins:  true,
	}))
	middleware.SetInfraMiddleware(r, config, instrumentation.APIServer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if enableSwagger {
		r.GET("/api/v1/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	memoryStore := persist.NewMemoryStore(1 * time.Minute)

	//add router for golang pprof
	debugGroup := r.Group("/debug", middleware.Authenticator(config))
	pprof.RouteRegister(debugGroup, "pprof")

	apiGroup := r.Group("/api/v1")
	apiGroup.Use(middleware.Authenticator(config))

	clusters := apiGroup.Group("/clusters")
	{
		clusters.POST("", registry.Cluster.Create)
		clusters.GET("", cache.Cache(memoryStore, 30*time.Second, middleware.CacheClusterList()), registry.Cluster.Index)
		clusters.GET("/:name", registry.Cluster.Show)
		clusters.DELETE("/:name", registry.Cluster.Delete)
		clusters.GET("/:name/resources", registry.Cluster.Resources)
	}

	environments := apiGroup.Group("/environments")
	{
		environments.POST("", registry.Environment.Register)
		environments.GET("", registry.Environment.Index)
		environments.GET("/:name", registry.Environment.Show)
		environments.GET("/:name/builds", registry.Environment.Builds)
		environments.GET("/builds/:build_id", registry.Environment.ShowBuild)
		environments.POST("/builds/:build_id/stop", registry.Environment.StopBuild)
		environments.GET("/builds/:build_id/logs", registry.Environment.BuildLogs)
	}

	datasets := apiGroup.Group("/datasets")
	{
		datasets.POST("", registry.Dataset.Prepare)
		datasets.GET("", registry.Dataset.Index)
		datasets.GET("/:name", registry.Dataset.Show)
		datasets.GET("/:name/versions", registry.Dataset.Versions)
		datasets.GET("/:name/versions/:version", registry.Dataset.ShowVersion)
		datasets.GET("/:name/versions/:version/preview",
			cache.Cache(memoryStore, 10*time.Minute, middleware.CacheDatasetPreview()), registry.Dataset.Preview)
	}

	jobs := apiGroup.Group("/jobs")
	{
		jobs.POST("", registry.TrainJob.Submit)
		jobs.GET("", registry.TrainJob.Index)
		jobs.GET("/:name", registry.TrainJob.Show)
		jobs.POST("/:name/stop", registry.TrainJob.Stop)
		jobs.GET("/:name/logs", registry.TrainJob.Logs)
	}

	models := apiGroup.Group("/models")
	{
		models.POST("", registry.Model.Register)
		models.GET("", registry.Model.Index)
		models.GET("/:name", registry.Model.Show)
		models.GET("/:name/versions", registry.Model.Versions)
		models.GET("/:name/versions/:version", registry.Model.ShowVersion)
		models.GET("/:name/versions/:version/files", registry.Model.Files)
		models.POST("/:name/versions/:version/archive", registry.Model.Archive)
	}

	services := apiGroup.Group("/services")
	{
		services.POST("", registry.Inference.Deploy)
		services.GET("", registry.Inference.Index)
		services.GET("/:name", registry.Inference.Show)
		services.POST("/:name/predict", registry.Inference.Predict)
		services.DELETE("/:name", registry.Inference.Undeploy)
	}

	pipelines := apiGroup.Group("/pipelines")
	{
		pipelines.POST("", registry.Pipeline.Submit)
		pipelines.GET("", registry.Pipeline.Index)
		pipelines.GET("/:workflow_id", registry.Pipeline.Show)
		pipelines.POST("/:workflow_id/cancel", registry.Pipeline.Cancel)
	}

	apiGroup.POST("/webhook/runner", registry.Callback.RunnerWebhook)

	return r, nil
}
