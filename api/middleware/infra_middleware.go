package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tunehub.io/tunehub-server/builder/instrumentation"
	"tunehub.io/tunehub-server/common/config"
)

func SetInfraMiddleware(r *gin.Engine, config *config.Config, serviceName string) {
	r.Use(Recovery())
	instrumentation.SetupOtelMiddleware(r, config, serviceName)
	r.Use(Request())
	r.Use(Log())

	// readinessProbe cannot send a HEAD request, so use GET
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
}
