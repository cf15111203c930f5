package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func Log() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		startTime := time.Now()

		ctx.Next()

		latency := time.Since(startTime).Milliseconds()
		slog.InfoContext(ctx, "http request", slog.String("ip", ctx.ClientIP()),
			slog.String("method", ctx.Request.Method),
			slog.Int("latency(ms)", int(latency)),
			slog.Int("status", ctx.Writer.Status()),
			slog.String("url", ctx.Request.URL.RequestURI()),
		)
	}
}
