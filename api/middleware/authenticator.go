package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/errorx"
)

// Authenticator guards the API with the shared platform token. The
// comparison is constant-time so token bytes cannot be guessed one at
// a time.
func Authenticator(config *config.Config) gin.HandlerFunc {
	apiToken := []byte(config.APIToken)
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			slog.Info("missing authorization header", slog.Any("url", c.Request.URL))
			httpbase.UnauthorizedError(c, errorx.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), apiToken) != 1 {
			slog.Info("invalid api token", slog.Any("url", c.Request.URL))
			httpbase.UnauthorizedError(c, errorx.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Next()
	}
}
