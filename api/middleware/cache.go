package middleware

import (
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/gin-gonic/gin"
)

// CacheClusterList caches the cluster listing. The runner refreshes node
// inventory on an informer cadence, so short staleness is acceptable here.
func CacheClusterList() cache.Option {
	return cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
		return true, cache.Strategy{
			CacheKey:      c.Request.RequestURI,
			CacheDuration: 30 * time.Second,
		}
	})
}

// CacheDatasetPreview caches preview rows. Dataset versions are immutable
// once persisted, so previews can be cached for longer.
func CacheDatasetPreview() cache.Option {
	return cache.WithCacheStrategyByRequest(func(c *gin.Context) (bool, cache.Strategy) {
		return true, cache.Strategy{
			CacheKey:      c.Request.RequestURI,
			CacheDuration: 10 * time.Minute,
		}
	})
}
