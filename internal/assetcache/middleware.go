package assetcache

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware serves exact-URL matches from the active cache generation and
// passes everything else through to the remaining handlers. A pass-through
// miss that nothing serves is the caller's failed request; there is no
// offline fallback page.
func (c *Cache) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead {
			ctx.Next()
			return
		}

		asset, err := c.Lookup(ctx.Request.Context(), ctx.Request.URL.Path)
		if err != nil {
			slog.Error("Cache lookup failed", "path", ctx.Request.URL.Path, "error", err)
			ctx.Next()
			return
		}
		if asset == nil {
			// Miss: no write-back, only install populates the cache
			ctx.Next()
			return
		}

		ctx.Data(http.StatusOK, asset.ContentType, asset.Content)
		ctx.Abort()
	}
}
