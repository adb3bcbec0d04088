package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-capture/internal/config"
)

// PWARoutes serves the web app manifest from the root scope so the
// browser treats the whole app as installable. The manifest has a fixed
// name, so it must not pick up long-lived cache headers.
func PWARoutes(r *gin.RouterGroup) {

	r.GET("/manifest.json", func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.File("web/manifest.json")
	})

	// Initial client-side config
	r.GET("/config.json", func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.JSON(http.StatusOK, gin.H{
			"NoticeWindow": config.Cfg.NoticeWindow,
			"FieldTTL":     config.Cfg.FieldTTL,
			"SupportURL":   config.Cfg.SupportURL,
		})
	})
}
