package app

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"

	. "attendance-capture/internal/config"

	"attendance-capture/internal/assetcache"
	"attendance-capture/internal/fieldstore"
	"attendance-capture/internal/install"
	"attendance-capture/internal/notify"
	"attendance-capture/internal/pipeline"
	"attendance-capture/internal/routes"
	"attendance-capture/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
)

// Services are the app components the route handlers work against.
type Services struct {
	Fields    fieldstore.Store
	Pipeline  *pipeline.Pipeline
	Board     *notify.Board
	Installer *install.Installer
	Cache     *assetcache.Cache
}

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-XSS-Protection", "1; mode=block")

	// Disable browser caching; the asset cache below is server side
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

// Middleware to check if the IP is allowed.
func IPAccessControl(allowedCIDRs []string) gin.HandlerFunc {
	// Parse allowed CIDRs
	var parsedCIDRs []*net.IPNet

	// Allow local networks in debug mode
	if os.Getenv("GIN_MODE") != "release" {
		localhostCIDRs := []string{"127.0.0.1/8", "::1/128"}
		allowedCIDRs = append(allowedCIDRs, localhostCIDRs...)
	}

	for _, cidr := range allowedCIDRs {
		_, net, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("Invalid CIDR", "cidr", cidr)
			continue
		}
		slog.Debug("Allowed CIDR", "cidr", cidr)
		parsedCIDRs = append(parsedCIDRs, net)
	}

	return func(c *gin.Context) {
		clientIP := net.ParseIP(c.ClientIP())
		if clientIP == nil {
			// Should not happen
			slog.Warn("Invalid client IP", "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		for _, cidr := range parsedCIDRs {
			if cidr.Contains(clientIP) {
				c.Next()
				return
			}
		}
		slog.Warn("IP not allowed", "ip", clientIP)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

func createRenderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()
	funcs := routes.TemplateFuncs()

	r.AddFromFilesFuncs("form.html.tmpl", funcs,
		"web/templates/base.html.tmpl", "web/templates/form.html.tmpl")
	r.AddFromFilesFuncs("error.html.tmpl", funcs,
		"web/templates/base.html.tmpl", "web/templates/error.html.tmpl")

	return r
}

func HTTPServer(svc *Services) *gin.Engine {
	r := gin.Default()

	r.HTMLRender = createRenderer()

	if Cfg.AllowedNetworks != "" {
		slog.Debug("Enabling IP access control", "allowed_networks", Cfg.AllowedNetworks)
		var allowedCIDRs []string

		for cidr := range strings.SplitSeq(Cfg.AllowedNetworks, ",") {
			// Remove spaces and ignore empty sets
			if cidr := strings.TrimSpace(cidr); cidr != "" {
				allowedCIDRs = append(allowedCIDRs, cidr)
			}
		}

		r.Use(IPAccessControl(allowedCIDRs))
	}
	r.Use(securityHeaders)

	r.Use(func(c *gin.Context) {
		c.Set("BaseURL", utils.GetBaseURL(c, Cfg.BaseURL))
		c.Next()
	})

	r.Use(routes.ErrorHandler())

	// Versioned asset cache answers before the static handler gets a
	// chance; misses fall through.
	if svc.Cache != nil {
		r.Use(svc.Cache.Middleware())
	}

	r.Static("/assets/", "./web/assets/")

	r.GET("/ping", func(c *gin.Context) {
		msg := c.Query("ping")
		if msg == "" {
			msg = "pong"
		}

		c.JSON(http.StatusOK, gin.H{
			"message": msg,
			"version": utils.GetVersion(),
		})
	})

	RegisterRoutes(r, svc)

	return r
}

func RegisterRoutes(r *gin.Engine, svc *Services) {
	rg := r.Group("/")

	routes.AttendanceRoutes(rg, svc.Pipeline, svc.Fields, svc.Board)
	routes.InstallRoutes(rg, svc.Installer)
	routes.PWARoutes(rg)
	routes.Health(rg)
}
