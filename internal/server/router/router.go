package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/config"
	"github.com/fabstash/backend/internal/server/handlers"
	"github.com/fabstash/backend/internal/service/auth"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Fabrics   *handlers.FabricHandler
	Usages    *handlers.UsageHandler
	Brands    *handlers.CatalogHandler
	Materials *handlers.CatalogHandler
	Tags      *handlers.CatalogHandler
	Channels  *handlers.CatalogHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(cfg *config.Config, authSvc *auth.Service, h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	authorized := api.Group("", requireAuth(authSvc, logger))
	authorized.PUT("/auth/user", h.Auth.UpdateUser)

	authorized.GET("/fabrics", h.Fabrics.List)
	authorized.GET("/fabrics/stats", h.Fabrics.Stats)
	authorized.GET("/fabrics/export", h.Fabrics.Export)
	authorized.POST("/fabrics", h.Fabrics.Create)
	authorized.GET("/fabrics/:id", h.Fabrics.Get)
	authorized.PUT("/fabrics/:id", h.Fabrics.Update)
	authorized.DELETE("/fabrics/:id", h.Fabrics.Delete)
	authorized.PUT("/fabrics/:id/favorite", h.Fabrics.ToggleFavorite)

	authorized.POST("/usages", h.Usages.Create)
	authorized.GET("/usages", h.Usages.List)

	mountCatalog(authorized, "/brands", h.Brands)
	mountCatalog(authorized, "/materials", h.Materials)
	mountCatalog(authorized, "/tags", h.Tags)
	mountCatalog(authorized, "/channels", h.Channels)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func mountCatalog(group *gin.RouterGroup, path string, handler *handlers.CatalogHandler) {
	group.POST(path, handler.Create)
	group.GET(path, handler.List)
	group.DELETE(path+"/:id", handler.Delete)
}
