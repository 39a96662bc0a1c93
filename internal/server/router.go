package server

import (
	"net/http"
	"slices"

	"civic-sense/internal/config"
	"civic-sense/internal/handlers"
	"civic-sense/internal/logger"
	"civic-sense/internal/mail"
	"civic-sense/internal/metrics"
	"civic-sense/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Store   handlers.Store
	Mailer  mail.Mailer
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	if deps.Logger == nil {
		deps.Logger = logger.New(nil)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	authLimit, err := middleware.RateLimit(cfg.AuthRateLimit)
	if err != nil {
		return nil, err
	}

	h := handlers.New(handlers.Options{
		Store:     deps.Store,
		Mailer:    deps.Mailer,
		Logger:    deps.Logger,
		Metrics:   deps.Metrics,
		StaticDir: cfg.StaticDir,
	})

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(deps.Metrics),
		cors.New(corsConfig(cfg.CORSOrigins)),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)

	// AUTH
	auth := r.Group("/", authLimit)
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/forgot-password", h.ForgotPassword)

	// REPORTS
	api := r.Group("/api")
	api.GET("/reports", h.ListReports)
	api.POST("/reports", h.CreateReport)
	api.PUT("/reports/:id", h.UpdateReport)
	api.DELETE("/reports/:id", h.DeleteReport)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// FRONTEND
	r.GET("/", h.Index)
	r.NoRoute(h.Static)

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}
