package app

import (
	"context"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Gor-Tutyan/qr-scaner/internal/config"
	"github.com/Gor-Tutyan/qr-scaner/internal/kiosk"
	"github.com/Gor-Tutyan/qr-scaner/internal/metrics"
	"github.com/Gor-Tutyan/qr-scaner/internal/middleware"
	"github.com/Gor-Tutyan/qr-scaner/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, *session.Sweeper, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	kioskHandler := kiosk.NewHandler(
		infra.Store,
		infra.Directory,
		infra.Sink,
		infra.Locator,
	)

	sweeper := session.NewSweeper(
		infra.Store,
		cfg.Session.SweepInterval,
		cfg.Session.TTL,
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	kioskHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// ----------------------------
	// Kiosk web pages
	// ----------------------------

	if cfg.Server.StaticDir != "" {
		router.Static("/kiosk", cfg.Server.StaticDir)

		router.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(cfg.Server.StaticDir, "index.html"))
		})
	}

	return router, sweeper, infra.Close, nil
}
