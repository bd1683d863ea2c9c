package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Gor-Tutyan/qr-scaner/internal/config"
	"github.com/Gor-Tutyan/qr-scaner/internal/directory"
	"github.com/Gor-Tutyan/qr-scaner/internal/logger"
	"github.com/Gor-Tutyan/qr-scaner/internal/session"
	"github.com/Gor-Tutyan/qr-scaner/internal/sink"
)

type Infra struct {
	Directory directory.Directory
	Store     session.Store
	Sink      sink.Sink
	Locator   sink.ArtifactLocator

	cleanup []func() error
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	// ----------------------------
	// Client directory
	// ----------------------------

	switch cfg.Directory.Backend {
	case "postgres":
		dir, err := directory.OpenPostgres(ctx, cfg.Directory.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("app: open postgres directory: %w", err)
		}
		infra.Directory = dir
		infra.cleanup = append(infra.cleanup, dir.Close)

	default:
		path := cfg.Directory.DatabasePath(cfg.Server.Production)
		dir, err := directory.OpenSQLite(ctx, path, cfg.Directory.Seed)
		if err != nil {
			return nil, fmt.Errorf("app: open sqlite directory: %w", err)
		}
		infra.Directory = dir
		infra.cleanup = append(infra.cleanup, dir.Close)

		logger.Info("directory ready", map[string]any{
			"backend": "sqlite",
			"path":    path,
		})
	}

	// ----------------------------
	// Session store
	// ----------------------------

	switch cfg.Session.Backend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       0,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("app: redis unreachable: %w", err)
		}

		infra.Store = session.NewRedisStore(client, cfg.Session.TTL)
		infra.cleanup = append(infra.cleanup, client.Close)

		logger.Info("redis session store ready", map[string]any{
			"addr": cfg.Session.RedisAddr,
		})

	default:
		infra.Store = session.NewMemoryStore()
	}

	// ----------------------------
	// Result sink
	// ----------------------------

	var sinks sink.Multi
	if cfg.Sink.ResultFile != "" {
		fileSink := sink.NewFileSink(cfg.Sink.ResultFile, cfg.Sink.ArtifactFiles)
		sinks = append(sinks, fileSink)
		infra.Locator = fileSink
	}
	if cfg.Sink.PrinterCmd != "" {
		sinks = append(sinks, sink.NewPrinterSink(cfg.Sink.PrinterCmd, cfg.Sink.PrinterArgs))
	}
	if len(sinks) > 0 {
		infra.Sink = sinks
	}

	return infra, nil
}

func (i *Infra) Close() error {
	var first error
	for _, fn := range i.cleanup {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
