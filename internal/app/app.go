package app

import (
	"context"
	"net/http"

	"github.com/Gor-Tutyan/qr-scaner/internal/config"
)

type App struct {
	httpServer  *http.Server
	sweepCancel context.CancelFunc
	cleanup     func() error
	tlsCert     string
	tlsKey      string
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, sweeper, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	go sweeper.Run(sweepCtx)

	return &App{
		httpServer:  server,
		sweepCancel: sweepCancel,
		cleanup:     cleanup,
		tlsCert:     cfg.Server.TLSCert,
		tlsKey:      cfg.Server.TLSKey,
	}, nil
}

func (a *App) Run() error {
	if a.tlsCert != "" {
		return a.httpServer.ListenAndServeTLS(a.tlsCert, a.tlsKey)
	}
	return a.httpServer.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.sweepCancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
