package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userprefs-backend/internal/bootstrap"
	"userprefs-backend/internal/shared/config"
	"userprefs-backend/internal/shared/server"
	"userprefs-backend/internal/shared/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		telemetry.Error("api.exit", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Setup(os.Stderr, "production", "")
		return err
	}
	telemetry.Setup(os.Stdout, cfg.Env, cfg.LogLevel)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	servers := []*http.Server{{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.AdminAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              cfg.AdminAddr,
			Handler:           server.NewAdminRouter(app.Metrics, app.Health),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			telemetry.Info("api.listen", map[string]any{"addr": srv.Addr})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		telemetry.Info("api.shutdown", nil)
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			telemetry.Warn("api.shutdown.failed", map[string]any{"addr": srv.Addr, "err": err.Error()})
		}
	}
	return serveErr
}
