package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nightcrawler/redis-rpc-gateway/internal/dispatch"
	"github.com/nightcrawler/redis-rpc-gateway/internal/gwconfig"
	"github.com/nightcrawler/redis-rpc-gateway/internal/gwlog"
	"github.com/nightcrawler/redis-rpc-gateway/internal/httpapi"
	"github.com/nightcrawler/redis-rpc-gateway/internal/keyscan"
	"github.com/nightcrawler/redis-rpc-gateway/internal/poolreg"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway's HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return run(ctx)
}

// run wires configuration, pools, the dispatcher and the key-scan
// engine into an httpapi.Server and blocks until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, err := gwconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := gwlog.New(cfg.Settings.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info(ctx, "starting gatewayd",
		zap.String("http_addr", cfg.Settings.HTTPAddr),
		zap.Int("pool_count", len(cfg.Pools)))

	pools := poolreg.New(cfg.Pools)
	defer func() {
		if err := pools.Close(); err != nil {
			logger.Error(ctx, "closing pools", zap.Error(err))
		}
	}()

	engine, err := buildScanEngine(pools, cfg.Settings)
	if err != nil {
		return fmt.Errorf("building key-scan engine: %w", err)
	}

	d := dispatch.New(pools)
	srv := httpapi.NewServer(pools, d, engine, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Settings.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return <-errCh
}

// buildScanEngine resolves the pool keyscan.Engine should scan
// (settings.ScanTargetPool, falling back to the service pool) and
// pairs it with the service pool for search bookkeeping.
func buildScanEngine(pools *poolreg.Registry, settings gwconfig.Settings) (*keyscan.Engine, error) {
	service, rpcErr := pools.Service()
	if rpcErr != nil {
		return nil, errors.New(rpcErr.Message)
	}

	target := service
	if settings.ScanTargetPool != "" {
		t, rpcErr := pools.Get(settings.ScanTargetPool)
		if rpcErr != nil {
			return nil, errors.New(rpcErr.Message)
		}
		target = t
	}

	return keyscan.New(target.Client, service.Client, settings.ScanCount, settings.ServiceKeyPrefix), nil
}
