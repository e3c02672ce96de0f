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

	"github.com/worldofchami/shopassist/pkg/config"
	"github.com/worldofchami/shopassist/pkg/logging"
	"github.com/worldofchami/shopassist/pkg/mcp"
	"github.com/worldofchami/shopassist/pkg/store"
	"github.com/worldofchami/shopassist/pkg/tools"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer func() { _ = stores.Close() }()

	srv := mcp.NewServer(tools.NewServiceFromStores(stores), logger.Named("mcp"), mcp.WithToken(cfg.MCP.Token))

	httpServer := &http.Server{
		Addr:              cfg.MCP.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mcp server listening",
			zap.String("addr", cfg.MCP.Addr),
			zap.String("rpc_endpoint", "/rpc"),
			zap.String("store", cfg.Store.Backend),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
