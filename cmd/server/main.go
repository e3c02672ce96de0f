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

	"github.com/nlpodyssey/openai-agents-go/tracing"
	"github.com/worldofchami/shopassist/pkg/config"
	"github.com/worldofchami/shopassist/pkg/logging"
	"github.com/worldofchami/shopassist/pkg/router"
	"github.com/worldofchami/shopassist/pkg/store"
	"github.com/worldofchami/shopassist/pkg/tools"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chat server error: %v\n", err)
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

	// Disable OpenAI tracing to prevent console spam
	tracing.SetTracingDisabled(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer func() { _ = stores.Close() }()

	history, err := NewMessageHistory(cfg.Agent.HistoryDSN, cfg.Agent.HistorySize)
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	defer func() { _ = history.Close() }()

	twilioClient := NewTwilioClient(cfg.Twilio, logger.Named("twilio"))
	if twilioClient.IsConfigured() {
		logger.Info("twilio client initialized", zap.String("from", formatPhoneNumber(twilioClient.PhoneNumber())))
	} else {
		logger.Warn("twilio not configured (set SHOP_TWILIO_ACCOUNTSID, SHOP_TWILIO_AUTHTOKEN, SHOP_TWILIO_FROM)")
	}

	svc := tools.NewServiceFromStores(stores)
	srv := &server{
		router: router.New(svc, logger.Named("router")),
		assistant: &Assistant{
			tools:   svc,
			history: history,
			sender:  twilioClient,
			run:     runAgent,
			model:   cfg.Agent.Model,
			timeout: cfg.Agent.Timeout,
			logger:  logger.Named("assistant"),
		},
		sender: twilioClient,
		logger: logger,
		token:  cfg.HTTP.Token,
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chat server listening",
			zap.String("addr", cfg.HTTP.Addr),
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	srv.wait(shutdownCtx)
	return nil
}
