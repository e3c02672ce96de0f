package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/worldofchami/shopassist/pkg/config"
	"github.com/worldofchami/shopassist/pkg/logging"
	"github.com/worldofchami/shopassist/pkg/router"
	"github.com/worldofchami/shopassist/pkg/store"
	"github.com/worldofchami/shopassist/pkg/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	stores, err := store.Open(context.Background(), cfg.Store.Backend, cfg.Store.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store error: %v\n", err)
		os.Exit(1)
	}

	h := &handler{router: router.New(tools.NewServiceFromStores(stores), logger.Named("lambda"))}
	lambda.Start(h.Handle)
}
