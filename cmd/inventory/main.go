// cmd/inventory/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"libinventory/internal/catalog"
	"libinventory/internal/circulation"
	"libinventory/internal/cli"
	"libinventory/internal/config"
	"libinventory/internal/logger"
	"libinventory/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "inventory: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load(args, os.LookupEnv)
	if err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logCfg.Output = f
	}
	logger.Init(logCfg)
	log := logger.ForComponent("main")

	ctx := context.Background()

	store := storage.NewFileStore(cfg.CatalogPath)
	inventory, err := catalog.Open(ctx, store)
	if err != nil {
		log.Warn("catalog opened with problems", "path", store.Path(), "error", err)
	}

	desk, err := circulation.NewService(inventory)
	if err != nil {
		return err
	}

	log.Info("library inventory manager started", "catalog", store.Path(), "books", len(inventory.Books()))
	return cli.NewMenu(inventory, desk, stdin, stdout, logger.ForComponent("cli")).Run(ctx)
}
