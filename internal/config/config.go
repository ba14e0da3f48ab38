// internal/config/config.go
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"libinventory/internal/logger"
)

// DefaultCatalogPath is used when neither a flag nor the environment names
// the backing file.
const DefaultCatalogPath = "catalog.json"

// EnvCatalogFile names the backing file. It is the only setting read from
// the environment; logging is configured with flags.
const EnvCatalogFile = "LIBRARY_CATALOG_FILE"

// Config holds the resolved process settings.
type Config struct {
	CatalogPath string
	LogLevel    slog.Level
	LogFormat   string
	LogFile     string
}

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Load resolves the configuration. For the catalog path a flag wins over the
// environment, which wins over the default.
func Load(args []string, lookup LookupEnv) (Config, error) {
	fs := flag.NewFlagSet("inventory", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	catalogPath := fs.String("catalog", getEnv(lookup, EnvCatalogFile, DefaultCatalogPath), "path of the catalog JSON file")
	level := fs.String("log-level", "info", "debug, info, warn or error")
	format := fs.String("log-format", "text", "text or json")
	logFile := fs.String("log-file", "", "append logs to this file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	cfg := Config{
		CatalogPath: *catalogPath,
		LogFormat:   *format,
		LogFile:     *logFile,
	}

	if cfg.CatalogPath == "" {
		return Config{}, fmt.Errorf("catalog path must not be empty")
	}

	lvl, err := logger.ParseLevel(*level)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = lvl

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return cfg, nil
}

func getEnv(lookup LookupEnv, key, defaultValue string) string {
	if lookup == nil {
		return defaultValue
	}
	if value, exists := lookup(key); exists {
		return value
	}
	return defaultValue
}
