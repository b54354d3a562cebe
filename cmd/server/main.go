// Package main is the entry point for the bookshelf API server.
//
// main stays minimal: load config, build the logger, make sure the SQLite
// directory exists, then hand everything to internal/server.
//
// Configuration comes from BOOKSHELF_* environment variables (and an
// optional .env file); see internal/config for the keys.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/bookshelf/internal/config"
	"github.com/sakif/bookshelf/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := ensureDataDir(cfg.Database); err != nil {
		logger.Error("failed to create database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// ensureDataDir creates the parent directory of a file-backed SQLite
// database (like `mkdir -p`).
func ensureDataDir(db config.DatabaseConfig) error {
	if db.Driver != config.DriverSQLite || db.DSN == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(db.DSN), 0o755)
}
