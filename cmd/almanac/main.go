// Command almanac serves the graindeer run log over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talgya/graindeer/internal/api"
	"github.com/talgya/graindeer/internal/config"
	"github.com/talgya/graindeer/internal/persistence"
)

func main() {
	cfg, err := config.ParseAPI(flag.CommandLine, os.Args[1:])
	if err != nil {
		slog.Error("parse config", "error", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		slog.Error("configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── HTTP API ──────────────────────────────────────────────────────
	server := &api.Server{DB: db, Port: cfg.Port}
	server.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	slog.Info("received signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
