// Command service runs the audiohub HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/audiohub/internal/config"
	"github.com/dropDatabas3/audiohub/internal/http/server"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "audiohub:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml (optional)")
		envFile    = flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	)
	flag.Parse()

	// a missing .env is normal outside development
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	env := "dev"
	if cfg.IsProd() {
		env = "prod"
	}
	logger.Init(logger.Config{
		Env:         env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("cleanup failed", logger.Err(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	log.Info("starting",
		logger.String("env", cfg.App.Env),
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.String("uploads", cfg.Uploads.Driver),
	)
	return server.Serve(ctx, srv, cfg.Server.ShutdownTimeout)
}
