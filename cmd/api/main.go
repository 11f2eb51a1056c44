package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marcusziade/githubcards/pkg/api"
	"github.com/marcusziade/githubcards/pkg/app"
	"github.com/marcusziade/githubcards/pkg/config"
	"github.com/marcusziade/githubcards/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	// Define command line flags
	configPath := flag.String("config", "githubcards.yaml", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP server address (overrides config)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := logging.New(cfg.Logging, *verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	a, cache, err := app.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting web server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("form", string(a.Variant())),
		zap.Bool("cache", cache != nil))

	return api.NewServer(a, logger).ListenAndServe(ctx, cfg.Server.Addr)
}
