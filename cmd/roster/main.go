package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/roster-bot/app"
	"github.com/Black-And-White-Club/roster-bot/config"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obs, err := observability.Init(config.ToObsConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to initialize observability: %v", err)
	}
	logger := obs.Provider.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := &app.App{}
	if err := application.Initialize(ctx, cfg, obs, nil, nil); err != nil {
		logger.Error("Failed to initialize application", attr.Error(err))
		_ = application.Close()
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Application stopped with error", attr.Error(err))
		os.Exit(1)
	}
	logger.Info("Application shut down gracefully")
}
