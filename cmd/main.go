package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kosench/traced-url-shortener/internal/app"
	"github.com/Kosench/traced-url-shortener/internal/config"
	"github.com/Kosench/traced-url-shortener/internal/logger"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./configs/config.yaml if present)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zl, err := logger.New(cfg.Log, cfg.Tracing.ServiceName)
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Error("Failed to initialize application", zap.Error(err))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		zl.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
}
