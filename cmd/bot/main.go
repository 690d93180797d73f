package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jmjm940628-pixel/BossTimerBot/internal/app"
	"github.com/jmjm940628-pixel/BossTimerBot/internal/config"
	"github.com/jmjm940628-pixel/BossTimerBot/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bosstimerbot:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("init failed", zap.Error(err))
		return err
	}
	if err := application.Run(context.Background()); err != nil {
		log.Error("run failed", zap.Error(err))
		return err
	}
	return nil
}
