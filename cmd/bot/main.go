package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/app"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/config"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/logger"
)

func main() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = os.Stderr.WriteString("dotenv error: " + err.Error() + "\n")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	// Ignore sync error (common on some platforms).
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}

	if cfg.RunMode == config.ModeSweep {
		if err := application.Sweep(ctx); err != nil {
			_ = log.Sync()
			os.Exit(1)
		}
		return
	}

	if err := application.Run(ctx); err != nil {
		log.Fatal("app run failed", zap.Error(err))
	}
}
