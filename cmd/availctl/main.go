package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/slotforge/availability/adapter/cli"
	"github.com/slotforge/availability/internal/app"
	"github.com/slotforge/availability/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development defaults", "error", err)
		cfg = &config.Config{AppEnv: "development", LocalMode: true, DatabaseDriver: "sqlite"}
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	var container *app.Container
	if cfg.IsLocalMode() {
		logger.Info("starting in local mode with sqlite", "path", cfg.SQLitePath)
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		logger.Info("starting in full mode with postgres")
		container, err = app.NewContainer(ctx, cfg, logger)
	}

	var cliApp *cli.App
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running without a database", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		if container.Syncer != nil {
			logger.Info("caldav sync configured", "base_url", cfg.CalDAVBaseURL)
		}

		cliApp = cli.NewApp(container.CalculateSlotsHandler, container.DirtySet, container.HTTPServer, container.Syncer)
	}

	cli.SetApp(cliApp)
	cli.ExecuteContext(ctx)
}
