package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/vovakirdan/whitered-server/internal/app"
	"github.com/vovakirdan/whitered-server/internal/config"
	"github.com/vovakirdan/whitered-server/internal/log"
)

func main() {
	var configPath string
	var overrides config.Config
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	flag.StringVar(&overrides.AllowedOrigins, "origins", "", "comma-separated allowed client origins")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.DurationVar(&overrides.ReconnectWindow, "reconnect-window", 0, "disconnect grace window")
	flag.DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	flag.Parse()

	bootLogger := log.New("info")
	cfg, path, err := config.Load(bootLogger, configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.UpdateFrom(overrides)

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting whitered server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(&cfg, logger)
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
