package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ytdlp-gui/ytdlp-gui/server"
	"github.com/ytdlp-gui/ytdlp-gui/server/config"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "conf", filepath.Join(config.DefaultDir(), "config.yml"), "Config file path")
	flag.Parse()

	cfg := config.Instance()
	if err := config.Load(configFile, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no config file, using defaults", slog.String("path", configFile))
		} else {
			slog.Warn("failed to load config, using defaults", slog.String("path", configFile), slog.Any("err", err))
		}
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	if err := server.Run(ctx); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited cleanly")
}
