package main

import (
	"log/slog"
	"os"

	"github.com/soocke/queue-send-go/app"
	"github.com/soocke/queue-send-go/config"
	"github.com/soocke/queue-send-go/logsink"
)

const configPath = "queue-send.json"

func main() {
	cfg, err := config.Load(configPath)

	ring := logsink.NewRing(cfg.LogCapacity)
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level, ring)
	if err != nil {
		logger.Warn("config load failed, using defaults", slog.String("err", err.Error()))
	}

	if err := app.Run(cfg, logger, ring); err != nil {
		logger.Error("run failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
