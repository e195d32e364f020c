package main

import (
	"log/slog"
	"os"

	"github.com/soocke/queue-send-go/logsink"
)

// NewLogger returns a structured slog.Logger with the given level. Every
// record also lands in the ring so recent run history stays queryable.
func NewLogger(level slog.Leveler, ring *logsink.Ring) *slog.Logger {
	json := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(logsink.NewHandler(ring, json))
}
