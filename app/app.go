// Package app wires configuration, platform setup, capture, injection
// and the engine into a complete run.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/soocke/queue-send-go/config"
	"github.com/soocke/queue-send-go/debug"
	"github.com/soocke/queue-send-go/domain/diffkit"
	"github.com/soocke/queue-send-go/domain/engine"
	"github.com/soocke/queue-send-go/domain/geom"
	"github.com/soocke/queue-send-go/logsink"
)

// Run executes one full send run from configuration: platform setup,
// message loading, threshold calibration, then the engine loop until it
// finishes or the process is interrupted.
func Run(cfg *config.Config, logger *slog.Logger, ring *logsink.Ring) error {
	c := BuildContainer(cfg, logger, ring)

	// Scaling awareness must be established before any coordinate is
	// captured or used.
	if err := c.Platform.SetupScalingAwareness(); err != nil {
		logger.Warn("scaling awareness setup failed; coordinates may drift under display scaling",
			slog.String("err", err.Error()))
	}

	if cfg.Debug {
		debug.StartGoroutineLogger(time.Second, logger)
		debug.StartMemLogger(2*time.Second, logger)
	}

	msgs, err := LoadMessages(cfg.MessagesFile)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return fmt.Errorf("no messages in %s", cfg.MessagesFile)
	}
	logger.Info("queue loaded", slog.String("file", cfg.MessagesFile), slog.Int("messages", len(msgs)))

	roi, err := roiFromConfig(cfg)
	if err != nil {
		return err
	}

	th := cfg.ThresholdOverride
	if th == 0 {
		stats, err := diffkit.Calibrate(c.Capture, roi, diffkit.Options{
			Frames:   cfg.CalibFrames,
			Interval: time.Duration(cfg.CalibIntervalMs) * time.Millisecond,
		})
		if err != nil {
			return fmt.Errorf("calibration: %w", err)
		}
		if stats.Noisy {
			logger.Warn("region is noisy; detection may be unreliable, consider reselecting it",
				slog.Float64("mu", stats.Mu), slog.Float64("sigma", stats.Sigma))
		}
		logger.Info("calibrated",
			slog.Float64("mu", stats.Mu),
			slog.Float64("sigma", stats.Sigma),
			slog.Float64("threshold", stats.Threshold),
			slog.Int("samples", len(stats.Samples)),
		)
		th = stats.Threshold
	} else {
		logger.Info("threshold override in effect", slog.Float64("threshold", th))
	}

	calib := engine.CalibrationConfig{
		ROI:        roi,
		InputPoint: geom.Point{X: cfg.InputX, Y: cfg.InputY},
		SendPoint:  geom.Point{X: cfg.SendX, Y: cfg.SendY},
		ThHold:     th,
	}
	if err := c.Engine.Start(msgs, calib); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	completed := consumeEvents(c, interrupt)

	current, total := c.Engine.RunDurations()
	stats := c.Capture.Stats()
	logger.Info("run finished",
		slog.Bool("completed", completed),
		slog.Duration("active", current),
		slog.Duration("total_active", total),
		slog.Uint64("captures", stats.Captures),
		slog.Uint64("capture_failures", stats.Failures),
		slog.Uint64("capture_resets", stats.Resets),
		slog.Duration("avg_grab", stats.AvgGrab),
		slog.Uint64("dropped_events", c.Engine.DroppedEvents()),
	)
	if !completed {
		return fmt.Errorf("run did not complete")
	}
	return nil
}

// consumeEvents drains the engine's status channel until Finished,
// translating each event to a log line and forwarding interrupts as
// Stop.
func consumeEvents(c *Container, interrupt <-chan os.Signal) bool {
	logger := c.Logger
	for {
		select {
		case <-interrupt:
			logger.Info("interrupt received; stopping")
			c.Engine.Stop()
		case ev := <-c.Engine.Events():
			switch e := ev.(type) {
			case engine.CountdownTick:
				if e.Remaining%time.Second == 0 {
					logger.Info("countdown", slog.Duration("remaining", e.Remaining))
				}
			case engine.StateChange:
				logger.Debug("state", slog.String("from", e.From.String()), slog.String("to", e.To.String()))
			case engine.Progress:
				logger.Info("progress", slog.Int("index", e.Index), slog.Int("total", e.Total))
			case engine.MessageStart:
				logger.Info("sending", slog.Int("index", e.Index), slog.String("preview", e.Preview))
			case engine.Sample:
				logger.Debug("sample", slog.Float64("diff", e.Diff), slog.Int("hits", e.HoldHits))
			case engine.RunError:
				logger.Error("engine error", slog.String("err", e.Err.Error()))
			case engine.QueueConflict:
				logger.Warn("queue changed while paused; run stopped")
			case engine.Finished:
				return e.Completed
			}
		}
	}
}

// roiFromConfig builds the detection region from persisted geometry.
func roiFromConfig(cfg *config.Config) (*geom.ROI, error) {
	rect := geom.Rect{X: cfg.RoiX, Y: cfg.RoiY, W: cfg.RoiW, H: cfg.RoiH}
	if !rect.Valid() {
		return nil, fmt.Errorf("roi %v must have positive dimensions; calibrate geometry first", rect)
	}
	if cfg.RoiShape == "circle" {
		return geom.NewCircleROI(rect), nil
	}
	return geom.NewRectROI(rect), nil
}
