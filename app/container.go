package app

import (
	"log/slog"
	"time"

	"github.com/soocke/queue-send-go/config"
	"github.com/soocke/queue-send-go/domain/action"
	"github.com/soocke/queue-send-go/domain/capture"
	"github.com/soocke/queue-send-go/domain/engine"
	"github.com/soocke/queue-send-go/domain/platform"
	"github.com/soocke/queue-send-go/logsink"
)

// Container assembles the platform adapter, capture service, injector
// and engine.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Ring     *logsink.Ring
	Platform platform.Adapter
	Capture  *capture.Service
	Injector *action.Injector
	Engine   *engine.Engine
}

// BuildContainer constructs all components. No OS handle is acquired
// here; the capture backend is created lazily on first grab.
func BuildContainer(cfg *config.Config, logger *slog.Logger, ring *logsink.Ring) *Container {
	c := &Container{Config: cfg, Logger: logger, Ring: ring}
	c.Platform = platform.NewAdapter(logger)
	c.Capture = capture.NewService(
		func() (capture.Backend, error) { return capture.NewDesktopBackend() },
		logger,
		capture.WithRetry(cfg.CaptureRetries, time.Duration(cfg.CaptureBackoffMs)*time.Millisecond),
	)
	c.Injector = action.NewInjector(logger)
	c.Engine = engine.New(logger, timingFromConfig(cfg), c.Capture, c.Injector, c.Platform, c.Capture)
	return c
}

// timingFromConfig maps config pacing fields onto engine timing.
func timingFromConfig(cfg *config.Config) engine.Timing {
	t := engine.DefaultTiming()
	t.Countdown = time.Duration(cfg.CountdownSeconds * float64(time.Second))
	t.Cooldown = time.Duration(cfg.CooldownSeconds * float64(time.Second))
	if cfg.SampleHz > 0 {
		t.SampleInterval = time.Duration(float64(time.Second) / cfg.SampleHz)
	}
	t.HoldHitsRequired = cfg.HoldHitsRequired
	return t
}
