package config

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for the send run and detection.
// Fields may be loaded from a JSON file. The calibrated detection
// threshold is deliberately absent: every run recalibrates against the
// current screen, and only an explicit override is persisted.
type Config struct {
	Debug bool `json:"debug"`

	// Run pacing
	CountdownSeconds float64 `json:"countdown_seconds"`
	CooldownSeconds  float64 `json:"cooldown_seconds"`
	SampleHz         float64 `json:"sample_hz"`
	HoldHitsRequired int     `json:"hold_hits_required"`

	// ThresholdOverride, when non-zero, replaces the calibrated
	// threshold. An explicit override always wins over calibration.
	ThresholdOverride float64 `json:"threshold_override"`

	// Calibration sampling
	CalibFrames     int `json:"calib_frames"`
	CalibIntervalMs int `json:"calib_interval_ms"`

	// Capture retry policy
	CaptureRetries   int `json:"capture_retries"`
	CaptureBackoffMs int `json:"capture_backoff_ms"`

	// Log ring retention
	LogCapacity int `json:"log_capacity"`

	// MessagesFile holds the queue, one message per blank-line
	// separated block; line breaks inside a block are preserved.
	MessagesFile string `json:"messages_file"`

	// Calibrated geometry persistence
	RoiShape string `json:"roi_shape"` // "rect" or "circle"
	RoiX     int    `json:"roi_x"`
	RoiY     int    `json:"roi_y"`
	RoiW     int    `json:"roi_w"`
	RoiH     int    `json:"roi_h"`
	InputX   int    `json:"input_x"`
	InputY   int    `json:"input_y"`
	SendX    int    `json:"send_x"`
	SendY    int    `json:"send_y"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		CountdownSeconds: 2,
		CooldownSeconds:  1,
		SampleHz:         1,
		HoldHitsRequired: 2,
		CalibFrames:      8,
		CalibIntervalMs:  150,
		CaptureRetries:   3,
		CaptureBackoffMs: 500,
		LogCapacity:      200,
		MessagesFile:     "messages.txt",
		RoiShape:         "rect",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.CountdownSeconds < 0 {
		c.CountdownSeconds = 2
	}
	if c.CooldownSeconds < 0 {
		c.CooldownSeconds = 1
	}
	if c.SampleHz <= 0 || c.SampleHz > 10 {
		c.SampleHz = 1
	}
	if c.HoldHitsRequired < 1 || c.HoldHitsRequired > 10 {
		c.HoldHitsRequired = 2
	}
	if c.ThresholdOverride != 0 {
		if c.ThresholdOverride < 0.005 {
			c.ThresholdOverride = 0.005
		} else if c.ThresholdOverride > 0.2 {
			c.ThresholdOverride = 0.2
		}
	}
	if c.CalibFrames < 5 || c.CalibFrames > 10 {
		c.CalibFrames = 8
	}
	if c.CalibIntervalMs < 100 || c.CalibIntervalMs > 200 {
		c.CalibIntervalMs = 150
	}
	if c.CaptureRetries < 1 {
		c.CaptureRetries = 3
	}
	if c.CaptureBackoffMs < 300 || c.CaptureBackoffMs > 1000 {
		c.CaptureBackoffMs = 500
	}
	if c.LogCapacity <= 0 {
		c.LogCapacity = 200
	}
	if c.RoiShape != "rect" && c.RoiShape != "circle" {
		c.RoiShape = "rect"
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
