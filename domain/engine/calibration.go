package engine

import (
	"errors"
	"fmt"

	"github.com/soocke/queue-send-go/domain/diffkit"
	"github.com/soocke/queue-send-go/domain/geom"
)

// CalibrationConfig fixes the geometry and threshold of a run. It is
// validated once at Start and immutable for the run's duration.
type CalibrationConfig struct {
	ROI        *geom.ROI
	InputPoint geom.Point
	SendPoint  geom.Point
	ThHold     float64
}

// Validate checks the configuration against the desktop bounds. All
// problems are reported together; nothing is silently defaulted.
func (c *CalibrationConfig) Validate(bounds geom.Bounds) error {
	var issues []error
	if c.ROI == nil {
		issues = append(issues, errors.New("roi not set"))
	} else {
		if !c.ROI.Valid() {
			issues = append(issues, fmt.Errorf("roi %v must have positive dimensions", c.ROI.Rect))
		} else if !bounds.ContainsRect(c.ROI.Rect) {
			issues = append(issues, fmt.Errorf("roi %v outside desktop %v", c.ROI.Rect, bounds))
		}
	}
	if !bounds.ContainsPoint(c.InputPoint) {
		issues = append(issues, fmt.Errorf("input point %v outside desktop %v", c.InputPoint, bounds))
	}
	if !bounds.ContainsPoint(c.SendPoint) {
		issues = append(issues, fmt.Errorf("send point %v outside desktop %v", c.SendPoint, bounds))
	}
	if c.ThHold < diffkit.ThresholdMin || c.ThHold > diffkit.ThresholdMax {
		issues = append(issues, fmt.Errorf("threshold %.4f outside [%.3f, %.1f]",
			c.ThHold, diffkit.ThresholdMin, diffkit.ThresholdMax))
	}
	if len(issues) > 0 {
		return &ValidationError{Err: errors.Join(issues...)}
	}
	return nil
}
