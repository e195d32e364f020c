package diffkit

import (
	"math"
	"time"

	"github.com/soocke/queue-send-go/domain/capture"
	"github.com/soocke/queue-send-go/domain/geom"
)

const (
	// CalibFramesDefault is the number of idle frames sampled during
	// calibration; clamped to [CalibFramesMin, CalibFramesMax].
	CalibFramesDefault = 8
	CalibFramesMin     = 5
	CalibFramesMax     = 10

	// CalibIntervalDefault is the spacing between calibration frames.
	// Independent of the run-time sampling rate; clamped to 100-200ms.
	CalibIntervalDefault = 150 * time.Millisecond
	calibIntervalMin     = 100 * time.Millisecond
	calibIntervalMax     = 200 * time.Millisecond
)

// Stats carries the result of a threshold calibration. Mu and Sigma
// describe the idle-noise diffs of the sampled frames; Threshold is
// clamp(mu+3*sigma, ThresholdMin, ThresholdMax). Noisy is set when the
// unclamped value exceeded the ceiling, meaning the region is a poor
// detection target and should be reselected.
type Stats struct {
	Mu        float64
	Sigma     float64
	Threshold float64
	Samples   []float64
	Noisy     bool
}

// Options tunes Calibrate. The zero value selects the defaults. Sleep is
// a test hook; nil means time.Sleep.
type Options struct {
	Frames   int
	Interval time.Duration
	Sleep    func(time.Duration)
}

// Calibrate samples idle frames of roi from src and derives a detection
// threshold covering ~99.7% of stationary-background noise under a
// normality assumption (3-sigma margin). The first frame is the
// reference; each subsequent frame contributes one diff sample. Sigma is
// the population standard deviation of those samples.
func Calibrate(src capture.FrameSource, roi *geom.ROI, opts Options) (Stats, error) {
	frames := opts.Frames
	if frames == 0 {
		frames = CalibFramesDefault
	}
	frames = min(max(frames, CalibFramesMin), CalibFramesMax)

	interval := opts.Interval
	if interval == 0 {
		interval = CalibIntervalDefault
	}
	interval = min(max(interval, calibIntervalMin), calibIntervalMax)

	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	mask := roi.Mask()

	ref, err := src.CaptureFrame(roi)
	if err != nil {
		return Stats{}, err
	}
	defer capture.RecycleFrame(ref)

	samples := make([]float64, 0, frames-1)
	for i := 1; i < frames; i++ {
		sleep(interval)
		frame, err := src.CaptureFrame(roi)
		if err != nil {
			return Stats{}, err
		}
		d, derr := Diff(frame, ref, mask)
		capture.RecycleFrame(frame)
		if derr != nil {
			return Stats{}, derr
		}
		samples = append(samples, d)
	}

	var mu float64
	for _, d := range samples {
		mu += d
	}
	mu /= float64(len(samples))

	var variance float64
	for _, d := range samples {
		dev := d - mu
		variance += dev * dev
	}
	variance /= float64(len(samples))
	sigma := math.Sqrt(variance)

	raw := mu + 3*sigma
	return Stats{
		Mu:        mu,
		Sigma:     sigma,
		Threshold: clamp(raw, ThresholdMin, ThresholdMax),
		Samples:   samples,
		Noisy:     raw > ThresholdMax,
	}, nil
}
