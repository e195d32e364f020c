// Package diffkit computes the normalized change score between grayscale
// frames and calibrates the detection threshold from idle noise.
package diffkit

import (
	"fmt"

	"github.com/soocke/queue-send-go/domain/capture"
	"github.com/soocke/queue-send-go/domain/geom"
)

// Detection threshold bounds. The floor guards against quantization
// noise on a perfectly static region; the ceiling against an unusably
// insensitive threshold.
const (
	ThresholdDefault = 0.02
	ThresholdMin     = 0.005
	ThresholdMax     = 0.2
)

// Diff returns the mean absolute pixel difference between two
// equally-shaped grayscale frames, normalized to [0,1]. A non-nil mask
// restricts the mean to masked pixels. Diff is pure, symmetric, and zero
// for identical inputs.
func Diff(a, b *capture.FrameBuffer, mask geom.Mask) (float64, error) {
	if a.W != b.W || a.H != b.H {
		return 0, fmt.Errorf("diff: frame shapes must match: %dx%d vs %dx%d", a.W, a.H, b.W, b.H)
	}
	n := a.Len()
	if mask != nil && len(mask) != n {
		return 0, fmt.Errorf("diff: mask length %d does not match %d pixels", len(mask), n)
	}
	if n == 0 {
		return 0, nil
	}

	var sum, count int
	if mask == nil {
		for i := 0; i < n; i++ {
			d := int(a.Pix[i]) - int(b.Pix[i])
			if d < 0 {
				d = -d
			}
			sum += d
		}
		count = n
	} else {
		for i := 0; i < n; i++ {
			if !mask[i] {
				continue
			}
			d := int(a.Pix[i]) - int(b.Pix[i])
			if d < 0 {
				d = -d
			}
			sum += d
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count) / 255.0, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
