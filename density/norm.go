package density

import (
	"math"
)

const (
	emaWeight    = 0.9
	snapFraction = 0.5
)

// Normalizer tracks an exponential moving average of the per-frame grid
// maximum so that the heatmap brightness does not flicker.
type Normalizer struct {
	Max float64
}

// Update folds a new frame maximum into the average and returns the value
// to normalize against. It returns false if max is zero, in which case the
// frame should not be drawn and the average is left unchanged.
//
// The average snaps to max on the first frame and whenever max differs
// from it by more than half of max.
func (n *Normalizer) Update(max float64) (float64, bool) {
	if max <= 0 || math.IsNaN(max) {
		return n.Max, false
	}
	if n.Max == 0 || math.Abs(n.Max-max) > max*snapFraction {
		n.Max = max
	} else {
		n.Max = n.Max*emaWeight + max*(1-emaWeight)
	}
	return n.Max, true
}

// Reset forgets the running average.
func (n *Normalizer) Reset() { n.Max = 0 }
