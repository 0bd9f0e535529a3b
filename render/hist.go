package render

import (
	"math"

	"github.com/phil-mansfield/baoviz/catalog"
)

// HistInfo describes the binning of a radial histogram.
type HistInfo struct {
	Min, Max float64
	Bins     int
}

// DefaultHistInfo bins distances out to twice the comoving sound horizon.
func DefaultHistInfo(comovingRadius float64) HistInfo {
	return HistInfo{Min: 0, Max: 2 * comovingRadius, Bins: 50}
}

// BinWidth returns the width of a single bin.
func (info *HistInfo) BinWidth() float64 {
	return (info.Max - info.Min) / float64(info.Bins)
}

// histCenters returns the centers of a histogram.
func histCenters(info *HistInfo) []float64 {
	dx := info.BinWidth()
	centers := make([]float64, info.Bins)
	for i := range centers {
		centers[i] = info.Min + dx*(float64(i)+0.5)
	}
	return centers
}

// CorrelationInput is the per-frame physics the radial correlation needs.
type CorrelationInput struct {
	Active int
	// Horizon is the comoving sound horizon.
	Horizon float64
	// Contraction is the gravitational shrink factor of the scatter.
	Contraction float64
	// Expansion is a in the physical frame and 1 in the comoving frame.
	Expansion float64
}

// Correlation is a stacked radial profile of cluster galaxies around their
// peaks, normalized by annulus area.
type Correlation struct {
	Info    HistInfo
	Centers []float64
	Counts  []int
	Density []float64

	// Peak is the largest density outside the first two bins, or 1 if
	// those bins are all empty.
	Peak float64
	// Marker is the plotted position of the sound horizon.
	Marker float64
}

// Correlate bins the distances of the active cluster galaxies in cat from
// their peaks.
func Correlate(cat *catalog.Catalog, in CorrelationInput, info HistInfo) *Correlation {
	xi := &Correlation{
		Info:    info,
		Centers: histCenters(&info),
		Counts:  make([]int, info.Bins),
		Density: make([]float64, info.Bins),
		Marker:  in.Horizon * in.Expansion,
	}

	rs := make([]float64, 0, len(cat.Galaxies))
	for i := range cat.Galaxies {
		g := &cat.Galaxies[i]
		if !g.IsCluster() || g.CenterIndex >= in.Active {
			continue
		}
		rs = append(rs, g.Radius(in.Horizon, in.Contraction)*in.Expansion)
	}
	histogram(rs, &info, xi.Counts)

	dr := info.BinWidth()
	for i, c := range xi.Centers {
		xi.Density[i] = float64(xi.Counts[i]) / (2 * math.Pi * c * dr)
	}

	for i := 2; i < len(xi.Density); i++ {
		if xi.Density[i] > xi.Peak {
			xi.Peak = xi.Density[i]
		}
	}
	if xi.Peak == 0 {
		xi.Peak = 1
	}
	return xi
}

// Clamped returns the densities capped at 1.5 times the peak so the
// central spike does not flatten the rest of the curve.
func (xi *Correlation) Clamped() []float64 {
	out := make([]float64, len(xi.Density))
	for i, d := range xi.Density {
		out[i] = math.Min(d, 1.5*xi.Peak)
	}
	return out
}

// YMax is the top of the plotted range.
func (xi *Correlation) YMax() float64 { return 1.2 * xi.Peak }

// MarkerVisible returns true if the sound horizon marker lies on the plot.
func (xi *Correlation) MarkerVisible() bool {
	return xi.Marker >= xi.Info.Min && xi.Marker < xi.Info.Max
}

func histogram(x []float64, info *HistInfo, counts []int) {
	min, max := info.Min, info.Max
	fBins := float64(info.Bins)
	dx := (max - min) / fBins

	for i := range x {
		if !(x[i] < max) {
			continue
		}
		idx := (x[i] - min) / dx
		if idx < 0 || idx >= fBins {
			continue
		}
		counts[int(idx)]++
	}
}
