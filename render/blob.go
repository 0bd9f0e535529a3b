package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/phil-mansfield/baoviz/geom"
)

// BlobStyle holds the colors and stop opacities of the BAO density profile
// drawn around each active peak.
type BlobStyle struct {
	Hot, Halo, Gap, Ring colorful.Color

	CenterOpacity, HaloOpacity, GapOpacity, RingOpacity float64
}

// DefaultBlobStyle returns the warm-core, blue-ring profile.
func DefaultBlobStyle() BlobStyle {
	return BlobStyle{
		Hot:  colorful.Color{R: 255.0 / 255, G: 220.0 / 255, B: 200.0 / 255},
		Halo: colorful.Color{R: 50.0 / 255, G: 100.0 / 255, B: 200.0 / 255},
		Gap:  colorful.Color{R: 0, G: 150.0 / 255, B: 1},
		Ring: colorful.Color{R: 0, G: 200.0 / 255, B: 1},

		CenterOpacity: 0.9,
		HaloOpacity:   0.4,
		GapOpacity:    0.05,
		RingOpacity:   0.3,
	}
}

// Blob is the screen-space geometry of one density profile.
type Blob struct {
	// CenterRadius, RingRadius and ShellWidth are in pixels.
	CenterRadius, RingRadius, ShellWidth float64
	// Opacity scales every stop except the gap; Glow additionally scales
	// the center, halo and ring stops.
	Opacity, Glow float64
	// ScaleY squashes the profile along the line of sight.
	ScaleY float64
}

// NewBlob returns the geometry of a profile with base center radius,
// comoving sound horizon and ring width, at the given render scale.
func NewBlob(centerBase, horizon, ringBase, scale float64) Blob {
	return Blob{
		CenterRadius: math.Max(0.1, centerBase*scale),
		RingRadius:   math.Max(0.1, horizon*scale),
		ShellWidth:   math.Max(0.1, ringBase*scale),
		Opacity:      1,
		Glow:         1,
		ScaleY:       1,
	}
}

// MaxRadius is the extent of the gradient, covering the ring and its
// falloff.
func (b Blob) MaxRadius() float64 { return b.RingRadius + 2*b.ShellWidth }

// Gradient returns the radial gradient of b in st.
func (b Blob) Gradient(st BlobStyle) Gradient {
	maxR := b.MaxRadius()
	k := b.Opacity * b.Glow
	return Gradient{
		{Offset: 0, Color: st.Hot, Alpha: k * st.CenterOpacity},
		{Offset: b.CenterRadius / maxR, Color: st.Halo, Alpha: k * st.HaloOpacity},
		{Offset: (b.RingRadius - b.ShellWidth) / maxR, Color: st.Gap, Alpha: st.GapOpacity},
		{Offset: b.RingRadius / maxR, Color: st.Ring, Alpha: k * st.RingOpacity},
		{Offset: 1, Color: colorful.Color{}, Alpha: 0},
	}
}

// DrawBlob draws b centered on p. With a positive wrap the position is
// first wrapped into [0, wrap) and copies are drawn across the edges it
// overlaps.
func (s *Surface) DrawBlob(p geom.Vec, b Blob, st BlobStyle, wrap float64) {
	if s.Empty() || !p.Finite() {
		return
	}
	gr := b.Gradient(st)
	maxR := b.MaxRadius()
	if wrap > 0 {
		p.WrapSelf(wrap)
	}
	geom.WrapCopies(p, maxR, wrap, func(q geom.Vec) {
		s.FillRadial(q[0], q[1], maxR, b.ScaleY, gr)
	})
}
