package baoviz

import (
	"math"

	"github.com/phil-mansfield/baoviz/catalog"
	"github.com/phil-mansfield/baoviz/cosmo"
	"github.com/phil-mansfield/baoviz/geom"
	"github.com/phil-mansfield/baoviz/render"
)

// Frame is the physics of a single rendered frame, derived from the state
// once and shared by every layer.
type Frame struct {
	Z, A   float64
	E      float64
	Growth float64

	// HorizonScale is the sound horizon relative to the reference
	// cosmology and Horizon the comoving sound horizon.
	HorizonScale, Horizon float64
	// Scale converts comoving lengths to pixels.
	Scale float64
	// Expansion is a in the physical frame and 1 in the comoving frame.
	Expansion float64

	Contraction float64
	// RSDScaleY is the line-of-sight squash, 1 when distortions are off.
	RSDScaleY float64

	// Masked is true while the early-universe mask applies, and T is the
	// progress of the transition towards it.
	Masked                    bool
	T                         float64
	HeatmapAlpha, GalaxyAlpha float64

	// Opacity and Glow scale the galaxy and density profile brightness.
	Opacity, Glow float64

	Layout render.Layout
}

// ComovingScale returns the render scale of the comoving frame.
func (sim *Simulation) ComovingScale() float64 {
	aRef := cosmo.ScaleFactor(sim.Config.DefaultComovingZ)
	return cosmo.VisualScale(aRef, sim.Config.ExpansionDamping) * sim.State.ComovingZoom
}

// Frame computes the frame physics for a w x h view.
func (sim *Simulation) Frame(w, h int) Frame {
	con, st := &sim.Config, &sim.State
	om, ol := st.Cosmo.OmegaM, st.Cosmo.OmegaL

	f := Frame{
		Z: st.Z, A: st.A,
		E:            cosmo.ExpansionRateZ(st.Z, st.Cosmo),
		Growth:       cosmo.GrowthFactor(st.A, om, ol),
		HorizonScale: cosmo.SoundHorizonScale(om),
		RSDScaleY:    1,
	}
	f.Horizon = con.ComovingRadius * f.HorizonScale
	f.Contraction = catalog.Contraction(st.Gravity, f.Growth)
	if st.RSD {
		f.RSDScaleY = cosmo.RSDScaleY(st.Gravity, f.Growth, con.RSDFactor, con.RSDMinScale)
	}

	if st.Comoving {
		f.Scale = sim.ComovingScale()
		f.Expansion = 1
		f.Opacity, f.Glow = 1, 0.5
	} else {
		f.Scale = cosmo.VisualScale(st.A, con.ExpansionDamping)
		f.Expansion = st.A
		f.Opacity, f.Glow = clamp(f.Growth+0.2, 0.4, 1), 1
	}

	f.HeatmapAlpha, f.GalaxyAlpha = 0, 1
	if st.Layers.Heatmap {
		f.HeatmapAlpha = 1
	}
	if st.Z > con.TransitionZEnd && st.Transition && !st.Comoving {
		f.Masked = true
		f.T = render.TransitionT(st.Z, con.TransitionZEnd, con.TransitionZStart)
		if !st.Layers.Heatmap {
			f.HeatmapAlpha = f.T
		}
		f.GalaxyAlpha = 1 - f.T
	}

	f.Layout = render.NewLayout(sim.Universe, f.Scale, w, h)
	return f
}

// place returns the draw-space position of g relative to the origin
// (cx, cy), wrapped into [0, wrap) when wrap is positive. It returns false
// for galaxies whose peak is not active and for non-finite positions.
func (sim *Simulation) place(g *catalog.Galaxy, f *Frame, cx, cy, wrap float64) (geom.Vec, bool) {
	var p geom.Vec
	if g.IsCluster() {
		peak, ok := sim.Catalog.ActivePeak(g, sim.State.ActiveCenters)
		if !ok {
			return p, false
		}
		r := g.Radius(f.Horizon, f.Contraction) * f.Scale
		center := geom.Vec{cx + peak.X*f.Scale, cy + peak.Y*f.Scale}
		p = center.Add(geom.Polar(r, g.Angle))

		if sim.State.RSD {
			p[1] = center[1] + (p[1]-center[1])*f.RSDScaleY
			if g.Kind == catalog.Center {
				p[1] += g.FogFactor * 20 * f.Growth
			}
		}
	} else {
		p = geom.Vec{cx + g.X*f.Scale, cy + g.Y*f.Scale}
	}

	if !p.Finite() {
		return p, false
	}
	if wrap > 0 {
		p.WrapSelf(wrap)
	}
	return p, true
}

// Positions collects the draw-space position of every visible galaxy into
// buf, which is reused when large enough, and returns it.
func (sim *Simulation) Positions(f *Frame, cx, cy, wrap float64, buf []geom.Vec) []geom.Vec {
	buf = buf[:0]
	for i := range sim.Catalog.Galaxies {
		if p, ok := sim.place(&sim.Catalog.Galaxies[i], f, cx, cy, wrap); ok {
			buf = append(buf, p)
		}
	}
	return buf
}

// Correlation computes the stacked radial profile for frame f.
func (sim *Simulation) Correlation(f *Frame) *render.Correlation {
	in := render.CorrelationInput{
		Active:      sim.State.ActiveCenters,
		Horizon:     f.Horizon,
		Contraction: f.Contraction,
		Expansion:   f.Expansion,
	}
	return render.Correlate(&sim.Catalog, in, render.DefaultHistInfo(sim.Config.ComovingRadius))
}

// spriteFor returns the sprite parameters of g in frame f.
func (sim *Simulation) spriteFor(g *catalog.Galaxy, f *Frame) render.GalaxySprite {
	con := &sim.Config
	size := con.SpriteSizeMultiplier * f.Scale * g.SizeVar
	brightness := 0.8 + g.FogFactor*0.4
	return render.GalaxySprite{
		Radius:       math.Max(con.SpriteMinRadius, size),
		Eccentricity: g.Eccentricity,
		Rotation:     g.Rotation,
		Alpha:        clamp(f.Opacity*brightness*con.SpriteOpacityBoost, 0, 1),
	}
}
