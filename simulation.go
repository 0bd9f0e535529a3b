/*package baoviz animates a toy universe containing baryon acoustic
oscillations. A Simulation holds the parameters and the galaxy catalog,
derives the per-frame physics and draws frames onto a render.Surface. A
Driver advances it in time.

A Simulation is not safe for concurrent use. Hosts call it from a single
goroutine.
*/
package baoviz

import (
	"math"

	"github.com/phil-mansfield/baoviz/catalog"
	"github.com/phil-mansfield/baoviz/cosmo"
	"github.com/phil-mansfield/baoviz/density"
	"github.com/phil-mansfield/baoviz/geom"
	"github.com/phil-mansfield/baoviz/render"
)

const (
	// LogRedshiftStep is the change in log10(1 + z) of one wheel step.
	LogRedshiftStep = 0.05
	// MaxRedshift is the highest redshift the controls reach.
	MaxRedshift = 1100
	// RadiationDensity is the present-day radiation density parameter.
	RadiationDensity = 8.4e-5
)

// MaxLogRedshift is log10(1 + MaxRedshift).
var MaxLogRedshift = math.Log10(1 + MaxRedshift)

// Layer identifies one of the toggleable drawing layers.
type Layer int

const (
	DensityLayer Layer = iota
	GalaxyLayer
	HeatmapLayer
	HorizonLayer
	PlotLayer
)

// Layers records which drawing layers are visible.
type Layers struct {
	Density, Galaxies, Heatmap, Horizon, Plot bool
}

func (l *Layers) flag(layer Layer) *bool {
	switch layer {
	case DensityLayer:
		return &l.Density
	case GalaxyLayer:
		return &l.Galaxies
	case HeatmapLayer:
		return &l.Heatmap
	case HorizonLayer:
		return &l.Horizon
	case PlotLayer:
		return &l.Plot
	}
	return nil
}

// Set shows or hides layer.
func (l *Layers) Set(layer Layer, on bool) {
	if f := l.flag(layer); f != nil {
		*f = on
	}
}

// Toggle flips the visibility of layer.
func (l *Layers) Toggle(layer Layer) {
	if f := l.flag(layer); f != nil {
		*f = !*f
	}
}

// State is the user-controlled state of a Simulation. Z and A are always
// set together through the Simulation's setters.
type State struct {
	Z, A    float64
	Cosmo   cosmo.Params
	Flat    bool
	Layers  Layers
	Playing bool

	Comoving, RSD bool

	ActiveCenters int
	GalaxyDensity float64
	Gravity       float64

	// Developer options.
	Transition   bool
	TileBorder   bool
	ComovingZoom float64
}

// DefaultState returns the state a fresh page starts in.
func DefaultState() State {
	st := State{
		Cosmo: cosmo.Params{OmegaM: 0.3, OmegaL: 0.7, OmegaR: RadiationDensity},
		Flat:  true,
		Layers: Layers{
			Density: true, Galaxies: true, Plot: true,
		},
		ActiveCenters: 1,
		GalaxyDensity: 2,
		Gravity:       0.2,
		Transition:    true,
		ComovingZoom:  1,
	}
	st.Z, st.A = 5, cosmo.ScaleFactor(5)
	return st
}

// Simulation is the explicit context of the visualization: configuration,
// state, catalog and the render caches derived from them.
type Simulation struct {
	Config  Config
	State   State
	Catalog catalog.Catalog

	// Width and Height are the view size the universe was sized for.
	Width, Height int
	// Universe is the comoving side of the periodic box.
	Universe float64

	gen     *catalog.Generator
	engine  *density.Engine
	sprites render.Sprites
	tile    *render.Surface
	xs      []geom.Vec
}

// NewSimulation creates a Simulation for a w x h view. Galaxies and sprite
// textures draw their randomness from src; a nil src is time-seeded.
func NewSimulation(con Config, src catalog.Source, w, h int) *Simulation {
	if src == nil {
		src = catalog.NewTimeSeed()
	}
	con.Catalog.Colors = len(con.Palette)

	sim := &Simulation{
		Config: con,
		State:  DefaultState(),
		gen:    catalog.NewGenerator(con.Catalog, src),
		engine: density.NewEngine(con.Heatmap),
		tile:   render.NewSurface(0, 0),
	}
	sim.sprites = render.NewSprites(con.Sprite, con.Palette, src)
	sim.Resize(w, h)
	return sim
}

// Resize sizes the universe so that it covers a w x h view at the
// reference comoving redshift, and reshuffles the catalog.
func (sim *Simulation) Resize(w, h int) {
	sim.Width, sim.Height = w, h
	if m := math.Max(float64(w), float64(h)); m > 0 {
		aRef := cosmo.ScaleFactor(sim.Config.DefaultComovingZ)
		sim.Universe = m / cosmo.VisualScale(aRef, sim.Config.ExpansionDamping)
	}
	sim.Shuffle()
}

// Shuffle draws new peak positions and regenerates the galaxies.
func (sim *Simulation) Shuffle() {
	st := &sim.State
	sim.gen.Shuffle(&sim.Catalog, sim.Universe, st.ActiveCenters, st.GalaxyDensity)
}

// regenerate rebuilds the galaxies around the current peaks.
func (sim *Simulation) regenerate() {
	st := &sim.State
	sim.gen.Generate(&sim.Catalog, st.ActiveCenters, st.GalaxyDensity)
}

// SetRedshift sets z, clamped to be non-negative, and the matching scale
// factor.
func (sim *Simulation) SetRedshift(z float64) {
	if !(z > 0) || math.IsInf(z, 0) {
		if math.IsInf(z, 1) {
			z = MaxRedshift
		} else {
			z = 0
		}
	}
	sim.State.Z, sim.State.A = z, cosmo.ScaleFactor(z)
}

// SetScaleFactor sets a, clamped to (0, 1], and the matching redshift.
func (sim *Simulation) SetScaleFactor(a float64) {
	if a > 1 || math.IsNaN(a) {
		a = 1
	} else if a < cosmo.ScaleFactor(MaxRedshift) {
		a = cosmo.ScaleFactor(MaxRedshift)
	}
	sim.State.A, sim.State.Z = a, cosmo.Redshift(a)
}

// LogRedshift returns log10(1 + z), the value of the redshift slider.
func (sim *Simulation) LogRedshift() float64 {
	return math.Log10(1 + sim.State.Z)
}

// SetLogRedshift sets z = 10^v - 1 with v clamped to [0, MaxLogRedshift].
func (sim *Simulation) SetLogRedshift(v float64) {
	v = math.Max(0, math.Min(MaxLogRedshift, v))
	sim.SetRedshift(math.Pow(10, v) - 1)
}

// StepLogRedshift moves the redshift slider by the given number of wheel
// steps. Positive steps increase z.
func (sim *Simulation) StepLogRedshift(steps int) {
	sim.SetLogRedshift(sim.LogRedshift() + float64(steps)*LogRedshiftStep)
}

// SetOmegaM sets the matter density, clamped to [0, 1]. A flat universe
// keeps OmegaL = 1 - OmegaM.
func (sim *Simulation) SetOmegaM(m float64) {
	sim.State.Cosmo.OmegaM = clamp(m, 0, 1)
	if sim.State.Flat {
		sim.State.Cosmo.FlattenL()
	}
}

// SetOmegaL sets the dark energy density, clamped to [0, 1]. A flat
// universe keeps OmegaM = 1 - OmegaL.
func (sim *Simulation) SetOmegaL(l float64) {
	sim.State.Cosmo.OmegaL = clamp(l, 0, 1)
	if sim.State.Flat {
		sim.State.Cosmo.FlattenM()
	}
}

// SetFlat turns the flatness constraint on or off. Turning it on adjusts
// OmegaL to match OmegaM.
func (sim *Simulation) SetFlat(flat bool) {
	sim.State.Flat = flat
	if flat {
		sim.State.Cosmo.FlattenL()
	}
}

// SetPreset sets both densities. The universe is flagged flat if they sum
// to one within 0.01.
func (sim *Simulation) SetPreset(m, l float64) {
	sim.State.Cosmo.OmegaM = clamp(m, 0, 1)
	sim.State.Cosmo.OmegaL = clamp(l, 0, 1)
	sim.State.Flat = sim.State.Cosmo.IsFlat()
}

// SetActiveCenters sets the number of peaks with galaxy clusters and
// regenerates the galaxies around the existing peaks.
func (sim *Simulation) SetActiveCenters(n int) {
	if n < 0 {
		n = 0
	} else if n > sim.Config.Catalog.MaxPeaks {
		n = sim.Config.Catalog.MaxPeaks
	}
	sim.State.ActiveCenters = n
	sim.regenerate()
}

// SetGalaxyDensity sets the galaxy density, in 1e-3 galaxies per unit
// area, and regenerates the galaxies.
func (sim *Simulation) SetGalaxyDensity(d float64) {
	if !(d > 0) || math.IsInf(d, 0) {
		d = 0
	}
	sim.State.GalaxyDensity = d
	sim.regenerate()
}

// SetGravity sets the strength of structure formation.
func (sim *Simulation) SetGravity(g float64) {
	if !(g > 0) || math.IsInf(g, 0) {
		g = 0
	}
	sim.State.Gravity = g
}

// SetComoving selects the comoving (true) or physical reference frame.
func (sim *Simulation) SetComoving(on bool) { sim.State.Comoving = on }

// SetRSD turns redshift-space distortions on or off.
func (sim *Simulation) SetRSD(on bool) { sim.State.RSD = on }

// SetLayer shows or hides a drawing layer.
func (sim *Simulation) SetLayer(layer Layer, on bool) { sim.State.Layers.Set(layer, on) }

// ToggleLayer flips a drawing layer.
func (sim *Simulation) ToggleLayer(layer Layer) { sim.State.Layers.Toggle(layer) }

// SetHeatmapCellMax sets the coarsest heatmap cell size in pixels.
func (sim *Simulation) SetHeatmapCellMax(size float64) {
	if size > 0 {
		sim.engine.CellMax = size
		sim.Config.Heatmap.CellMax = size
	}
}

// SetComovingZoom sets the zoom of the comoving frame.
func (sim *Simulation) SetComovingZoom(zoom float64) {
	if zoom > 0 && !math.IsInf(zoom, 0) {
		sim.State.ComovingZoom = zoom
	}
}

// Reset returns to the loop start redshift and pauses.
func (sim *Simulation) Reset() {
	sim.SetRedshift(sim.Config.LoopStartZ)
	sim.State.Playing = false
}

// ResetAll restores every setting to its default, clears the heatmap
// normalization and reshuffles. Developer options and the comoving zoom
// are kept.
func (sim *Simulation) ResetAll() {
	old := sim.State
	sim.State = DefaultState()
	sim.State.Transition = old.Transition
	sim.State.TileBorder = old.TileBorder
	sim.State.ComovingZoom = old.ComovingZoom
	sim.SetRedshift(sim.Config.LoopStartZ)
	sim.engine.Normalizer().Reset()
	sim.Shuffle()
}

// Derived is the set of values shown next to the controls.
type Derived struct {
	Z, A         float64
	E            float64
	Growth       float64
	HorizonScale float64
	Galaxies     int
	Predicted    int
	HeatmapNorm  float64
}

// Derived computes the display values for the current state.
func (sim *Simulation) Derived() Derived {
	st := &sim.State
	return Derived{
		Z:            st.Z,
		A:            st.A,
		E:            cosmo.ExpansionRateZ(st.Z, st.Cosmo),
		Growth:       cosmo.GrowthFactor(st.A, st.Cosmo.OmegaM, st.Cosmo.OmegaL),
		HorizonScale: cosmo.SoundHorizonScale(st.Cosmo.OmegaM),
		Galaxies:     len(sim.Catalog.Galaxies),
		Predicted:    sim.gen.Predicted(st.ActiveCenters, st.GalaxyDensity),
		HeatmapNorm:  sim.engine.Normalizer().Max,
	}
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(hi, x))
}
