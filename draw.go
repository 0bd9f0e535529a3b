package baoviz

import (
	"fmt"

	"github.com/phil-mansfield/baoviz/geom"
	"github.com/phil-mansfield/baoviz/render"
)

// Draw renders the current state onto s. Nothing is drawn onto an empty
// surface. Errors only come from rasterizing the correlation plot.
func (sim *Simulation) Draw(s *render.Surface) error {
	if s.Empty() {
		return nil
	}
	w, h := s.Width(), s.Height()
	f := sim.Frame(w, h)

	s.Alpha, s.Blend = 1, render.Over
	s.Clear(sim.Config.Background)
	s.Blend = render.Screen

	l := &f.Layout
	if l.Tiled {
		sim.tile.Resize(l.TileSize, l.TileSize)
		sim.tile.Alpha, sim.tile.Blend = 1, render.Over
		sim.drawUniverse(sim.tile, &f)
		s.Compose(*l, sim.tile)

		if sim.State.TileBorder {
			x, y := l.CentralTile()
			s.DrawTileBorder(x, y, l.BoxSize)
		}
	} else {
		sim.drawUniverse(s, &f)
	}

	cx, cy := float64(w)/2, float64(h)/2
	if sim.State.Layers.Horizon {
		s.DrawHorizon(cx, cy, f.Horizon*f.Scale, f.RSDScaleY)
	}

	s.Blend = render.Over
	if f.Masked {
		rx, ry := render.MaskRadii(w, h, f.T, sim.Config.MaskMargin, sim.Config.MaskWidthRatio)
		s.MaskEllipse(cx, cy, rx, ry)
	}

	s.DrawInfo(render.InfoLines(f.Z, f.E, f.A))

	if sim.State.Layers.Plot {
		xi := sim.Correlation(&f)
		return s.DrawCorrelation(xi, 20, 20, sim.Config.PlotWidth, sim.Config.PlotHeight)
	}
	return nil
}

// drawUniverse draws the heatmap, the density profiles and the galaxies
// onto target, which is either the tile or the whole view.
func (sim *Simulation) drawUniverse(target *render.Surface, f *Frame) {
	con, st := &sim.Config, &sim.State
	wrap := f.Layout.WrapSize()
	cx, cy := f.Layout.Center()

	if f.HeatmapAlpha > con.HeatmapAlphaThreshold {
		sim.drawHeatmap(target, f, cx, cy, wrap)
	}

	if f.GalaxyAlpha <= con.GalaxyAlphaThreshold ||
		!(st.Layers.Density || st.Layers.Galaxies) {
		return
	}

	target.Save()
	target.Alpha *= f.GalaxyAlpha

	if st.Layers.Density {
		blob := render.NewBlob(con.CenterRadiusBase, f.Horizon, con.RingWidthBase, f.Scale)
		blob.Opacity, blob.Glow, blob.ScaleY = f.Opacity, f.Glow, f.RSDScaleY
		n := st.ActiveCenters
		if n > len(sim.Catalog.Peaks) {
			n = len(sim.Catalog.Peaks)
		}
		for i := 0; i < n; i++ {
			peak := sim.Catalog.Peaks[i]
			p := geom.Vec{cx + peak.X*f.Scale, cy + peak.Y*f.Scale}
			target.DrawBlob(p, blob, con.Blob, wrap)
		}
	}

	if st.Layers.Galaxies {
		for i := range sim.Catalog.Galaxies {
			g := &sim.Catalog.Galaxies[i]
			p, ok := sim.place(g, f, cx, cy, wrap)
			if !ok {
				continue
			}
			target.DrawGalaxy(sim.sprites.Get(g.Color), p, sim.spriteFor(g, f), wrap)
		}
	}

	target.Restore()
}

// drawHeatmap bins the galaxy positions into the heatmap engine and blits
// the result over the wrap region with bilinear smoothing.
func (sim *Simulation) drawHeatmap(target *render.Surface, f *Frame, cx, cy, wrap float64) {
	sim.xs = sim.Positions(f, cx, cy, wrap, sim.xs)

	width, height := wrap, wrap
	if wrap <= 0 {
		width, height = float64(target.Width()), float64(target.Height())
	}
	hm, ok := sim.engine.Render(sim.xs, width, height, f.Z, sim.State.Comoving)
	if !ok {
		return
	}

	target.Save()
	target.Alpha *= f.HeatmapAlpha
	target.Blend = render.Screen
	x, y, dw, dh := hm.Dest()
	target.BlitScaled(hm.Image, x, y, dw, dh)
	target.Restore()
}

// Snapshot renders the current state into a new w x h surface.
func (sim *Simulation) Snapshot(w, h int) (*render.Surface, error) {
	s := render.NewSurface(w, h)
	err := sim.Draw(s)
	return s, err
}

// SnapshotName returns the file name used for exported frames.
func (sim *Simulation) SnapshotName(ext string) string {
	return fmt.Sprintf("bao-z%.2f.%s", sim.State.Z, ext)
}
