package baoviz

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/baoviz/render"
)

func newTestSim(w, h int) *Simulation {
	return NewSimulation(DefaultConfig(), rand.New(rand.NewSource(7)), w, h)
}

func playToEnd(t *testing.T, d *Driver) int {
	now := time.Unix(0, 0)
	d.Play(now)
	ticks := 0
	for d.Playing() && ticks < 100000 {
		now = now.Add(FrameDuration)
		require.True(t, d.Tick(now))
		ticks++
	}
	return ticks
}

func TestPlayToPresent(t *testing.T) {
	for _, mode := range []DriverMode{LogLinear, Friedmann} {
		sim := newTestSim(80, 60)
		sim.SetRedshift(5)
		d := NewDriver(sim)
		d.Mode = mode

		ticks := playToEnd(t, d)
		assert.True(t, ticks > 1, mode.String())
		assert.Equal(t, 0.0, sim.State.Z, mode.String())
		assert.Equal(t, 1.0, sim.State.A, mode.String())
		assert.False(t, d.Playing(), mode.String())
		assert.False(t, d.Tick(time.Unix(10, 0)), "paused drivers do not tick")
	}
}

func TestPlayRestarts(t *testing.T) {
	sim := newTestSim(80, 60)
	d := NewDriver(sim)

	sim.SetRedshift(0.04)
	d.Play(time.Unix(0, 0))
	assert.Equal(t, 5.0, sim.State.Z)
	assert.True(t, d.Playing())

	d.Toggle(time.Unix(1, 0))
	assert.False(t, d.Playing())

	sim.SetRedshift(0.5)
	d.Toggle(time.Unix(2, 0))
	assert.Equal(t, 0.5, sim.State.Z, "only the present restarts")
}

func TestFrames(t *testing.T) {
	d := NewDriver(newTestSim(10, 10))
	table := []struct {
		elapsed time.Duration
		frames  float64
	}{
		{0, 0},
		{-time.Second, 0},
		{FrameDuration, 1},
		{2 * FrameDuration, 2},
		{time.Hour, 4},
	}
	for i, test := range table {
		if f := d.Frames(test.elapsed); math.Abs(f-test.frames) > 1e-12 {
			t.Errorf("%d) Expected %g frames, got %g", i, test.frames, f)
		}
	}
}

func TestStepMonotone(t *testing.T) {
	sim := newTestSim(10, 10)
	d := NewDriver(sim)
	sim.SetRedshift(1000)
	prev := sim.State.A
	for i := 0; i < 50; i++ {
		d.Step(1)
		assert.True(t, sim.State.A > prev)
		assert.InDelta(t, 1/(1+sim.State.Z), sim.State.A, 1e-12)
		prev = sim.State.A
	}
}

func TestRun(t *testing.T) {
	sim := newTestSim(40, 30)
	d := NewDriver(sim)
	sim.SetRedshift(1)

	ticks := make(chan time.Time)
	done := make(chan struct{})
	defer close(done)
	go func() {
		now := time.Unix(0, 0)
		for {
			now = now.Add(4 * FrameDuration)
			select {
			case ticks <- now:
			case <-done:
				return
			}
		}
	}()

	renders := 0
	d.Play(time.Unix(0, 0))
	err := d.Run(context.Background(), ticks, func() error {
		renders++
		return nil
	})
	require.NoError(t, err)
	assert.True(t, renders > 0)
	assert.Equal(t, 0.0, sim.State.Z)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Play(time.Unix(0, 0))
	assert.Equal(t, context.Canceled, d.Run(ctx, nil, func() error { return nil }))
}

func TestRedshiftRoundTrip(t *testing.T) {
	sim := newTestSim(10, 10)
	for _, z := range []float64{0, 0.01, 0.5, 1, 5, 10, 99.9, 1100} {
		sim.SetRedshift(z)
		if sim.State.A != 1/(1+z) {
			t.Errorf("Expected a = %g for z = %g, got %g", 1/(1+z), z, sim.State.A)
		}
	}
	sim.SetRedshift(-3)
	assert.Equal(t, 0.0, sim.State.Z)
	assert.Equal(t, 1.0, sim.State.A)
	sim.SetRedshift(math.NaN())
	assert.Equal(t, 0.0, sim.State.Z)
}

func TestLogRedshift(t *testing.T) {
	sim := newTestSim(10, 10)
	sim.SetLogRedshift(100)
	assert.InDelta(t, 1100, sim.State.Z, 1e-9)

	sim.SetLogRedshift(math.Log10(6))
	assert.InDelta(t, 5, sim.State.Z, 1e-12)
	sim.StepLogRedshift(2)
	assert.InDelta(t, math.Log10(6)+0.1, sim.LogRedshift(), 1e-12)

	sim.StepLogRedshift(-1000)
	assert.Equal(t, 0.0, sim.State.Z)
}

func TestFlatness(t *testing.T) {
	sim := newTestSim(10, 10)
	require.True(t, sim.State.Flat)

	sim.SetOmegaM(0.4)
	assert.Equal(t, 0.4, sim.State.Cosmo.OmegaM)
	assert.Equal(t, 0.6, sim.State.Cosmo.OmegaL)

	sim.SetOmegaL(0.25)
	assert.Equal(t, 0.75, sim.State.Cosmo.OmegaM)

	sim.SetFlat(false)
	sim.SetOmegaM(1)
	assert.Equal(t, 0.25, sim.State.Cosmo.OmegaL)

	sim.SetPreset(1, 0)
	assert.True(t, sim.State.Flat)
	sim.SetPreset(0.3, 0)
	assert.False(t, sim.State.Flat)
	sim.SetFlat(true)
	assert.Equal(t, 0.7, sim.State.Cosmo.OmegaL)
}

func TestGalaxyCount(t *testing.T) {
	sim := newTestSim(100, 100)
	table := []struct {
		active  int
		density float64
	}{
		{1, 2}, {0, 2}, {50, 1}, {200, 0.5}, {500, 3}, {3, 0},
	}
	for i, test := range table {
		sim.SetActiveCenters(test.active)
		sim.SetGalaxyDensity(test.density)
		der := sim.Derived()
		if der.Galaxies != der.Predicted {
			t.Errorf("%d) Expected %d galaxies, got %d", i, der.Predicted, der.Galaxies)
		}
	}
	assert.Equal(t, 3, sim.State.ActiveCenters)
}

func TestSettersKeepPeaks(t *testing.T) {
	sim := newTestSim(100, 100)
	peaks := append([]float64{}, sim.Catalog.Peaks[5].X, sim.Catalog.Peaks[5].Y)

	sim.SetActiveCenters(10)
	sim.SetGalaxyDensity(1)
	assert.Equal(t, peaks[0], sim.Catalog.Peaks[5].X)
	assert.Equal(t, peaks[1], sim.Catalog.Peaks[5].Y)

	sim.Shuffle()
	assert.NotEqual(t, peaks[0], sim.Catalog.Peaks[5].X)
	assert.Equal(t, 0.0, sim.Catalog.Peaks[0].X)
}

func TestResize(t *testing.T) {
	sim := newTestSim(100, 50)
	u := sim.Universe
	sim.Resize(200, 50)
	assert.InDelta(t, 2*u, sim.Universe, 1e-9)

	sim.SetRedshift(sim.Config.DefaultComovingZ)
	f := sim.Frame(200, 50)
	assert.InDelta(t, 200, f.Layout.BoxSize, 1e-9)
	assert.False(t, f.Layout.Tiled, "the box covers the view at the reference redshift")
}

func TestResetAll(t *testing.T) {
	sim := newTestSim(50, 50)
	sim.SetRedshift(100)
	sim.SetOmegaM(0.8)
	sim.SetActiveCenters(30)
	sim.SetGravity(1)
	sim.SetRSD(true)
	sim.ToggleLayer(HeatmapLayer)
	sim.ToggleLayer(PlotLayer)
	sim.State.Playing = true

	sim.ResetAll()
	assert.Equal(t, DefaultState(), sim.State)
	assert.Equal(t, 1, sim.Catalog.Active)

	sim.SetRedshift(2)
	sim.State.Playing = true
	sim.Reset()
	assert.Equal(t, 5.0, sim.State.Z)
	assert.False(t, sim.State.Playing)
}

func TestTourPresets(t *testing.T) {
	sim := newTestSim(80, 60)
	steps := TourPresets()
	require.Len(t, steps, 5)

	sim.SetOmegaM(0.5)
	sim.ApplyParameters(steps[0])
	assert.Equal(t, 1100.0, sim.State.Z)
	assert.Equal(t, 50, sim.State.ActiveCenters)
	assert.Equal(t, 0.3, sim.State.Cosmo.OmegaM, "the first step resets")
	assert.True(t, sim.State.Layers.Heatmap)
	assert.False(t, sim.State.Layers.Galaxies)

	sim.ApplyParameters(steps[3])
	assert.Equal(t, 0.0, sim.State.Z)
	assert.Equal(t, 1.0, sim.State.Gravity)
	assert.Equal(t, 0.7, sim.State.Cosmo.OmegaL)
	assert.True(t, sim.State.Layers.Plot)

	sim.ApplyParameters(steps[4])
	assert.True(t, sim.State.RSD)
	assert.True(t, sim.State.Comoving)
	assert.Equal(t, 3, sim.Catalog.Active)

	b := sim.Bundle()
	other := newTestSim(80, 60)
	other.ApplyParameters(b)
	assert.Equal(t, sim.State.Z, other.State.Z)
	assert.Equal(t, sim.State.Cosmo, other.State.Cosmo)
	assert.Equal(t, sim.State.Layers, other.State.Layers)
	assert.Equal(t, sim.State.GalaxyDensity, other.State.GalaxyDensity)
}

func TestFrame(t *testing.T) {
	sim := newTestSim(160, 120)

	sim.SetRedshift(1100)
	f := sim.Frame(160, 120)
	assert.True(t, f.Masked)
	assert.InDelta(t, 1, f.T, 1e-12)
	assert.InDelta(t, 1, f.HeatmapAlpha, 1e-12)
	assert.InDelta(t, 0, f.GalaxyAlpha, 1e-12)
	assert.True(t, f.Layout.Tiled)
	assert.Equal(t, 1.0, f.RSDScaleY)

	sim.SetComoving(true)
	f = sim.Frame(160, 120)
	assert.False(t, f.Masked)
	assert.Equal(t, 0.0, f.HeatmapAlpha)
	assert.Equal(t, 1.0, f.Expansion)
	assert.Equal(t, 0.5, f.Glow)

	sim.SetComoving(false)
	sim.SetRedshift(0)
	sim.SetRSD(true)
	sim.SetGravity(1)
	f = sim.Frame(160, 120)
	assert.False(t, f.Layout.Tiled)
	assert.InDelta(t, math.Max(0.2, 1-f.Growth*0.8), f.RSDScaleY, 1e-12)
	assert.InDelta(t, 150, f.Horizon, 1e-9)
	assert.InDelta(t, clamp(f.Growth+0.2, 0.4, 1), f.Opacity, 1e-12)
	assert.True(t, f.Opacity < 1, "growth at a = 1 is below one for Om = 0.3")

	table := []struct {
		z, om, ol float64
		opacity   float64
	}{
		{0, 1, 0, 1},
		{1100, 0.3, 0.7, 0.4},
		{1, 1, 0, 0.7},
	}
	for i, test := range table {
		sim.SetFlat(false)
		sim.SetOmegaM(test.om)
		sim.SetOmegaL(test.ol)
		sim.SetRedshift(test.z)
		f = sim.Frame(160, 120)
		if math.Abs(f.Opacity-test.opacity) > 1e-3 {
			t.Errorf("%d) Expected opacity %g, got %g", i, test.opacity, f.Opacity)
		}
	}
}

func TestPositions(t *testing.T) {
	sim := newTestSim(100, 100)
	sim.SetActiveCenters(0)
	f := sim.Frame(100, 100)
	xs := sim.Positions(&f, 50, 50, 0, nil)
	assert.Len(t, xs, len(sim.Catalog.Galaxies))

	sim.SetActiveCenters(5)
	sim.SetRSD(true)
	f = sim.Frame(100, 100)
	wrap := f.Layout.WrapSize()
	xs = sim.Positions(&f, 50, 50, wrap, xs)
	assert.Len(t, xs, len(sim.Catalog.Galaxies))
	for i, x := range xs {
		if x[0] < 0 || x[0] >= wrap || x[1] < 0 || x[1] >= wrap {
			t.Errorf("%d) Expected a position in [0, %g), got %v", i, wrap, x)
		}
	}

	// Galaxies of deactivated peaks are skipped.
	sim.State.ActiveCenters = 2
	xs = sim.Positions(&f, 50, 50, wrap, xs)
	assert.True(t, len(xs) < len(sim.Catalog.Galaxies))
}

func TestDrawEmpty(t *testing.T) {
	sim := newTestSim(100, 100)
	assert.NoError(t, sim.Draw(nil))
	assert.NoError(t, sim.Draw(render.NewSurface(0, 0)))
}

func TestDraw(t *testing.T) {
	sim := newTestSim(160, 120)

	s, err := sim.Snapshot(160, 120)
	require.NoError(t, err)
	px := s.Img.RGBAAt(159, 119)
	assert.Equal(t, uint8(255), px.A)

	sim.ApplyParameters(TourPresets()[0])
	s, err = sim.Snapshot(160, 120)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), s.Img.RGBAAt(0, 0).A, "masked corner")
	assert.Equal(t, uint8(255), s.Img.RGBAAt(80, 60).A)
	assert.True(t, sim.Derived().HeatmapNorm > 0)

	for _, step := range TourPresets()[1:] {
		sim.ApplyParameters(step)
		sim.State.TileBorder = true
		_, err = sim.Snapshot(160, 120)
		require.NoError(t, err, step.Title)
	}

	assert.Equal(t, "bao-z0.50.png", sim.SnapshotName("png"))
}

func BenchmarkDraw(b *testing.B) {
	sim := newTestSim(640, 360)
	sim.SetLayer(HeatmapLayer, true)
	s := render.NewSurface(640, 360)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := sim.Draw(s); err != nil {
			b.Fatal(err.Error())
		}
	}
}
