package baoviz

import (
	"context"
	"math"
	"time"

	"github.com/phil-mansfield/baoviz/cosmo"
)

// FrameDuration is the nominal time between frames. Elapsed time is
// converted into a number of nominal frames so playback speed does not
// depend on the host's refresh rate.
const FrameDuration = time.Second / 60

// Driver advances a Simulation in time. It is not safe for concurrent use.
type Driver struct {
	Sim  *Simulation
	Mode DriverMode

	last time.Time
}

// NewDriver returns a paused Driver using the configured mode.
func NewDriver(sim *Simulation) *Driver {
	return &Driver{Sim: sim, Mode: sim.Config.Mode}
}

// Playing returns true while the driver is advancing the simulation.
func (d *Driver) Playing() bool { return d.Sim.State.Playing }

// Play starts playback at time now. If the universe has already reached
// the present it first restarts from the loop start redshift.
func (d *Driver) Play(now time.Time) {
	sim := d.Sim
	if sim.State.Z <= sim.Config.RestartZ {
		sim.SetRedshift(sim.Config.LoopStartZ)
	}
	sim.State.Playing = true
	d.last = now
}

// Pause stops playback.
func (d *Driver) Pause() { d.Sim.State.Playing = false }

// Toggle pauses a playing driver and plays a paused one.
func (d *Driver) Toggle(now time.Time) {
	if d.Playing() {
		d.Pause()
	} else {
		d.Play(now)
	}
}

// Frames returns the number of nominal frames in elapsed, clamped to
// [0, MaxFrameSkip].
func (d *Driver) Frames(elapsed time.Duration) float64 {
	frames := float64(elapsed) / float64(FrameDuration)
	max := float64(d.Sim.Config.MaxFrameSkip)
	if max <= 0 {
		max = 1
	}
	return math.Max(0, math.Min(max, frames))
}

// Step advances the scale factor by the given number of nominal frames.
// Reaching a = 1 clamps there and pauses.
func (d *Driver) Step(frames float64) {
	sim := d.Sim
	con, st := &sim.Config, &sim.State
	a := st.A

	var da float64
	switch d.Mode {
	case Friedmann:
		e := cosmo.ExpansionRate(a, st.Cosmo.OmegaM, st.Cosmo.OmegaL, 0)
		da = a * e * con.TimeSpeed * frames
	default:
		da = a * con.TimeSpeed * con.SpeedFactor * frames
	}

	a += da
	if a >= 1 {
		a = 1
		st.Playing = false
	}
	sim.SetScaleFactor(a)
}

// Tick advances the simulation to time now and returns true if a frame
// should be rendered.
func (d *Driver) Tick(now time.Time) bool {
	if !d.Playing() {
		return false
	}
	elapsed := now.Sub(d.last)
	d.last = now
	d.Step(d.Frames(elapsed))
	return true
}

// Run ticks the driver on every value received from ticks and calls render
// after each tick that advanced the simulation. It returns nil once
// playback stops, the context's error if it is cancelled first, or the
// first error returned by render.
func (d *Driver) Run(ctx context.Context, ticks <-chan time.Time, render func() error) error {
	for d.Playing() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			if d.Tick(now) {
				if err := render(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
