package live

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/baoviz"
)

func newTestApp(t *testing.T) *App {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 16)
	t.Cleanup(screen.Fini)

	app := NewApp(screen, baoviz.DefaultConfig(), rand.New(rand.NewSource(11)))
	app.SnapshotDir = t.TempDir()
	return app
}

func key(k tcell.Key) *tcell.EventKey {
	mod := tcell.ModNone
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		mod = tcell.ModCtrl
	}
	return tcell.NewEventKey(k, 0, mod)
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestPixelSize(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, 40, app.Sim.Width)
	assert.Equal(t, 30, app.Sim.Height)
	assert.Equal(t, 40, app.surface.Width())
	assert.Equal(t, 30, app.surface.Height())
	require.NoError(t, app.Draw())
}

func TestKeys(t *testing.T) {
	app := newTestApp(t)
	sim := app.Sim
	now := time.Unix(0, 0)

	table := []struct {
		ev    *tcell.EventKey
		check func() bool
	}{
		{char('r'), func() bool { return sim.State.RSD }},
		{char('c'), func() bool { return sim.State.Comoving }},
		{char('h'), func() bool { return sim.State.Layers.Heatmap }},
		{char('o'), func() bool { return sim.State.Layers.Horizon }},
		{char('p'), func() bool { return !sim.State.Layers.Plot }},
		{char('d'), func() bool { return !sim.State.Layers.Density }},
		{char('g'), func() bool { return !sim.State.Layers.Galaxies }},
		{char(' '), func() bool { return sim.State.Playing }},
		{char(' '), func() bool { return !sim.State.Playing }},
		{key(tcell.KeyRight), func() bool { return sim.State.ActiveCenters == 2 }},
		{key(tcell.KeyLeft), func() bool { return sim.State.ActiveCenters == 1 }},
		{char(']'), func() bool { return sim.State.Gravity > 0.25 }},
		{char('m'), func() bool { return sim.State.Cosmo.OmegaL < 0.7 }},
		{char('f'), func() bool { return !sim.State.Flat }},
		{char('4'), func() bool { return sim.State.ActiveCenters == 100 }},
		{key(tcell.KeyCtrlD), func() bool { return sim.State.TileBorder }},
		{char('t'), func() bool { return !sim.State.Transition }},
	}

	for i, test := range table {
		if !app.HandleEvent(test.ev, now) {
			t.Errorf("%d) Expected the app to keep running.", i)
		}
		if !test.check() {
			t.Errorf("%d) Expected key %v to change the state.", i, test.ev.Name())
		}
	}
	require.NoError(t, app.Draw())

	assert.False(t, app.HandleEvent(char('q'), now))
	assert.False(t, app.HandleEvent(key(tcell.KeyCtrlC), now))
}

func TestRedshiftKeys(t *testing.T) {
	app := newTestApp(t)
	sim := app.Sim
	now := time.Unix(0, 0)

	v := sim.LogRedshift()
	app.HandleEvent(key(tcell.KeyUp), now)
	assert.InDelta(t, v+baoviz.LogRedshiftStep, sim.LogRedshift(), 1e-9)
	app.HandleEvent(key(tcell.KeyPgDn), now)
	assert.InDelta(t, v-9*baoviz.LogRedshiftStep, sim.LogRedshift(), 1e-9)

	for i := 0; i < 100; i++ {
		app.HandleEvent(key(tcell.KeyPgUp), now)
	}
	assert.InDelta(t, 1100, sim.State.Z, 1e-6)
	require.NoError(t, app.Draw())

	app.HandleEvent(key(tcell.KeyEscape), now)
	assert.Equal(t, 5.0, sim.State.Z)
}

func TestResetAllKey(t *testing.T) {
	app := newTestApp(t)
	sim := app.Sim
	now := time.Unix(0, 0)

	app.HandleEvent(char('3'), now)
	app.HandleEvent(char(' '), now)
	require.True(t, sim.State.Playing)

	app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModShift), now)
	assert.Equal(t, baoviz.DefaultState(), sim.State)

	app.HandleEvent(char('1'), now)
	app.HandleEvent(key(tcell.KeyCtrlR), now)
	assert.Equal(t, baoviz.DefaultState(), sim.State)
}

func TestSnapshotKey(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Draw())
	app.HandleEvent(key(tcell.KeyCtrlS), time.Unix(0, 0))

	fname := filepath.Join(app.SnapshotDir, app.Sim.SnapshotName("png"))
	_, err := os.Stat(fname)
	assert.NoError(t, err)
}

func TestResize(t *testing.T) {
	app := newTestApp(t)
	screen := app.Screen.(tcell.SimulationScreen)
	screen.SetSize(60, 11)
	app.HandleEvent(tcell.NewEventResize(60, 11), time.Unix(0, 0))

	assert.Equal(t, 60, app.surface.Width())
	assert.Equal(t, 20, app.surface.Height())
	assert.Equal(t, 60, app.Sim.Width)
	require.NoError(t, app.Draw())
}

func TestLoop(t *testing.T) {
	app := newTestApp(t)
	app.Sim.SetRedshift(0.2)

	ticks := make(chan time.Time)
	events := make(chan tcell.Event, 4)
	done := make(chan error)
	go func() { done <- app.Loop(context.Background(), ticks, events) }()

	events <- char(' ')
	now := time.Now()
	for i := 0; i < 50; i++ {
		now = now.Add(4 * baoviz.FrameDuration)
		ticks <- now
	}
	events <- char('q')
	require.NoError(t, <-done)
	assert.Equal(t, 0.0, app.Sim.State.Z)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, context.Canceled, app.Loop(ctx, nil, nil))

	closed := make(chan tcell.Event)
	close(closed)
	assert.NoError(t, app.Loop(context.Background(), nil, closed))
}

func TestPollEvents(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)

	done := make(chan struct{})
	events := pollEvents(screen, done, 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, screen.PostEvent(char('x')))
	}
	close(done)

	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("Expected the event channel to close once done is closed.")
		}
	}
}
