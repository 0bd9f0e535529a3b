/*package live runs baoviz interactively in a terminal. Each character cell
shows two pixels with an upper half block whose foreground is the top
pixel and whose background is the bottom one.
*/
package live

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/baoviz"
	"github.com/phil-mansfield/baoviz/catalog"
	"github.com/phil-mansfield/baoviz/io"
	"github.com/phil-mansfield/baoviz/render"
)

const (
	halfBlock = '▀'
	// StatusRows is the number of rows below the universe used for text.
	StatusRows = 1
)

// App displays a Simulation on a tcell screen. Every method must be called
// from the goroutine running the event loop.
type App struct {
	Screen tcell.Screen
	Sim    *baoviz.Simulation
	Driver *baoviz.Driver

	// SnapshotDir is the directory Ctrl+S writes PNG snapshots to.
	SnapshotDir string

	surface *render.Surface
	dev     bool
	message string
}

// NewApp creates an App for screen, which must already be initialized.
func NewApp(screen tcell.Screen, con baoviz.Config, src catalog.Source) *App {
	w, h := pixelSize(screen)
	sim := baoviz.NewSimulation(con, src, w, h)
	return &App{
		Screen:      screen,
		Sim:         sim,
		Driver:      baoviz.NewDriver(sim),
		SnapshotDir: ".",
		surface:     render.NewSurface(w, h),
	}
}

// pixelSize returns the size of the pixel grid shown on screen.
func pixelSize(screen tcell.Screen) (w, h int) {
	cols, rows := screen.Size()
	rows -= StatusRows
	if rows < 0 {
		rows = 0
	}
	return cols, 2 * rows
}

// Resize matches the simulation to the current screen size.
func (app *App) Resize() {
	w, h := pixelSize(app.Screen)
	app.surface.Resize(w, h)
	app.Sim.Resize(w, h)
	app.Screen.Sync()
}

func cellColor(img []uint8, i int) tcell.Color {
	return tcell.NewRGBColor(int32(img[i]), int32(img[i+1]), int32(img[i+2]))
}

// Draw renders the current frame and the status line.
func (app *App) Draw() error {
	err := app.Sim.Draw(app.surface)

	img := app.surface.Img
	w, h := app.surface.Width(), app.surface.Height()
	for y := 0; y+1 < h; y += 2 {
		for x := 0; x < w; x++ {
			top := cellColor(img.Pix, img.PixOffset(x, y))
			bottom := cellColor(img.Pix, img.PixOffset(x, y+1))
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			app.Screen.SetContent(x, y/2, halfBlock, nil, style)
		}
	}

	app.drawStatus(h / 2)
	app.Screen.Show()
	return err
}

func (app *App) drawStatus(row int) {
	cols, rows := app.Screen.Size()
	if row >= rows {
		return
	}

	st := &app.Sim.State
	play := "paused"
	if st.Playing {
		play = "playing"
	}
	text := fmt.Sprintf(
		" z=%.2f Om=%.2f Ol=%.2f centers=%d G=%.1f %s",
		st.Z, st.Cosmo.OmegaM, st.Cosmo.OmegaL, st.ActiveCenters, st.Gravity, play,
	)
	if app.message != "" {
		text += " | " + app.message
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	runes := []rune(text)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		app.Screen.SetContent(x, row, r, nil, style)
	}
}

// HandleEvent applies ev at time now and returns false if the app should
// quit.
func (app *App) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return app.handleKey(ev, now)
	case *tcell.EventResize:
		app.Resize()
	}
	return true
}

func (app *App) handleKey(ev *tcell.EventKey, now time.Time) bool {
	sim, st := app.Sim, &app.Sim.State
	app.message = ""

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		if ev.Modifiers()&tcell.ModShift != 0 {
			app.Driver.Pause()
			sim.ResetAll()
		} else {
			sim.Reset()
		}
	case tcell.KeyCtrlR:
		app.Driver.Pause()
		sim.ResetAll()
	case tcell.KeyCtrlS:
		app.snapshot()
	case tcell.KeyCtrlD:
		app.dev = !app.dev
		st.TileBorder = app.dev
	case tcell.KeyUp:
		sim.StepLogRedshift(1)
	case tcell.KeyDown:
		sim.StepLogRedshift(-1)
	case tcell.KeyPgUp:
		sim.StepLogRedshift(10)
	case tcell.KeyPgDn:
		sim.StepLogRedshift(-10)
	case tcell.KeyRight:
		sim.SetActiveCenters(st.ActiveCenters + 1)
	case tcell.KeyLeft:
		sim.SetActiveCenters(st.ActiveCenters - 1)
	case tcell.KeyRune:
		return app.handleRune(ev.Rune(), now)
	}
	return true
}

func (app *App) handleRune(r rune, now time.Time) bool {
	sim, st := app.Sim, &app.Sim.State

	switch r {
	case 'q':
		return false
	case ' ':
		app.Driver.Toggle(now)
	case 'r':
		sim.SetRSD(!st.RSD)
	case 'c':
		sim.SetComoving(!st.Comoving)
	case 'd':
		sim.ToggleLayer(baoviz.DensityLayer)
	case 'g':
		sim.ToggleLayer(baoviz.GalaxyLayer)
	case 'h':
		sim.ToggleLayer(baoviz.HeatmapLayer)
	case 'o':
		sim.ToggleLayer(baoviz.HorizonLayer)
	case 'p':
		sim.ToggleLayer(baoviz.PlotLayer)
	case 's':
		sim.Shuffle()
	case 'f':
		sim.SetFlat(!st.Flat)
	case 't':
		if app.dev {
			st.Transition = !st.Transition
		}
	case '+', '=':
		sim.StepLogRedshift(1)
	case '-':
		sim.StepLogRedshift(-1)
	case ']':
		sim.SetGravity(st.Gravity + 0.1)
	case '[':
		sim.SetGravity(st.Gravity - 0.1)
	case 'm':
		sim.SetOmegaM(st.Cosmo.OmegaM + 0.05)
	case 'M':
		sim.SetOmegaM(st.Cosmo.OmegaM - 0.05)
	case 'l':
		sim.SetOmegaL(st.Cosmo.OmegaL + 0.05)
	case 'L':
		sim.SetOmegaL(st.Cosmo.OmegaL - 0.05)
	case '1', '2', '3', '4', '5':
		step := baoviz.TourPresets()[r-'1']
		sim.ApplyParameters(step)
		app.message = step.Title
	}
	return true
}

func (app *App) snapshot() {
	fname := filepath.Join(app.SnapshotDir, app.Sim.SnapshotName("png"))
	if err := io.WritePNG(fname, app.surface.Img); err != nil {
		app.message = err.Error()
		return
	}
	app.message = "saved " + fname
}

// Loop handles events from events and advances the driver on every tick
// until ctx is cancelled, events is closed, or the user quits.
func (app *App) Loop(ctx context.Context, ticks <-chan time.Time, events <-chan tcell.Event) error {
	if err := app.Draw(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || ev == nil {
				return nil
			}
			if !app.HandleEvent(ev, time.Now()) {
				return nil
			}
			if err := app.Draw(); err != nil {
				return err
			}
		case now := <-ticks:
			if app.Driver.Tick(now) {
				if err := app.Draw(); err != nil {
					return err
				}
			}
		}
	}
}

// pollEvents forwards the events of screen over a channel with the given
// buffer size. The channel is closed once the screen stops delivering
// events or done is closed.
func pollEvents(screen tcell.Screen, done <-chan struct{}, buffer int) <-chan tcell.Event {
	events := make(chan tcell.Event, buffer)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// Run opens the terminal and runs the interactive view until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, con baoviz.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "opening terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "initializing terminal")
	}
	defer screen.Fini()

	app := NewApp(screen, con, nil)

	ticker := time.NewTicker(baoviz.FrameDuration)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := pollEvents(screen, done, 100)

	return app.Loop(ctx, ticker.C, events)
}
