package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/baoviz"
	"github.com/phil-mansfield/baoviz/catalog"
	"github.com/phil-mansfield/baoviz/io"
	"github.com/phil-mansfield/baoviz/live"
	"github.com/phil-mansfield/baoviz/render"
)

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

// Open starts logging to and profiling into the files named by con.
func (fg *FileGroup) Open(con *io.SharedConfig) {
	var err error

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		renderCfg, animate, liveCfg string
		growthChart, exampleConfig string
	)
	vars := map[string]*string{
		"Render":        &renderCfg,
		"Animate":       &animate,
		"Live":          &liveCfg,
		"GrowthChart":   &growthChart,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&renderCfg, "Render", "",
		"Configuration file for [Render] mode. Writes a single frame.",
	)
	flag.StringVar(
		&animate, "Animate", "",
		"Configuration file for [Render] mode. Plays the universe forward "+
			"and writes 'Frames' frames.",
	)
	flag.StringVar(
		&liveCfg, "Live", "",
		"Runs the interactive terminal view. The argument is a "+
			"[Visualization] file or 'default'.",
	)
	flag.StringVar(
		&growthChart, "GrowthChart", "",
		"Writes a PNG chart of D(a) and E(a) to the given file. Optional "+
			"arguments: OmegaM OmegaL.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. Accepted arguments are "+
			"'Visualization', 'Render' and 'Presets'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Render", "Animate":
		fname := renderCfg
		if modeName == "Animate" {
			fname = animate
		}
		con, err := io.ReadRenderConfig(fname)
		if err != nil {
			log.Fatal(err.Error())
		}

		fg := &FileGroup{}
		fg.Open(&con.SharedConfig)
		defer fg.Close()

		sim := setupSimulation(con)
		if modeName == "Render" {
			renderMain(con, sim)
		} else {
			animateMain(con, sim)
		}
		finish(con, sim)

	case "Live":
		fname := liveCfg
		if fname == "default" {
			fname = ""
		}
		vis, err := io.ReadVisualizationConfig(fname)
		if err != nil {
			log.Fatal(err.Error())
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := live.Run(ctx, vis); err != nil && err != context.Canceled {
			log.Fatal(err.Error())
		}

	case "GrowthChart":
		p := baoviz.DefaultState().Cosmo
		if args := flag.Args(); len(args) == 2 {
			p.OmegaM, p.OmegaL = parseFloat(args[0]), parseFloat(args[1])
		} else if len(args) != 0 {
			log.Fatal("GrowthChart takes either no arguments or OmegaM OmegaL.")
		}
		if err := io.WriteGrowthChart(growthChart, p, 800, 500); err != nil {
			log.Fatal(err.Error())
		}

	case "ExampleConfig":
		switch exampleConfig {
		case "Visualization":
			fmt.Println(io.ExampleVisualizationFile)
		case "Render":
			fmt.Println(io.ExampleRenderFile)
		case "Presets":
			if err := io.WritePresetTable("/dev/stdout", baoviz.TourPresets()); err != nil {
				log.Fatal(err.Error())
			}
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"arguments are 'Visualization', 'Render', and 'Presets'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but baoviz "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func parseFloat(s string) float64 {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("Could not parse '%s' as a number.", s)
	}
	return x
}

// setupSimulation builds the Simulation described by con. Later sources
// override earlier ones: state file, tour preset, preset table, redshift.
func setupSimulation(con *io.RenderConfig) *baoviz.Simulation {
	vis, err := io.ReadVisualizationConfig(con.VisualizationFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	var src catalog.Source
	if con.Seed != 0 {
		src = catalog.NewSeed(con.Seed)
	}
	sim := baoviz.NewSimulation(vis, src, con.Width, con.Height)

	if con.ValidLoadState() {
		hd, err := io.ReadStateFile(con.LoadState)
		if err != nil {
			log.Fatal(err.Error())
		}
		hd.Apply(sim)
	}

	if con.Preset > 0 {
		sim.ApplyParameters(baoviz.TourPresets()[con.Preset-1])
	}

	if con.ValidPresetTable() {
		bundles, err := io.ReadPresetTable(con.PresetTable)
		if err != nil {
			log.Fatal(err.Error())
		}
		if con.PresetRow >= len(bundles) {
			log.Fatalf(
				"PresetRow is %d, but %s only has %d rows.",
				con.PresetRow, con.PresetTable, len(bundles),
			)
		}
		sim.ApplyParameters(bundles[con.PresetRow])
	}

	if con.ValidRedshift() {
		sim.SetRedshift(con.Redshift)
	}

	d := sim.Derived()
	log.Printf(
		"z = %.3f, a = %.4f, E = %.3f, D = %.3f, %d galaxies.",
		d.Z, d.A, d.E, d.Growth, d.Galaxies,
	)
	return sim
}

func frameWriter(con *io.RenderConfig, frames int) io.FrameWriter {
	format, _ := con.ParseFormat()
	w, err := io.NewFrameWriter(
		format, con.Output, con.Width, con.Height, con.FrameRate, frames,
	)
	if err != nil {
		log.Fatal(err.Error())
	}
	return w
}

func renderMain(con *io.RenderConfig, sim *baoviz.Simulation) {
	log.Println("Running Render main.")

	s, err := sim.Snapshot(con.Width, con.Height)
	if err != nil {
		log.Fatal(err.Error())
	}

	w := frameWriter(con, 1)
	if err := w.WriteFrame(s.Img); err != nil {
		log.Fatal(err.Error())
	}
	if err := w.Close(); err != nil {
		log.Fatal(err.Error())
	}
}

// animateMain plays the driver on a virtual clock advancing one output
// frame per step.
func animateMain(con *io.RenderConfig, sim *baoviz.Simulation) {
	log.Println("Running Animate main.")

	w := frameWriter(con, con.Frames)
	s := render.NewSurface(con.Width, con.Height)
	d := baoviz.NewDriver(sim)

	now := time.Unix(0, 0)
	step := time.Second / time.Duration(con.FrameRate)
	d.Play(now)

	for i := 0; i < con.Frames; i++ {
		if err := sim.Draw(s); err != nil {
			log.Fatal(err.Error())
		}
		if err := w.WriteFrame(s.Img); err != nil {
			log.Fatal(err.Error())
		}
		if (i+1)%maxInt(1, con.Frames/10) == 0 {
			log.Printf("Frame %d/%d, z = %.3f", i+1, con.Frames, sim.State.Z)
		}

		now = now.Add(step)
		if !d.Tick(now) {
			log.Printf("Reached z = 0 after %d frames.", i+1)
			break
		}
	}

	if err := w.Close(); err != nil {
		log.Fatal(err.Error())
	}
}

// finish writes the optional outputs describing the final state.
func finish(con *io.RenderConfig, sim *baoviz.Simulation) {
	if con.ValidPlotScript() {
		f := sim.Frame(con.Width, con.Height)
		io.PlotCorrelation(sim.Correlation(&f), sim.State.Z, con.PlotScript)
		plt.Execute()
	}

	if con.ValidStateFile() {
		if err := io.WriteStateFile(con.StateFile, sim); err != nil {
			log.Fatal(err.Error())
		}
	}

	d := sim.Derived()
	log.Printf("Done: H(z) = %.3f H0, growth factor %.3f.", d.E, d.Growth)
}

func maxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}
