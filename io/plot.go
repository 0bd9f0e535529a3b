package io

import (
	"fmt"
	"math"
	"os"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/phil-mansfield/baoviz/cosmo"
	"github.com/phil-mansfield/baoviz/render"
)

// PlotCorrelation queues a matplotlib figure of xi which is saved to fname.
// Nothing is drawn until plt.Execute is called.
func PlotCorrelation(xi *render.Correlation, z float64, fname string) {
	plt.Figure()
	plt.Plot(xi.Centers, xi.Clamped(), plt.LW(3), plt.C("#4cc9f0"))
	if xi.MarkerVisible() {
		plt.Plot([]float64{xi.Marker, xi.Marker}, []float64{0, xi.YMax()}, "k", plt.LW(1))
	}

	plt.Title(fmt.Sprintf("Correlation function, $z$ = %.2f", z))
	plt.XLabel(`$r$`, plt.FontSize(16))
	plt.YLabel(`$\xi(r)$`, plt.FontSize(16))
	plt.XLim(xi.Info.Min, xi.Info.Max)
	plt.YLim(0, xi.YMax())
	plt.Grid(plt.Axis("x"))
	plt.SaveFig(fname)
}

var (
	growthColor    = drawing.Color{R: 76, G: 201, B: 240, A: 255}
	expansionColor = drawing.Color{R: 255, G: 165, B: 0, A: 255}
)

// GrowthCurves samples the growth factor and the expansion rate of p at n
// scale factors spaced logarithmically in [aMin, 1].
func GrowthCurves(p cosmo.Params, aMin float64, n int) (as, ds, es []float64) {
	if n < 2 {
		n = 2
	}
	as, ds, es = make([]float64, n), make([]float64, n), make([]float64, n)
	logMin := math.Log10(aMin)
	for i := range as {
		a := math.Pow(10, logMin*(1-float64(i)/float64(n-1)))
		as[i] = a
		ds[i] = cosmo.GrowthFactor(a, p.OmegaM, p.OmegaL)
		es[i] = cosmo.ExpansionRate(a, p.OmegaM, p.OmegaL, p.OmegaR)
	}
	return as, ds, es
}

// WriteGrowthChart renders D(a) and E(a) of p as a PNG.
func WriteGrowthChart(file string, p cosmo.Params, width, height int) error {
	as, ds, es := GrowthCurves(p, 0.05, 200)

	graph := chart.Chart{
		Title:  fmt.Sprintf("Om = %.2f, Ol = %.2f", p.OmegaM, p.OmegaL),
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "a",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxis: chart.YAxis{
			Name:  "D(a)",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: 1.05},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "E(a)",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "D(a)",
				XValues: as,
				YValues: ds,
				Style:   chart.Style{StrokeColor: growthColor, StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "E(a)",
				YAxis:   chart.YAxisSecondary,
				XValues: as,
				YValues: es,
				Style:   chart.Style{StrokeColor: expansionColor, StrokeWidth: 3.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "creating %s", file)
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return errors.Wrapf(err, "rendering %s", file)
	}
	return errors.Wrapf(f.Close(), "closing %s", file)
}
