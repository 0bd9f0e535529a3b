package render

import (
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	plotCurve     = color.NRGBA{0x4c, 0xc9, 0xf0, 0xff}
	plotAxis      = color.NRGBA{0x66, 0x66, 0x66, 0xff}
	plotTick      = color.NRGBA{0x88, 0x88, 0x88, 0xff}
	plotLabel     = color.NRGBA{0xaa, 0xaa, 0xaa, 0xff}
	plotMarker    = color.NRGBA{255, 255, 255, 128}
	plotBackdrop  = color.NRGBA{0, 0, 0, 153}
	plotTickEvery = 50.0
	plotHighlight = 150.0
)

// NewCorrelationPlot builds a line plot of xi. The x axis carries a tick
// every 50 units with the acoustic scale labelled separately, and the
// plotted densities are clamped so the central spike stays on scale.
func NewCorrelationPlot(xi *Correlation) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = color.Transparent
	p.Title.Text = "Correlation function"
	p.Title.TextStyle.Color = plotLabel

	p.X.Label.Text = "r"
	p.Y.Label.Text = "ξ(r)"
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Color = plotLabel
		ax.LineStyle.Color = plotAxis
		ax.Tick.LineStyle.Color = plotTick
		ax.Tick.Label.Color = plotTick
	}

	p.X.Min, p.X.Max = xi.Info.Min, xi.Info.Max
	p.Y.Min, p.Y.Max = 0, xi.YMax()

	p.X.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
		var ticks []plot.Tick
		for r := plotTickEvery; r < max; r += plotTickEvery {
			label := fmt.Sprintf("%.0f", r)
			if r == plotHighlight {
				label = ""
			}
			ticks = append(ticks, plot.Tick{Value: r, Label: label})
		}
		return ticks
	})
	p.Y.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
		return nil
	})

	dr := xi.Info.BinWidth()
	ys := xi.Clamped()
	pts := make(plotter.XYs, len(ys))
	for i := range pts {
		pts[i].X = xi.Info.Min + float64(i)*dr
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = plotCurve
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)

	if plotHighlight < xi.Info.Max {
		lbl, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: plotHighlight, Y: 0}},
			Labels: []string{fmt.Sprintf("%.0f", plotHighlight)},
		})
		if err != nil {
			return nil, err
		}
		for i := range lbl.TextStyle {
			lbl.TextStyle[i].Color = plotCurve
		}
		p.Add(lbl)
	}

	if xi.MarkerVisible() {
		marker, err := plotter.NewLine(plotter.XYs{
			{X: xi.Marker, Y: 0}, {X: xi.Marker, Y: xi.YMax()},
		})
		if err != nil {
			return nil, err
		}
		marker.LineStyle.Color = plotMarker
		marker.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(marker)
	}

	return p, nil
}

// PlotPanel rasterizes the correlation plot of xi into a w x h image at one
// pixel per point.
func PlotPanel(xi *Correlation, w, h int) (image.Image, error) {
	p, err := NewCorrelationPlot(xi)
	if err != nil {
		return nil, err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(w), vg.Length(h)),
		vgimg.UseDPI(72),
		vgimg.UseBackgroundColor(color.Transparent),
	)
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// DrawCorrelation composites the correlation panel onto s at (x, y) over a
// translucent backdrop.
func (s *Surface) DrawCorrelation(xi *Correlation, x, y, w, h int) error {
	if s.Empty() || w <= 0 || h <= 0 {
		return nil
	}
	img, err := PlotPanel(xi, w, h)
	if err != nil {
		return err
	}

	s.Save()
	s.Blend = Over
	s.FillRect(float64(x), float64(y), float64(x+w), float64(y+h), plotBackdrop)
	s.BlitScaled(img, float64(x), float64(y), float64(w), float64(h))
	s.Restore()
	return nil
}
