package density

import (
	"image/color"
	"math"

	"github.com/phil-mansfield/baoviz/math/interpolate"
)

const (
	// MinVisible is the smallest smoothed cell value that is drawn.
	MinVisible = 0.001
	logBias    = 10.0
	alphaGain  = 1.5
)

// Colormap maps smoothed densities to colors with a logarithmic ramp that
// runs deep blue, cyan-green, orange-red, white.
type Colormap struct {
	r, g, b *interpolate.Linear
}

// DefaultColormap returns the standard heatmap ramp.
func DefaultColormap() *Colormap {
	knots := []float64{0, 0.25, 0.5, 0.75, 1}
	return &Colormap{
		r: interpolate.NewLinear(knots, []float64{0, 0, 0, 255, 255}),
		g: interpolate.NewLinear(knots, []float64{0, 50, 255, 155, 255}),
		b: interpolate.NewLinear(knots, []float64{80, 255, 205, 0, 255}),
	}
}

// Norm returns the logarithmic normalization of val against normMax,
// clamped to 1.
func Norm(val, normMax float64) float64 {
	logVal := math.Log(1 + val*logBias)
	logMax := math.Log(1 + normMax*logBias)
	if logMax <= 0 {
		return 1
	}
	return math.Min(1, logVal/logMax)
}

// Color returns the non-premultiplied color of a cell. Values below
// MinVisible are fully transparent.
func (cm *Colormap) Color(val, normMax float64) color.NRGBA {
	if val < MinVisible {
		return color.NRGBA{}
	}
	norm := Norm(val, normMax)
	alpha := math.Min(255, math.Floor(math.Sqrt(norm)*255*alphaGain))
	return color.NRGBA{
		R: channel(cm.r.Eval(norm)),
		G: channel(cm.g.Eval(norm)),
		B: channel(cm.b.Eval(norm)),
		A: uint8(alpha),
	}
}

func channel(x float64) uint8 {
	x = math.Floor(x)
	if x < 0 {
		return 0
	} else if x > 255 {
		return 255
	}
	return uint8(x)
}
