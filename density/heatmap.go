package density

import (
	"image"
	"math"

	"github.com/phil-mansfield/baoviz/geom"
)

// Pad is the number of wrapped border cells added around heatmap images so
// that bilinear upscaling blends seamlessly across the periodic boundary.
const Pad = 1

// Resolution chooses the heatmap cell size. Cells shrink from CellMax at
// redshift ZEnd to CellMin at ZFine; the comoving frame always uses
// CellMax.
type Resolution struct {
	CellMax, CellMin float64
	ZEnd, ZFine      float64
}

// DefaultResolution returns the standard cell-size schedule.
func DefaultResolution() Resolution {
	return Resolution{CellMax: 4, CellMin: 0.5, ZEnd: 5, ZFine: 1000}
}

// CellSize returns the target size of a heatmap cell in screen pixels. It
// is never smaller than one pixel.
func (res Resolution) CellSize(z float64, comoving bool) float64 {
	size := res.CellMax
	if !comoving {
		logZ := math.Log10(math.Max(0.1, z))
		logEnd, logFine := math.Log10(res.ZEnd), math.Log10(res.ZFine)
		t := clamp01((logZ - logEnd) / (logFine - logEnd))
		size = res.CellMax - t*(res.CellMax-res.CellMin)
	}
	return math.Max(1, size)
}

// Dims returns the grid dimensions for a region of the given extent.
func Dims(width, height, cellSize float64) (cols, rows int) {
	cols = int(math.Max(1, math.Round(width/cellSize)))
	rows = int(math.Max(1, math.Round(height/cellSize)))
	return cols, rows
}

// Heatmap is a rendered density field. Image is (Cols + 2 Pad) by
// (Rows + 2 Pad) pixels; each pixel covers CellW x CellH screen pixels.
type Heatmap struct {
	Image         *image.NRGBA
	Cols, Rows    int
	CellW, CellH  float64
	Width, Height float64
	Norm          float64
}

// Dest returns the screen rectangle the padded image must be scaled onto
// so that the unpadded cells cover [0, Width) x [0, Height).
func (hm *Heatmap) Dest() (x, y, w, h float64) {
	px, py := Pad*hm.CellW, Pad*hm.CellH
	return -px, -py, hm.Width + 2*px, hm.Height + 2*py
}

// Engine owns every buffer needed to turn positions into heatmap images.
// Buffers are reused between calls with the same dimensions. An Engine is
// not safe for concurrent use.
type Engine struct {
	Resolution
	Interp Interpolator
	Passes int
	Colors *Colormap

	grid   Grid
	smooth Smoother
	norm   Normalizer
	img    *image.NRGBA
}

// NewEngine returns an Engine using cloud-in-cell assignment and two
// smoothing passes.
func NewEngine(res Resolution) *Engine {
	return &Engine{
		Resolution: res,
		Interp:     CloudInCell(),
		Passes:     2,
		Colors:     DefaultColormap(),
	}
}

// Normalizer returns the engine's running brightness normalization.
func (e *Engine) Normalizer() *Normalizer { return &e.norm }

// Grid returns the most recently smoothed density grid.
func (e *Engine) Grid() *Grid { return &e.grid }

// Render bins xs, which are positions in [0, width) x [0, height) screen
// pixels, onto a grid at the resolution implied by z, smooths and colors
// it. It returns false if there is nothing to draw.
func (e *Engine) Render(
	xs []geom.Vec, width, height, z float64, comoving bool,
) (*Heatmap, bool) {
	if len(xs) == 0 || width <= 0 || height <= 0 {
		return nil, false
	}

	size := e.CellSize(z, comoving)
	cols, rows := Dims(width, height, size)
	e.grid.Init(cols, rows, width, height)

	e.Interp.Interpolate(&e.grid, 1, xs)
	e.smooth.Smooth(&e.grid, e.Passes)

	normMax, ok := e.norm.Update(e.grid.Max())
	if !ok {
		return nil, false
	}

	e.paint(normMax)

	return &Heatmap{
		Image: e.img,
		Cols:  cols, Rows: rows,
		CellW: e.grid.CellW, CellH: e.grid.CellH,
		Width: width, Height: height,
		Norm: normMax,
	}, true
}

// paint writes the colored, padded image of the current grid.
func (e *Engine) paint(normMax float64) {
	g := &e.grid
	pw, ph := g.Cols+2*Pad, g.Rows+2*Pad
	if e.img == nil || e.img.Rect.Dx() != pw || e.img.Rect.Dy() != ph {
		e.img = image.NewNRGBA(image.Rect(0, 0, pw, ph))
	}

	for r := 0; r < ph; r++ {
		srcR := geom.PMod(r-Pad, g.Rows)
		for c := 0; c < pw; c++ {
			srcC := geom.PMod(c-Pad, g.Cols)
			col := e.Colors.Color(g.Rhos[g.Idx(srcC, srcR)], normMax)
			i := e.img.PixOffset(c, r)
			e.img.Pix[i+0] = col.R
			e.img.Pix[i+1] = col.G
			e.img.Pix[i+2] = col.B
			e.img.Pix[i+3] = col.A
		}
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	} else if x > 1 {
		return 1
	}
	return x
}
