/*package density interpolates sequences of particle positions onto a periodic
2D density grid and turns the resulting field into a colored heatmap image.
*/
package density

import (
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/baoviz/geom"
)

// Grid is a periodic scalar field covering a Width x Height region of the
// screen with Cols x Rows cells.
type Grid struct {
	geom.Grid
	Rhos          []float64
	Width, Height float64
	CellW, CellH  float64
}

// NewGrid returns a new Grid instance.
func NewGrid(cols, rows int, width, height float64) *Grid {
	g := &Grid{}
	g.Init(cols, rows, width, height)
	return g
}

// Init resizes the grid and zeroes it. The underlying buffer is reused if it
// is large enough.
func (g *Grid) Init(cols, rows int, width, height float64) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g.Grid.Init(cols, rows)
	g.Width, g.Height = width, height
	g.CellW, g.CellH = width/float64(cols), height/float64(rows)

	if cap(g.Rhos) < g.Area {
		g.Rhos = make([]float64, g.Area)
	}
	g.Rhos = g.Rhos[:g.Area]
	g.Clear()
}

// Clear zeroes every cell.
func (g *Grid) Clear() {
	for i := range g.Rhos {
		g.Rhos[i] = 0
	}
}

// Sum returns the total weight on the grid.
func (g *Grid) Sum() float64 { return floats.Sum(g.Rhos) }

// Max returns the largest cell value.
func (g *Grid) Max() float64 {
	if len(g.Rhos) == 0 {
		return 0
	}
	return floats.Max(g.Rhos)
}

// At returns the value of the cell at the periodically wrapped coordinates.
func (g *Grid) At(c, r int) float64 { return g.Rhos[g.WrapIdx(c, r)] }

func (g *Grid) incr(c, r int, w float64) {
	g.Rhos[g.WrapIdx(c, r)] += w
}
