package density

import (
	"math"

	"github.com/phil-mansfield/baoviz/geom"
)

// Interpolator creates a grid-based density distribution from sequences of
// positions.
type Interpolator interface {
	// Interpolate adds the density distribution implied by points to the
	// grid. Points are given in the grid's pixel coordinates and are wrapped
	// periodically, so no point is ever dropped.
	Interpolate(g *Grid, mass float64, xs []geom.Vec)
}

type cic struct{}
type ngp struct{}

// CloudInCell returns an Interpolator that splits each point's mass
// bilinearly between the four nearest cell centers.
func CloudInCell() Interpolator { return &cic{} }

// NearestGridPoint returns an Interpolator that assigns each point's mass
// to the cell containing it.
func NearestGridPoint() Interpolator { return &ngp{} }

// Interpolate interpolates a sequence of particles onto a density grid via a
// nearest grid point scheme.
func (intr *ngp) Interpolate(g *Grid, mass float64, xs []geom.Vec) {
	for _, pt := range xs {
		if !pt.Finite() {
			continue
		}
		c := int(math.Floor(pt[0] / g.CellW))
		r := int(math.Floor(pt[1] / g.CellH))
		g.incr(c, r, mass)
	}
}

// Interpolate interpolates a sequence of particles onto a density grid via a
// cloud in cell scheme. Integer grid coordinates correspond to cell centers.
func (intr *cic) Interpolate(g *Grid, mass float64, xs []geom.Vec) {
	for _, pt := range xs {
		if !pt.Finite() {
			continue
		}
		gx, gy := pt[0]/g.CellW-0.5, pt[1]/g.CellH-0.5
		xc, yc := cellPoints(gx, gy)
		dx, dy := gx-xc, gy-yc
		tx, ty := 1-dx, 1-dy

		c0, r0 := int(xc), int(yc)

		g.incr(c0, r0, tx*ty*mass)
		g.incr(c0+1, r0, dx*ty*mass)
		g.incr(c0, r0+1, tx*dy*mass)
		g.incr(c0+1, r0+1, dx*dy*mass)
	}
}

func cellPoints(x, y float64) (xc, yc float64) {
	return math.Floor(x), math.Floor(y)
}
