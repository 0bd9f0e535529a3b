/*package geom contains the planar, periodic geometry shared by the particle
generator, the density grid and the compositor.
*/
package geom

import (
	"math"
)

// Vec is a 2D position or displacement in screen or comoving units.
type Vec [2]float64

// Polar returns the vector with length r and angle theta.
func Polar(r, theta float64) Vec {
	return Vec{r * math.Cos(theta), r * math.Sin(theta)}
}

// Add returns v + u.
func (v Vec) Add(u Vec) Vec { return Vec{v[0] + u[0], v[1] + u[1]} }

// Scale returns v * k.
func (v Vec) Scale(k float64) Vec { return Vec{v[0] * k, v[1] * k} }

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 { return math.Hypot(v[0], v[1]) }

// Finite returns true if neither component is NaN or infinite.
func (v Vec) Finite() bool {
	return !math.IsNaN(v[0]) && !math.IsNaN(v[1]) &&
		!math.IsInf(v[0], 0) && !math.IsInf(v[1], 0)
}

// WrapSelf maps v into the periodic box [0, width)^2. A non-positive width
// leaves v unchanged.
func (v *Vec) WrapSelf(width float64) *Vec {
	v[0], v[1] = Wrap(v[0], width), Wrap(v[1], width)
	return v
}

// Wrap computes the floating point positive modulo of x with respect to
// width. It returns x unchanged if width is not positive.
func Wrap(x, width float64) float64 {
	if width <= 0 {
		return x
	}
	m := math.Mod(x, width)
	if m < 0 {
		m += width
	}
	// math.Mod(-tiny, w) + w can round up to exactly w.
	if m >= width {
		m -= width
	}
	return m
}

// WrapOffsets returns the translations at which an object of the given
// bounding radius centered at wrapped position x must be redrawn so that
// it appears seamlessly across the periodic boundary. The zero offset is
// always first.
func WrapOffsets(x, radius, width float64) []float64 {
	if width <= 0 {
		return []float64{0}
	}
	offsets := []float64{0}
	if x < radius {
		offsets = append(offsets, width)
	}
	if x > width-radius {
		offsets = append(offsets, -width)
	}
	return offsets
}

// WrapCopies calls f for every periodic image of p that overlaps the box,
// including p itself.
func WrapCopies(p Vec, radius, width float64, f func(Vec)) {
	xs := WrapOffsets(p[0], radius, width)
	ys := WrapOffsets(p[1], radius, width)
	for _, dx := range xs {
		for _, dy := range ys {
			f(Vec{p[0] + dx, p[1] + dy})
		}
	}
}
