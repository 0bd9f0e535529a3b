package interpolate

import (
	"sort"
)

// Linear is a linear interpolator.
type Linear struct {
	xs   searcher
	vals []float64
}

// NewLinear creates a linear interpolator for a sequence of strictly
// increasing points, xs, which take on the values given by vals.
//
// Lookups will occur in O(log |xs|).
func NewLinear(xs, vals []float64) *Linear {
	if len(xs) != len(vals) {
		panic("Length of input slices are not equal.")
	} else if len(xs) < 2 {
		panic("Linear interpolation requires at least two points.")
	}
	lin := &Linear{}
	lin.xs.init(xs)
	lin.vals = vals
	return lin
}

// NewUniformLinear creates a linear interplator where a uniformly spaced
// sequence of x values starting at x0 and separated by dx and whose values
// are given by vals.
//
// Lookups will be O(1).
func NewUniformLinear(x0, dx float64, vals []float64) *Linear {
	if len(vals) < 2 {
		panic("Linear interpolation requires at least two points.")
	}
	lin := &Linear{}
	lin.xs.unifInit(x0, dx, len(vals))
	lin.vals = vals
	return lin
}

// Eval returns the interpolated value at x. Inputs outside the supplied
// range are clamped to the end points.
func (lin *Linear) Eval(x float64) float64 {
	n := lin.xs.n
	if x <= lin.xs.val(0) {
		return lin.vals[0]
	} else if x >= lin.xs.val(n-1) {
		return lin.vals[n-1]
	}

	i1 := lin.xs.search(x)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]

	return ((v2-v1)/(x2-x1))*(x-x1) + v1
}

// EvalAll evaluates the interpolator at all the given x values. If an output
// array is given, the output is written to that array (the array is still
// returned as a convenience).
//
// If more than one output array is provided, only the first is used.
func (lin *Linear) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i, x := range xs {
		out[0][i] = lin.Eval(x)
	}
	return out[0]
}

// searcher finds the interval containing a point, either by binary search
// over explicit knots or in constant time for uniform knots.
type searcher struct {
	xs      []float64
	x0, dx  float64
	n       int
	uniform bool
}

func (s *searcher) init(xs []float64) {
	s.xs = xs
	s.n = len(xs)
	s.uniform = false
}

func (s *searcher) unifInit(x0, dx float64, n int) {
	s.x0, s.dx, s.n = x0, dx, n
	s.uniform = true
}

func (s *searcher) val(i int) float64 {
	if s.uniform {
		return s.x0 + float64(i)*s.dx
	}
	return s.xs[i]
}

// search returns the index i such that val(i) <= x < val(i+1), clamped to
// [0, n-2].
func (s *searcher) search(x float64) int {
	var i int
	if s.uniform {
		i = int((x - s.x0) / s.dx)
	} else {
		i = sort.SearchFloat64s(s.xs, x) - 1
		if i+1 < s.n && s.xs[i+1] == x {
			i++
		}
	}

	if i < 0 {
		return 0
	} else if i > s.n-2 {
		return s.n - 2
	}
	return i
}
