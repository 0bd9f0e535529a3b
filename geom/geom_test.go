package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPMod(t *testing.T) {
	table := []struct {
		x, y, m int
	}{
		{0, 5, 0}, {4, 5, 4}, {5, 5, 0}, {-1, 5, 4}, {-5, 5, 0}, {-6, 5, 4},
		{12, 5, 2},
	}

	for i, test := range table {
		if m := PMod(test.x, test.y); m != test.m {
			t.Errorf("%d) Expected PMod(%d, %d) = %d, got %d",
				i, test.x, test.y, test.m, m)
		}
	}
}

func TestWrap(t *testing.T) {
	table := []struct {
		x, width, out float64
	}{
		{0, 10, 0},
		{10, 10, 0},
		{-1, 10, 9},
		{25, 10, 5},
		{-25, 10, 5},
		{3, 0, 3},
		{-3, -1, -3},
	}

	for i, test := range table {
		out := Wrap(test.x, test.width)
		if math.Abs(out-test.out) > 1e-12 {
			t.Errorf("%d) Expected Wrap(%g, %g) = %g, got %g",
				i, test.x, test.width, test.out, out)
		}
	}

	x := Wrap(-1e-18, 10)
	assert.True(t, x >= 0 && x < 10, "tiny negative must land in [0, width)")
}

func TestWrapOffsets(t *testing.T) {
	assert.Equal(t, []float64{0}, WrapOffsets(50, 5, 100))
	assert.Equal(t, []float64{0, 100}, WrapOffsets(2, 5, 100))
	assert.Equal(t, []float64{0, -100}, WrapOffsets(98, 5, 100))
	assert.Equal(t, []float64{0, 100, -100}, WrapOffsets(50, 60, 100))
	assert.Equal(t, []float64{0}, WrapOffsets(2, 5, 0))
}

func TestWrapCopies(t *testing.T) {
	n := 0
	WrapCopies(Vec{1, 1}, 5, 100, func(v Vec) { n++ })
	assert.Equal(t, 4, n, "corner objects have four images")

	n = 0
	WrapCopies(Vec{50, 1}, 5, 100, func(v Vec) { n++ })
	assert.Equal(t, 2, n)
}

func TestGridWrapIdx(t *testing.T) {
	g := NewGrid(4, 3)
	assert.Equal(t, 12, g.Area)
	assert.Equal(t, g.Idx(0, 1), g.WrapIdx(4, 1))
	assert.Equal(t, g.Idx(3, 2), g.WrapIdx(-1, -1))

	c, r := g.Coords(g.Idx(2, 1))
	assert.Equal(t, 2, c)
	assert.Equal(t, 1, r)

	_, ok := g.IdxCheck(4, 0)
	assert.False(t, ok)
}

func TestVec(t *testing.T) {
	v := Polar(2, math.Pi/2)
	assert.InDelta(t, 0, v[0], 1e-12)
	assert.InDelta(t, 2, v[1], 1e-12)
	assert.InDelta(t, 2, v.Norm(), 1e-12)

	w := Vec{-1, 11}
	w.WrapSelf(10)
	assert.Equal(t, Vec{9, 1}, w)

	assert.False(t, Vec{math.NaN(), 0}.Finite())
	assert.True(t, v.Add(w).Scale(0.5).Finite())
}
