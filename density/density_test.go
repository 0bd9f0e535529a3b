package density

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/baoviz/geom"
)

func randomPoints(n int, width, height float64, seed int64) []geom.Vec {
	gen := rand.New(rand.NewSource(seed))
	xs := make([]geom.Vec, n)
	for i := range xs {
		xs[i] = geom.Vec{gen.Float64() * width, gen.Float64() * height}
	}
	return xs
}

func BenchmarkNGP(b *testing.B) {
	g := NewGrid(200, 200, 800, 800)
	pts := randomPoints(1000, 800, 800, 1)
	intr := NearestGridPoint()

	b.ResetTimer()
	for i := 0; i < (b.N/len(pts))+1; i++ {
		intr.Interpolate(g, 1, pts)
	}
}

func BenchmarkCIC(b *testing.B) {
	g := NewGrid(200, 200, 800, 800)
	pts := randomPoints(1000, 800, 800, 1)
	intr := CloudInCell()

	b.ResetTimer()
	for i := 0; i < (b.N/len(pts))+1; i++ {
		intr.Interpolate(g, 1, pts)
	}
}

func BenchmarkSmooth(b *testing.B) {
	g := NewGrid(320, 180, 1280, 720)
	g.Interpolate(randomPoints(8000, 1280, 720, 2))
	s := &Smoother{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Smooth(g, 2)
	}
}

// Interpolate is a test helper that splats unit masses with CIC.
func (g *Grid) Interpolate(xs []geom.Vec) { CloudInCell().Interpolate(g, 1, xs) }

func TestConservation(t *testing.T) {
	table := []struct {
		cols, rows    int
		width, height float64
		n             int
	}{
		{100, 100, 400, 400, 1000},
		{7, 3, 70, 30, 500},
		{1, 1, 10, 10, 50},
		{2, 5, 8, 20, 200},
	}

	for i, test := range table {
		xs := randomPoints(test.n, test.width, test.height, int64(i))
		for _, intr := range []Interpolator{CloudInCell(), NearestGridPoint()} {
			g := NewGrid(test.cols, test.rows, test.width, test.height)
			intr.Interpolate(g, 1, xs)
			if math.Abs(g.Sum()-float64(test.n)) > 1e-9*float64(test.n) {
				t.Errorf("%d) Expected total mass %d, got %g", i, test.n, g.Sum())
			}

			s := &Smoother{}
			s.Smooth(g, 2)
			if math.Abs(g.Sum()-float64(test.n)) > 1e-9*float64(test.n) {
				t.Errorf("%d) Expected smoothed mass %d, got %g", i, test.n, g.Sum())
			}
		}
	}
}

func TestCICWrap(t *testing.T) {
	cols, rows := 10, 10
	width, height := 100.0, 100.0

	// x = 0 and x = width are the same point on the torus.
	g1 := NewGrid(cols, rows, width, height)
	g2 := NewGrid(cols, rows, width, height)
	CloudInCell().Interpolate(g1, 1, []geom.Vec{{0, 35}})
	CloudInCell().Interpolate(g2, 1, []geom.Vec{{width, 35}})

	for i := range g1.Rhos {
		assert.InDelta(t, g1.Rhos[i], g2.Rhos[i], 1e-12, "cell %d", i)
	}

	// A point on the left edge is split between the first and last columns.
	assert.InDelta(t, 0.5, g1.At(0, 3), 1e-12)
	assert.InDelta(t, 0.5, g1.At(cols-1, 3), 1e-12)
}

func TestCICCellCenter(t *testing.T) {
	g := NewGrid(4, 4, 40, 40)
	CloudInCell().Interpolate(g, 1, []geom.Vec{{15, 25}})
	assert.InDelta(t, 1, g.At(1, 2), 1e-12)
	assert.InDelta(t, 1, g.Sum(), 1e-12)
}

func TestSmoothKernel(t *testing.T) {
	g := NewGrid(5, 5, 5, 5)
	g.Rhos[g.Idx(2, 2)] = 12
	s := &Smoother{}
	s.Smooth(g, 1)

	assert.InDelta(t, 4, g.At(2, 2), 1e-12)
	assert.InDelta(t, 1, g.At(1, 1), 1e-12)
	assert.InDelta(t, 1, g.At(3, 2), 1e-12)
	assert.InDelta(t, 0, g.At(0, 0), 1e-12)

	// Periodic: mass on the corner reaches the opposite corner.
	g.Clear()
	g.Rhos[g.Idx(0, 0)] = 12
	s.Smooth(g, 1)
	assert.InDelta(t, 1, g.At(4, 4), 1e-12)
}

func TestNormalizer(t *testing.T) {
	n := &Normalizer{}

	_, ok := n.Update(0)
	assert.False(t, ok)
	assert.Equal(t, 0.0, n.Max)

	m, ok := n.Update(10)
	assert.True(t, ok)
	assert.Equal(t, 10.0, m, "first frame snaps")

	m, _ = n.Update(12)
	assert.InDelta(t, 10.2, m, 1e-12, "small changes are averaged")

	m, _ = n.Update(100)
	assert.Equal(t, 100.0, m, "large changes snap")

	_, ok = n.Update(0)
	assert.False(t, ok)
	assert.Equal(t, 100.0, n.Max, "zero frames leave the average alone")

	n.Reset()
	assert.Equal(t, 0.0, n.Max)
}

func TestColormap(t *testing.T) {
	cm := DefaultColormap()

	assert.Equal(t, uint8(0), cm.Color(0.0009, 1).A, "tiny values are transparent")

	top := cm.Color(1, 1)
	assert.Equal(t, uint8(255), top.R)
	assert.Equal(t, uint8(255), top.G)
	assert.Equal(t, uint8(255), top.B)
	assert.Equal(t, uint8(255), top.A)

	over := cm.Color(50, 1)
	assert.Equal(t, top, over, "values above the max saturate")

	low := cm.Color(0.001, 100)
	assert.Equal(t, uint8(0), low.R)
	assert.True(t, low.B >= 80)
}

func TestCellSize(t *testing.T) {
	res := DefaultResolution()
	assert.Equal(t, 4.0, res.CellSize(1100, true))
	assert.Equal(t, 4.0, res.CellSize(0, false))
	assert.Equal(t, 4.0, res.CellSize(5, false))
	assert.Equal(t, 1.0, res.CellSize(1100, false), "clamped at one pixel")

	mid := res.CellSize(70, false)
	assert.True(t, mid > 1 && mid < 4)
}

func TestDims(t *testing.T) {
	cols, rows := Dims(1280, 720, 4)
	assert.Equal(t, 320, cols)
	assert.Equal(t, 180, rows)

	cols, rows = Dims(1, 1, 4)
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}

func TestEngineEmpty(t *testing.T) {
	e := NewEngine(DefaultResolution())
	hm, ok := e.Render(nil, 100, 100, 1, false)
	assert.False(t, ok)
	assert.Nil(t, hm)
	assert.Equal(t, 0.0, e.Normalizer().Max)

	_, ok = e.Render([]geom.Vec{{1, 1}}, 0, 100, 1, false)
	assert.False(t, ok)
}

func TestEngineRender(t *testing.T) {
	e := NewEngine(DefaultResolution())
	xs := randomPoints(2000, 400, 300, 3)

	hm, ok := e.Render(xs, 400, 300, 0, false)
	require.True(t, ok)
	assert.Equal(t, 100, hm.Cols)
	assert.Equal(t, 75, hm.Rows)
	assert.Equal(t, 102, hm.Image.Rect.Dx())
	assert.Equal(t, 77, hm.Image.Rect.Dy())
	assert.InDelta(t, 2000, e.Grid().Sum(), 1e-6)

	x, y, w, h := hm.Dest()
	assert.Equal(t, -4.0, x)
	assert.Equal(t, -4.0, y)
	assert.Equal(t, 408.0, w)
	assert.Equal(t, 308.0, h)

	// The border repeats the opposite edge.
	assert.Equal(t, hm.Image.NRGBAAt(hm.Cols, 5), hm.Image.NRGBAAt(0, 5))
	assert.Equal(t, hm.Image.NRGBAAt(1, 5), hm.Image.NRGBAAt(hm.Cols+1, 5))

	img := hm.Image
	hm, ok = e.Render(xs, 400, 300, 0, false)
	require.True(t, ok)
	assert.True(t, img == hm.Image, "same dimensions reuse the image")
}
