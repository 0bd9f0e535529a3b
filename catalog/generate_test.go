package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictedCount(t *testing.T) {
	table := []struct {
		active  int
		density float64
	}{
		{1, 2}, {0, 2}, {50, 2}, {200, 0.5}, {100, 5}, {3, 0}, {500, 1},
	}

	gen := NewGenerator(DefaultConfig(), NewSeed(1))
	for i, test := range table {
		cat := &Catalog{}
		gen.Shuffle(cat, 4000, test.active, test.density)
		pred := gen.Predicted(test.active, test.density)
		if len(cat.Galaxies) != pred {
			t.Errorf("%d) Expected %d galaxies, got %d", i, pred, len(cat.Galaxies))
		}
	}
}

func TestDefaultCount(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), NewSeed(2))
	// base = 1*(15+40) + 800 = 855, mult = 8000/855
	mult := 8000.0 / 855
	assert.InDelta(t, mult, gen.Multiplier(1, 2), 1e-12)
	expected := int(math.Floor(15*mult)) + int(math.Floor(40*mult)) +
		int(math.Floor(800*mult))
	assert.Equal(t, expected, gen.Predicted(1, 2))
}

func TestZeroActive(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), NewSeed(3))
	cat := &Catalog{}
	gen.Shuffle(cat, 4000, 0, 2)

	center, ring, background := cat.Counts()
	assert.Equal(t, 0, center)
	assert.Equal(t, 0, ring)
	assert.Equal(t, len(cat.Galaxies), background)
	assert.True(t, background > 0)
}

func TestFiniteGalaxies(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), NewSeed(4))
	cat := &Catalog{}
	gen.Shuffle(cat, 4000, 200, 3)

	for i := range cat.Galaxies {
		g := &cat.Galaxies[i]
		vals := []float64{g.X, g.Y, g.OffsetR, g.Angle, g.SizeVar,
			g.Eccentricity, g.Rotation, g.FogFactor}
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("galaxy %d has non-finite field: %+v", i, *g)
			}
		}
		require.True(t, g.Color >= 0 && g.Color < 4)
		require.True(t, g.SizeVar >= 0.8 && g.SizeVar < 1.4)
		require.True(t, g.Eccentricity >= 0.5 && g.Eccentricity < 1)
		require.True(t, g.FogFactor >= -0.5 && g.FogFactor < 0.5)
		require.Equal(t, g.Angle, g.OffsetAngle)
		if g.Kind == Background {
			require.Equal(t, 0.0, g.OffsetAngle)
		}
		if g.Kind == Center {
			require.True(t, g.OffsetR >= 0)
			require.Equal(t, 0.0, g.RBase)
		} else if g.Kind == Ring {
			require.Equal(t, 1.0, g.RBase)
		}
	}
}

func TestPeaks(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), NewSeed(5))
	cat := &Catalog{}
	gen.Shuffle(cat, 1000, 1, 1)

	require.Len(t, cat.Peaks, 200)
	assert.Equal(t, Peak{0, 0}, cat.Peaks[0])
	for _, p := range cat.Peaks {
		assert.True(t, p.X >= -500 && p.X < 500)
		assert.True(t, p.Y >= -500 && p.Y < 500)
	}

	peaks := append([]Peak{}, cat.Peaks...)
	gen.Generate(cat, 20, 1)
	assert.Equal(t, peaks, cat.Peaks, "Generate must keep the peaks")
	assert.Equal(t, 20, cat.Active)
}

func TestActivePeak(t *testing.T) {
	cat := &Catalog{Peaks: []Peak{{0, 0}, {1, 2}}}
	g := &Galaxy{Kind: Ring, CenterIndex: 1}

	p, ok := cat.ActivePeak(g, 2)
	assert.True(t, ok)
	assert.Equal(t, Peak{1, 2}, p)

	_, ok = cat.ActivePeak(g, 1)
	assert.False(t, ok, "inactive peaks are soft deleted")

	_, ok = cat.ActivePeak(&Galaxy{Kind: Background, CenterIndex: -1}, 2)
	assert.False(t, ok)
}

func TestGaussian(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), NewSeed(6))
	n := 20000
	sum, sum2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		x := gen.Gaussian()
		sum += x
		sum2 += x * x
	}
	mean := sum / float64(n)
	variance := sum2/float64(n) - mean*mean
	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, 1, variance, 0.05)
}

type zeroThenHalf struct{ n int }

func (z *zeroThenHalf) Float64() float64 {
	z.n++
	if z.n <= 2 {
		return 0
	}
	return 0.5
}

func TestGaussianRejectsZero(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), &zeroThenHalf{})
	x := gen.Gaussian()
	assert.False(t, math.IsInf(x, 0) || math.IsNaN(x))
}

func BenchmarkShuffle(b *testing.B) {
	gen := NewGenerator(DefaultConfig(), NewSeed(7))
	cat := &Catalog{}
	for i := 0; i < b.N; i++ {
		gen.Shuffle(cat, 4000, 50, 2)
	}
}
