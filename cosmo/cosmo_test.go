package cosmo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpansionRateFinite(t *testing.T) {
	for ia := 1; ia <= 100; ia++ {
		a := float64(ia) / 100
		for im := 0; im <= 10; im++ {
			for il := 0; il <= 10; il++ {
				om, ol := float64(im)/10, float64(il)/10
				e := ExpansionRate(a, om, ol, 8.4e-5)
				if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 {
					t.Errorf("E(%g, %g, %g) = %g", a, om, ol, e)
				}
			}
		}
	}
}

func TestExpansionRateToday(t *testing.T) {
	table := []struct {
		om, ol, or float64
	}{
		{0.3, 0.7, 0},
		{1, 0, 0},
		{0.3, 0.7, 8.4e-5},
		{0.2, 0.2, 0},
	}

	for i, test := range table {
		e := ExpansionRate(1, test.om, test.ol, test.or)
		if math.Abs(e-1) > 1e-12 {
			t.Errorf("%d) Expected E(1) = 1, got %g", i, e)
		}
	}
}

func TestExpansionRateZMatches(t *testing.T) {
	p := Params{0.3, 0.7, 8.4e-5}
	for _, z := range []float64{0, 0.5, 2, 5, 100, 1100} {
		a := ScaleFactor(z)
		assert.InDelta(t, ExpansionRate(a, p.OmegaM, p.OmegaL, p.OmegaR),
			ExpansionRateZ(z, p), 1e-9*ExpansionRateZ(z, p), "z = %g", z)
	}
}

func TestGrowthFactorEdS(t *testing.T) {
	assert.InDelta(t, 1.0, GrowthFactor(1, 1, 0), 1e-12)
}

func TestGrowthFactorMonotone(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 1000; i++ {
		a := float64(i) / 1000
		d := GrowthFactor(a, 0.3, 0.7)
		if d <= prev {
			t.Errorf("D(%g) = %g is not greater than previous %g", a, d, prev)
		}
		prev = d
	}
}

func TestGrowthFactorFinite(t *testing.T) {
	for ia := 1; ia <= 100; ia++ {
		a := float64(ia) / 100
		for im := 0; im <= 10; im++ {
			for il := 0; il <= 10; il++ {
				om, ol := float64(im)/10, float64(il)/10
				d := GrowthFactor(a, om, ol)
				if math.IsNaN(d) || math.IsInf(d, 0) {
					t.Errorf("D(%g, %g, %g) = %g", a, om, ol, d)
				}
			}
		}
	}
}

func TestGrowthFactorEarly(t *testing.T) {
	assert.Equal(t, 0.0005, GrowthFactor(0.0005, 0.3, 0.7))
}

func TestSoundHorizonScale(t *testing.T) {
	assert.Equal(t, 1.0, SoundHorizonScale(0.3))
	assert.Equal(t, SoundHorizonScale(0.01), SoundHorizonScale(0))
	assert.True(t, SoundHorizonScale(0.5) < 1)
	assert.True(t, SoundHorizonScale(0.1) > 1)
}

func TestRedshiftRoundTrip(t *testing.T) {
	for i := 0; i <= 1100; i++ {
		z := float64(i)
		a := ScaleFactor(z)
		assert.InDelta(t, z, Redshift(a), 1e-9*(1+z))
	}
	assert.Equal(t, 0.0, Redshift(1.5))
}

func TestRSDScaleY(t *testing.T) {
	assert.Equal(t, 1.0, RSDScaleY(0, 1, 0.8, 0.2))
	assert.InDelta(t, 0.84, RSDScaleY(0.2, 1, 0.8, 0.2), 1e-12)
	assert.Equal(t, 0.2, RSDScaleY(1.5, 1, 0.8, 0.2))
}

func TestFlatten(t *testing.T) {
	p := Params{OmegaM: 0.4, OmegaL: 0.7}
	p.FlattenL()
	assert.Equal(t, 0.6, p.OmegaL)

	p = Params{OmegaM: 0.3, OmegaL: 0.83}
	p.FlattenM()
	assert.Equal(t, 0.17, p.OmegaM)
	assert.True(t, p.IsFlat())
}

func TestOmegasAt(t *testing.T) {
	om, ol := OmegasAt(1, Params{0.3, 0.7, 0})
	assert.InDelta(t, 0.3, om, 1e-12)
	assert.InDelta(t, 0.7, ol, 1e-12)

	om, _ = OmegasAt(0.01, Params{0.3, 0.7, 0})
	assert.True(t, om > 0.99)
}

func BenchmarkGrowthFactor(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GrowthFactor(0.5, 0.3, 0.7)
	}
}
