package catalog

import (
	"math"
	"math/rand"
	"time"
)

// Source is a source of uniform random numbers in [0, 1).
type Source interface {
	Float64() float64
}

// Config describes the shape of generated catalogs.
type Config struct {
	MaxPeaks int

	PerCenter, PerRing, Background int
	ScatterCenter, ScatterRing     float64

	// DensityArea is the comoving area that the galaxy density setting,
	// given in units of 1e-3 galaxies per unit area, is normalized over.
	DensityArea float64
	Colors      int
}

// DefaultConfig returns the standard catalog shape.
func DefaultConfig() Config {
	return Config{
		MaxPeaks:      200,
		PerCenter:     15,
		PerRing:       40,
		Background:    800,
		ScatterCenter: 30,
		ScatterRing:   20,
		DensityArea:   2000 * 2000,
		Colors:        4,
	}
}

// Generator creates catalogs from a random source.
type Generator struct {
	Config
	src Source
}

// NewGenerator returns a Generator drawing from src. A nil src is replaced
// by a time-seeded math/rand source.
func NewGenerator(con Config, src Source) *Generator {
	if src == nil {
		src = NewTimeSeed()
	}
	return &Generator{con, src}
}

// NewTimeSeed returns a math/rand generator seeded with the current time.
func NewTimeSeed() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeed returns a deterministic math/rand generator.
func NewSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform returns a uniform random number in [lo, hi).
func (gen *Generator) Uniform(lo, hi float64) float64 {
	return lo + gen.src.Float64()*(hi-lo)
}

// UniformInt returns a uniform random integer in [lo, hi).
func (gen *Generator) UniformInt(lo, hi int) int {
	i := lo + int(gen.src.Float64()*float64(hi-lo))
	if i >= hi {
		i = hi - 1
	}
	return i
}

// Gaussian returns a standard normal deviate using the Box-Muller
// transform. Zero uniform draws are rejected so the logarithm stays finite.
func (gen *Generator) Gaussian() float64 {
	u, v := 0.0, 0.0
	for u == 0 {
		u = gen.src.Float64()
	}
	for v == 0 {
		v = gen.src.Float64()
	}
	return math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v)
}

// Multiplier returns the factor that scales the nominal per-population
// counts so the catalog total matches the requested density.
func (gen *Generator) Multiplier(active int, density float64) float64 {
	active = gen.clampActive(active)
	target := density * 1e-3 * gen.DensityArea
	base := active*(gen.PerCenter+gen.PerRing) + gen.Background
	return target / math.Max(1, float64(base))
}

// Predicted returns the number of galaxies Generate will create.
func (gen *Generator) Predicted(active int, density float64) int {
	active = gen.clampActive(active)
	mult := gen.Multiplier(active, density)
	perPeak := int(math.Floor(float64(gen.PerCenter)*mult)) +
		int(math.Floor(float64(gen.PerRing)*mult))
	return active*perPeak + int(math.Floor(float64(gen.Background)*mult))
}

// Shuffle draws a new set of peaks in a box of side universe and then
// regenerates the galaxies. Peak 0 is always at the origin.
func (gen *Generator) Shuffle(
	cat *Catalog, universe float64, active int, density float64,
) {
	n := gen.MaxPeaks
	if n < 1 {
		n = 1
	}
	if cap(cat.Peaks) < n {
		cat.Peaks = make([]Peak, n)
	}
	cat.Peaks = cat.Peaks[:n]

	cat.Peaks[0] = Peak{0, 0}
	for i := 1; i < n; i++ {
		cat.Peaks[i] = Peak{
			(gen.src.Float64() - 0.5) * universe,
			(gen.src.Float64() - 0.5) * universe,
		}
	}
	cat.Universe = universe

	gen.Generate(cat, active, density)
}

// Generate rebuilds the galaxies of cat around its first active peaks,
// keeping the peaks themselves.
func (gen *Generator) Generate(cat *Catalog, active int, density float64) {
	active = gen.clampActive(active)
	if active > len(cat.Peaks) {
		active = len(cat.Peaks)
	}
	mult := gen.Multiplier(active, density)
	cat.Galaxies = cat.Galaxies[:0]
	cat.Active = active

	nCenter := int(math.Floor(float64(gen.PerCenter) * mult))
	nRing := int(math.Floor(float64(gen.PerRing) * mult))
	nBackground := int(math.Floor(float64(gen.Background) * mult))

	for idx := 0; idx < active; idx++ {
		for i := 0; i < nCenter; i++ {
			angle := gen.Uniform(0, 2*math.Pi)
			r := math.Abs(gen.Gaussian() * gen.ScatterCenter)
			cat.Galaxies = append(cat.Galaxies, gen.galaxy(Center, idx, 0, angle, r, 0, 0))
		}
		for i := 0; i < nRing; i++ {
			angle := gen.Uniform(0, 2*math.Pi)
			scatter := gen.Gaussian() * gen.ScatterRing
			cat.Galaxies = append(cat.Galaxies, gen.galaxy(Ring, idx, 1, angle, scatter, 0, 0))
		}
	}

	for i := 0; i < nBackground; i++ {
		x := (gen.src.Float64() - 0.5) * cat.Universe
		y := (gen.src.Float64() - 0.5) * cat.Universe
		cat.Galaxies = append(cat.Galaxies, gen.galaxy(Background, -1, 0, 0, 0, x, y))
	}
}

func (gen *Generator) galaxy(
	kind Kind, idx int, rBase, angle, offsetR, x, y float64,
) Galaxy {
	colors := gen.Colors
	if colors < 1 {
		colors = 1
	}
	return Galaxy{
		Kind: kind, CenterIndex: idx, RBase: rBase,
		Angle: angle, OffsetR: offsetR, OffsetAngle: angle, X: x, Y: y,
		Color:        gen.UniformInt(0, colors),
		SizeVar:      gen.Uniform(0.8, 1.4),
		Eccentricity: gen.Uniform(0.5, 1),
		Rotation:     gen.Uniform(0, math.Pi),
		FogFactor:    gen.src.Float64() - 0.5,
	}
}

func (gen *Generator) clampActive(active int) int {
	if active < 0 {
		return 0
	} else if gen.MaxPeaks > 0 && active > gen.MaxPeaks {
		return gen.MaxPeaks
	}
	return active
}
