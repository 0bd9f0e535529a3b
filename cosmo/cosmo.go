/*package cosmo contains the toy Friedmann-Lemaitre cosmology used to drive
the visualization: expansion rate, linear growth, sound-horizon scaling and
the redshift-space distortion squash factor.

All functions are total over their physical parameter ranges. Degenerate
inputs are clamped rather than reported, since callers evaluate them once
per rendered frame.
*/
package cosmo

import (
	"math"
)

const (
	// OmegaMRef is the matter density at which the sound horizon has its
	// reference comoving radius.
	OmegaMRef = 0.3
	// SoundHorizonExp is the power-law index of the sound horizon's
	// dependence on the matter density.
	SoundHorizonExp = 0.25

	// growthFloorA is the scale factor below which the growth factor is
	// taken to be the matter-dominated solution, D = a.
	growthFloorA = 0.001
	minOmegaM    = 0.01
)

// Params is a set of present-day density parameters.
type Params struct {
	OmegaM, OmegaL, OmegaR float64
}

// OmegaK returns the curvature density implied by the other densities.
func (p Params) OmegaK() float64 {
	return 1 - p.OmegaM - p.OmegaL - p.OmegaR
}

// IsFlat returns true if OmegaM + OmegaL is within 0.01 of unity.
func (p Params) IsFlat() bool {
	return math.Abs(p.OmegaM+p.OmegaL-1) < 0.01
}

// FlattenL sets OmegaL so that the universe is flat given OmegaM. The
// result is rounded to two decimal places, matching the granularity of the
// parameter controls.
func (p *Params) FlattenL() { p.OmegaL = Round2(1 - p.OmegaM) }

// FlattenM sets OmegaM so that the universe is flat given OmegaL.
func (p *Params) FlattenM() { p.OmegaM = Round2(1 - p.OmegaL) }

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ExpansionRate returns E(a) = H(a) / H0 for the given densities.
func ExpansionRate(a, om, ol, or float64) float64 {
	ok := 1 - om - ol - or
	a2 := a * a
	e2 := om/(a2*a) + ol + or/(a2*a2) + ok/a2
	return math.Sqrt(math.Max(0, e2))
}

// ExpansionRateZ returns E(z) = H(z) / H0. It is the form used by the
// frame information overlay.
func ExpansionRateZ(z float64, p Params) float64 {
	zp1 := 1 + z
	e2 := p.OmegaM*zp1*zp1*zp1 + p.OmegaL +
		p.OmegaR*zp1*zp1*zp1*zp1 + p.OmegaK()*zp1*zp1
	return math.Sqrt(math.Max(0, e2))
}

// GrowthFactor returns the linear growth factor D(a) normalized so that
// D ~ a during matter domination. It uses the Carroll, Press & Turner (1992)
// fitting formula and ignores radiation.
func GrowthFactor(a, om, ol float64) float64 {
	if a <= growthFloorA {
		return a
	}

	ok := 1 - om - ol
	a2 := a * a
	e2 := om/(a2*a) + ol + ok/a2
	if e2 <= 0 || math.IsNaN(e2) {
		return a
	}

	omA := om / (a2 * a) / e2
	olA := ol / e2

	denom := math.Pow(omA, 4.0/7) - olA + (1+omA/2)*(1+olA/70)
	g := 2.5 * omA / denom
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return a
	}

	return a * g
}

// SoundHorizonScale returns the sound horizon relative to its value at
// OmegaMRef.
func SoundHorizonScale(om float64) float64 {
	return math.Pow(OmegaMRef/math.Max(minOmegaM, om), SoundHorizonExp)
}

// ScaleFactor converts a redshift to a scale factor.
func ScaleFactor(z float64) float64 { return 1 / (1 + z) }

// Redshift converts a scale factor to a redshift, clamped at zero.
func Redshift(a float64) float64 { return math.Max(0, 1/a-1) }

// VisualScale returns the damped scale factor a^(1 - damping) that is used
// for on-screen distances so that early times stay visible.
func VisualScale(a, damping float64) float64 {
	return math.Pow(a, 1-damping)
}

// RSDScaleY returns the line-of-sight squash applied to clustered galaxies
// in redshift space. The result never drops below floor.
func RSDScaleY(gravity, growth, factor, floor float64) float64 {
	return math.Max(floor, 1-gravity*growth*factor)
}

// OmegasAt returns the matter and dark energy densities at scale factor a
// in units of the critical density at a.
func OmegasAt(a float64, p Params) (om, ol float64) {
	e := ExpansionRate(a, p.OmegaM, p.OmegaL, p.OmegaR)
	if e == 0 {
		return 0, 0
	}
	e2 := e * e
	return p.OmegaM / (a * a * a) / e2, p.OmegaL / e2
}
