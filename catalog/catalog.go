/*package catalog generates the toy galaxy catalogs that trace the acoustic
density peaks: a fixed set of peak centers and, around the active ones,
central clusters and rings at the sound horizon, plus a uniform background.

Positions are stored in comoving units relative to the universe center.
Catalogs are regenerated only when the parameters that shape them change;
per-frame rendering reads them without mutation.
*/
package catalog

import (
	"fmt"
	"math"
)

// Kind describes which population a galaxy belongs to.
type Kind int

const (
	// Center galaxies cluster around a density peak.
	Center Kind = iota
	// Ring galaxies sit near the sound horizon around a peak.
	Ring
	// Background galaxies are uniformly distributed and follow the Hubble
	// flow only.
	Background
)

func (k Kind) String() string {
	switch k {
	case Center:
		return "Center"
	case Ring:
		return "Ring"
	case Background:
		return "Background"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Peak is a density peak location in comoving coordinates.
type Peak struct {
	X, Y float64
}

// Galaxy is a single tracer. Cluster galaxies are positioned relative to
// their peak at render time with RBase*r_s + OffsetR; background galaxies
// use X and Y directly.
type Galaxy struct {
	Kind        Kind
	CenterIndex int
	RBase       float64
	Angle       float64
	OffsetR     float64
	// OffsetAngle is the direction of the scatter offset. Generated
	// galaxies scatter radially, so it always equals Angle.
	OffsetAngle float64
	X, Y        float64

	Color        int // Index into the galaxy palette.
	SizeVar      float64
	Eccentricity float64
	Rotation     float64
	FogFactor    float64
}

// IsCluster returns true for galaxies bound to a density peak.
func (g *Galaxy) IsCluster() bool { return g.Kind != Background }

// Catalog holds the peaks and the galaxies generated around them.
type Catalog struct {
	Peaks    []Peak
	Galaxies []Galaxy

	// Universe is the side length of the periodic comoving box the catalog
	// was generated in.
	Universe float64
	// Active is the number of peaks that clustered galaxies were generated
	// around.
	Active int
}

// ActivePeak returns the peak a cluster galaxy belongs to and true, or
// false if the galaxy's peak is outside the active set. Background
// galaxies always return false.
func (cat *Catalog) ActivePeak(g *Galaxy, active int) (Peak, bool) {
	if !g.IsCluster() || g.CenterIndex < 0 ||
		g.CenterIndex >= active || g.CenterIndex >= len(cat.Peaks) {
		return Peak{}, false
	}
	return cat.Peaks[g.CenterIndex], true
}

// Counts returns the number of galaxies of each kind.
func (cat *Catalog) Counts() (center, ring, background int) {
	for i := range cat.Galaxies {
		switch cat.Galaxies[i].Kind {
		case Center:
			center++
		case Ring:
			ring++
		case Background:
			background++
		}
	}
	return center, ring, background
}

// MinContraction is the floor of the gravitational contraction factor.
const MinContraction = 0.2

// Contraction returns the factor by which gravity shrinks the scatter of
// cluster galaxies around their peaks at the given growth factor.
func Contraction(gravity, growth float64) float64 {
	c := 1 - gravity*growth
	if c < MinContraction || math.IsNaN(c) {
		return MinContraction
	}
	return c
}

// Radius returns the comoving distance of a cluster galaxy from its peak
// for a sound horizon of the given comoving size.
func (g *Galaxy) Radius(horizon, contraction float64) float64 {
	return g.RBase*horizon + g.OffsetR*contraction
}
