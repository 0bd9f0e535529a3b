package baoviz

// Bundle is a complete set of user parameters that is applied at once.
// OmegaM and OmegaL are optional; nil leaves the current value in place.
type Bundle struct {
	Title string

	// ResetFirst restores every default before the bundle is applied.
	ResetFirst bool

	Z             float64
	ActiveCenters int
	GalaxyDensity float64
	Gravity       float64

	OmegaM, OmegaL *float64

	Comoving, RSD bool
	Layers        Layers
}

// ApplyParameters sets every parameter of b, enforcing flatness if it is
// enabled, and reshuffles the catalog. Playback is not affected.
func (sim *Simulation) ApplyParameters(b Bundle) {
	if b.ResetFirst {
		playing := sim.State.Playing
		sim.ResetAll()
		sim.State.Playing = playing
	}

	st := &sim.State
	sim.SetRedshift(b.Z)
	st.Layers = b.Layers
	st.Comoving, st.RSD = b.Comoving, b.RSD
	sim.SetGravity(b.Gravity)

	if b.OmegaM != nil {
		sim.SetOmegaM(*b.OmegaM)
	}
	if b.OmegaL != nil {
		sim.SetOmegaL(*b.OmegaL)
	}

	if b.ActiveCenters < 0 {
		b.ActiveCenters = 0
	} else if b.ActiveCenters > sim.Config.Catalog.MaxPeaks {
		b.ActiveCenters = sim.Config.Catalog.MaxPeaks
	}
	st.ActiveCenters = b.ActiveCenters
	if b.GalaxyDensity > 0 {
		st.GalaxyDensity = b.GalaxyDensity
	}
	sim.Shuffle()
}

func float(x float64) *float64 { return &x }

// TourPresets returns the steps of the guided tour.
func TourPresets() []Bundle {
	return []Bundle{
		{
			Title:         "1. The Early Universe",
			ResetFirst:    true,
			Z:             1100,
			ActiveCenters: 50,
			Gravity:       0.2,
			Layers:        Layers{Heatmap: true, Density: true},
		},
		{
			Title:         "2. Acoustic Waves (BAO)",
			Z:             100,
			ActiveCenters: 1,
			Gravity:       0.2,
			Comoving:      true,
			Layers:        Layers{Galaxies: true, Density: true, Horizon: true},
		},
		{
			Title:         "3. Structure Formation",
			Z:             2,
			ActiveCenters: 20,
			Gravity:       1,
			Layers:        Layers{Heatmap: true, Galaxies: true, Density: true},
		},
		{
			Title:         "4. The Cosmic Web",
			Z:             0,
			ActiveCenters: 100,
			Gravity:       1,
			OmegaL:        float(0.7),
			Layers:        Layers{Heatmap: true, Plot: true},
		},
		{
			Title:         "5. Redshift Space Distortions",
			Z:             0.5,
			ActiveCenters: 3,
			Gravity:       1.5,
			Comoving:      true,
			RSD:           true,
			Layers:        Layers{Galaxies: true, Density: true, Horizon: true},
		},
	}
}

// Bundle returns the current parameters as a Bundle.
func (sim *Simulation) Bundle() Bundle {
	st := &sim.State
	return Bundle{
		Z:             st.Z,
		ActiveCenters: st.ActiveCenters,
		GalaxyDensity: st.GalaxyDensity,
		Gravity:       st.Gravity,
		OmegaM:        float(st.Cosmo.OmegaM),
		OmegaL:        float(st.Cosmo.OmegaL),
		Comoving:      st.Comoving,
		RSD:           st.RSD,
		Layers:        st.Layers,
	}
}
