/*package io reads configuration files and preset tables for baoviz and
writes rendered frames, state dumps and plots.
*/
package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/table"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/baoviz"
)

// Bits of the layers column of a preset table.
const (
	DensityBit = 1 << iota
	GalaxiesBit
	HeatmapBit
	HorizonBit
	PlotBit
)

// presetColumns is the column layout of preset tables:
// z centers density gravity OmegaM OmegaL comoving rsd layers.
var presetColumns = []int{0, 1, 2, 3, 4, 5, 6, 7, 8}

// LayerBits packs l into the bit set used by preset tables.
func LayerBits(l baoviz.Layers) int {
	bits := 0
	flags := []struct {
		on  bool
		bit int
	}{
		{l.Density, DensityBit}, {l.Galaxies, GalaxiesBit},
		{l.Heatmap, HeatmapBit}, {l.Horizon, HorizonBit}, {l.Plot, PlotBit},
	}
	for _, f := range flags {
		if f.on {
			bits |= f.bit
		}
	}
	return bits
}

// BitLayers unpacks a preset table layer bit set.
func BitLayers(bits int) baoviz.Layers {
	return baoviz.Layers{
		Density:  bits&DensityBit != 0,
		Galaxies: bits&GalaxiesBit != 0,
		Heatmap:  bits&HeatmapBit != 0,
		Horizon:  bits&HorizonBit != 0,
		Plot:     bits&PlotBit != 0,
	}
}

// ReadPresetTable reads a whitespace-separated table of presets, one per
// row. Lines starting with '#' are comments.
func ReadPresetTable(file string) ([]baoviz.Bundle, error) {
	cols, err := table.ReadTable(file, presetColumns, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "reading preset table %s", file)
	}

	zs, centers, densities, gravities := cols[0], cols[1], cols[2], cols[3]
	oms, ols, comoving, rsd, layers := cols[4], cols[5], cols[6], cols[7], cols[8]

	bundles := make([]baoviz.Bundle, len(zs))
	for i := range bundles {
		om, ol := oms[i], ols[i]
		bundles[i] = baoviz.Bundle{
			Title:         fmt.Sprintf("%s:%d", file, i),
			Z:             zs[i],
			ActiveCenters: int(centers[i]),
			GalaxyDensity: densities[i],
			Gravity:       gravities[i],
			OmegaM:        &om,
			OmegaL:        &ol,
			Comoving:      comoving[i] != 0,
			RSD:           rsd[i] != 0,
			Layers:        BitLayers(int(layers[i])),
		}
	}
	return bundles, nil
}

// WritePresetTable writes bundles in the format read by ReadPresetTable.
// Bundles without densities are written with the reference cosmology.
func WritePresetTable(file string, bundles []baoviz.Bundle) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "creating preset table %s", file)
	}
	defer closeFile(f, file, &err)

	_, err = fmt.Fprintln(f, "# z centers density gravity OmegaM OmegaL comoving rsd layers")
	if err != nil {
		return errors.Wrapf(err, "writing preset table %s", file)
	}
	for _, b := range bundles {
		om, ol := 0.3, 0.7
		if b.OmegaM != nil {
			om = *b.OmegaM
		}
		if b.OmegaL != nil {
			ol = *b.OmegaL
		}
		_, err := fmt.Fprintf(f, "%g %d %g %g %g %g %d %d %d\n",
			b.Z, b.ActiveCenters, b.GalaxyDensity, b.Gravity, om, ol,
			boolInt(b.Comoving), boolInt(b.RSD), LayerBits(b.Layers),
		)
		if err != nil {
			return errors.Wrapf(err, "writing preset table %s", file)
		}
	}
	return nil
}

// closeFile closes f and stores the error in *err unless an earlier error
// is already there.
func closeFile(f io.Closer, file string, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = errors.Wrapf(cerr, "closing %s", file)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var end = binary.LittleEndian

// StateHeader is the fixed-size binary record of a simulation state.
type StateHeader struct {
	Type   TypeInfo
	Cosmo  CosmoInfo
	Render RenderInfo
}

type TypeInfo struct {
	Magic      int64
	HeaderSize int64
}

type CosmoInfo struct {
	Redshift, ScaleFactor float64
	OmegaM, OmegaL        float64
	Flat                  int64
	Gravity               float64
}

type RenderInfo struct {
	ActiveCenters int64
	GalaxyDensity float64
	Comoving, RSD int64
	Layers        int64
	Universe      float64
}

// StateMagic identifies state files.
const StateMagic int64 = 0x62616f76697a

// NewStateHeader records the state of sim.
func NewStateHeader(sim *baoviz.Simulation) *StateHeader {
	st := &sim.State
	hd := &StateHeader{
		Cosmo: CosmoInfo{
			Redshift: st.Z, ScaleFactor: st.A,
			OmegaM: st.Cosmo.OmegaM, OmegaL: st.Cosmo.OmegaL,
			Flat: int64(boolInt(st.Flat)), Gravity: st.Gravity,
		},
		Render: RenderInfo{
			ActiveCenters: int64(st.ActiveCenters),
			GalaxyDensity: st.GalaxyDensity,
			Comoving:      int64(boolInt(st.Comoving)),
			RSD:           int64(boolInt(st.RSD)),
			Layers:        int64(LayerBits(st.Layers)),
			Universe:      sim.Universe,
		},
	}
	hd.Type = TypeInfo{StateMagic, int64(binary.Size(hd))}
	return hd
}

// Bundle returns the parameters stored in hd.
func (hd *StateHeader) Bundle() baoviz.Bundle {
	om, ol := hd.Cosmo.OmegaM, hd.Cosmo.OmegaL
	return baoviz.Bundle{
		Z:             hd.Cosmo.Redshift,
		ActiveCenters: int(hd.Render.ActiveCenters),
		GalaxyDensity: hd.Render.GalaxyDensity,
		Gravity:       hd.Cosmo.Gravity,
		OmegaM:        &om,
		OmegaL:        &ol,
		Comoving:      hd.Render.Comoving != 0,
		RSD:           hd.Render.RSD != 0,
		Layers:        BitLayers(int(hd.Render.Layers)),
	}
}

// Apply restores hd into sim, including the flatness flag.
func (hd *StateHeader) Apply(sim *baoviz.Simulation) {
	sim.SetFlat(false)
	sim.ApplyParameters(hd.Bundle())
	sim.State.Flat = hd.Cosmo.Flat != 0
}

// WriteStateHeader writes hd to w.
func WriteStateHeader(w io.Writer, hd *StateHeader) error {
	return binary.Write(w, end, hd)
}

// ReadStateHeader reads a header written by WriteStateHeader.
func ReadStateHeader(r io.Reader) (*StateHeader, error) {
	hd := &StateHeader{}
	if err := binary.Read(r, end, hd); err != nil {
		return nil, err
	}
	if hd.Type.Magic != StateMagic {
		return nil, fmt.Errorf("Not a baoviz state file: magic number is %x.", hd.Type.Magic)
	}
	if hd.Type.HeaderSize != int64(binary.Size(hd)) {
		return nil, fmt.Errorf(
			"State header size is %d, but this version uses %d.",
			hd.Type.HeaderSize, binary.Size(hd),
		)
	}
	return hd, nil
}

// WriteStateFile dumps the state of sim to file.
func WriteStateFile(file string, sim *baoviz.Simulation) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "creating state file %s", file)
	}
	defer closeFile(f, file, &err)
	return errors.Wrapf(WriteStateHeader(f, NewStateHeader(sim)), "writing %s", file)
}

// ReadStateFile reads a state dump.
func ReadStateFile(file string) (*StateHeader, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "opening state file %s", file)
	}
	defer f.Close()
	hd, err := ReadStateHeader(f)
	return hd, errors.Wrapf(err, "reading %s", file)
}
