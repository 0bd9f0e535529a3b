package io

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/baoviz"
	"github.com/phil-mansfield/baoviz/render"
)

const (
	ExampleVisualizationFile = `[Visualization]

# Every parameter in this file is optional. Anything left out keeps the
# value shown in the comment next to it.

###########
# Physics #
###########

# Comoving sound horizon in the reference cosmology.
# ComovingRadius = 150

# Fraction of the expansion that is hidden from the on-screen scale. Higher
# values keep early times visible.
# ExpansionDamping = 0.6

# The comoving frame is drawn at the scale of this redshift.
# DefaultComovingZ = 5

#############
# Animation #
#############

# Mode must be one of [ LogLinear | Friedmann ].
# Mode = LogLinear
# TimeSpeed = 0.005
# SpeedFactor = 2

# Playback from the present restarts at LoopStartZ.
# LoopStartZ = 5
# RestartZ = 0.05
# MaxFrameSkip = 4

############
# Galaxies #
############

# MaxCenters = 200
# GalaxiesPerCenter = 15
# GalaxiesPerRing = 40
# BackgroundGalaxies = 800
# CenterScatter = 30
# RingScatter = 20

##########
# Colors #
##########

# Colors are hex triplets. Leave out the leading '#' or quote the value,
# since an unquoted '#' starts a comment.
# BackgroundColor = 050505

# GalaxyColor can be repeated. Each value adds one color to the palette and
# the first one replaces the default palette.
# GalaxyColor = fff0dc
# GalaxyColor = c8dcff
# GalaxyColor = ffc8b4
# GalaxyColor = ffffff

# Density profile colors and stop opacities.
# HotColor = ffdcc8
# HaloColor = 3264c8
# GapColor = 0096ff
# RingColor = 00c8ff
# CenterOpacity = 0.9
# HaloOpacity = 0.4
# GapOpacity = 0.05
# RingOpacity = 0.3

#########
# Sizes #
#########

# CenterRadiusBase = 40
# RingWidthBase = 25
# SpriteSize = 64
# SpriteCoreRadius = 5
# SpriteSpecks = 20
# SpriteSizeMultiplier = 4
# SpriteMinRadius = 3
# SpriteOpacityBoost = 1.2

###########
# Heatmap #
###########

# Cell sizes in pixels at the end of the transition and at high redshift.
# HeatmapCellMax = 4
# HeatmapCellMin = 0.5
# HeatmapAlphaThreshold = 0.01
# GalaxyAlphaThreshold = 0.001

##################################
# Distortions and early universe #
##################################

# RSDFactor = 0.8
# RSDMinScale = 0.2
# TransitionZStart = 1100
# TransitionZEnd = 5
# MaskWidthRatio = 0.45
# MaskMargin = 1.2

# PlotWidth = 240
# PlotHeight = 100`

	ExampleRenderFile = `[Render]

#######################
# Required Parameters #
#######################

# Image size in pixels.
Width = 960
Height = 540

# Output file. For a PNG series this is a printf pattern containing a single
# %d, e.g. frames/bao_%04d.png.
Output = bao.png

#######################
# Optional Parameters #
#######################

# Format must be one of [ png | gif | avi ]. Default is png.
# Format = png

# Frames > 1 plays the universe forward and writes one image per frame.
# Frames = 1
# FrameRate = 30

# Random seed. 0 seeds from the current time.
# Seed = 0

# Tour step to start from, 1 through 5. 0 keeps the default state.
# Preset = 0

# Alternatively, a whitespace-separated table with one preset per row and the
# columns: z centers density gravity OmegaM OmegaL comoving rsd layers
# where layers is a bit set [ density=1 galaxies=2 heatmap=4 horizon=8 plot=16 ].
# PresetTable = path/to/presets.txt
# PresetRow = 0

# Starting redshift. Negative values keep the redshift of the preset.
# Redshift = -1

# File with [Visualization] parameters.
# VisualizationFile = path/to/vis.cfg

# The correlation function of the final frame can be written as a matplotlib
# figure. PlotScript is the image the script saves.
# PlotScript = xi.png

# Binary dump of the final state, and a dump to start from.
# StateFile = bao.state
# LoadState = bao.state

# LogFile = log.out
# ProfileFile = prof.out`
)

// VisualizationConfig holds the [Visualization] section. Zero values mean
// "keep the default" only through DefaultVisualizationWrapper.
type VisualizationConfig struct {
	ComovingRadius, ExpansionDamping, DefaultComovingZ float64

	Mode                                         string
	TimeSpeed, SpeedFactor, LoopStartZ, RestartZ float64
	MaxFrameSkip                                 int

	MaxCenters, GalaxiesPerCenter, GalaxiesPerRing, BackgroundGalaxies int
	CenterScatter, RingScatter                                         float64

	BackgroundColor                          string
	GalaxyColor                              []string
	HotColor, HaloColor, GapColor, RingColor string

	CenterOpacity, HaloOpacity, GapOpacity, RingOpacity float64

	CenterRadiusBase, RingWidthBase float64

	SpriteSize                                                int
	SpriteCoreRadius                                          float64
	SpriteSpecks                                              int
	SpriteSizeMultiplier, SpriteMinRadius, SpriteOpacityBoost float64

	HeatmapCellMax, HeatmapCellMin              float64
	HeatmapAlphaThreshold, GalaxyAlphaThreshold float64

	RSDFactor, RSDMinScale float64

	TransitionZStart, TransitionZEnd float64
	MaskWidthRatio, MaskMargin       float64

	PlotWidth, PlotHeight int
}

type VisualizationWrapper struct {
	Visualization VisualizationConfig
}

func hex(c colorful.Color) string { return c.Hex() }

// DefaultVisualizationWrapper returns a wrapper seeded with the values of
// baoviz.DefaultConfig. GalaxyColor is left empty since gcfg appends to
// multi-valued variables.
func DefaultVisualizationWrapper() *VisualizationWrapper {
	def := baoviz.DefaultConfig()
	cat, blob, sp := def.Catalog, def.Blob, def.Sprite

	con := VisualizationConfig{
		ComovingRadius:   def.ComovingRadius,
		ExpansionDamping: def.ExpansionDamping,
		DefaultComovingZ: def.DefaultComovingZ,

		Mode:         def.Mode.String(),
		TimeSpeed:    def.TimeSpeed,
		SpeedFactor:  def.SpeedFactor,
		LoopStartZ:   def.LoopStartZ,
		RestartZ:     def.RestartZ,
		MaxFrameSkip: def.MaxFrameSkip,

		MaxCenters:         cat.MaxPeaks,
		GalaxiesPerCenter:  cat.PerCenter,
		GalaxiesPerRing:    cat.PerRing,
		BackgroundGalaxies: cat.Background,
		CenterScatter:      cat.ScatterCenter,
		RingScatter:        cat.ScatterRing,

		BackgroundColor: hex(def.Background),
		HotColor:        hex(blob.Hot),
		HaloColor:       hex(blob.Halo),
		GapColor:        hex(blob.Gap),
		RingColor:       hex(blob.Ring),
		CenterOpacity:   blob.CenterOpacity,
		HaloOpacity:     blob.HaloOpacity,
		GapOpacity:      blob.GapOpacity,
		RingOpacity:     blob.RingOpacity,

		CenterRadiusBase: def.CenterRadiusBase,
		RingWidthBase:    def.RingWidthBase,

		SpriteSize:           sp.Size,
		SpriteCoreRadius:     sp.CoreRadius,
		SpriteSpecks:         sp.Specks,
		SpriteSizeMultiplier: def.SpriteSizeMultiplier,
		SpriteMinRadius:      def.SpriteMinRadius,
		SpriteOpacityBoost:   def.SpriteOpacityBoost,

		HeatmapCellMax:        def.Heatmap.CellMax,
		HeatmapCellMin:        def.Heatmap.CellMin,
		HeatmapAlphaThreshold: def.HeatmapAlphaThreshold,
		GalaxyAlphaThreshold:  def.GalaxyAlphaThreshold,

		RSDFactor:   def.RSDFactor,
		RSDMinScale: def.RSDMinScale,

		TransitionZStart: def.TransitionZStart,
		TransitionZEnd:   def.TransitionZEnd,
		MaskWidthRatio:   def.MaskWidthRatio,
		MaskMargin:       def.MaskMargin,

		PlotWidth:  def.PlotWidth,
		PlotHeight: def.PlotHeight,
	}
	return &VisualizationWrapper{con}
}

func (con *VisualizationConfig) ValidComovingRadius() bool {
	return con.ComovingRadius > 0
}
func (con *VisualizationConfig) ValidExpansionDamping() bool {
	return con.ExpansionDamping >= 0 && con.ExpansionDamping < 1
}
func (con *VisualizationConfig) ValidDefaultComovingZ() bool {
	return con.DefaultComovingZ >= 0
}
func (con *VisualizationConfig) ValidMode() bool {
	_, ok := parseMode(con.Mode)
	return ok
}
func (con *VisualizationConfig) ValidTimeSpeed() bool {
	return con.TimeSpeed > 0 && con.SpeedFactor > 0
}
func (con *VisualizationConfig) ValidLoopStartZ() bool {
	return con.LoopStartZ > con.RestartZ && con.RestartZ >= 0
}
func (con *VisualizationConfig) ValidMaxFrameSkip() bool {
	return con.MaxFrameSkip > 0
}
func (con *VisualizationConfig) ValidMaxCenters() bool {
	return con.MaxCenters > 0
}
func (con *VisualizationConfig) ValidGalaxyCounts() bool {
	return con.GalaxiesPerCenter >= 0 && con.GalaxiesPerRing >= 0 &&
		con.BackgroundGalaxies >= 0
}
func (con *VisualizationConfig) ValidScatter() bool {
	return con.CenterScatter >= 0 && con.RingScatter >= 0
}
func (con *VisualizationConfig) ValidOpacities() bool {
	for _, x := range []float64{
		con.CenterOpacity, con.HaloOpacity, con.GapOpacity, con.RingOpacity,
	} {
		if x < 0 || x > 1 {
			return false
		}
	}
	return true
}
func (con *VisualizationConfig) ValidSpriteSize() bool {
	return con.SpriteSize >= 2 && con.SpriteSpecks >= 0
}
func (con *VisualizationConfig) ValidHeatmapCells() bool {
	return con.HeatmapCellMin > 0 && con.HeatmapCellMin <= con.HeatmapCellMax
}
func (con *VisualizationConfig) ValidTransition() bool {
	return con.TransitionZEnd > 0 && con.TransitionZStart > con.TransitionZEnd
}
func (con *VisualizationConfig) ValidPlotSize() bool {
	return con.PlotWidth > 0 && con.PlotHeight > 0
}

// CheckInit validates every field and returns an error describing the
// first invalid one.
func (con *VisualizationConfig) CheckInit() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{con.ValidComovingRadius(), "ComovingRadius must be positive"},
		{con.ValidExpansionDamping(), "ExpansionDamping must be in [0, 1)"},
		{con.ValidDefaultComovingZ(), "DefaultComovingZ must be non-negative"},
		{con.ValidMode(), "Mode must be one of [LogLinear | Friedmann]"},
		{con.ValidTimeSpeed(), "TimeSpeed and SpeedFactor must be positive"},
		{con.ValidLoopStartZ(), "LoopStartZ must be larger than RestartZ >= 0"},
		{con.ValidMaxFrameSkip(), "MaxFrameSkip must be positive"},
		{con.ValidMaxCenters(), "MaxCenters must be positive"},
		{con.ValidGalaxyCounts(), "galaxy counts must be non-negative"},
		{con.ValidScatter(), "scatter must be non-negative"},
		{con.ValidOpacities(), "opacities must be in [0, 1]"},
		{con.ValidSpriteSize(), "SpriteSize must be at least 2"},
		{con.ValidHeatmapCells(), "need 0 < HeatmapCellMin <= HeatmapCellMax"},
		{con.ValidTransition(), "need 0 < TransitionZEnd < TransitionZStart"},
		{con.ValidPlotSize(), "PlotWidth and PlotHeight must be positive"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("Invalid [Visualization] config: %s.", c.name)
		}
	}
	return nil
}

func parseMode(s string) (baoviz.DriverMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "loglinear", "":
		return baoviz.LogLinear, true
	case "friedmann":
		return baoviz.Friedmann, true
	}
	return baoviz.LogLinear, false
}

func parseColor(field, s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return c, errors.Wrapf(err, "%s '%s' is not a hex color", field, s)
	}
	return c, nil
}

// Config converts the section into a baoviz.Config.
func (con *VisualizationConfig) Config() (baoviz.Config, error) {
	if err := con.CheckInit(); err != nil {
		return baoviz.Config{}, err
	}
	out := baoviz.DefaultConfig()

	out.ComovingRadius = con.ComovingRadius
	out.ExpansionDamping = con.ExpansionDamping
	out.DefaultComovingZ = con.DefaultComovingZ

	out.Mode, _ = parseMode(con.Mode)
	out.TimeSpeed, out.SpeedFactor = con.TimeSpeed, con.SpeedFactor
	out.LoopStartZ, out.RestartZ = con.LoopStartZ, con.RestartZ
	out.MaxFrameSkip = con.MaxFrameSkip

	out.Catalog.MaxPeaks = con.MaxCenters
	out.Catalog.PerCenter = con.GalaxiesPerCenter
	out.Catalog.PerRing = con.GalaxiesPerRing
	out.Catalog.Background = con.BackgroundGalaxies
	out.Catalog.ScatterCenter = con.CenterScatter
	out.Catalog.ScatterRing = con.RingScatter

	var err error
	if out.Background, err = parseColor("BackgroundColor", con.BackgroundColor); err != nil {
		return out, err
	}
	if len(con.GalaxyColor) > 0 {
		out.Palette = out.Palette[:0:0]
		for _, s := range con.GalaxyColor {
			c, err := parseColor("GalaxyColor", s)
			if err != nil {
				return out, err
			}
			out.Palette = append(out.Palette, c)
		}
	}

	blob := render.BlobStyle{
		CenterOpacity: con.CenterOpacity,
		HaloOpacity:   con.HaloOpacity,
		GapOpacity:    con.GapOpacity,
		RingOpacity:   con.RingOpacity,
	}
	colors := []struct {
		name, value string
		c           *colorful.Color
	}{
		{"HotColor", con.HotColor, &blob.Hot},
		{"HaloColor", con.HaloColor, &blob.Halo},
		{"GapColor", con.GapColor, &blob.Gap},
		{"RingColor", con.RingColor, &blob.Ring},
	}
	for _, c := range colors {
		if *c.c, err = parseColor(c.name, c.value); err != nil {
			return out, err
		}
	}
	out.Blob = blob

	out.CenterRadiusBase, out.RingWidthBase = con.CenterRadiusBase, con.RingWidthBase

	out.Sprite = render.SpriteConfig{
		Size: con.SpriteSize, CoreRadius: con.SpriteCoreRadius, Specks: con.SpriteSpecks,
	}
	out.SpriteSizeMultiplier = con.SpriteSizeMultiplier
	out.SpriteMinRadius = con.SpriteMinRadius
	out.SpriteOpacityBoost = con.SpriteOpacityBoost

	out.Heatmap.CellMax, out.Heatmap.CellMin = con.HeatmapCellMax, con.HeatmapCellMin
	out.Heatmap.ZEnd = con.TransitionZEnd
	out.HeatmapAlphaThreshold = con.HeatmapAlphaThreshold
	out.GalaxyAlphaThreshold = con.GalaxyAlphaThreshold

	out.RSDFactor, out.RSDMinScale = con.RSDFactor, con.RSDMinScale

	out.TransitionZStart, out.TransitionZEnd = con.TransitionZStart, con.TransitionZEnd
	out.MaskWidthRatio, out.MaskMargin = con.MaskWidthRatio, con.MaskMargin

	out.PlotWidth, out.PlotHeight = con.PlotWidth, con.PlotHeight
	return out, nil
}

// ReadVisualizationConfig reads a [Visualization] file. An empty file name
// returns the default configuration.
func ReadVisualizationConfig(fname string) (baoviz.Config, error) {
	vw := DefaultVisualizationWrapper()
	if fname != "" {
		if err := gcfg.ReadFileInto(vw, fname); err != nil {
			return baoviz.Config{}, errors.Wrapf(err, "reading %s", fname)
		}
	}
	return vw.Visualization.Config()
}

type SharedConfig struct {
	// Required
	Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

// Format is an image export format.
type Format int

const (
	PNG Format = iota
	GIF
	AVI
	EndFormat
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case GIF:
		return "gif"
	case AVI:
		return "avi"
	}
	return "unknown"
}

type RenderConfig struct {
	SharedConfig

	// Required
	Width, Height int

	// Optional
	Format            string
	Frames, FrameRate int
	Seed              int64

	Preset      int
	PresetTable string
	PresetRow   int
	Redshift    float64

	VisualizationFile string
	PlotScript        string
	StateFile         string
	LoadState         string
}

type RenderWrapper struct {
	Render RenderConfig
}

func DefaultRenderWrapper() *RenderWrapper {
	rc := RenderConfig{}
	rc.Format = PNG.String()
	rc.Frames = 1
	rc.FrameRate = 30
	rc.Redshift = -1
	return &RenderWrapper{rc}
}

func (con *RenderConfig) ValidSize() bool {
	return con.Width > 0 && con.Height > 0
}
func (con *RenderConfig) ValidFormat() bool {
	_, ok := con.ParseFormat()
	return ok
}
func (con *RenderConfig) ValidFrames() bool {
	return con.Frames > 0
}
func (con *RenderConfig) ValidFrameRate() bool {
	return con.FrameRate > 0
}
func (con *RenderConfig) ValidPreset() bool {
	return con.Preset >= 0 && con.Preset <= len(baoviz.TourPresets())
}
func (con *RenderConfig) ValidPresetTable() bool {
	return con.PresetTable != ""
}
func (con *RenderConfig) ValidRedshift() bool {
	return con.Redshift >= 0
}
func (con *RenderConfig) ValidVisualizationFile() bool {
	return con.VisualizationFile != ""
}
func (con *RenderConfig) ValidPlotScript() bool {
	return con.PlotScript != ""
}
func (con *RenderConfig) ValidStateFile() bool {
	return con.StateFile != ""
}
func (con *RenderConfig) ValidLoadState() bool {
	return con.LoadState != ""
}

// ParseFormat returns the export format named by the Format field.
func (con *RenderConfig) ParseFormat() (Format, bool) {
	name := strings.ToLower(strings.TrimSpace(con.Format))
	for f := PNG; f < EndFormat; f++ {
		if f.String() == name {
			return f, true
		}
	}
	return PNG, false
}

// CheckInit validates the required fields.
func (con *RenderConfig) CheckInit() error {
	switch {
	case !con.ValidOutput():
		return fmt.Errorf("Need to specify an Output file.")
	case !con.ValidSize():
		return fmt.Errorf(
			"Width and Height must be positive, but are %d and %d.",
			con.Width, con.Height,
		)
	case !con.ValidFormat():
		return fmt.Errorf("Format must be one of [png | gif | avi], not '%s'.", con.Format)
	case !con.ValidFrames():
		return fmt.Errorf("Frames must be positive, but is %d.", con.Frames)
	case !con.ValidFrameRate():
		return fmt.Errorf("FrameRate must be positive, but is %d.", con.FrameRate)
	case !con.ValidPreset():
		return fmt.Errorf(
			"Preset must be in [0, %d], but is %d.",
			len(baoviz.TourPresets()), con.Preset,
		)
	case con.PresetRow < 0:
		return fmt.Errorf("PresetRow must be non-negative, but is %d.", con.PresetRow)
	}
	return nil
}

// ReadRenderConfig reads and validates a [Render] file.
func ReadRenderConfig(fname string) (*RenderConfig, error) {
	rw := DefaultRenderWrapper()
	if err := gcfg.ReadFileInto(rw, fname); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	if err := rw.Render.CheckInit(); err != nil {
		return nil, err
	}
	return &rw.Render, nil
}
