package baoviz

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phil-mansfield/baoviz/catalog"
	"github.com/phil-mansfield/baoviz/density"
	"github.com/phil-mansfield/baoviz/render"
)

// DriverMode selects how the scale factor advances while playing.
type DriverMode int

const (
	// LogLinear grows a by a constant fraction per frame.
	LogLinear DriverMode = iota
	// Friedmann grows a by a E(a) per frame.
	Friedmann
)

func (m DriverMode) String() string {
	switch m {
	case LogLinear:
		return "LogLinear"
	case Friedmann:
		return "Friedmann"
	}
	return "Unknown"
}

// Config holds every tunable constant of the visualization. The zero value
// is not useful; start from DefaultConfig.
type Config struct {
	// Physics
	ComovingRadius   float64
	ExpansionDamping float64
	DefaultComovingZ float64

	// Animation
	Mode         DriverMode
	TimeSpeed    float64
	SpeedFactor  float64
	LoopStartZ   float64
	RestartZ     float64
	MaxFrameSkip int

	Catalog catalog.Config

	// Colors
	Background colorful.Color
	Palette    []colorful.Color
	Blob       render.BlobStyle

	// Sizes, in comoving units before scaling
	CenterRadiusBase float64
	RingWidthBase    float64

	Sprite               render.SpriteConfig
	SpriteSizeMultiplier float64
	SpriteMinRadius      float64
	SpriteOpacityBoost   float64

	Heatmap               density.Resolution
	HeatmapAlphaThreshold float64
	GalaxyAlphaThreshold  float64

	RSDFactor   float64
	RSDMinScale float64

	// Transition from the early-universe view.
	TransitionZStart float64
	TransitionZEnd   float64
	MaskWidthRatio   float64
	MaskMargin       float64

	PlotWidth, PlotHeight int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		ComovingRadius:   150,
		ExpansionDamping: 0.6,
		DefaultComovingZ: 5,

		Mode:         LogLinear,
		TimeSpeed:    0.005,
		SpeedFactor:  2,
		LoopStartZ:   5,
		RestartZ:     0.05,
		MaxFrameSkip: 4,

		Catalog: catalog.DefaultConfig(),

		Background: rgb(5, 5, 5),
		Palette: []colorful.Color{
			rgb(255, 240, 220),
			rgb(200, 220, 255),
			rgb(255, 200, 180),
			rgb(255, 255, 255),
		},
		Blob: render.DefaultBlobStyle(),

		CenterRadiusBase: 40,
		RingWidthBase:    25,

		Sprite:               render.DefaultSpriteConfig(),
		SpriteSizeMultiplier: 4,
		SpriteMinRadius:      3,
		SpriteOpacityBoost:   1.2,

		Heatmap:               density.DefaultResolution(),
		HeatmapAlphaThreshold: 0.01,
		GalaxyAlphaThreshold:  0.001,

		RSDFactor:   0.8,
		RSDMinScale: 0.2,

		TransitionZStart: 1100,
		TransitionZEnd:   5,
		MaskWidthRatio:   0.45,
		MaskMargin:       1.2,

		PlotWidth:  240,
		PlotHeight: 100,
	}
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
