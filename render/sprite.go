package render

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// SpriteConfig describes the procedural galaxy texture.
type SpriteConfig struct {
	Size       int
	CoreRadius float64
	Specks     int
}

// DefaultSpriteConfig returns the standard 64 pixel galaxy texture.
func DefaultSpriteConfig() SpriteConfig {
	return SpriteConfig{Size: 64, CoreRadius: 5, Specks: 20}
}

// Source is a source of uniform random numbers in [0, 1).
type Source interface {
	Float64() float64
}

// NewSprite renders a galaxy texture tinted with c: a soft radial glow, a
// bright white core and randomly placed dust specks drawn from src.
func NewSprite(con SpriteConfig, c colorful.Color, src Source) *image.RGBA {
	size := con.Size
	if size < 2 {
		size = 2
	}
	half := float64(size) / 2
	s := NewSurface(size, size)

	glow := Gradient{
		{Offset: 0, Color: c, Alpha: 1},
		{Offset: 0.2, Color: c, Alpha: 0.8},
		{Offset: 0.5, Color: c, Alpha: 0.2},
		{Offset: 1, Color: c, Alpha: 0},
	}
	s.FillRadial(half, half, half, 1, glow)

	s.FillEllipse(half, half, con.CoreRadius, con.CoreRadius, 0,
		color.NRGBA{255, 255, 255, 230})

	r8, g8, b8 := c.RGB255()
	for i := 0; i < con.Specks; i++ {
		dist := src.Float64() * half * 0.8
		angle := src.Float64() * 2 * math.Pi
		px := half + math.Cos(angle)*dist
		py := half + math.Sin(angle)*dist
		pSize := src.Float64() * 1.5
		alpha := src.Float64()*0.5 + 0.2
		s.FillEllipse(px, py, pSize, pSize, 0,
			color.NRGBA{r8, g8, b8, uint8(alpha*255 + 0.5)})
	}

	return s.Img
}

// DrawSprite draws a premultiplied sprite centered on (cx, cy), scaled to
// w x h and rotated by rot radians.
func (s *Surface) DrawSprite(sprite *image.RGBA, cx, cy, w, h, rot float64) {
	if s.Empty() || sprite == nil || w <= 0 || h <= 0 || !finite(cx, cy, w, h, rot) {
		return
	}
	cv := s.layer().cv
	cv.Save()
	cv.Translate(cx, cy)
	cv.Rotate(rot)
	cv.DrawImage(sprite, -w/2, -h/2, w, h)
	cv.Restore()
	ext := math.Hypot(w, h) / 2
	s.flush(s.bounds(cx-ext, cy-ext, cx+ext, cy+ext, 1))
}
