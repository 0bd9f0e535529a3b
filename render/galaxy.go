package render

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/phil-mansfield/baoviz/geom"
)

// Sprites is a palette of galaxy textures, one per color.
type Sprites []*image.RGBA

// NewSprites renders one texture for every color of the palette.
func NewSprites(con SpriteConfig, palette []colorful.Color, src Source) Sprites {
	sp := make(Sprites, len(palette))
	for i, c := range palette {
		sp[i] = NewSprite(con, c, src)
	}
	return sp
}

// Get returns the sprite for palette index i, or nil if there is none.
func (sp Sprites) Get(i int) *image.RGBA {
	if i < 0 || i >= len(sp) {
		return nil
	}
	return sp[i]
}

// GalaxySprite describes a single sprite draw: the semi-major axis in
// pixels, the axis ratio, the rotation and the opacity.
type GalaxySprite struct {
	Radius, Eccentricity, Rotation, Alpha float64
}

// DrawGalaxy draws sprite at p. With a positive wrap the position is
// wrapped into [0, wrap) and copies are drawn across overlapped edges.
func (s *Surface) DrawGalaxy(sprite *image.RGBA, p geom.Vec, g GalaxySprite, wrap float64) {
	if s.Empty() || sprite == nil || !p.Finite() || g.Alpha <= 0 {
		return
	}
	if wrap > 0 {
		p.WrapSelf(wrap)
	}

	s.Save()
	s.Alpha *= math.Min(1, g.Alpha)
	w, h := 2*g.Radius, 2*g.Radius*g.Eccentricity
	geom.WrapCopies(p, g.Radius, wrap, func(q geom.Vec) {
		s.DrawSprite(sprite, q[0], q[1], w, h, g.Rotation)
	})
	s.Restore()
}
