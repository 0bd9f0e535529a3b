package render

import (
	"math"
)

// Layout describes where the periodic universe lands on the screen. When
// the universe is smaller than the view it is drawn once into a tile which
// is then repeated over a grid; otherwise it is drawn directly with wrap
// copies at its edges.
type Layout struct {
	// BoxSize is the side of the universe in screen pixels.
	BoxSize float64
	Tiled   bool

	// Tile geometry, only set when Tiled.
	TileSize       int
	Cols, Rows     int
	StartX, StartY float64

	ViewW, ViewH int
}

// NewLayout computes the layout of a universe of comoving extent universe
// drawn at the given render scale on a view of w x h pixels.
func NewLayout(universe, scale float64, w, h int) Layout {
	l := Layout{BoxSize: universe * scale, ViewW: w, ViewH: h}
	if !(l.BoxSize > 0) || math.IsInf(l.BoxSize, 0) {
		l.BoxSize = 0
		return l
	}
	if l.BoxSize >= float64(maxInt(w, h)) {
		return l
	}

	box := l.BoxSize
	l.Tiled = true
	l.TileSize = int(math.Ceil(box))
	l.Cols = int(math.Ceil(float64(w)/box)) + 2
	l.Rows = int(math.Ceil(float64(h)/box)) + 2

	cx, cy := float64(w)/2, float64(h)/2
	l.StartX = cx - box/2 - math.Floor(float64(l.Cols)/2)*box
	l.StartY = cy - box/2 - math.Floor(float64(l.Rows)/2)*box
	return l
}

// Center returns the point that the universe origin maps to in the draw
// space: the tile center when tiled and the view center otherwise.
func (l Layout) Center() (x, y float64) {
	if l.Tiled {
		return l.BoxSize / 2, l.BoxSize / 2
	}
	return float64(l.ViewW) / 2, float64(l.ViewH) / 2
}

// WrapSize returns the period used when wrapping positions in draw space.
func (l Layout) WrapSize() float64 { return l.BoxSize }

// Origins calls f with the top-left corner of every tile slot.
func (l Layout) Origins(f func(x, y float64)) {
	if !l.Tiled {
		return
	}
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			f(l.StartX+float64(c)*l.BoxSize, l.StartY+float64(r)*l.BoxSize)
		}
	}
}

// CentralTile returns the top-left corner of the tile holding the view
// center.
func (l Layout) CentralTile() (x, y float64) {
	return float64(l.ViewW)/2 - l.BoxSize/2, float64(l.ViewH)/2 - l.BoxSize/2
}

// Compose blits tile at every slot of the layout. The tile is drawn at
// integer offsets so neighbouring copies meet without seams.
func (s *Surface) Compose(l Layout, tile *Surface) {
	if s.Empty() || tile.Empty() || !l.Tiled {
		return
	}
	l.Origins(func(x, y float64) {
		s.DrawImage(tile.Img, int(math.Floor(x)), int(math.Floor(y)))
	})
}

func maxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}
