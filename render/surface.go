/*package render rasterizes frames of the visualization onto an in-memory
Surface. It provides the compositing primitives the frame pipeline needs
(radial gradients, rotated sprites, scaled blits, elliptical masks, dashed
strokes and text) together with the tiling layout and the correlation
histogram overlay.
*/
package render

import (
	"image"
	"image/color"
	"math"
)

// Blend selects how source pixels are combined with the surface.
type Blend int

const (
	// Over is Porter-Duff source-over.
	Over Blend = iota
	// Screen brightens: c = s + d - s*d on premultiplied channels.
	Screen
)

type surfaceState struct {
	alpha float64
	blend Blend
}

// Surface is a premultiplied RGBA raster with canvas-like state: a global
// alpha and a blend mode, both saved and restored as a stack.
type Surface struct {
	Img   *image.RGBA
	Alpha float64
	Blend Blend

	stack   []surfaceState
	scratch *image.RGBA
	off     *offscreen
	grad    *offscreen
}

// NewSurface returns a transparent surface of the given size.
func NewSurface(w, h int) *Surface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Surface{Img: image.NewRGBA(image.Rect(0, 0, w, h)), Alpha: 1}
}

// Width returns the width of the surface in pixels.
func (s *Surface) Width() int { return s.Img.Rect.Dx() }

// Height returns the height of the surface in pixels.
func (s *Surface) Height() int { return s.Img.Rect.Dy() }

// Empty returns true for nil or zero-area surfaces. Nothing is ever drawn
// onto an empty surface.
func (s *Surface) Empty() bool {
	return s == nil || s.Img == nil || s.Width() <= 0 || s.Height() <= 0
}

// Resize changes the dimensions of the surface, reallocating only when the
// size changes. The contents are cleared.
func (s *Surface) Resize(w, h int) {
	if s.Width() != w || s.Height() != h {
		s.Img = image.NewRGBA(image.Rect(0, 0, w, h))
		return
	}
	s.Clear(color.Transparent)
}

// Save pushes the current alpha and blend mode.
func (s *Surface) Save() {
	s.stack = append(s.stack, surfaceState{s.Alpha, s.Blend})
}

// Restore pops the most recently saved alpha and blend mode.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	st := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.Alpha, s.Blend = st.alpha, st.blend
}

// Clear replaces every pixel with c, ignoring alpha and blend.
func (s *Surface) Clear(c color.Color) {
	r, g, b, a := c.RGBA()
	px := [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	pix := s.Img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = px[0], px[1], px[2], px[3]
	}
}

// FillRect blends c over the axis aligned rectangle [x0, x1) x [y0, y1).
func (s *Surface) FillRect(x0, y0, x1, y1 float64, c color.Color) {
	if s.Empty() {
		return
	}
	r, g, b, a := premul(c)
	ix0, iy0, ix1, iy1 := s.clip(x0, y0, x1, y1)
	for y := iy0; y < iy1; y++ {
		for x := ix0; x < ix1; x++ {
			s.blend(s.Img.PixOffset(x, y), r, g, b, a)
		}
	}
}

// blend combines a premultiplied source pixel in [0, 1] with the pixel at
// offset i, scaling the source by the global alpha first.
func (s *Surface) blend(i int, r, g, b, a float64) {
	k := s.Alpha
	if k <= 0 || a <= 0 {
		return
	}
	r, g, b, a = r*k, g*k, b*k, a*k

	pix := s.Img.Pix
	dr := float64(pix[i+0]) / 255
	dg := float64(pix[i+1]) / 255
	db := float64(pix[i+2]) / 255
	da := float64(pix[i+3]) / 255

	switch s.Blend {
	case Screen:
		dr = r + dr - r*dr
		dg = g + dg - g*dg
		db = b + db - b*db
		da = a + da - a*da
	default:
		t := 1 - a
		dr = r + dr*t
		dg = g + dg*t
		db = b + db*t
		da = a + da*t
	}

	pix[i+0] = to8(dr)
	pix[i+1] = to8(dg)
	pix[i+2] = to8(db)
	pix[i+3] = to8(da)
}

// scaleAlpha multiplies every channel of pixel i by k. It is the
// destination-in operator for a source of alpha k.
func (s *Surface) scaleAlpha(i int, k float64) {
	if k >= 1 {
		return
	}
	pix := s.Img.Pix
	for j := 0; j < 4; j++ {
		pix[i+j] = to8(float64(pix[i+j]) / 255 * k)
	}
}

// clip converts a floating point rectangle to the integer pixel range that
// it covers on the surface.
func (s *Surface) clip(x0, y0, x1, y1 float64) (ix0, iy0, ix1, iy1 int) {
	w, h := s.Width(), s.Height()
	ix0 = clampInt(int(math.Floor(x0)), 0, w)
	iy0 = clampInt(int(math.Floor(y0)), 0, h)
	ix1 = clampInt(int(math.Ceil(x1)), 0, w)
	iy1 = clampInt(int(math.Ceil(y1)), 0, h)
	return ix0, iy0, ix1, iy1
}

func premul(c color.Color) (r, g, b, a float64) {
	cr, cg, cb, ca := c.RGBA()
	return float64(cr) / 0xffff, float64(cg) / 0xffff,
		float64(cb) / 0xffff, float64(ca) / 0xffff
}

func to8(x float64) uint8 {
	if x <= 0 {
		return 0
	} else if x >= 1 {
		return 255
	}
	return uint8(x*255 + 0.5)
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	} else if x > hi {
		return hi
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	} else if x > 1 {
		return 1
	}
	return x
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
