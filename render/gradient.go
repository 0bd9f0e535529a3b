package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// Stop is a color stop of a radial gradient. Offset is the fraction of the
// gradient radius and Alpha the non-premultiplied opacity.
type Stop struct {
	Offset float64
	Color  colorful.Color
	Alpha  float64
}

// Gradient is a sequence of stops. Offsets are clamped to [0, 1] and kept
// in insertion order when equal.
type Gradient []Stop

// Normalize clamps offsets and sorts the stops stably by offset.
func (gr Gradient) Normalize() Gradient {
	out := make(Gradient, len(gr))
	copy(out, gr)
	for i := range out {
		out[i].Offset = clamp01(out[i].Offset)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}

// nrgba returns the non-premultiplied color of the stop.
func (st Stop) nrgba() color.NRGBA {
	r, g, b := st.Color.Clamped().RGB255()
	return color.NRGBA{r, g, b, uint8(clamp01(st.Alpha)*255 + 0.5)}
}

// gradientLayer returns an offscreen canvas at least n pixels on a side.
func (s *Surface) gradientLayer(n int) *offscreen {
	if s.grad == nil || s.grad.backend.Image.Rect.Dx() < n {
		side := n
		if side < 64 {
			side = 64
		}
		backend := softwarebackend.New(side, side)
		s.grad = &offscreen{backend: backend, cv: canvas.New(backend)}
	}
	return s.grad
}

// FillRadial fills the disc of the given radius around (cx, cy) with a
// radial gradient. The disc is stretched vertically by scaleY.
func (s *Surface) FillRadial(cx, cy, radius, scaleY float64, gr Gradient) {
	if s.Empty() || radius <= 0 || scaleY <= 0 || !finite(cx, cy, radius, scaleY) {
		return
	}
	n := int(math.Ceil(2 * radius))
	off := s.gradientLayer(n)
	half := float64(n) / 2

	cv := off.cv
	rg := cv.CreateRadialGradient(half, half, 0, half, half, radius)
	for _, st := range gr.Normalize() {
		rg.AddColorStop(st.Offset, st.nrgba())
	}
	cv.SetFillStyle(rg)
	cv.BeginPath()
	cv.Arc(half, half, radius, 0, 2*math.Pi, false)
	cv.Fill()

	r := image.Rect(0, 0, n, n)
	s.BlitScaled(off.backend.Image.SubImage(r), cx-half, cy-half*scaleY,
		float64(n), float64(n)*scaleY)
	draw.Draw(off.backend.Image, r, image.Transparent, image.Point{}, draw.Src)
}

// FillEllipse fills an anti-aliased ellipse with semi-axes rx and ry,
// rotated by rot radians.
func (s *Surface) FillEllipse(cx, cy, rx, ry, rot float64, c color.Color) {
	if s.Empty() || rx <= 0 || ry <= 0 || !finite(cx, cy, rx, ry, rot) {
		return
	}
	s.flush(s.fillEllipsePath(cx, cy, rx, ry, rot, c))
}

// MaskEllipse applies destination-in with an axis-aligned ellipse: pixels
// outside the ellipse become transparent.
func (s *Surface) MaskEllipse(cx, cy, rx, ry float64) {
	if s.Empty() || !finite(cx, cy, rx, ry) {
		return
	}
	img := s.layer().backend.Image
	if rx > 0 && ry > 0 {
		s.fillEllipsePath(cx, cy, rx, ry, 0, color.White)
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			k := float64(img.Pix[img.PixOffset(x, y)+3]) / 255
			s.scaleAlpha(s.Img.PixOffset(x, y), k)
		}
	}
	draw.Draw(img, img.Rect, image.Transparent, image.Point{}, draw.Src)
}
