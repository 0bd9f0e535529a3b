package render

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// BlitScaled scales src onto the rectangle at (x, y) of size w x h with
// bilinear filtering and blends it with the current blend mode and alpha.
// The destination rectangle is snapped outward to whole pixels.
func (s *Surface) BlitScaled(src image.Image, x, y, w, h float64) {
	if s.Empty() || src == nil || w <= 0 || h <= 0 || !finite(x, y, w, h) {
		return
	}
	dr := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
	if dr.Empty() || !dr.Overlaps(s.Img.Rect) {
		return
	}

	s.scratch = ensureRGBA(s.scratch, dr)
	xdraw.BiLinear.Scale(s.scratch, dr, src, src.Bounds(), xdraw.Src, nil)
	s.DrawImage(s.scratch, 0, 0)
}

// DrawImage blends the premultiplied image img onto the surface with its
// origin translated by (dx, dy) pixels.
func (s *Surface) DrawImage(img *image.RGBA, dx, dy int) {
	if s.Empty() || img == nil {
		return
	}
	dst := img.Rect.Add(image.Pt(dx, dy)).Intersect(s.Img.Rect)
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			off := img.PixOffset(x-dx, y-dy)
			a := img.Pix[off+3]
			if a == 0 {
				continue
			}
			s.blend(s.Img.PixOffset(x, y),
				float64(img.Pix[off+0])/255,
				float64(img.Pix[off+1])/255,
				float64(img.Pix[off+2])/255,
				float64(a)/255,
			)
		}
	}
}

// ensureRGBA returns an image with bounds r, reusing buf's storage when it
// is large enough.
func ensureRGBA(buf *image.RGBA, r image.Rectangle) *image.RGBA {
	n := 4 * r.Dx() * r.Dy()
	if buf == nil || cap(buf.Pix) < n {
		return image.NewRGBA(r)
	}
	buf.Pix = buf.Pix[:n]
	buf.Stride = 4 * r.Dx()
	buf.Rect = r
	return buf
}
