package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// offscreen is a raster the size of the surface. Paths and images
// are rasterized onto a transparent region of it and then blended into
// the surface with the surface's alpha and blend mode.
type offscreen struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
}

// layer returns the offscreen layer, reallocating it when the surface has
// been resized.
func (s *Surface) layer() *offscreen {
	w, h := s.Width(), s.Height()
	if s.off == nil || s.off.backend.Image.Rect.Dx() != w ||
		s.off.backend.Image.Rect.Dy() != h {

		backend := softwarebackend.New(w, h)
		s.off = &offscreen{backend: backend, cv: canvas.New(backend)}
	}
	return s.off
}

// graphicContext returns a fresh draw2d context on the offscreen layer.
func (s *Surface) graphicContext() *draw2dimg.GraphicContext {
	gc := draw2dimg.NewGraphicContext(s.layer().backend.Image)
	gc.SetLineCap(draw2d.ButtCap)
	gc.SetLineJoin(draw2d.MiterJoin)
	return gc
}

// bounds returns the pixel rectangle covering [x0, x1) x [y0, y1), grown
// by pad and clipped to the surface.
func (s *Surface) bounds(x0, y0, x1, y1, pad float64) image.Rectangle {
	ix0, iy0, ix1, iy1 := s.clip(x0-pad, y0-pad, x1+pad, y1+pad)
	return image.Rect(ix0, iy0, ix1, iy1)
}

// flush blends the region r of the offscreen layer into the surface and
// clears it.
func (s *Surface) flush(r image.Rectangle) {
	img := s.layer().backend.Image
	r = r.Intersect(img.Rect)
	if r.Empty() {
		return
	}
	s.DrawImage(img.SubImage(r).(*image.RGBA), 0, 0)
	draw.Draw(img, r, image.Transparent, image.Point{}, draw.Src)
}

// ellipseBounds returns the bounding box of an ellipse rotated by rot.
func (s *Surface) ellipseBounds(cx, cy, rx, ry, rot, pad float64) image.Rectangle {
	sin, cos := math.Sincos(rot)
	ex := math.Hypot(rx*cos, ry*sin)
	ey := math.Hypot(rx*sin, ry*cos)
	return s.bounds(cx-ex, cy-ey, cx+ex, cy+ey, pad+1)
}

// fillEllipsePath fills an ellipse in c onto the offscreen layer and
// returns the region it may have touched.
func (s *Surface) fillEllipsePath(cx, cy, rx, ry, rot float64, c color.Color) image.Rectangle {
	gc := s.graphicContext()
	gc.Translate(cx, cy)
	gc.Rotate(rot)
	gc.SetFillColor(c)
	gc.BeginPath()
	gc.ArcTo(0, 0, rx, ry, 0, 2*math.Pi)
	gc.Close()
	gc.Fill()
	return s.ellipseBounds(cx, cy, rx, ry, rot, 0)
}
