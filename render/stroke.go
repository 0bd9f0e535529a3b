package render

import (
	"image/color"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dkit"
)

// StrokeLine strokes the segment from (x0, y0) to (x1, y1). A non-empty
// dash slice alternates on and off lengths, starting with on.
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, dash []float64, c color.Color) {
	if !s.strokable(width, x0, y0, x1, y1) {
		return
	}
	s.stroke(width, dash, c, func(p draw2d.PathBuilder) {
		p.MoveTo(x0, y0)
		p.LineTo(x1, y1)
	})
	s.flush(s.bounds(min(x0, x1), min(y0, y1), max(x0, x1), max(y0, y1), width))
}

// StrokeRect strokes the outline of the rectangle at (x, y) with size w x h.
func (s *Surface) StrokeRect(x, y, w, h, width float64, dash []float64, c color.Color) {
	if !s.strokable(width, x, y, w, h) {
		return
	}
	s.stroke(width, dash, c, func(p draw2d.PathBuilder) {
		draw2dkit.Rectangle(p, x, y, x+w, y+h)
	})
	s.flush(s.bounds(min(x, x+w), min(y, y+h), max(x, x+w), max(y, y+h), width))
}

// StrokeEllipse strokes an axis-aligned ellipse with semi-axes rx and ry.
func (s *Surface) StrokeEllipse(cx, cy, rx, ry, width float64, dash []float64, c color.Color) {
	if rx <= 0 || ry <= 0 || !s.strokable(width, cx, cy, rx, ry) {
		return
	}
	s.stroke(width, dash, c, func(p draw2d.PathBuilder) {
		draw2dkit.Ellipse(p, cx, cy, rx, ry)
	})
	s.flush(s.bounds(cx-rx, cy-ry, cx+rx, cy+ry, width))
}

func (s *Surface) strokable(width float64, xs ...float64) bool {
	return !s.Empty() && width > 0 && finite(width) && finite(xs...)
}

// stroke rasterizes the path built by path onto the offscreen layer in a
// single pass, so overlapping segments do not double up.
func (s *Surface) stroke(width float64, dash []float64, c color.Color, path func(draw2d.PathBuilder)) {
	gc := s.graphicContext()
	gc.SetStrokeColor(c)
	gc.SetLineWidth(width)
	gc.SetLineDash(validDash(dash), 0)
	gc.BeginPath()
	path(gc)
	gc.Stroke()
}

// validDash drops dash patterns that would never advance.
func validDash(dash []float64) []float64 {
	sum := 0.0
	for _, d := range dash {
		if d < 0 || !finite(d) {
			return nil
		}
		sum += d
	}
	if sum <= 0 {
		return nil
	}
	if len(dash)%2 == 1 {
		dash = append(append([]float64{}, dash...), dash...)
	}
	return dash
}
