package render

import (
	"fmt"
	"image/color"
	"math"
)

var (
	horizonStroke = color.NRGBA{255, 255, 255, 153}
	horizonLabel  = color.NRGBA{255, 255, 255, 204}
	infoColor     = color.NRGBA{0x55, 0x55, 0x55, 0xff}
	borderStroke  = color.NRGBA{255, 0, 0, 128}
)

// TransitionT returns how far z lies between zEnd and zStart on a log
// scale, clamped to [0, 1]. It is 0 at or below zEnd.
func TransitionT(z, zEnd, zStart float64) float64 {
	if z <= zEnd || zEnd <= 0 || zStart <= zEnd {
		return 0
	}
	t := (math.Log10(z) - math.Log10(zEnd)) / (math.Log10(zStart) - math.Log10(zEnd))
	return clamp01(t)
}

// MaskRadii returns the semi-axes of the observable-universe mask on a
// w x h view at transition fraction t. The mask shrinks from an ellipse
// that covers the whole view towards one of width widthRatio * w.
func MaskRadii(w, h int, t, margin, widthRatio float64) (rx, ry float64) {
	targetRy := float64(w) * widthRatio * 0.5
	startRy := math.Hypot(float64(w)/4, float64(h)/2) * margin
	ry = startRy + (targetRy-startRy)*t
	return 2 * ry, ry
}

// DrawHorizon strokes the dashed sound horizon of radius r around
// (cx, cy), squashed vertically by scaleY, and labels it.
func (s *Surface) DrawHorizon(cx, cy, r, scaleY float64) {
	if s.Empty() || !(r > 0) {
		return
	}
	s.StrokeEllipse(cx, cy, r, r*scaleY, 2, []float64{6, 4}, horizonStroke)
	s.Text(cx+r+5, cy, "Sound Horizon (rs)", horizonLabel)
}

// DrawTileBorder strokes the dashed outline of the tile at (x, y).
func (s *Surface) DrawTileBorder(x, y, box float64) {
	s.StrokeRect(x, y, box, box, 2, []float64{5, 5}, borderStroke)
}

// InfoLines formats the redshift, expansion rate and scale factor readout.
func InfoLines(z, e, a float64) []string {
	zs := fmt.Sprintf("%.2f", z)
	if z > 10 {
		zs = fmt.Sprintf("%.0f", math.Round(z))
	}
	return []string{
		"z = " + zs,
		fmt.Sprintf("Expansion Rate H(z) = %.2f H0", e),
		fmt.Sprintf("Scale Factor a = %.5f", a),
	}
}

// DrawInfo writes lines in the bottom-left corner, 20 pixels apart, with
// the last line 20 pixels above the bottom edge.
func (s *Surface) DrawInfo(lines []string) {
	if s.Empty() {
		return
	}
	h := float64(s.Height())
	for i, line := range lines {
		y := h - 20*float64(len(lines)-i)
		s.Text(20, y, line, infoColor)
	}
}
