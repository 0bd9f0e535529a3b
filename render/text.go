package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Text draws s with its baseline starting at (x, y) using the fixed 7x13
// face. Text ignores the blend mode and is drawn source-over with the
// global alpha.
func (s *Surface) Text(x, y float64, str string, c color.Color) {
	if s.Empty() || str == "" || !finite(x, y) {
		return
	}
	cr, cg, cb, ca := premul(c)
	alpha := clamp01(s.Alpha)
	src := image.NewUniform(color.RGBA{
		to8(cr * alpha), to8(cg * alpha), to8(cb * alpha), to8(ca * alpha),
	})
	d := &font.Drawer{
		Dst:  s.Img,
		Src:  src,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(x+0.5), int(y+0.5)),
	}
	d.DrawString(str)
}

// TextWidth returns the advance of str in pixels.
func TextWidth(str string) float64 {
	return float64(font.MeasureString(basicfont.Face7x13, str).Ceil())
}

// TextHeight returns the line height of the text face.
func TextHeight() float64 { return float64(basicfont.Face7x13.Height) }
