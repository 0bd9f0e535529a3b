package density

const (
	smoothCenter  = 4.0
	smoothDivisor = 12.0
)

// Smoother applies repeated periodic 3x3 box-blur passes to a Grid. The
// kernel weights the center cell by 4 and each of the eight neighbours by
// 1, so total mass is conserved.
type Smoother struct {
	buf []float64
}

// Smooth blurs g in place with the given number of passes.
func (s *Smoother) Smooth(g *Grid, passes int) {
	if passes <= 0 {
		return
	}
	if cap(s.buf) < g.Area {
		s.buf = make([]float64, g.Area)
	}
	s.buf = s.buf[:g.Area]

	src, dst := g.Rhos, s.buf
	for p := 0; p < passes; p++ {
		smoothPass(g, src, dst)
		src, dst = dst, src
	}

	// After an odd number of passes the result lives in the scratch buffer.
	if passes%2 == 1 {
		copy(g.Rhos, src)
	}
}

func smoothPass(g *Grid, src, dst []float64) {
	cols, rows := g.Cols, g.Rows
	for r := 0; r < rows; r++ {
		rm, rp := wrapNbrs(r, rows)
		for c := 0; c < cols; c++ {
			cm, cp := wrapNbrs(c, cols)
			sum := src[c+r*cols]*smoothCenter +
				src[cm+r*cols] + src[cp+r*cols] +
				src[c+rm*cols] + src[c+rp*cols] +
				src[cm+rm*cols] + src[cp+rm*cols] +
				src[cm+rp*cols] + src[cp+rp*cols]
			dst[c+r*cols] = sum / smoothDivisor
		}
	}
}

// wrapNbrs returns the periodic lower and upper neighbours of i.
func wrapNbrs(i, width int) (lo, hi int) {
	lo, hi = i-1, i+1
	if lo < 0 {
		lo += width
	}
	if hi >= width {
		hi -= width
	}
	return lo, hi
}
