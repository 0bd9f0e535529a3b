package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// periodic 2D grid.
type Grid struct {
	Cols, Rows, Area int
}

// NewGrid returns a new Grid instance.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{}
	g.Init(cols, rows)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(cols, rows int) {
	g.Cols, g.Rows = cols, rows
	g.Area = cols * rows
}

// Idx returns the grid index corresponding to a set of coordinates. The
// coordinates must be in bounds.
func (g *Grid) Idx(c, r int) int {
	return c + r*g.Cols
}

// WrapIdx returns the grid index of the coordinates after wrapping them
// periodically onto the grid.
func (g *Grid) WrapIdx(c, r int) int {
	return PMod(c, g.Cols) + PMod(r, g.Rows)*g.Cols
}

// IdxCheck returns an index and true if the given coordinate are valid and
// false otherwise.
func (g *Grid) IdxCheck(c, r int) (idx int, ok bool) {
	if !g.BoundsCheck(c, r) {
		return -1, false
	}
	return g.Idx(c, r), true
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(c, r int) bool {
	return 0 <= c && 0 <= r && c < g.Cols && r < g.Rows
}

// Coords returns the column and row of a point from its grid index.
func (g *Grid) Coords(idx int) (c, r int) {
	return idx % g.Cols, idx / g.Cols
}

// PMod computes the positive modulo x % y.
func PMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
