/*package interpolate contains one-dimensional interpolators used to build
smooth color ramps and transfer curves.
*/
package interpolate

type Interpolator interface {
	Eval(x float64) float64
	EvalAll(xs []float64, out ...[]float64) []float64
}

var (
	_ Interpolator = &Linear{}
)
