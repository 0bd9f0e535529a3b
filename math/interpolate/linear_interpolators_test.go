package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinear(t *testing.T) {
	lin := NewLinear([]float64{0, 0.25, 0.5, 0.75, 1}, []float64{0, 50, 255, 155, 255})

	table := []struct {
		x, val float64
	}{
		{0, 0}, {0.125, 25}, {0.25, 50}, {0.5, 255}, {0.625, 205},
		{0.75, 155}, {1, 255}, {-1, 0}, {2, 255},
	}

	for i, test := range table {
		val := lin.Eval(test.x)
		assert.InDelta(t, test.val, val, 1e-9, "%d) x = %g", i, test.x)
	}
}

func TestUniformLinear(t *testing.T) {
	lin := NewUniformLinear(0, 0.25, []float64{80, 255, 205, 0, 255})
	assert.InDelta(t, 80, lin.Eval(0), 1e-9)
	assert.InDelta(t, 230, lin.Eval(0.375), 1e-9)
	assert.InDelta(t, 255, lin.Eval(1), 1e-9)
	assert.InDelta(t, 127.5, lin.Eval(0.875), 1e-9)
}

func TestEvalAll(t *testing.T) {
	lin := NewLinear([]float64{0, 1}, []float64{0, 10})
	out := make([]float64, 3)
	res := lin.EvalAll([]float64{0, 0.5, 1}, out)
	assert.Equal(t, []float64{0, 5, 10}, out)
	assert.Equal(t, out, res)
	assert.Equal(t, []float64{2, 3}, lin.EvalAll([]float64{0.2, 0.3}))
}

func BenchmarkLinear(b *testing.B) {
	lin := NewLinear([]float64{0, 0.25, 0.5, 0.75, 1}, []float64{0, 50, 255, 155, 255})
	for i := 0; i < b.N; i++ {
		lin.Eval(float64(i%1000) / 1000)
	}
}
