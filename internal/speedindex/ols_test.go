package speedindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeastSquares_ExactLine(t *testing.T) {
	var x [][]float64
	var y []float64
	for i := 0; i < 10; i++ {
		v := float64(i)
		x = append(x, []float64{1, v})
		y = append(y, 2+3*v)
	}

	beta, err := leastSquares(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, beta[0], 1e-6)
	assert.InDelta(t, 3.0, beta[1], 1e-6)
}

func TestLeastSquares_CollinearColumnsStillFit(t *testing.T) {
	var x [][]float64
	var y []float64
	for i := 0; i < 8; i++ {
		v := float64(i)
		x = append(x, []float64{1, v, 2 * v})
		y = append(y, 1+v)
	}

	beta, err := leastSquares(x, y)
	require.NoError(t, err)
	for i := range x {
		assert.InDelta(t, y[i], dot(x[i], beta), 1e-4)
	}
}

func TestLeastSquares_Empty(t *testing.T) {
	_, err := leastSquares(nil, nil)
	assert.ErrorIs(t, err, errSingularSystem)
}
