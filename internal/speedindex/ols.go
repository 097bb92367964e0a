package speedindex

import (
	"errors"
	"math"
)

const ridgeFactor = 1e-10

var errSingularSystem = errors.New("normal equations are singular")

// leastSquares solves min ||y - X*beta|| through the normal equations.
// A small ridge on the diagonal keeps rank deficient designs solvable; the
// fitted values are unaffected in that case.
func leastSquares(x [][]float64, y []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, errSingularSystem
	}
	p := len(x[0])

	a := make([][]float64, p)
	for i := range a {
		a[i] = make([]float64, p+1)
	}
	for r, line := range x {
		for i := 0; i < p; i++ {
			for j := i; j < p; j++ {
				a[i][j] += line[i] * line[j]
			}
			a[i][p] += line[i] * y[r]
		}
	}
	trace := 0.0
	for i := 0; i < p; i++ {
		for j := 0; j < i; j++ {
			a[i][j] = a[j][i]
		}
		trace += a[i][i]
	}
	ridge := ridgeFactor * trace / float64(p)
	for i := 0; i < p; i++ {
		a[i][i] += ridge
	}

	return gaussianElimination(a)
}

// gaussianElimination solves the augmented system a with partial pivoting
func gaussianElimination(a [][]float64) ([]float64, error) {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if a[pivot][col] == 0 {
			return nil, errSingularSystem
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	beta := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := a[i][n]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * beta[j]
		}
		beta[i] = sum / a[i][i]
	}
	return beta, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
