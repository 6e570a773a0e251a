package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TrajectoryMatrix builds the Hankel trajectory matrix of a series: window
// rows by len(xs)-window columns, where column j holds xs[j : j+window].
// NaN values are rejected because SVD cannot handle them.
func TrajectoryMatrix(xs []float64, window int) (*mat.Dense, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	cols := len(xs) - window
	if cols < 1 {
		return nil, fmt.Errorf("series too short for window %d: have %d points", window, len(xs))
	}

	a := mat.NewDense(window, cols, nil)
	for j := 0; j < cols; j++ {
		for i := 0; i < window; i++ {
			v := xs[j+i]
			if math.IsNaN(v) {
				return nil, fmt.Errorf("NaN at index %d; interpolate or trim gaps before SVD", j+i)
			}
			a.Set(i, j, v)
		}
	}
	return a, nil
}

// SingularValues returns the singular values of m in descending order, the
// input of a scree diagram.
func SingularValues(m *mat.Dense) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDNone); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}
	return svd.Values(nil), nil
}

// TrajectorySVD is the full decomposition of the trajectory matrix of xs:
// left singular vectors, singular values and right singular vectors.
func TrajectorySVD(xs []float64, window int) (u *mat.Dense, values []float64, v *mat.Dense, err error) {
	a, err := TrajectoryMatrix(xs, window)
	if err != nil {
		return nil, nil, nil, err
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, nil, nil, fmt.Errorf("svd factorization failed")
	}

	u = &mat.Dense{}
	v = &mat.Dense{}
	svd.UTo(u)
	svd.VTo(v)
	return u, svd.Values(nil), v, nil
}
