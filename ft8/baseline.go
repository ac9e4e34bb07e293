package ft8

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

/*
 * Noise baseline fit (component A, part 2). Algorithm grounded on the
 * teacher's calculateBaseline: ten equal-width segments, 10th-percentile
 * lower envelope, polynomial fit centred on the mid-bin, +0.65 dB. The
 * teacher's hand-rolled pctile/polyfit/gaussianElimination are replaced
 * by gonum/stat.Quantile and a gonum/mat least-squares solve.
 */

// FitBaseline fits the dB-scale noise baseline across bins [fa, fb] of
// avg (linear power, one value per bin). Returns the dB baseline and
// its linear-scale companion (both length len(avg), zero outside
// [fa, fb]). Falls back to a lower polynomial degree, then a constant,
// if the design matrix is singular at the requested degree -- this is
// the NumericalDegenerate case, recovered locally and never surfaced.
func FitBaseline(avg []float64, fa, fb int, maxDegree int) (dbBaseline []float64, linBaseline []float64) {
	npts := len(avg)
	dbBaseline = make([]float64, npts)
	linBaseline = make([]float64, npts)

	if fb <= fa || fa < 0 || fb >= npts {
		return dbBaseline, linBaseline
	}

	sDB := make([]float64, npts)
	for i := fa; i <= fb; i++ {
		if avg[i] > 0 {
			sDB[i] = 10.0 * math.Log10(avg[i])
		} else {
			sDB[i] = -300.0
		}
	}

	const nseg = 10
	const npct = 10.0
	segLen := (fb - fa + 1) / nseg
	if segLen < 1 {
		segLen = 1
	}
	mid := fa + (fb-fa+1)/2

	var xs, ys []float64
	for seg := 0; seg < nseg; seg++ {
		ja := fa + seg*segLen
		jb := ja + segLen - 1
		if jb > fb {
			jb = fb
		}
		if ja > jb {
			continue
		}
		segment := append([]float64(nil), sDB[ja:jb+1]...)
		threshold := quantile(segment, npct/100.0)
		for i := ja; i <= jb; i++ {
			if sDB[i] <= threshold {
				xs = append(xs, float64(i-mid))
				ys = append(ys, sDB[i])
			}
		}
	}

	coeffs, err := polyfitLeastSquares(xs, ys, maxDegree)
	if err != nil {
		// NumericalDegenerate: fall back to degree 2, then constant.
		for _, degree := range []int{2, 0} {
			if err == nil || degree >= maxDegree {
				continue
			}
			coeffs, err = polyfitLeastSquares(xs, ys, degree)
		}
		if err != nil {
			mean := 0.0
			for _, y := range ys {
				mean += y
			}
			if len(ys) > 0 {
				mean /= float64(len(ys))
			}
			coeffs = []float64{mean}
		}
	}

	for i := fa; i <= fb; i++ {
		t := float64(i - mid)
		dbBaseline[i] = evalPoly(coeffs, t) + 0.65
		linBaseline[i] = math.Pow(10.0, 0.1*(dbBaseline[i]-40.0))
	}

	return dbBaseline, linBaseline
}

// quantile returns the nearest-rank p-quantile of data (p in [0,1]),
// matching the spec's "nearest integer" rounding convention.
func quantile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// polyfitLeastSquares fits y = sum(coeffs[i] * x^i) by ordinary least
// squares over the Vandermonde design matrix, degree as requested.
func polyfitLeastSquares(x, y []float64, degree int) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, &NumericalDegenerateError{Detail: "no envelope points"}
	}
	terms := degree + 1
	if terms > n {
		return nil, &NumericalDegenerateError{Detail: "fewer points than polynomial terms"}
	}

	design := mat.NewDense(n, terms, nil)
	for i := 0; i < n; i++ {
		xi := 1.0
		for j := 0; j < terms; j++ {
			design.Set(i, j, xi)
			xi *= x[i]
		}
	}
	target := mat.NewVecDense(n, y)

	var coeffsVec mat.VecDense
	if err := coeffsVec.SolveVec(design, target); err != nil {
		return nil, &NumericalDegenerateError{Detail: err.Error()}
	}

	coeffs := make([]float64, terms)
	for i := 0; i < terms; i++ {
		coeffs[i] = coeffsVec.AtVec(i)
	}
	return coeffs, nil
}

func evalPoly(coeffs []float64, x float64) float64 {
	result := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result*x + coeffs[i]
	}
	return result
}
