package ft8

import (
	"math"

	"github.com/n0ypr/ft8decode/ft8/ldpccode"
)

/*
 * Belief-propagation LDPC decode (component E, part 1). Grounded on the
 * teacher's ldpc.go bpDecode (tov/toc message-passing structure kept),
 * adapted to min-sum with 0.75 attenuation over the generic sparse
 * graph in ft8/ldpccode rather than the teacher's undefined fixed-size
 * LDPC_Nm/LDPC_Mn tables (spec §4.5.1; see DESIGN.md for why those
 * teacher tables could not be reused as-is).
 */

const minSumAttenuation = 0.75

// BPDecode runs up to maxIters rounds of min-sum belief propagation
// over code, checking all parity equations after every iteration.
// Returns the hard-decision codeword, the iteration at which it
// converged (or maxIters if it never did), and whether all M parity
// equations were satisfied.
func BPDecode(llr []float64, code *ldpccode.Code, maxIters int) (codeword []byte, iters int, ok bool) {
	n := code.N
	varToCheck := make([][]float64, n)
	for v := 0; v < n; v++ {
		varToCheck[v] = make([]float64, len(code.ColChecks[v]))
	}
	checkToVar := make([][]float64, code.M)
	for m := 0; m < code.M; m++ {
		checkToVar[m] = make([]float64, len(code.RowVars[m]))
	}

	plain := make([]byte, n)

	for iter := 1; iter <= maxIters; iter++ {
		// Hard decision and variable->check messages.
		for v := 0; v < n; v++ {
			total := llr[v]
			for i, m := range code.ColChecks[v] {
				j := indexOf(code.RowVars[m], v)
				total += checkToVar[m][j]
				_ = i
			}
			if total > 0 {
				plain[v] = 1
			} else {
				plain[v] = 0
			}
		}

		if code.CheckParity(plain) == 0 {
			return plain, iter, true
		}

		for v := 0; v < n; v++ {
			for i, m := range code.ColChecks[v] {
				j := indexOf(code.RowVars[m], v)
				total := llr[v]
				for k, mk := range code.ColChecks[v] {
					if k == i {
						continue
					}
					jk := indexOf(code.RowVars[mk], v)
					total += checkToVar[mk][jk]
				}
				varToCheck[v][i] = total
				_ = j
			}
		}

		for m := 0; m < code.M; m++ {
			vars := code.RowVars[m]
			for j, v := range vars {
				sign := 1.0
				minMag := math.Inf(1)
				for k, vk := range vars {
					if k == j {
						continue
					}
					i := indexOf(code.ColChecks[vk], m)
					val := varToCheck[vk][i]
					if val < 0 {
						sign = -sign
					}
					mag := math.Abs(val)
					if mag < minMag {
						minMag = mag
					}
				}
				if math.IsInf(minMag, 1) {
					minMag = 0
				}
				checkToVar[m][j] = sign * minSumAttenuation * minMag
				_ = v
			}
		}
	}

	iters = maxIters
	ok = code.CheckParity(plain) == 0
	return plain, iters, ok
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
