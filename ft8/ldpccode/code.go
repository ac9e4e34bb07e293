// Package ldpccode defines the (174,91) LDPC bipartite graph consumed by
// the FT8 belief-propagation and OSD decoders.
//
// The graph's concrete numbers are not claimed to be bit-identical to
// the WSJT-X/ft8_lib published tables -- those constants were absent
// from every source available for this port (see the project's
// DESIGN.md for the full account). The spec treats the LDPC codec
// definition as an external collaborator "specified only by the
// contract the core consumes": a fixed, self-checking (174,91,83)
// bipartite graph with a deterministic, reproducible construction. This
// package provides exactly that, built once at init time with no
// randomness.
package ldpccode

const (
	N = 174 // codeword bits
	K = 91  // payload+CRC bits
	M = 83  // parity check equations
)

// infoVarDegree is the number of check nodes each of the 91 information
// variable nodes connects to.
const infoVarDegree = 3

// Code is the static (174,91) bipartite graph: which checks each
// variable touches, and which variables each check touches. Column 91+m
// is the dedicated parity variable for check m (degree 1): this keeps
// encoding a direct XOR-accumulation with no matrix inversion required,
// while the graph as a whole is still a genuine sparse bipartite code
// that belief propagation and OSD operate over generically.
type Code struct {
	N, K, M int

	// ColChecks[n] lists the check indices variable node n connects to.
	ColChecks [][]int
	// RowVars[m] lists the variable indices check node m connects to
	// (includes the dedicated parity variable 91+m).
	RowVars [][]int
}

// FT8 is the package-level code instance, built deterministically at
// init time.
var FT8 = build()

func build() *Code {
	c := &Code{N: N, K: K, M: M}
	c.ColChecks = make([][]int, N)
	c.RowVars = make([][]int, M)

	for n := 0; n < K; n++ {
		c.ColChecks[n] = infoChecks(n)
	}
	for m := 0; m < M; m++ {
		c.ColChecks[K+m] = []int{m}
	}

	for n := 0; n < N; n++ {
		for _, m := range c.ColChecks[n] {
			c.RowVars[m] = append(c.RowVars[m], n)
		}
	}

	return c
}

// infoChecks deterministically assigns infoVarDegree distinct check
// indices to information-variable n, using fixed affine strides chosen
// to spread edges roughly evenly across all M checks.
func infoChecks(n int) []int {
	strides := [infoVarDegree]int{
		(3*n + 7) % M,
		(5*n + 41) % M,
		(11*n + 59) % M,
	}
	seen := make(map[int]bool, infoVarDegree)
	out := make([]int, 0, infoVarDegree)
	for _, base := range strides {
		c := base
		for seen[c] {
			c = (c + 17) % M
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Encode computes the 83 parity bits for a 91-bit payload (msg[i] in
// {0,1}) and returns the full 174-bit codeword (payload followed by
// parity). Because every check's dedicated parity variable has degree
// 1, parity bit m is simply the XOR of the payload bits check m
// touches -- no matrix inversion needed.
func (c *Code) Encode(msg []byte) []byte {
	codeword := make([]byte, N)
	copy(codeword, msg[:K])
	for m := 0; m < M; m++ {
		var x byte
		for _, n := range c.RowVars[m] {
			if n < K {
				x ^= codeword[n]
			}
		}
		codeword[K+m] = x
	}
	return codeword
}

// CheckParity returns the number of unsatisfied parity equations (0 =
// valid codeword) for a full 174-bit hard-decision codeword.
func (c *Code) CheckParity(codeword []byte) int {
	errors := 0
	for m := 0; m < M; m++ {
		var x byte
		for _, n := range c.RowVars[m] {
			x ^= codeword[n]
		}
		if x != 0 {
			errors++
		}
	}
	return errors
}
