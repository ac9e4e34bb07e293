package ft8

import (
	"math"
	"sort"

	"github.com/n0ypr/ft8decode/ft8/ldpccode"
)

/*
 * Ordered Statistics Decoding fallback (component E, part 2). Grounded
 * on original_source/src/ldpc/mod.rs's DecodeDepth/decode_hybrid_with_ap
 * doc comments for the overall shape. ft8/decoder.go runs OSD on the
 * channel LLRs only, after BP fails; no BP-iteration LLR snapshots are
 * taken or passed to OSD. The GF(2) linear algebra below
 * is hand-rolled (see DESIGN.md for why no library fits) following
 * spec §4.5.2.
 */

type gf2Row struct {
	bits [2]uint64 // 91-bit vector, bit i in word i/64
	rhs  byte
}

func bitsSet(v *[2]uint64, i int) bool  { return v[i/64]&(1<<uint(i%64)) != 0 }
func bitsFlip(v *[2]uint64, i int)      { v[i/64] ^= 1 << uint(i%64) }
func bitsXor(a, b *[2]uint64) [2]uint64 { return [2]uint64{a[0] ^ b[0], a[1] ^ b[1]} }
func bitsIsZero(v *[2]uint64) bool      { return v[0] == 0 && v[1] == 0 }

// columnVector returns the 91-bit generator column for codeword
// position pos: e_pos for an information position, or the set of
// information-variable neighbours of check (pos-K) for a parity
// position (spec §4.5.2's "generator matrix via the code definition").
func columnVector(code *ldpccode.Code, pos int) [2]uint64 {
	var v [2]uint64
	if pos < code.K {
		bitsFlip(&v, pos)
		return v
	}
	m := pos - code.K
	for _, n := range code.RowVars[m] {
		if n < code.K {
			bitsFlip(&v, n)
		}
	}
	return v
}

// OSDDecode attempts Ordered Statistics Decoding of the given order
// (0-4) against llr, returning the full 174-bit codeword and whether it
// passed CRC-14.
func OSDDecode(llr []float64, code *ldpccode.Code, order int) (codeword []byte, ok bool) {
	hard := make([]byte, code.N)
	for i, v := range llr {
		if v > 0 {
			hard[i] = 1
		}
	}

	order64 := make([]int, code.N)
	for i := range order64 {
		order64[i] = i
	}
	sort.Slice(order64, func(i, j int) bool {
		return math.Abs(llr[order64[i]]) > math.Abs(llr[order64[j]])
	})

	var basis []gf2Row
	var selectedPos []int

	for _, pos := range order64 {
		col := columnVector(code, pos)
		rhs := hard[pos]
		for _, row := range basis {
			pivot := lowestSetBit(&row.bits)
			if bitsSet(&col, pivot) {
				col = bitsXor(&col, &row.bits)
				rhs ^= row.rhs
			}
		}
		if bitsIsZero(&col) {
			continue
		}
		basis = append(basis, gf2Row{bits: col, rhs: rhs})
		selectedPos = append(selectedPos, pos)
		if len(basis) == code.K {
			break
		}
	}
	if len(basis) != code.K {
		return nil, false
	}

	// Full diagonalisation: eliminate each row's pivot from every
	// other row so msg[pivot] = rhs directly.
	pivots := make([]int, len(basis))
	for i := range basis {
		pivots[i] = lowestSetBit(&basis[i].bits)
	}
	for i := range basis {
		for j := range basis {
			if i == j {
				continue
			}
			if bitsSet(&basis[j].bits, pivots[i]) {
				basis[j].bits = bitsXor(&basis[j].bits, &basis[i].bits)
				basis[j].rhs ^= basis[i].rhs
			}
		}
	}

	msg := make([]byte, code.K)
	reliability := make([]float64, code.K)
	for i := range basis {
		msg[pivots[i]] = basis[i].rhs
		reliability[pivots[i]] = math.Abs(llr[selectedPos[i]])
	}

	// Bounded bit-flip search over the least reliable information bits.
	flipCandidates := leastReliableIndices(reliability, order*4+4)

	bestDist := math.Inf(1)
	var best []byte
	found := false

	tryMsg := func(trial []byte) {
		cw := code.Encode(trial)
		a91 := PackBits(cw[:FTX_LDPC_K], FTX_LDPC_K)
		extracted := ExtractCRC(a91)
		a91[9] &= 0xF8
		a91[10] &= 0x00
		computed := ComputeCRC(a91, 96-14)
		if extracted != computed {
			return
		}
		dist := 0.0
		for i, b := range cw {
			if b != hard[i] {
				dist += math.Abs(llr[i])
			}
		}
		if dist < bestDist {
			bestDist = dist
			best = cw
			found = true
		}
	}

	n := len(flipCandidates)
	for mask := 0; mask < (1 << uint(n)); mask++ {
		if popcount(mask) > order {
			continue
		}
		trial := append([]byte(nil), msg...)
		for i, idx := range flipCandidates {
			if mask&(1<<uint(i)) != 0 {
				trial[idx] ^= 1
			}
		}
		tryMsg(trial)
	}

	if !found {
		return nil, false
	}
	return best, true
}

func lowestSetBit(v *[2]uint64) int {
	if v[0] != 0 {
		return trailingZeros64(v[0])
	}
	return 64 + trailingZeros64(v[1])
}

func trailingZeros64(x uint64) int {
	if x == 0 {
		return 64
	}
	n := 0
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}

func popcount(x int) int {
	n := 0
	for x != 0 {
		n += x & 1
		x >>= 1
	}
	return n
}

func leastReliableIndices(reliability []float64, count int) []int {
	idx := make([]int, len(reliability))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return reliability[idx[i]] < reliability[idx[j]] })
	if count > len(idx) {
		count = len(idx)
	}
	if count > 16 {
		count = 16 // bound the 2^count brute-force search
	}
	return idx[:count]
}
