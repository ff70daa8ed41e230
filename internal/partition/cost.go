package partition

import (
	"fmt"
	"math"
)

// MetaSize is the fixed per-segment metadata overhead: 80 bytes.
const MetaSize Bits = 80 * 8

// MaxSegmentN is the largest n whose cost fits in Bits. A segment never
// costs more than 2n + MetaSize bits.
const MaxSegmentN = (math.MaxUint64 - uint64(MetaSize)) / 2

// Log2 is math.Log2 with Log2(0) defined as 0.
func Log2(x float64) float64 {
	if x == 0.0 {
		return 0.0
	}
	return math.Log2(x)
}

// Rank returns the bucket width exponent for a segment whose minority side
// has r elements out of n. The caller must pass the already normalized
// minority count (r <= n-r) with r > 0.
//
// The result depends on floor(Log2(ratio)); at exact powers of two the
// ratio must not be perturbed or the rank drops by one.
func Rank(r, n uint64) uint64 {
	if r >= n-r {
		return 0
	}
	return uint64(math.Floor(Log2(float64(n-r) / float64(r))))
}

// Cost estimates the encoded size of a segment of n certificates with r
// revoked. It fails with ErrInvalidRecord unless n >= 1 and r <= n, and
// with ErrCountOverflow when n exceeds MaxSegmentN.
func Cost(r, n uint64) (Bits, error) {
	if n == 0 || r > n {
		return 0, fmt.Errorf("%w: cost(r=%d, n=%d)", ErrInvalidRecord, r, n)
	}
	if n > MaxSegmentN {
		return 0, fmt.Errorf("%w: cost(r=%d, n=%d)", ErrCountOverflow, r, n)
	}
	return cost(r, n), nil
}

// cost is Cost without validation; callers guarantee 1 <= n <= MaxSegmentN
// and r <= n.
func cost(r, n uint64) Bits {
	r = min(r, n-r)
	if r == 0 {
		return MetaSize
	}
	rank := Rank(r, n)
	return Bits(r*rank+r+((n-r)>>rank)) + MetaSize
}
