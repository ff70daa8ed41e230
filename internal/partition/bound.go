package partition

import "math"

// LowerBoundBytes approximates log2(n choose r)/8, the minimum size of any
// encoding of an r element subset of an n element set, via n·H(r/n)/8
// (Stirling). Here n = okCount + revokedCount and r = revokedCount.
func LowerBoundBytes(okCount, revokedCount uint64) float64 {
	if okCount == 0 || revokedCount == 0 {
		return 0
	}
	r := float64(revokedCount)
	n := float64(okCount) + r
	p := r / n
	entropy := -p*math.Log2(p) - (1-p)*math.Log2(1-p)
	return n * entropy / 8
}

// segmentLowerBound is the reported bound for a segment of n certificates
// with r revoked. The segment size is passed as the ok count, so the
// population is n+r.
func segmentLowerBound(r, n uint64) float64 {
	return LowerBoundBytes(n, r)
}
