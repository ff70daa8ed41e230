// Package partition chooses how to split an ordered run of certificate
// time buckets into contiguous segments so that encoding one Clubcard-style
// membership filter per segment minimizes the total encoded size.
//
// # Cost model
//
// Cost estimates, in bits, the size of a single segment covering n
// certificates of which r are revoked. The minority side is encoded: each
// minority element gets a rank-bit offset plus a flag bit, and the majority
// side is summarized by a coarse bitmap of (n-r)>>rank bits. Every segment
// also pays a fixed META_SIZE of 640 bits.
//
// LowerBoundBytes is the entropy bound n·H(r/n)/8 for the same segment. It
// is reported next to the achieved cost and never influences a decision.
//
// # Optimizer
//
// Partition runs an O(len²) dynamic program over the records, analogous to
// optimal line breaking, and backtracks the winning segment starts into a
// Metadata slice:
//
//	res, err := partition.Partition([]partition.Record{
//	    {Time: 100, N: 10000, R: 0},
//	    {Time: 200, N: 10000, R: 10000},
//	})
//	if err != nil { /* handle */ }
//	// res.Boundaries == Metadata{0, 200}
//
// The first boundary is always the sentinel 0, meaning "start of dataset".
//
// All arithmetic in the optimizer happens in Bits. Bits.Bytes is the only
// conversion to bytes and is used for reporting only; truncating earlier
// would change which segmentation wins.
package partition
