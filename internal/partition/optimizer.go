package partition

import (
	"fmt"
	"math"
)

// step is one DP cell: the minimum cost of partitioning records[0..=i] and
// the start index of the last segment in that partition.
type step struct {
	cost  Bits
	split int
}

// Partition returns the minimum-cost segmentation of records into
// contiguous segments. Records must be non-empty, individually valid, and
// ordered by strictly increasing Time.
//
// When several split points give the same cost, the latest one (the
// shortest trailing segment) is kept.
func Partition(records []Record) (Result, error) {
	if len(records) == 0 {
		return Result{}, ErrEmptyInput
	}
	totalR, totalN, err := validate(records)
	if err != nil {
		return Result{}, err
	}

	n := len(records)
	dp := make([]step, n)
	lowerBound := make([]float64, n)

	dp[0] = step{cost: cost(records[0].R, records[0].N), split: 0}
	lowerBound[0] = segmentLowerBound(records[0].R, records[0].N)
	for i := 1; i < n; i++ {
		dp[i] = step{cost: math.MaxUint64, split: 0}
		var segR, segN uint64
		for j := i; j >= 0; j-- {
			segR += records[j].R
			segN += records[j].N
			c := cost(segR, segN)
			if j > 0 {
				c += dp[j-1].cost
			}
			if c < dp[i].cost {
				dp[i] = step{cost: c, split: j}
				lowerBound[i] = segmentLowerBound(segR, segN)
				if j > 0 {
					lowerBound[i] += lowerBound[j-1]
				}
			}
		}
	}

	best := dp[n-1]
	return Result{
		Boundaries: backtrack(records, dp),
		Bits:       best.cost,
		Unpartitioned: Estimate{
			Cost:       cost(totalR, totalN).Bytes(),
			LowerBound: segmentLowerBound(totalR, totalN),
		},
		Partitioned: Estimate{
			Cost:       best.cost.Bytes(),
			LowerBound: lowerBound[n-1],
		},
	}, nil
}

// backtrack walks the split chain from the last record and returns the
// segment start times in ascending order, leading with the sentinel 0.
func backtrack(records []Record, dp []step) Metadata {
	var meta Metadata
	left := dp[len(dp)-1].split
	for left != 0 {
		meta = append(meta, records[left].Time)
		left = dp[left-1].split
	}
	meta = append(meta, 0)
	for i, j := 0, len(meta)-1; i < j; i, j = i+1, j-1 {
		meta[i], meta[j] = meta[j], meta[i]
	}
	return meta
}

// validate checks every record and the ordering, and returns the totals.
// A partition into k segments costs at most 2·totalN + k·MetaSize bits, so
// bounding that for k = len(records) keeps every DP sum within uint64.
func validate(records []Record) (totalR, totalN uint64, err error) {
	limit := (math.MaxUint64 - uint64(len(records))*uint64(MetaSize)) / 2
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return 0, 0, fmt.Errorf("record %d: %w", i, err)
		}
		if i > 0 && rec.Time <= records[i-1].Time {
			return 0, 0, fmt.Errorf("record %d: %w (time %d after %d)", i, ErrUnordered, rec.Time, records[i-1].Time)
		}
		if rec.N > limit || totalN > limit-rec.N {
			return 0, 0, fmt.Errorf("record %d: %w", i, ErrCountOverflow)
		}
		totalN += rec.N
		totalR += rec.R
	}
	return totalR, totalN, nil
}
