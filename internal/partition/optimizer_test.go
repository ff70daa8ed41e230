package partition

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func mustPartition(t *testing.T, records []Record) Result {
	t.Helper()
	res, err := Partition(records)
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	return res
}

func TestPartitionEmpty(t *testing.T) {
	if _, err := Partition(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("nil input: err = %v", err)
	}
	if _, err := Partition([]Record{}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("empty input: err = %v", err)
	}
}

func TestPartitionRejectsInvalidRecords(t *testing.T) {
	// Largest total N a two record input may carry.
	limit2 := (math.MaxUint64 - 2*uint64(MetaSize)) / 2

	tests := []struct {
		name    string
		records []Record
		want    error
	}{
		{
			name:    "zero n",
			records: []Record{{Time: 1, N: 5, R: 0}, {Time: 2, N: 0, R: 0}},
			want:    ErrInvalidRecord,
		},
		{
			name:    "r exceeds n",
			records: []Record{{Time: 1, N: 5, R: 6}},
			want:    ErrInvalidRecord,
		},
		{
			name:    "duplicate time",
			records: []Record{{Time: 1, N: 5, R: 0}, {Time: 1, N: 5, R: 0}},
			want:    ErrUnordered,
		},
		{
			name:    "decreasing time",
			records: []Record{{Time: 9, N: 5, R: 0}, {Time: 3, N: 5, R: 0}},
			want:    ErrUnordered,
		},
		{
			name:    "total wraps",
			records: []Record{{Time: 1, N: math.MaxUint64, R: 0}, {Time: 2, N: 1, R: 0}},
			want:    ErrCountOverflow,
		},
		{
			name:    "single record cost wraps",
			records: []Record{{Time: 1, N: math.MaxUint64, R: math.MaxUint64 / 2}},
			want:    ErrCountOverflow,
		},
		{
			name:    "total one past limit",
			records: []Record{{Time: 1, N: limit2, R: 0}, {Time: 2, N: 1, R: 1}},
			want:    ErrCountOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Partition(tt.records); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPartitionAtCountLimit(t *testing.T) {
	res := mustPartition(t, []Record{{Time: 1, N: MaxSegmentN, R: MaxSegmentN / 2}})
	if want := Bits(MaxSegmentN) + MetaSize; res.Bits != want {
		t.Fatalf("bits = %d, want %d", res.Bits, want)
	}

	limit2 := (math.MaxUint64 - 2*uint64(MetaSize)) / 2
	res = mustPartition(t, []Record{{Time: 1, N: limit2 - 1, R: 0}, {Time: 2, N: 1, R: 1}})
	if res.Bits < MetaSize || res.Bits >= 2*MetaSize {
		t.Fatalf("bits = %d, want one segment", res.Bits)
	}
	if !reflect.DeepEqual(res.Boundaries, Metadata{0}) {
		t.Fatalf("boundaries = %v", res.Boundaries)
	}
}

func TestPartitionSingleRecord(t *testing.T) {
	res := mustPartition(t, []Record{{Time: 100, N: 10, R: 0}})
	if !reflect.DeepEqual(res.Boundaries, Metadata{0}) {
		t.Fatalf("boundaries = %v", res.Boundaries)
	}
	if res.Bits != MetaSize || res.Segments() != 1 {
		t.Fatalf("bits = %d segments = %d", res.Bits, res.Segments())
	}
}

func TestPartitionMergesWhenMetadataDominates(t *testing.T) {
	// Splitting costs 2*MetaSize; merging costs cost(10, 20) = 20 + MetaSize.
	res := mustPartition(t, []Record{
		{Time: 100, N: 10, R: 0},
		{Time: 200, N: 10, R: 10},
	})
	if !reflect.DeepEqual(res.Boundaries, Metadata{0}) {
		t.Fatalf("boundaries = %v", res.Boundaries)
	}
	if res.Bits != 20+MetaSize || res.Partitioned.Cost != 82 {
		t.Fatalf("bits = %d bytes = %d", res.Bits, res.Partitioned.Cost)
	}
	if res.Unpartitioned != res.Partitioned {
		t.Fatalf("single segment estimates differ: %+v vs %+v", res.Unpartitioned, res.Partitioned)
	}
	// LowerBoundBytes(20, 10) = 30·H(1/3)/8.
	if !approx(res.Unpartitioned.LowerBound, 3.4436093777043357, 1e-9) {
		t.Fatalf("unpartitioned lower bound = %v", res.Unpartitioned.LowerBound)
	}
}

func TestPartitionSplitsDenseBlock(t *testing.T) {
	res := mustPartition(t, []Record{
		{Time: 100, N: 10000, R: 0},
		{Time: 200, N: 10000, R: 10000},
		{Time: 300, N: 10000, R: 0},
	})
	if !reflect.DeepEqual(res.Boundaries, Metadata{0, 200, 300}) {
		t.Fatalf("boundaries = %v", res.Boundaries)
	}
	if res.Bits != 3*MetaSize || res.Partitioned.Cost != 240 {
		t.Fatalf("bits = %d bytes = %d", res.Bits, res.Partitioned.Cost)
	}
	// cost(10000, 30000): rank 1, 10000 + 10000 + 10000 + MetaSize bits.
	if want := Bytes((30000 + 640) / 8); res.Unpartitioned.Cost != want {
		t.Fatalf("unpartitioned cost = %d, want %d", res.Unpartitioned.Cost, want)
	}
	// LowerBoundBytes(30000, 10000) = 40000·H(1/4)/8.
	if !approx(res.Unpartitioned.LowerBound, 4056.3906222956643, 1e-9) {
		t.Fatalf("unpartitioned lower bound = %v", res.Unpartitioned.LowerBound)
	}
	// Only the all-revoked middle segment contributes: LowerBoundBytes(10000, 10000).
	if !approx(res.Partitioned.LowerBound, 2500, 1e-9) {
		t.Fatalf("partitioned lower bound = %v", res.Partitioned.LowerBound)
	}
}

func TestPartitionTiePrefersLatestSplit(t *testing.T) {
	// {A}{B} costs MetaSize + (2000 + MetaSize) = 3280 bits.
	// {AB} is cost(1000, 2640) at rank 0: 1000 + 1640 + MetaSize = 3280 bits.
	// The split at B is found first and a tie does not replace it.
	records := []Record{
		{Time: 10, N: 640, R: 0},
		{Time: 20, N: 2000, R: 1000},
	}
	if merged, err := Cost(1000, 2640); err != nil || merged != 3280 {
		t.Fatalf("merged cost = %d, %v", merged, err)
	}

	res := mustPartition(t, records)
	if !reflect.DeepEqual(res.Boundaries, Metadata{0, 20}) {
		t.Fatalf("boundaries = %v", res.Boundaries)
	}
	if res.Bits != 3280 || res.Unpartitioned.Cost != res.Partitioned.Cost {
		t.Fatalf("bits = %d, estimates %+v vs %+v", res.Bits, res.Unpartitioned, res.Partitioned)
	}
	// The lower bound follows the chosen split, not the merged segment.
	if want := segmentLowerBound(1000, 2000); !approx(res.Partitioned.LowerBound, want, 1e-9) {
		t.Fatalf("partitioned lower bound = %v, want %v", res.Partitioned.LowerBound, want)
	}
}

func TestPartitionMatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		records := randomRecords(rng, 1+rng.Intn(9))
		res := mustPartition(t, records)

		best := exhaustiveBest(records)
		if res.Bits != best {
			t.Fatalf("trial %d: bits = %d, exhaustive best %d (%+v)", trial, res.Bits, best, records)
		}
		if got := costOf(records, res.Boundaries); got != best {
			t.Fatalf("trial %d: boundaries %v cost %d, want %d", trial, res.Boundaries, got, best)
		}
	}
}

func TestPartitionNeverWorseThanUnpartitioned(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		records := randomRecords(rng, 1+rng.Intn(60))
		res := mustPartition(t, records)

		var r, n uint64
		for _, rec := range records {
			r += rec.R
			n += rec.N
		}
		if res.Bits > cost(r, n) || res.Partitioned.Cost > res.Unpartitioned.Cost {
			t.Fatalf("trial %d: partitioned %d bits worse than unpartitioned %d", trial, res.Bits, cost(r, n))
		}
		if res.Boundaries[0] != 0 {
			t.Fatalf("trial %d: first boundary %d", trial, res.Boundaries[0])
		}
		for i := 1; i < len(res.Boundaries); i++ {
			if res.Boundaries[i] <= res.Boundaries[i-1] {
				t.Fatalf("trial %d: boundaries not ascending: %v", trial, res.Boundaries)
			}
		}
	}
}

func TestPartitionDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	records := randomRecords(rng, 80)
	snapshot := append([]Record(nil), records...)

	first := mustPartition(t, records)
	for i := 0; i < 5; i++ {
		if again := mustPartition(t, records); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
	if !reflect.DeepEqual(snapshot, records) {
		t.Fatalf("input was modified")
	}
}

// randomRecords mixes sparse and dense buckets so that both merging and
// splitting show up.
func randomRecords(rng *rand.Rand, count int) []Record {
	records := make([]Record, count)
	time := uint64(1000)
	for i := range records {
		time += 1 + uint64(rng.Intn(50))
		n := 1 + uint64(rng.Intn(5000))
		var r uint64
		switch rng.Intn(4) {
		case 0:
			r = 0
		case 1:
			r = n
		case 2:
			r = uint64(rng.Int63n(int64(n) + 1))
		default:
			r = uint64(rng.Int63n(int64(n/50) + 1))
		}
		records[i] = Record{Time: time, N: n, R: r}
	}
	return records
}

// exhaustiveBest tries every segmentation of records.
func exhaustiveBest(records []Record) Bits {
	best := Bits(math.MaxUint64)
	cuts := len(records) - 1
	for mask := 0; mask < 1<<cuts; mask++ {
		var total Bits
		var r, n uint64
		for i, rec := range records {
			r += rec.R
			n += rec.N
			if i == len(records)-1 || mask&(1<<i) != 0 {
				total += cost(r, n)
				r, n = 0, 0
			}
		}
		best = min(best, total)
	}
	return best
}

// costOf prices the segmentation described by boundaries.
func costOf(records []Record, boundaries Metadata) Bits {
	starts := map[uint64]bool{}
	for _, b := range boundaries[1:] {
		starts[b] = true
	}
	var total Bits
	var r, n uint64
	for i, rec := range records {
		if i > 0 && starts[rec.Time] {
			total += cost(r, n)
			r, n = 0, 0
		}
		r += rec.R
		n += rec.N
	}
	return total + cost(r, n)
}
