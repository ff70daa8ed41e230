package partition

import (
	"errors"
	"math"
	"testing"
)

func TestLog2Zero(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{{0, 0}, {8, 3}, {0.5, -1}} {
		if got := Log2(tt.in); got != tt.want {
			t.Fatalf("Log2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRankAtPowersOfTwo(t *testing.T) {
	tests := []struct {
		name string
		r, n uint64
		want uint64
	}{
		{name: "ratio exactly 2", r: 1, n: 3, want: 1},
		{name: "ratio just under 4", r: 2, n: 9, want: 1},
		{name: "ratio exactly 4", r: 1, n: 5, want: 2},
		{name: "ratio exactly 4 scaled", r: 2, n: 10, want: 2},
		{name: "ratio 7", r: 1, n: 8, want: 2},
		{name: "ratio exactly 8", r: 1, n: 9, want: 3},
		{name: "ratio exactly 8 scaled", r: 125, n: 1125, want: 3},
		{name: "ratio exactly 1024", r: 3, n: 3075, want: 10},
		{name: "half", r: 5, n: 10, want: 0},
		{name: "ratio under 2", r: 3, n: 7, want: 0},
		{name: "huge half", r: math.MaxUint64 / 2, n: math.MaxUint64, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rank(tt.r, tt.n); got != tt.want {
				t.Fatalf("Rank(%d, %d) = %d, want %d", tt.r, tt.n, got, tt.want)
			}
		})
	}
}

func TestCostFormula(t *testing.T) {
	tests := []struct {
		name string
		r, n uint64
		want Bits
	}{
		{name: "no revocations", r: 0, n: 10, want: MetaSize},
		{name: "all revoked", r: 10, n: 10, want: MetaSize},
		{name: "half revoked", r: 10, n: 20, want: 20 + MetaSize},
		{name: "rank 2", r: 1, n: 5, want: 2 + 1 + 1 + MetaSize},
		{name: "rank 3", r: 1, n: 9, want: 3 + 1 + 1 + MetaSize},
		{name: "rank 2 scaled", r: 2, n: 10, want: 4 + 2 + 2 + MetaSize},
		{name: "rank 2 below 8", r: 1, n: 8, want: 2 + 1 + 1 + MetaSize},
		{name: "rank 0 dense", r: 3, n: 7, want: 3 + 4 + MetaSize},
		{name: "single pair", r: 1, n: 2, want: 1 + 1 + MetaSize},
		{name: "majority revoked normalizes", r: 8, n: 9, want: 3 + 1 + 1 + MetaSize},
		{name: "largest segment", r: MaxSegmentN / 2, n: MaxSegmentN, want: Bits(MaxSegmentN) + MetaSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cost(tt.r, tt.n)
			if err != nil {
				t.Fatalf("Cost(%d, %d): %v", tt.r, tt.n, err)
			}
			if got != tt.want {
				t.Fatalf("Cost(%d, %d) = %d, want %d", tt.r, tt.n, got, tt.want)
			}
		})
	}
}

func TestCostRejectsInvalid(t *testing.T) {
	tests := []struct {
		r, n uint64
		want error
	}{
		{r: 0, n: 0, want: ErrInvalidRecord},
		{r: 11, n: 10, want: ErrInvalidRecord},
		{r: math.MaxUint64 / 2, n: math.MaxUint64, want: ErrCountOverflow},
		{r: 0, n: MaxSegmentN + 1, want: ErrCountOverflow},
	}
	for _, tt := range tests {
		if _, err := Cost(tt.r, tt.n); !errors.Is(err, tt.want) {
			t.Fatalf("Cost(%d, %d) err = %v, want %v", tt.r, tt.n, err, tt.want)
		}
	}
}

func TestCostProperties(t *testing.T) {
	for n := uint64(1); n <= 300; n++ {
		for r := uint64(0); r <= n; r++ {
			c, err := Cost(r, n)
			if err != nil {
				t.Fatalf("Cost(%d, %d): %v", r, n, err)
			}
			if c < MetaSize {
				t.Fatalf("Cost(%d, %d) = %d below MetaSize", r, n, c)
			}
			if c > 2*Bits(n)+MetaSize {
				t.Fatalf("Cost(%d, %d) = %d above 2n + MetaSize", r, n, c)
			}
			mirrored, err := Cost(n-r, n)
			if err != nil {
				t.Fatalf("Cost(%d, %d): %v", n-r, n, err)
			}
			if c != mirrored {
				t.Fatalf("Cost(%d, %d) = %d is not symmetric with %d", r, n, c, mirrored)
			}
		}
		if c, _ := Cost(0, n); c != MetaSize {
			t.Fatalf("Cost(0, %d) = %d", n, c)
		}
	}
}

func TestBitsToBytesTruncates(t *testing.T) {
	for _, tt := range []struct {
		in   Bits
		want Bytes
	}{{MetaSize, 80}, {663, 82}, {7, 0}} {
		if got := tt.in.Bytes(); got != tt.want {
			t.Fatalf("Bits(%d).Bytes() = %d, want %d", tt.in, got, tt.want)
		}
	}
}
