package partition

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by Partition when no records are supplied.
	ErrEmptyInput = errors.New("partition: records must be nonempty")
	// ErrInvalidRecord is returned for a segment or record with n == 0 or r > n.
	ErrInvalidRecord = errors.New("partition: invalid record")
	// ErrUnordered is returned when record times are not strictly increasing.
	ErrUnordered = errors.New("partition: record times must be strictly increasing")
	// ErrCountOverflow is returned when certificate counts are too large for the
	// cost arithmetic to fit in uint64.
	ErrCountOverflow = errors.New("partition: certificate count too large")
)

// Timestamp is the notAfter bucket of a record, typically unix seconds.
type Timestamp = uint64

// Record is one input bucket: N certificates whose date falls in the bucket,
// R of which are revoked.
type Record struct {
	Time Timestamp `json:"time" cbor:"1,keyasint"`
	N    uint64    `json:"n" cbor:"2,keyasint"`
	R    uint64    `json:"r" cbor:"3,keyasint"`
}

// Validate reports whether the record describes a valid proportion.
func (rec Record) Validate() error {
	if rec.N == 0 {
		return fmt.Errorf("%w: n must be positive (time=%d)", ErrInvalidRecord, rec.Time)
	}
	if rec.R > rec.N {
		return fmt.Errorf("%w: r=%d exceeds n=%d (time=%d)", ErrInvalidRecord, rec.R, rec.N, rec.Time)
	}
	return nil
}

// Metadata is the ascending list of segment start times. The first element
// is always the sentinel 0.
type Metadata []uint64

// Bits is an encoded size in bits. All optimizer accounting uses Bits.
type Bits uint64

// Bytes is an encoded size in whole bytes, for reporting.
type Bytes uint64

// Bytes converts to bytes by truncating division. This is the only place
// bits become bytes.
func (b Bits) Bytes() Bytes { return Bytes(b / 8) }

// Estimate pairs an achieved cost with its entropy lower bound.
type Estimate struct {
	Cost       Bytes   `json:"costBytes" cbor:"1,keyasint"`
	LowerBound float64 `json:"lowerBoundBytes" cbor:"2,keyasint"`
}

// Result is the outcome of Partition.
type Result struct {
	// Boundaries are the segment start times, leading with the sentinel 0.
	Boundaries Metadata
	// Bits is the minimum total cost over all segmentations.
	Bits Bits
	// Unpartitioned estimates the whole input encoded as one segment.
	Unpartitioned Estimate
	// Partitioned estimates the chosen segmentation.
	Partitioned Estimate
}

// Segments returns the number of segments in the chosen segmentation.
func (r Result) Segments() int { return len(r.Boundaries) }
