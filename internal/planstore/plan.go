package planstore

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/rzbill/crlpart/internal/partition"
	"github.com/zeebo/xxh3"
)

// Plan is a computed partition for a named dataset, identified by the
// digest of the records it was computed from.
type Plan struct {
	Name          string             `json:"name" cbor:"1,keyasint"`
	Digest        uint64             `json:"digest" cbor:"2,keyasint"`
	CreatedAtMs   int64              `json:"createdAtMs" cbor:"3,keyasint"`
	Records       int                `json:"records" cbor:"4,keyasint"`
	Boundaries    partition.Metadata `json:"boundaries" cbor:"5,keyasint"`
	Bits          partition.Bits     `json:"bits" cbor:"6,keyasint"`
	Unpartitioned partition.Estimate `json:"unpartitioned" cbor:"7,keyasint"`
	Partitioned   partition.Estimate `json:"partitioned" cbor:"8,keyasint"`
}

// NewPlan captures an optimizer result.
func NewPlan(name string, digest uint64, records int, res partition.Result, now time.Time) Plan {
	return Plan{
		Name:          name,
		Digest:        digest,
		CreatedAtMs:   now.UnixMilli(),
		Records:       records,
		Boundaries:    res.Boundaries,
		Bits:          res.Bits,
		Unpartitioned: res.Unpartitioned,
		Partitioned:   res.Partitioned,
	}
}

// DigestHex renders the digest as 16 hex digits.
func (p Plan) DigestHex() string { return fmt.Sprintf("%016x", p.Digest) }

// Digest hashes the records with xxh3 over their big-endian encoding
// (time, n, r). Equal record sequences always produce equal digests.
func Digest(records []partition.Record) uint64 {
	buf := make([]byte, 0, len(records)*24)
	for _, rec := range records {
		buf = binary.BigEndian.AppendUint64(buf, rec.Time)
		buf = binary.BigEndian.AppendUint64(buf, rec.N)
		buf = binary.BigEndian.AppendUint64(buf, rec.R)
	}
	return xxh3.Hash(buf)
}

// ParseDigest parses the 16 hex digit form produced by DigestHex.
func ParseDigest(s string) (uint64, error) {
	d, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("planstore: invalid digest %q", s)
	}
	return d, nil
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// EncodeCBOR encodes p deterministically.
func EncodeCBOR(p Plan) ([]byte, error) {
	return encMode.Marshal(p)
}

// DecodeCBOR decodes a plan produced by EncodeCBOR.
func DecodeCBOR(b []byte) (Plan, error) {
	var p Plan
	if err := cbor.Unmarshal(b, &p); err != nil {
		return Plan{}, fmt.Errorf("planstore: decode plan: %w", err)
	}
	return p, nil
}
