package planstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	pebblestore "github.com/rzbill/crlpart/internal/storage/pebble"
)

var (
	// ErrNotFound is returned when no plan exists for a name and digest.
	ErrNotFound = errors.New("planstore: plan not found")
	// ErrInvalidName is returned for an empty name or one containing '/'.
	ErrInvalidName = errors.New("planstore: plan name must be non-empty and must not contain '/'")
)

// Keyspace (byte-wise, lexicographically sortable):
// - plan/{name}/{digest_be8}
var planPrefix = []byte("plan/")

func keyPlanPrefix(name string) []byte {
	k := make([]byte, 0, len(planPrefix)+len(name)+1)
	k = append(k, planPrefix...)
	k = append(k, name...)
	return append(k, '/')
}

func keyPlan(name string, digest uint64) []byte {
	return binary.BigEndian.AppendUint64(keyPlanPrefix(name), digest)
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Store persists plans in Pebble.
type Store struct {
	db *pebblestore.DB
}

// New returns a Store backed by db.
func New(db *pebblestore.DB) *Store { return &Store{db: db} }

// Put writes p, replacing any plan with the same name and digest.
func (s *Store) Put(p Plan) error {
	if err := checkName(p.Name); err != nil {
		return err
	}
	b, err := EncodeCBOR(p)
	if err != nil {
		return err
	}
	return s.db.Set(keyPlan(p.Name, p.Digest), b)
}

// Get returns the plan for name and digest.
func (s *Store) Get(name string, digest uint64) (Plan, error) {
	if err := checkName(name); err != nil {
		return Plan{}, err
	}
	b, err := s.db.Get(keyPlan(name, digest))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return Plan{}, fmt.Errorf("%w: %s/%016x", ErrNotFound, name, digest)
	}
	if err != nil {
		return Plan{}, err
	}
	return DecodeCBOR(b)
}

// List returns the plans stored under name, or every plan when name is
// empty, ordered by name then digest.
func (s *Store) List(name string) ([]Plan, error) {
	prefix := planPrefix
	if name != "" {
		if err := checkName(name); err != nil {
			return nil, err
		}
		prefix = keyPlanPrefix(name)
	}
	var plans []Plan
	err := s.db.ScanPrefix(prefix, func(_, v []byte) error {
		p, err := DecodeCBOR(v)
		if err != nil {
			return err
		}
		plans = append(plans, p)
		return nil
	})
	return plans, err
}

// Delete removes the plan for name and digest. Deleting a missing plan
// returns ErrNotFound.
func (s *Store) Delete(name string, digest uint64) error {
	if _, err := s.Get(name, digest); err != nil {
		return err
	}
	return s.db.Delete(keyPlan(name, digest))
}
