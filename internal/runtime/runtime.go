package runtime

import (
	"errors"
	"fmt"
	"time"

	cfgpkg "github.com/rzbill/crlpart/internal/config"
	"github.com/rzbill/crlpart/internal/partition"
	"github.com/rzbill/crlpart/internal/planstore"
	pebblestore "github.com/rzbill/crlpart/internal/storage/pebble"
	logpkg "github.com/rzbill/crlpart/pkg/log"
)

// ErrTooManyRecords is returned when the input exceeds Config.MaxRecords.
var ErrTooManyRecords = errors.New("runtime: too many records")

// ErrStoreDisabled is returned by store operations when Config.UseStore is false.
var ErrStoreDisabled = errors.New("runtime: plan store is disabled")

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
	// Now is the clock used to stamp plans; defaults to time.Now.
	Now func() time.Time
}

// Runtime wires config, the optional plan store, and the optimizer.
type Runtime struct {
	db     *pebblestore.DB
	plans  *planstore.Store
	config cfgpkg.Config
	logger logpkg.Logger
	now    func() time.Time
}

// Open validates the config and opens the plan store when enabled.
func Open(opts Options) (*Runtime, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rt := &Runtime{config: opts.Config, logger: logger.WithComponent("runtime"), now: now}
	if !opts.Config.UseStore {
		return rt, nil
	}

	mode, err := pebblestore.ParseFsyncMode(opts.Config.Fsync)
	if err != nil {
		return nil, err
	}
	dir := opts.Config.ResolvedStoreDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: mode})
	if err != nil {
		return nil, fmt.Errorf("runtime: open store %s: %w", dir, err)
	}
	rt.db = db
	rt.plans = planstore.New(db)
	rt.logger.Debug("plan store opened", logpkg.Str("dir", dir), logpkg.Str("fsync", opts.Config.Fsync))
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Plan returns the partition plan for records under name. With the store
// enabled, a plan previously computed from identical records is returned
// as-is and cached is true; otherwise the optimizer runs and the result is
// stored.
func (r *Runtime) Plan(name string, records []partition.Record) (plan planstore.Plan, cached bool, err error) {
	if limit := r.config.MaxRecords; limit > 0 && len(records) > limit {
		return planstore.Plan{}, false, fmt.Errorf("%w: %d > maxRecords %d", ErrTooManyRecords, len(records), limit)
	}
	digest := planstore.Digest(records)
	log := r.logger.With(logpkg.Str("name", name), logpkg.Str("digest", fmt.Sprintf("%016x", digest)))

	if r.plans != nil {
		p, err := r.plans.Get(name, digest)
		if err == nil {
			log.Info("plan cache hit", logpkg.Int("segments", len(p.Boundaries)))
			return p, true, nil
		}
		if !errors.Is(err, planstore.ErrNotFound) {
			return planstore.Plan{}, false, err
		}
	}

	start := r.now()
	res, err := partition.Partition(records)
	if err != nil {
		return planstore.Plan{}, false, err
	}
	plan = planstore.NewPlan(name, digest, len(records), res, start)
	log.Info("partition computed",
		logpkg.Int("records", len(records)),
		logpkg.Int("segments", res.Segments()),
		logpkg.Uint64("bits", uint64(res.Bits)),
		logpkg.Str("elapsed", r.now().Sub(start).String()),
	)

	if r.plans != nil {
		if err := r.plans.Put(plan); err != nil {
			return planstore.Plan{}, false, fmt.Errorf("runtime: store plan: %w", err)
		}
	}
	return plan, false, nil
}

// Plans exposes the plan store, or ErrStoreDisabled.
func (r *Runtime) Plans() (*planstore.Store, error) {
	if r.plans == nil {
		return nil, ErrStoreDisabled
	}
	return r.plans, nil
}

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
