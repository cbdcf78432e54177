// Package lists implements a persistent, Redis-compatible LIST type on top
// of an ordered key-value engine with column families, atomic write
// batches, snapshots, range iterators, and pluggable comparators and
// compaction filters (package blackwidow).
//
// A list is a deque over a 64-bit index axis, addressed through a meta
// record (count, version, timestamp, left/right window bounds) stored in
// the engine's "default" column family, and data entries keyed by
// (user_key, version, index) stored in a "data_cf" column family. Deleting
// or expiring a list bumps its version and resets the window instead of
// erasing data eagerly; orphaned data and empty stale metas are reclaimed
// lazily by compaction filters registered on each column family.
package lists

import (
	"time"

	"github.com/wanghenshui/blackwidow"
	"github.com/wanghenshui/blackwidow/clock"
	"github.com/wanghenshui/blackwidow/lock"
)

// dataColumnFamily is the name of the data keyspace; the meta keyspace
// lives in the engine's always-present "default" column family.
const dataColumnFamily = "data_cf"

// Lists is the list-type core: the Operation Engine, wired against an
// engine collaborator, a record-lock manager, and a TTL clock.
type Lists struct {
	db     *blackwidow.DB
	metaCF *blackwidow.ColumnFamilyHandle
	dataCF *blackwidow.ColumnFamilyHandle
	locks  *lock.Manager
	clock  clock.Clock

	verSeq uint32
}

type config struct {
	clock        clock.Clock
	lockManager  *lock.Manager
	dataFileSize int64
}

// Option configures Open.
type Option func(*config)

func defaultConfig() *config {
	return &config{
		clock:       clock.SystemClock{},
		lockManager: lock.NewManager(),
	}
}

// WithClock overrides the TTL clock, for deterministic staleness tests.
func WithClock(c clock.Clock) Option { return func(cfg *config) { cfg.clock = c } }

// WithLockManager overrides the record-lock manager, e.g. to share one
// across multiple data types layered on the same engine directory.
func WithLockManager(m *lock.Manager) Option { return func(cfg *config) { cfg.lockManager = m } }

// WithDataFileSize overrides the engine's per-file size threshold.
func WithDataFileSize(size int64) Option { return func(cfg *config) { cfg.dataFileSize = size } }

// Open opens (or creates) a lists store rooted at dirPath: the "default"
// column family for meta records, and "data_cf" for data records — the
// latter registered with the bytewise comparator (sufficient because the
// data key's length-prefixed encoding already disambiguates everything a
// custom ordering would need to) and both with their compaction filter
// factories attached.
func Open(dirPath string, opts ...Option) (*Lists, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var engineOpts []blackwidow.Option
	engineOpts = append(engineOpts, blackwidow.WithClock(cfg.clock))
	if cfg.dataFileSize > 0 {
		engineOpts = append(engineOpts, blackwidow.WithDataFileSize(cfg.dataFileSize))
	}

	db, err := blackwidow.Open(dirPath, engineOpts...)
	if err != nil {
		return nil, err
	}

	metaCF, err := db.ColumnFamily(blackwidow.DefaultColumnFamily)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dataCF, err := db.CreateColumnFamily(dataColumnFamily, blackwidow.BytewiseComparator, nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	l := &Lists{
		db:     db,
		metaCF: metaCF,
		dataCF: dataCF,
		locks:  cfg.lockManager,
		clock:  cfg.clock,
		verSeq: uint32(time.Now().UnixNano()),
	}

	metaCF.SetCompactionFilterFactory(&metaFilterFactory{lists: l})
	dataCF.SetCompactionFilterFactory(&dataFilterFactory{lists: l})

	return l, nil
}

// Close releases the underlying engine handle.
func (l *Lists) Close() error {
	return l.db.Close()
}

// CompactRange forwards to the engine collaborator for both column
// families.
func (l *Lists) CompactRange(begin, end []byte) error {
	if err := l.db.CompactRange(l.metaCF, begin, end); err != nil {
		return err
	}
	return l.db.CompactRange(l.dataCF, begin, end)
}
