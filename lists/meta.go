package lists

import (
	"encoding/binary"
	"errors"
	"sync/atomic"

	"github.com/wanghenshui/blackwidow"
)

// metaSize is the fixed width of an encoded meta record: count, version,
// timestamp, left_index, right_index, each little-endian.
const metaSize = 8 + 4 + 4 + 8 + 8

// meta is a list's header record, parsed in place over the byte slice read
// from (or about to be written to) the meta column family: every accessor
// and mutator reads or writes directly into buf, so a field this package
// doesn't know about yet would still survive a round trip.
type meta struct {
	buf []byte
}

func newMeta(buf []byte) (*meta, error) {
	if len(buf) < metaSize {
		return nil, ErrCorruptMeta
	}
	return &meta{buf: buf}, nil
}

// freshMeta builds the meta record for a list that does not yet exist (or
// whose existing record is stale): sentinel window, zero count, zero
// timestamp, and the given version.
func freshMeta(version uint32) *meta {
	m := &meta{buf: make([]byte, metaSize)}
	m.reset(version)
	return m
}

func (m *meta) Count() uint64     { return binary.LittleEndian.Uint64(m.buf[0:8]) }
func (m *meta) Version() uint32   { return binary.LittleEndian.Uint32(m.buf[8:12]) }
func (m *meta) Timestamp() uint32 { return binary.LittleEndian.Uint32(m.buf[12:16]) }
func (m *meta) Left() uint64      { return binary.LittleEndian.Uint64(m.buf[16:24]) }
func (m *meta) Right() uint64     { return binary.LittleEndian.Uint64(m.buf[24:32]) }

func (m *meta) setCount(v uint64)     { binary.LittleEndian.PutUint64(m.buf[0:8], v) }
func (m *meta) setVersion(v uint32)   { binary.LittleEndian.PutUint32(m.buf[8:12], v) }
func (m *meta) setTimestamp(v uint32) { binary.LittleEndian.PutUint32(m.buf[12:16], v) }
func (m *meta) setLeft(v uint64)      { binary.LittleEndian.PutUint64(m.buf[16:24], v) }
func (m *meta) setRight(v uint64)     { binary.LittleEndian.PutUint64(m.buf[24:32], v) }

// modifyCount/modifyLeft/modifyRight add a signed delta by wraparound
// unsigned addition: left_index and right_index form a 64-bit abelian
// group under addition, so a negative delta is just two's-complement
// addition, never a separate subtraction path.
func (m *meta) modifyCount(delta int64) { m.setCount(m.Count() + uint64(delta)) }
func (m *meta) modifyLeft(delta int64)  { m.setLeft(m.Left() + uint64(delta)) }
func (m *meta) modifyRight(delta int64) { m.setRight(m.Right() + uint64(delta)) }

// isStale reports whether the list has expired: a nonzero timestamp that
// has already passed.
func (m *meta) isStale(now uint32) bool {
	ts := m.Timestamp()
	return ts != 0 && ts <= now
}

// reset logically destroys the list in place: bump version, clear count
// and timestamp, restore the sentinel window.
func (m *meta) reset(version uint32) {
	m.setCount(0)
	m.setVersion(version)
	m.setTimestamp(0)
	m.setLeft(sentinelLeft())
	m.setRight(sentinelRight())
}

func (m *meta) setRelativeTTL(seconds int32, now uint32) {
	m.setTimestamp(uint32(int64(now) + int64(seconds)))
}

func (m *meta) bytes() []byte { return m.buf }

// loadMeta reads key's raw meta record, translating a missing record into
// ErrNotFound. It makes no judgment about staleness or emptiness; callers
// decide, because different operations treat those differently (compare
// readableMeta, used by most operations, against Expire/Del which only
// care about staleness).
func (l *Lists) loadMeta(key []byte) (*meta, error) {
	buf, err := l.db.Get(l.metaCF, key)
	if err != nil {
		if errors.Is(err, blackwidow.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return newMeta(append([]byte(nil), buf...))
}

// metaFromReader reads key's raw meta record through reader instead of
// l.db, for callers (compaction filters) that run while l.db's lock is
// already held by the caller and must not take it again.
func (l *Lists) metaFromReader(reader blackwidow.Reader, key []byte) (*meta, error) {
	buf, err := reader.Get(l.metaCF, key)
	if err != nil {
		if errors.Is(err, blackwidow.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return newMeta(append([]byte(nil), buf...))
}

// readableMeta applies the "stale or empty means the list doesn't exist"
// rule shared by LPop/RPop/LRange/LIndex/LSet/LInsert/LRem/LLen/RPoplpush:
// missing, stale, and live-but-count==0 all report ErrNotFound. Staleness
// additionally reports ErrStale so a caller that cares can still tell the
// two apart; errors.Is(err, ErrNotFound) is true for both.
func (l *Lists) readableMeta(key []byte) (*meta, error) {
	m, err := l.loadMeta(key)
	if err != nil {
		return nil, err
	}
	if m.isStale(l.clock.Now()) {
		return m, ErrStale
	}
	if m.Count() == 0 {
		return m, ErrNotFound
	}
	return m, nil
}

// nextVersion allocates a version strictly greater than existing, drawn
// from a per-process counter seeded at Open from a wall-clock-derived
// value. This satisfies "strictly greater than any prior version for that
// key that might still have data on disk" without a persistent counter
// file: a freshly opened process's counter starts ahead of anything it
// could plausibly have written in a prior life, and every allocation is
// additionally bumped past whatever version it is replacing.
func (l *Lists) nextVersion(existing uint32) uint32 {
	for {
		old := atomic.LoadUint32(&l.verSeq)
		next := old + 1
		if next <= existing {
			next = existing + 1
		}
		if atomic.CompareAndSwapUint32(&l.verSeq, old, next) {
			return next
		}
	}
}
