package lists

import (
	"errors"

	"github.com/wanghenshui/blackwidow"
)

// LRange returns the elements between start and stop (Redis-style signed,
// inclusive indices), clamped to the live window. An out-of-order range
// after conversion yields an empty slice, not an error.
func (l *Lists) LRange(key []byte, start, stop int64) ([][]byte, error) {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.readableMeta(key)
	if err != nil {
		return nil, err
	}

	version := m.Version()
	lo, hi, empty := clampRange(m.Left(), m.Right(), start, stop)
	if empty {
		return nil, nil
	}

	cur, err := l.seek(key, version, lo, false)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	var out [][]byte
	for idx := lo; cur.Valid() && idx <= hi; idx++ {
		v, err := cur.Value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		cur.Next()
	}
	return out, nil
}

// LIndex returns the element at a Redis-style signed index. It holds the
// key's record lock while reading, so its meta read and its data read see
// the same state of the list and never a mutation applied between them.
func (l *Lists) LIndex(key []byte, index int64) ([]byte, error) {
	release := l.locks.Acquire(key)
	defer release()

	snap := l.db.GetSnapshot()
	defer snap.Release()

	buf, err := snap.Get(l.metaCF, key)
	if err != nil {
		if errors.Is(err, blackwidow.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m, err := newMeta(append([]byte(nil), buf...))
	if err != nil {
		return nil, err
	}
	if m.isStale(l.clock.Now()) {
		return nil, ErrStale
	}
	if m.Count() == 0 {
		return nil, ErrNotFound
	}

	physical := toPhysical(m.Left(), m.Right(), index)
	if physical <= m.Left() || physical >= m.Right() {
		return nil, ErrNotFound
	}

	value, err := snap.Get(l.dataCF, encodeDataKey(key, m.Version(), physical))
	if err != nil {
		if errors.Is(err, blackwidow.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

// LLen returns the live element count. It does not take the record lock:
// a plain read races harmlessly with the single-writer-per-key discipline
// every mutating operation already enforces.
func (l *Lists) LLen(key []byte) (uint64, error) {
	m, err := l.readableMeta(key)
	if err != nil {
		return 0, err
	}
	return m.Count(), nil
}
