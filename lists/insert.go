package lists

import (
	"bytes"

	"github.com/wanghenshui/blackwidow"
)

// Where selects which side of the pivot LInsert places the new value on.
type Where int

const (
	Before Where = iota
	After
)

// LInsert inserts value immediately before or after the first occurrence
// of pivot, comparing byte-exact over the full length — not C-string
// semantics, so an element containing an embedded NUL byte still compares
// correctly. Whichever side of the pivot is shorter gets rewritten; the
// other side is untouched. Returns the new count, -1 if pivot is not
// found, or 0 if the list is missing, stale, or empty.
func (l *Lists) LInsert(key []byte, where Where, pivot, value []byte) (int64, error) {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.readableMeta(key)
	if err != nil {
		return 0, err
	}

	version := m.Version()
	left, right := m.Left(), m.Right()

	pivotIndex, found, err := l.findPivot(key, version, left, right, pivot)
	if err != nil {
		return 0, err
	}
	if !found {
		return -1, ErrNotFound
	}

	wb := l.db.NewWriteBatch()
	mid := left + (right-left)/2

	var target uint64
	if pivotIndex <= mid {
		target, err = l.insertShiftLeft(wb, key, version, left, pivotIndex, where)
		m.modifyLeft(-1)
	} else {
		target, err = l.insertShiftRight(wb, key, version, right, pivotIndex, where)
		m.modifyRight(1)
	}
	if err != nil {
		return 0, err
	}
	m.modifyCount(1)

	if err := l.putData(wb, key, version, target, value); err != nil {
		return 0, err
	}
	if err := wb.Put(l.metaCF, key, m.bytes()); err != nil {
		return 0, err
	}
	if err := wb.Commit(); err != nil {
		return 0, err
	}
	return int64(m.Count()), nil
}

func (l *Lists) findPivot(key []byte, version uint32, left, right uint64, pivot []byte) (uint64, bool, error) {
	cur, err := l.seek(key, version, left+1, false)
	if err != nil {
		return 0, false, err
	}
	defer cur.Close()

	for idx := left + 1; cur.Valid() && idx < right; idx++ {
		v, err := cur.Value()
		if err != nil {
			return 0, false, err
		}
		if bytes.Equal(v, pivot) {
			return idx, true, nil
		}
		cur.Next()
	}
	return 0, false, nil
}

// insertShiftLeft rewrites the window's left side (pivotIndex at or before
// the midpoint): the elements from left+1 up to pivotIndex (inclusive,
// for After) shift outward by one slot into the gap freed at the old
// left, and left moves out by one. Returns the physical index the new
// value occupies.
func (l *Lists) insertShiftLeft(wb *blackwidow.WriteBatch, key []byte, version uint32, left, pivotIndex uint64, where Where) (uint64, error) {
	cur, err := l.seek(key, version, left+1, false)
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	var nodes [][]byte
	for idx := left + 1; cur.Valid() && idx <= pivotIndex; idx++ {
		v, err := cur.Value()
		if err != nil {
			return 0, err
		}
		if idx == pivotIndex {
			if where == After {
				nodes = append(nodes, v)
			}
			break
		}
		nodes = append(nodes, v)
		cur.Next()
	}

	writeIdx := left
	for _, n := range nodes {
		if err := l.putData(wb, key, version, writeIdx, n); err != nil {
			return 0, err
		}
		writeIdx++
	}

	if where == Before {
		return pivotIndex - 1, nil
	}
	return pivotIndex, nil
}

// insertShiftRight rewrites the window's right side (pivotIndex past the
// midpoint): the elements from pivotIndex up to right-1 shift outward by
// one slot, and right moves out by one. Returns the physical index the
// new value occupies.
func (l *Lists) insertShiftRight(wb *blackwidow.WriteBatch, key []byte, version uint32, right, pivotIndex uint64, where Where) (uint64, error) {
	cur, err := l.seek(key, version, pivotIndex, false)
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	target := pivotIndex
	if where == After {
		target = pivotIndex + 1
	}

	var nodes [][]byte
	for idx := pivotIndex; cur.Valid() && idx < right; idx++ {
		v, err := cur.Value()
		if err != nil {
			return 0, err
		}
		if idx == pivotIndex && where == After {
			cur.Next()
			continue
		}
		nodes = append(nodes, v)
		cur.Next()
	}

	writeIdx := target + 1
	for _, n := range nodes {
		if err := l.putData(wb, key, version, writeIdx, n); err != nil {
			return 0, err
		}
		writeIdx++
	}

	return target, nil
}
