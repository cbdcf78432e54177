package lists

import (
	"bytes"

	"github.com/wanghenshui/blackwidow"
)

// LRem removes matching occurrences of value: count>=0 scans head to tail
// removing the first count matches (0 means "all"); count<0 scans tail to
// head removing the first |count| matches. Only the shorter of the two
// sides bounding the matched indices is rewritten, compacting survivors
// into the freed slots from whichever end is nearer — never the whole
// list. Returns the number removed; ErrNotFound (with 0 removed) when
// nothing matched.
func (l *Lists) LRem(key []byte, count int64, value []byte) (uint64, error) {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.readableMeta(key)
	if err != nil {
		return 0, err
	}

	version := m.Version()
	left, right := m.Left(), m.Right()
	start, stop := left+1, right-1

	matches, err := l.scanMatches(key, version, start, stop, count, value)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, ErrNotFound
	}

	var sublistLeft, sublistRight uint64
	if count >= 0 {
		sublistLeft, sublistRight = matches[0], matches[len(matches)-1]
	} else {
		sublistLeft, sublistRight = matches[len(matches)-1], matches[0]
	}
	leftPartLen := sublistRight - start
	rightPartLen := stop - sublistLeft
	removed := uint64(len(matches))

	wb := l.db.NewWriteBatch()
	if leftPartLen <= rightPartLen {
		if err := l.compactLeft(wb, key, version, start, sublistRight, removed, value); err != nil {
			return 0, err
		}
		m.modifyLeft(int64(removed))
	} else {
		if err := l.compactRight(wb, key, version, stop, sublistLeft, removed, value); err != nil {
			return 0, err
		}
		m.modifyRight(-int64(removed))
	}
	m.modifyCount(-int64(removed))

	if err := wb.Put(l.metaCF, key, m.bytes()); err != nil {
		return 0, err
	}
	if err := wb.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}

// scanMatches finds up to |count| matching indices (0 means unlimited),
// scanning forward from start when count>=0, backward from stop otherwise.
func (l *Lists) scanMatches(key []byte, version uint32, start, stop uint64, count int64, value []byte) ([]uint64, error) {
	rest := count
	if rest < 0 {
		rest = -rest
	}
	unlimited := count == 0

	var matches []uint64
	if count >= 0 {
		cur, err := l.seek(key, version, start, false)
		if err != nil {
			return nil, err
		}
		defer cur.Close()
		for idx := start; cur.Valid() && idx <= stop && (unlimited || rest != 0); idx++ {
			v, err := cur.Value()
			if err != nil {
				return nil, err
			}
			if bytes.Equal(v, value) {
				matches = append(matches, idx)
				if !unlimited {
					rest--
				}
			}
			cur.Next()
		}
	} else {
		cur, err := l.seek(key, version, stop, true)
		if err != nil {
			return nil, err
		}
		defer cur.Close()
		for idx := stop; cur.Valid() && idx >= start && (unlimited || rest != 0); idx-- {
			v, err := cur.Value()
			if err != nil {
				return nil, err
			}
			if bytes.Equal(v, value) {
				matches = append(matches, idx)
				if !unlimited {
					rest--
				}
			}
			cur.Next()
		}
	}
	return matches, nil
}

// compactLeft walks backward from sublistRight to start, dropping up to
// removed occurrences of value and shifting every surviving element into
// the freed gap from the right end inward.
func (l *Lists) compactLeft(wb *blackwidow.WriteBatch, key []byte, version uint32, start, sublistRight, removed uint64, value []byte) error {
	cur, err := l.seek(key, version, sublistRight, true)
	if err != nil {
		return err
	}
	defer cur.Close()

	writeIdx := sublistRight
	rest := removed
	for idx := sublistRight; cur.Valid() && idx >= start; idx-- {
		v, err := cur.Value()
		if err != nil {
			return err
		}
		if rest > 0 && bytes.Equal(v, value) {
			rest--
		} else {
			if err := l.putData(wb, key, version, writeIdx, v); err != nil {
				return err
			}
			writeIdx--
		}
		cur.Next()
	}
	return nil
}

// compactRight walks forward from sublistLeft to stop, dropping up to
// removed occurrences of value and shifting every surviving element into
// the freed gap from the left end inward.
func (l *Lists) compactRight(wb *blackwidow.WriteBatch, key []byte, version uint32, stop, sublistLeft, removed uint64, value []byte) error {
	cur, err := l.seek(key, version, sublistLeft, false)
	if err != nil {
		return err
	}
	defer cur.Close()

	writeIdx := sublistLeft
	rest := removed
	for idx := sublistLeft; cur.Valid() && idx <= stop; idx++ {
		v, err := cur.Value()
		if err != nil {
			return err
		}
		if rest > 0 && bytes.Equal(v, value) {
			rest--
		} else {
			if err := l.putData(wb, key, version, writeIdx, v); err != nil {
				return err
			}
			writeIdx++
		}
		cur.Next()
	}
	return nil
}
