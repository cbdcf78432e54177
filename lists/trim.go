package lists

// LTrim keeps only the elements between start and stop (Redis-style signed,
// inclusive indices) and discards the rest. It resets the list to a fresh
// version and pushes the surviving elements back via RPush, so the old
// generation's data is left for the compaction filter to reclaim rather
// than rewritten in place.
//
// On a missing or stale list, LTrim reports that error without creating
// anything. On a range that is empty after conversion, it leaves the list
// untouched (the lenient behavior; a stricter Redis-conformant
// implementation would delete the list instead — see DESIGN.md).
func (l *Lists) LTrim(key []byte, start, stop int64) error {
	values, done, err := l.trimCollect(key, start, stop)
	if err != nil || done {
		return err
	}
	_, err = l.RPush(key, values...)
	return err
}

// trimCollect does the locked half of LTrim: validate, reset, and collect
// survivors. done is true when there is nothing left to push back (an
// error, or an empty range that leaves the list untouched).
func (l *Lists) trimCollect(key []byte, start, stop int64) (values [][]byte, done bool, err error) {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.loadMeta(key)
	if err != nil {
		return nil, true, err
	}
	if m.isStale(l.clock.Now()) {
		return nil, true, ErrStale
	}

	version := m.Version()
	left, right := m.Left(), m.Right()
	lo := toPhysical(left, right, start)
	hi := toPhysical(left, right, stop)
	if lo > hi {
		return nil, true, nil
	}
	if lo <= left {
		lo = left + 1
	}
	if hi >= right {
		hi = right - 1
	}

	m.reset(l.nextVersion(version))
	if err := l.db.Put(l.metaCF, key, m.bytes()); err != nil {
		return nil, true, err
	}

	cur, err := l.seek(key, version, lo, false)
	if err != nil {
		return nil, true, err
	}
	defer cur.Close()

	for idx := lo; cur.Valid() && idx <= hi; idx++ {
		v, err := cur.Value()
		if err != nil {
			return nil, true, err
		}
		values = append(values, v)
		cur.Next()
	}
	return values, false, nil
}
