package lists

import "errors"

// LPush prepends values in order (so the last value given ends up at the
// head) and returns the new count.
func (l *Lists) LPush(key []byte, values ...[]byte) (uint64, error) {
	return l.push(key, values, true)
}

// RPush appends values in order and returns the new count.
func (l *Lists) RPush(key []byte, values ...[]byte) (uint64, error) {
	return l.push(key, values, false)
}

func (l *Lists) push(key []byte, values [][]byte, left bool) (uint64, error) {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.loadMeta(key)
	switch {
	case errors.Is(err, ErrNotFound):
		m = freshMeta(l.nextVersion(0))
	case err != nil:
		return 0, err
	default:
		if m.isStale(l.clock.Now()) {
			m.reset(l.nextVersion(m.Version()))
		}
	}

	version := m.Version()
	wb := l.db.NewWriteBatch()
	for _, v := range values {
		var index uint64
		if left {
			index = m.Left()
			m.modifyLeft(-1)
		} else {
			index = m.Right()
			m.modifyRight(1)
		}
		m.modifyCount(1)
		if err := l.putData(wb, key, version, index, v); err != nil {
			return 0, err
		}
	}

	if err := wb.Put(l.metaCF, key, m.bytes()); err != nil {
		return 0, err
	}
	if err := wb.Commit(); err != nil {
		return 0, err
	}
	return m.Count(), nil
}

// LPushx prepends value only if key already holds a live, non-stale list.
func (l *Lists) LPushx(key, value []byte) (uint64, error) { return l.pushx(key, value, true) }

// RPushx appends value only if key already holds a live, non-stale list.
func (l *Lists) RPushx(key, value []byte) (uint64, error) { return l.pushx(key, value, false) }

func (l *Lists) pushx(key, value []byte, left bool) (uint64, error) {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.readableMeta(key)
	if err != nil {
		return 0, err
	}

	version := m.Version()
	var index uint64
	if left {
		index = m.Left()
		m.modifyLeft(-1)
	} else {
		index = m.Right()
		m.modifyRight(1)
	}
	m.modifyCount(1)

	wb := l.db.NewWriteBatch()
	if err := l.putData(wb, key, version, index, value); err != nil {
		return 0, err
	}
	if err := wb.Put(l.metaCF, key, m.bytes()); err != nil {
		return 0, err
	}
	if err := wb.Commit(); err != nil {
		return 0, err
	}
	return m.Count(), nil
}
