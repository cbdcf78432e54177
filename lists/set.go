package lists

// LSet overwrites the element at a Redis-style signed index. Unlike
// LIndex's read, an index at or beyond either bound is a strict error
// (matching Redis's "index out of range" rather than LTrim's leniency).
// The meta record is untouched.
func (l *Lists) LSet(key []byte, index int64, value []byte) error {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.readableMeta(key)
	if err != nil {
		return err
	}

	target := toPhysical(m.Left(), m.Right(), index)
	if target <= m.Left() || target >= m.Right() {
		return ErrNotFound
	}

	return l.db.Put(l.dataCF, encodeDataKey(key, m.Version(), target), value)
}
