package lists

// LPop removes and returns the head element.
func (l *Lists) LPop(key []byte) ([]byte, error) { return l.pop(key, true) }

// RPop removes and returns the tail element.
func (l *Lists) RPop(key []byte) ([]byte, error) { return l.pop(key, false) }

func (l *Lists) pop(key []byte, left bool) ([]byte, error) {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.readableMeta(key)
	if err != nil {
		return nil, err
	}

	version := m.Version()
	var index uint64
	if left {
		index = m.Left() + 1
	} else {
		index = m.Right() - 1
	}

	value, err := l.getData(key, version, index)
	if err != nil {
		return nil, err
	}

	wb := l.db.NewWriteBatch()
	if err := l.deleteData(wb, key, version, index); err != nil {
		return nil, err
	}
	m.modifyCount(-1)
	if left {
		m.modifyLeft(1)
	} else {
		m.modifyRight(-1)
	}
	if err := wb.Put(l.metaCF, key, m.bytes()); err != nil {
		return nil, err
	}
	if err := wb.Commit(); err != nil {
		return nil, err
	}
	return value, nil
}
