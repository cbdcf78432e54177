package lists

import "errors"

// RPoplpush pops the tail of source and pushes it onto the head of
// destination, atomically. If source == destination, a single-element
// list is a no-op that returns its sole element; a longer list rotates in
// place. Otherwise both mutations commit in one batch, under a single
// multi-key lock acquired in sorted order, so a concurrent reader never
// observes the moved element missing from both lists or present in both.
func (l *Lists) RPoplpush(source, destination []byte) ([]byte, error) {
	release := l.locks.AcquireMulti(source, destination)
	defer release()

	if string(source) == string(destination) {
		return l.rotateSelf(source)
	}
	return l.movePoplpush(source, destination)
}

func (l *Lists) rotateSelf(key []byte) ([]byte, error) {
	m, err := l.readableMeta(key)
	if err != nil {
		return nil, err
	}

	version := m.Version()
	lastIndex := m.Right() - 1
	value, err := l.getData(key, version, lastIndex)
	if err != nil {
		return nil, err
	}
	if m.Count() == 1 {
		return value, nil
	}

	target := m.Left()
	wb := l.db.NewWriteBatch()
	if err := l.deleteData(wb, key, version, lastIndex); err != nil {
		return nil, err
	}
	if err := l.putData(wb, key, version, target, value); err != nil {
		return nil, err
	}
	m.modifyRight(-1)
	m.modifyLeft(-1)
	if err := wb.Put(l.metaCF, key, m.bytes()); err != nil {
		return nil, err
	}
	if err := wb.Commit(); err != nil {
		return nil, err
	}
	return value, nil
}

func (l *Lists) movePoplpush(source, destination []byte) ([]byte, error) {
	srcMeta, err := l.readableMeta(source)
	if err != nil {
		return nil, err
	}

	version := srcMeta.Version()
	lastIndex := srcMeta.Right() - 1
	value, err := l.getData(source, version, lastIndex)
	if err != nil {
		return nil, err
	}

	wb := l.db.NewWriteBatch()
	if err := l.deleteData(wb, source, version, lastIndex); err != nil {
		return nil, err
	}
	srcMeta.modifyCount(-1)
	srcMeta.modifyRight(-1)
	if err := wb.Put(l.metaCF, source, srcMeta.bytes()); err != nil {
		return nil, err
	}

	dstMeta, err := l.loadMeta(destination)
	switch {
	case errors.Is(err, ErrNotFound):
		dstMeta = freshMeta(l.nextVersion(0))
	case err != nil:
		return nil, err
	default:
		if dstMeta.isStale(l.clock.Now()) {
			dstMeta.reset(l.nextVersion(dstMeta.Version()))
		}
	}

	dstVersion := dstMeta.Version()
	target := dstMeta.Left()
	if err := l.putData(wb, destination, dstVersion, target, value); err != nil {
		return nil, err
	}
	dstMeta.modifyCount(1)
	dstMeta.modifyLeft(-1)
	if err := wb.Put(l.metaCF, destination, dstMeta.bytes()); err != nil {
		return nil, err
	}

	if err := wb.Commit(); err != nil {
		return nil, err
	}
	return value, nil
}
