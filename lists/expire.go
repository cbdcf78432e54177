package lists

// Expire sets key's remaining time to live. ttlSeconds<=0 resets the list
// (logical delete), exactly like Del; ttlSeconds>0 sets a new relative
// deadline. Only a missing or already-stale list reports ErrNotFound —
// an already-empty (count==0) but live list is still a valid target and
// gets reset like any other.
func (l *Lists) Expire(key []byte, ttlSeconds int32) error {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.loadMeta(key)
	if err != nil {
		return err
	}
	if m.isStale(l.clock.Now()) {
		return ErrStale
	}

	if ttlSeconds > 0 {
		m.setRelativeTTL(ttlSeconds, l.clock.Now())
	} else {
		m.reset(l.nextVersion(m.Version()))
	}
	return l.db.Put(l.metaCF, key, m.bytes())
}

// Del logically deletes key: bumps version and resets the window. The
// physical meta row persists until the meta-column compaction filter
// reclaims it.
func (l *Lists) Del(key []byte) error {
	release := l.locks.Acquire(key)
	defer release()

	m, err := l.loadMeta(key)
	if err != nil {
		return err
	}
	if m.isStale(l.clock.Now()) {
		return ErrStale
	}

	m.reset(l.nextVersion(m.Version()))
	return l.db.Put(l.metaCF, key, m.bytes())
}
