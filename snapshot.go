package blackwidow

// Snapshot is a stabilized read view, returned by DB.GetSnapshot. See the
// comment on GetSnapshot for what isolation it actually provides.
type Snapshot struct {
	db  *DB
	seq uint64
}

func (s *Snapshot) Get(h *ColumnFamilyHandle, key []byte) ([]byte, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.getLocked(h, key)
}

// Release is a no-op here (the engine keeps no per-snapshot resources to
// free) but is part of the collaborator contract so callers can defer it
// unconditionally.
func (s *Snapshot) Release() {}
