package blackwidow

import "github.com/wanghenshui/blackwidow/model"

// WriteBatch groups puts and deletes across one or more column families
// into a single commit. Commit appends every entry to its column family's
// log first and only then updates the in-memory indexes, all while holding
// DB.mu, so no reader observes a partial batch. On a write error the
// indexes are left unchanged, but records already appended are not rolled
// back: they stay in the log and are replayed by the next Open. This is the
// primitive the lists Operation Engine builds every mutating command on
// top of.
type WriteBatch struct {
	db      *DB
	entries []batchEntry
}

type batchEntry struct {
	cf       *columnFamily
	key      []byte
	value    []byte
	isDelete bool
}

func (db *DB) NewWriteBatch() *WriteBatch {
	return &WriteBatch{db: db}
}

func (wb *WriteBatch) Put(h *ColumnFamilyHandle, key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	cf, err := wb.db.cf(h)
	if err != nil {
		return err
	}
	wb.entries = append(wb.entries, batchEntry{cf: cf, key: key, value: value})
	return nil
}

func (wb *WriteBatch) Delete(h *ColumnFamilyHandle, key []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	cf, err := wb.db.cf(h)
	if err != nil {
		return err
	}
	wb.entries = append(wb.entries, batchEntry{cf: cf, key: key, isDelete: true})
	return nil
}

// Commit applies every pending entry. Held under DB.mu so no concurrent
// reader (Get, Snapshot.Get, an Iterator snapshot) can see some entries
// applied and others not.
func (wb *WriteBatch) Commit() error {
	if len(wb.entries) == 0 {
		return nil
	}

	wb.db.mu.Lock()
	defer wb.db.mu.Unlock()

	if wb.db.closed {
		return ErrEngineClosed
	}

	positions := make([]*model.RecordPos, len(wb.entries))
	for i, e := range wb.entries {
		pos, err := e.cf.appendRecord(&model.Record{Key: e.key, Value: e.value, IsDelete: e.isDelete})
		if err != nil {
			return err
		}
		positions[i] = pos
	}

	for i, e := range wb.entries {
		if e.isDelete {
			e.cf.index.Delete(e.key)
		} else {
			e.cf.index.Put(e.key, positions[i])
		}
	}

	wb.db.nextSeq++
	wb.entries = nil
	return nil
}
