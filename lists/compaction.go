package lists

import "github.com/wanghenshui/blackwidow"

// dataFilter drops a data-column entry the moment it becomes unreachable
// from the public API: its user key has no meta record, the meta is
// stale, the meta's current version has moved past the entry's version,
// or the entry's index has fallen outside the live window. Consulted once
// per key during CompactRange, reading meta back through the Reader
// CompactRange passes in rather than through l.db, since CompactRange
// already holds the engine's lock for the whole sweep.
type dataFilter struct {
	lists *Lists
}

func (f *dataFilter) Name() string { return "lists.ListsDataFilter" }

func (f *dataFilter) Decide(reader blackwidow.Reader, key, _ []byte) blackwidow.FilterDecision {
	userKey, version, index, ok := decodeDataKey(key)
	if !ok {
		return blackwidow.FilterRemove
	}

	m, err := f.lists.metaFromReader(reader, userKey)
	if err != nil {
		return blackwidow.FilterRemove
	}
	if m.isStale(f.lists.clock.Now()) {
		return blackwidow.FilterRemove
	}
	if m.Version() != version {
		return blackwidow.FilterRemove
	}
	if index <= m.Left() || index >= m.Right() {
		return blackwidow.FilterRemove
	}
	return blackwidow.FilterKeep
}

type dataFilterFactory struct {
	lists *Lists
}

func (f *dataFilterFactory) CreateCompactionFilter() blackwidow.CompactionFilter {
	return &dataFilter{lists: f.lists}
}

// metaFilter reclaims meta rows that can no longer be referenced: stale
// and already empty. It never drops a live meta, even an empty one,
// because the next push reuses that record rather than allocating a
// fresh one.
type metaFilter struct {
	lists *Lists
}

func (f *metaFilter) Name() string { return "lists.ListsMetaFilter" }

func (f *metaFilter) Decide(_ blackwidow.Reader, _, value []byte) blackwidow.FilterDecision {
	m, err := newMeta(append([]byte(nil), value...))
	if err != nil {
		return blackwidow.FilterKeep
	}
	if m.isStale(f.lists.clock.Now()) && m.Count() == 0 {
		return blackwidow.FilterRemove
	}
	return blackwidow.FilterKeep
}

type metaFilterFactory struct {
	lists *Lists
}

func (f *metaFilterFactory) CreateCompactionFilter() blackwidow.CompactionFilter {
	return &metaFilter{lists: f.lists}
}
