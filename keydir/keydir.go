package keydir

import "github.com/wanghenshui/blackwidow/model"

// Keydir is the in-memory ordered index mapping a key to its position in a
// column family's log. Swappable so a column family could use a different
// structure (e.g. a skip list) behind the same contract.
type Keydir interface {
	Put(key []byte, pos *model.RecordPos) bool
	Get(key []byte) *model.RecordPos
	Delete(key []byte) bool
	Len() int
	// Iterator returns an ordered iterator over the index. When reverse is
	// true it walks descending.
	Iterator(reverse bool) Iterator
}

// Iterator walks a Keydir in key order, optionally seeked to a starting
// point. It stops being Valid() once it runs off either end.
type Iterator interface {
	Seek(key []byte)
	Next()
	Valid() bool
	Key() []byte
	Value() *model.RecordPos
	Close()
}
