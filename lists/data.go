package lists

import (
	"bytes"
	"errors"

	"github.com/wanghenshui/blackwidow"
)

// putData stages one data-key write into batch.
func (l *Lists) putData(wb *blackwidow.WriteBatch, key []byte, version uint32, index uint64, value []byte) error {
	return wb.Put(l.dataCF, encodeDataKey(key, version, index), value)
}

// deleteData stages one data-key removal into batch.
func (l *Lists) deleteData(wb *blackwidow.WriteBatch, key []byte, version uint32, index uint64) error {
	return wb.Delete(l.dataCF, encodeDataKey(key, version, index))
}

func (l *Lists) getData(key []byte, version uint32, index uint64) ([]byte, error) {
	v, err := l.db.Get(l.dataCF, encodeDataKey(key, version, index))
	if err != nil {
		if errors.Is(err, blackwidow.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// dataCursor walks data keys for one (key, version) pair in ascending or
// descending physical-index order, stopping at the first key outside that
// (key, version) prefix (seek_forward/seek_backward, per the data plane
// contract). The data column family has no real bounded-prefix iterator
// to hand back, so this wraps the engine's whole-column-family Iterator
// and enforces the prefix boundary itself.
type dataCursor struct {
	it      blackwidow.Iterator
	key     []byte
	version uint32
}

func (l *Lists) seek(key []byte, version uint32, startIndex uint64, reverse bool) (*dataCursor, error) {
	it, err := l.db.NewIterator(l.dataCF, reverse)
	if err != nil {
		return nil, err
	}
	it.Seek(encodeDataKey(key, version, startIndex))
	return &dataCursor{it: it, key: key, version: version}, nil
}

func (c *dataCursor) Valid() bool {
	if !c.it.Valid() {
		return false
	}
	k, v, _, ok := decodeDataKey(c.it.Key())
	return ok && v == c.version && bytes.Equal(k, c.key)
}

func (c *dataCursor) Value() ([]byte, error) { return c.it.Value() }
func (c *dataCursor) Next()                  { c.it.Next() }
func (c *dataCursor) Close()                 { c.it.Close() }
