package blackwidow

import "github.com/wanghenshui/blackwidow/keydir"

// Iterator walks a column family's live keys in comparator order. It must
// be closed when the caller is done with it.
type Iterator interface {
	Seek(key []byte)
	Next()
	Valid() bool
	Key() []byte
	Value() ([]byte, error)
	Close()
}

// cfIterator adapts the in-memory keydir.Iterator (which only knows record
// positions) into an engine Iterator that reads the underlying value on
// demand.
type cfIterator struct {
	it keydir.Iterator
	cf *columnFamily
}

func (c *cfIterator) Seek(key []byte) { c.it.Seek(key) }
func (c *cfIterator) Next()           { c.it.Next() }
func (c *cfIterator) Valid() bool     { return c.it.Valid() }
func (c *cfIterator) Key() []byte     { return c.it.Key() }
func (c *cfIterator) Close()          { c.it.Close() }

func (c *cfIterator) Value() ([]byte, error) {
	return c.cf.readValue(c.it.Value())
}
