package blackwidow

import "bytes"

// Comparator orders the keys within a column family. Registered per column
// family at CreateColumnFamily time, the Go analogue of RocksDB's
// ColumnFamilyOptions.comparator.
type Comparator interface {
	Name() string
	Compare(a, b []byte) int
}

// bytewiseComparator orders keys by plain lexicographic byte comparison.
// This is the comparator the lists data column family registers: because
// every data key is encoded with a fixed-width key-length prefix ahead of
// the user key (see the lists package's key codec), no escaping is needed
// for byte comparison to sort correctly both across different user keys and
// within one (user_key, version) pair by index.
type bytewiseComparator struct{}

func (bytewiseComparator) Name() string { return "blackwidow.BytewiseComparator" }

func (bytewiseComparator) Compare(a, b []byte) int { return bytes.Compare(a, b) }

// BytewiseComparator is the default Comparator.
var BytewiseComparator Comparator = bytewiseComparator{}
