// Package blackwidow implements the ordered key-value engine collaborator
// the lists core is built against: column families, atomic write batches,
// snapshots, range iterators, and per-column-family comparators and
// compaction filters — the Go analogue of the RocksDB handle a real
// blackwidow engine wraps.
package blackwidow

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/wanghenshui/blackwidow/codec"
	"github.com/wanghenshui/blackwidow/fio"
	"github.com/wanghenshui/blackwidow/model"
)

// ErrDirInUse is returned when dirPath is already held open by another
// process.
var ErrDirInUse = addPrefix("data directory is already in use by another process")

// DefaultColumnFamily is the name RocksDB (and this engine) gives the
// column family that always exists once a database is opened.
const DefaultColumnFamily = "default"

// DB is an open engine handle: a directory holding one or more column
// families, each its own append-only log plus an in-memory ordered index.
type DB struct {
	dirPath string
	opts    *options

	mu      sync.RWMutex // serializes writes and isolates readers from in-flight batches
	cfs     map[string]*columnFamily
	closed  bool
	nextSeq uint64

	fileLock *flock.Flock
}

// Open opens (or creates) the engine directory and its default column
// family. A flock on the directory guards against a second process
// opening it concurrently, since nothing below this layer arbitrates
// between two independent in-memory indexes over the same log files.
func Open(dirPath string, opts ...Option) (*DB, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return nil, err
	}

	fl := fio.NewFlock(dirPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrDirInUse
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	db := &DB{
		dirPath:  dirPath,
		opts:     o,
		cfs:      make(map[string]*columnFamily),
		fileLock: fl,
	}

	if _, err := db.createColumnFamilyLocked(DefaultColumnFamily, nil, nil); err != nil {
		_ = fl.Unlock()
		return nil, err
	}

	return db, nil
}

// Close flushes and closes every column family's log and releases the
// directory flock.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true

	for _, cf := range db.cfs {
		if err := cf.close(); err != nil {
			return err
		}
	}
	return db.fileLock.Unlock()
}

// CreateColumnFamily opens a new column family under dirPath, registering
// its comparator and compaction filter factory (either may be nil).
func (db *DB) CreateColumnFamily(name string, cmp Comparator, factory CompactionFilterFactory) (*ColumnFamilyHandle, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.createColumnFamilyLocked(name, cmp, factory)
}

func (db *DB) createColumnFamilyLocked(name string, cmp Comparator, factory CompactionFilterFactory) (*ColumnFamilyHandle, error) {
	if _, ok := db.cfs[name]; ok {
		return nil, ErrColumnFamilyExists
	}

	cf, err := openColumnFamily(db.dirPath, name, db.opts, cmp, factory)
	if err != nil {
		return nil, err
	}
	db.cfs[name] = cf

	return &ColumnFamilyHandle{cf: cf}, nil
}

// ColumnFamily returns the handle of an already-open column family, for a
// caller that needs to attach a compaction filter factory after the fact
// (the "default" column family, opened automatically by Open, is the only
// one that needs this).
func (db *DB) ColumnFamily(name string) (*ColumnFamilyHandle, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	cf, ok := db.cfs[name]
	if !ok {
		return nil, ErrColumnFamilyMissing
	}
	return &ColumnFamilyHandle{cf: cf}, nil
}

func (db *DB) cf(h *ColumnFamilyHandle) (*columnFamily, error) {
	if h == nil || h.cf == nil {
		return nil, ErrColumnFamilyMissing
	}
	return h.cf, nil
}

// Get reads the current value for key in the given column family.
func (db *DB) Get(h *ColumnFamilyHandle, key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.getLocked(h, key)
}

func (db *DB) getLocked(h *ColumnFamilyHandle, key []byte) ([]byte, error) {
	cf, err := db.cf(h)
	if err != nil {
		return nil, err
	}

	pos := cf.index.Get(key)
	if pos == nil {
		return nil, ErrKeyNotFound
	}

	return cf.readValue(pos)
}

// lockFreeReader is the Reader CompactRange passes to a CompactionFilter:
// it reads via getLocked directly, without taking db.mu, because the
// caller (CompactRange) already holds it for the duration of the sweep.
type lockFreeReader struct{ db *DB }

func (r lockFreeReader) Get(h *ColumnFamilyHandle, key []byte) ([]byte, error) {
	return r.db.getLocked(h, key)
}

// Put writes a single key/value pair to a column family, as a one-entry
// write batch.
func (db *DB) Put(h *ColumnFamilyHandle, key, value []byte) error {
	wb := db.NewWriteBatch()
	if err := wb.Put(h, key, value); err != nil {
		return err
	}
	return wb.Commit()
}

// Delete removes key from a column family, as a one-entry write batch.
func (db *DB) Delete(h *ColumnFamilyHandle, key []byte) error {
	wb := db.NewWriteBatch()
	if err := wb.Delete(h, key); err != nil {
		return err
	}
	return wb.Commit()
}

// GetSnapshot returns a read view. Because every WriteBatch commits under
// db.mu held for its full duration, a reader that takes db.mu.RLock()
// (which Snapshot.Get does) can never observe a partially applied batch.
// Each Snapshot.Get reads the current index, though: the view is not pinned
// to the moment GetSnapshot was called, so a batch committed between two
// Gets is visible to the second one.
func (db *DB) GetSnapshot() *Snapshot {
	db.mu.RLock()
	seq := db.nextSeq
	db.mu.RUnlock()
	return &Snapshot{db: db, seq: seq}
}

// NewIterator returns a forward-or-reverse iterator over a column family.
func (db *DB) NewIterator(h *ColumnFamilyHandle, reverse bool) (Iterator, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	cf, err := db.cf(h)
	if err != nil {
		return nil, err
	}
	return &cfIterator{it: cf.index.Iterator(reverse), cf: cf}, nil
}

// CompactRange asks the column family's compaction filter (if any) about
// every key in [begin, end] (nil bounds are open-ended) and drops the ones
// it marks FilterRemove from the index. This is a synchronous stand-in for
// RocksDB's background compaction: the lists core never depends on it for
// correctness (every read is already scoped to the live (key, version)
// window), only for reclaiming space.
func (db *DB) CompactRange(h *ColumnFamilyHandle, begin, end []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cf, err := db.cf(h)
	if err != nil {
		return err
	}
	if cf.filterFactory == nil {
		return nil
	}

	filter := cf.filterFactory.CreateCompactionFilter()
	if filter == nil {
		return nil
	}

	it := cf.index.Iterator(false)
	if begin != nil {
		it.Seek(begin)
	}

	reader := lockFreeReader{db: db}

	var drop [][]byte
	for it.Valid() {
		key := it.Key()
		if end != nil && bytes.Compare(key, end) > 0 {
			break
		}

		value, err := cf.readValue(it.Value())
		if err != nil {
			return err
		}
		if filter.Decide(reader, key, value) == FilterRemove {
			drop = append(drop, append([]byte(nil), key...))
		}
		it.Next()
	}

	for _, key := range drop {
		cf.index.Delete(key)
	}

	return nil
}

func (cf *columnFamily) readValue(pos *model.RecordPos) ([]byte, error) {
	df := cf.activeFile
	if pos.Fid != cf.activeFile.Fid {
		df = cf.olderFiles[pos.Fid]
	}
	if df == nil {
		return nil, ErrKeyNotFound
	}

	record, _, err := readRecordAt(df, pos.Offset, cf.opts.codec)
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

// appendRecord marshals and appends record to cf's active log, rotating to
// a new file when the active one would exceed opts.dataFileSize.
func (cf *columnFamily) appendRecord(record *model.Record) (*model.RecordPos, error) {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	data, size := cf.opts.codec.MarshalRecord(record)
	if size > cf.opts.dataFileSize {
		return nil, ErrBigValue
	}

	if cf.activeFile.WriteOffset+size > cf.opts.dataFileSize {
		if err := cf.rotateLocked(); err != nil {
			return nil, err
		}
	}

	offset, err := cf.activeFile.Write(data)
	if err != nil {
		return nil, err
	}

	return &model.RecordPos{Fid: cf.activeFile.Fid, Offset: offset, Size: uint32(size)}, nil
}

func (cf *columnFamily) rotateLocked() error {
	if err := cf.activeFile.Sync(); err != nil {
		return err
	}
	cf.olderFiles[cf.activeFile.Fid] = cf.activeFile

	newFid := cf.activeFile.Fid + 1
	ioManager, err := cf.opts.ioManagerCreator(cf.dirPath, newFid)
	if err != nil {
		return err
	}
	df, err := model.OpenDataFile(newFid, ioManager)
	if err != nil {
		return err
	}
	cf.activeFile = df
	return nil
}

func readRecordAt(df *model.DataFile, offset int64, c codec.Codec) (*model.Record, int64, error) {
	size, err := df.IOManager.Size()
	if err != nil {
		return nil, 0, err
	}
	if offset >= size {
		return nil, 0, io.EOF
	}

	headerBuf, err := df.ReadAt(offset, model.MaxHeaderSize)
	if err != nil {
		return nil, 0, err
	}
	header, headerSize, err := c.UnmarshalRecordHeader(headerBuf)
	if err != nil {
		return nil, 0, err
	}

	body, err := df.ReadAt(offset+headerSize, header.KeySize+header.ValueSize)
	if err != nil {
		return nil, 0, err
	}

	record := c.UnmarshalRecord(body, header)
	return record, headerSize + header.KeySize + header.ValueSize, nil
}

func parseDataFileName(name string, fid *uint32) (uint32, error) {
	if !strings.HasSuffix(name, model.DataFileSuffix) {
		return 0, fmt.Errorf("not a data file: %s", name)
	}
	base := strings.TrimSuffix(name, model.DataFileSuffix)
	n, err := strconv.ParseUint(base, 10, 32)
	if err != nil {
		return 0, err
	}
	*fid = uint32(n)
	return uint32(n), nil
}

func sortUint32s(s []uint32) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
