package blackwidow

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/wanghenshui/blackwidow/keydir"
	"github.com/wanghenshui/blackwidow/model"
)

// ColumnFamilyHandle is an opaque reference to an open column family,
// returned by CreateColumnFamily and passed back into Get/Put/Delete/
// NewIterator/CompactRange — the Go analogue of rocksdb::ColumnFamilyHandle.
type ColumnFamilyHandle struct {
	cf *columnFamily
}

func (h *ColumnFamilyHandle) Name() string { return h.cf.name }

// SetCompactionFilterFactory attaches (or replaces) a column family's
// compaction filter factory after it has already been opened. Needed for
// the "default" column family, which Open creates before any subsystem
// built on top of the engine has had a chance to construct a factory that
// needs a handle back to that subsystem.
func (h *ColumnFamilyHandle) SetCompactionFilterFactory(f CompactionFilterFactory) {
	h.cf.filterFactory = f
}

type columnFamily struct {
	name    string
	dirPath string

	comparator    Comparator
	filterFactory CompactionFilterFactory

	index keydir.Keydir

	mu         sync.Mutex
	activeFile *model.DataFile
	olderFiles map[uint32]*model.DataFile

	opts *options
}

func openColumnFamily(dirPath, name string, opts *options, cmp Comparator, factory CompactionFilterFactory) (*columnFamily, error) {
	if cmp == nil {
		cmp = BytewiseComparator
	}

	cfDir := filepath.Join(dirPath, name)
	if err := os.MkdirAll(cfDir, 0755); err != nil {
		return nil, err
	}

	cf := &columnFamily{
		name:          name,
		dirPath:       cfDir,
		comparator:    cmp,
		filterFactory: factory,
		index:         keydir.NewBTree(0, keydir.Comparator(cmp.Compare)),
		olderFiles:    make(map[uint32]*model.DataFile),
		opts:          opts,
	}

	if err := cf.loadDataFiles(); err != nil {
		return nil, err
	}
	if err := cf.loadIndex(); err != nil {
		return nil, err
	}

	return cf, nil
}

func (cf *columnFamily) loadDataFiles() error {
	entries, err := os.ReadDir(cf.dirPath)
	if err != nil {
		return err
	}

	var fids []uint32
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var fid uint32
		if _, err := parseDataFileName(e.Name(), &fid); err != nil {
			continue
		}
		fids = append(fids, fid)
	}
	sortUint32s(fids)

	for i, fid := range fids {
		ioManager, err := cf.opts.ioManagerCreator(cf.dirPath, fid)
		if err != nil {
			return err
		}
		df, err := model.OpenDataFile(fid, ioManager)
		if err != nil {
			return err
		}
		if i == len(fids)-1 {
			cf.activeFile = df
		} else {
			cf.olderFiles[fid] = df
		}
	}

	if cf.activeFile == nil {
		ioManager, err := cf.opts.ioManagerCreator(cf.dirPath, 0)
		if err != nil {
			return err
		}
		df, err := model.OpenDataFile(0, ioManager)
		if err != nil {
			return err
		}
		cf.activeFile = df
	}

	return nil
}

// loadIndex replays every data file from oldest to newest, rebuilding the
// in-memory keydir from scratch on restart.
func (cf *columnFamily) loadIndex() error {
	var fids []uint32
	for fid := range cf.olderFiles {
		fids = append(fids, fid)
	}
	sortUint32s(fids)
	fids = append(fids, cf.activeFile.Fid)

	for _, fid := range fids {
		df := cf.olderFiles[fid]
		if df == nil {
			df = cf.activeFile
		}

		var offset int64
		for {
			record, size, err := readRecordAt(df, offset, cf.opts.codec)
			if err != nil {
				break
			}
			if record.IsDelete {
				cf.index.Delete(record.Key)
			} else {
				cf.index.Put(record.Key, &model.RecordPos{Fid: fid, Offset: offset, Size: uint32(size)})
			}
			offset += size
		}
	}

	return nil
}

func (cf *columnFamily) close() error {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	if cf.activeFile != nil {
		if err := cf.activeFile.Close(); err != nil {
			return err
		}
	}
	for _, f := range cf.olderFiles {
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
