package blackwidow

import (
	"os"

	"github.com/wanghenshui/blackwidow/model"
)

// Merge rewrites a column family's log into a single fresh file containing
// only the keys still present in its index, then discards the old files.
// This is the space-reclamation half of compaction: CompactRange decides
// which keys are dead (consulting the registered CompactionFilter) and
// drops them from the index; Merge is what actually frees the disk space
// those now-unindexed keys occupied. A single-pass synchronous rewrite,
// since this engine has no background merge goroutine to hand it off to.
func (db *DB) Merge(h *ColumnFamilyHandle) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cf, err := db.cf(h)
	if err != nil {
		return err
	}

	oldFiles := make(map[uint32]*model.DataFile, len(cf.olderFiles)+1)
	for fid, f := range cf.olderFiles {
		oldFiles[fid] = f
	}
	oldFiles[cf.activeFile.Fid] = cf.activeFile

	newFid := cf.activeFile.Fid + 1
	ioManager, err := cf.opts.ioManagerCreator(cf.dirPath, newFid)
	if err != nil {
		return err
	}
	newFile, err := model.OpenDataFile(newFid, ioManager)
	if err != nil {
		return err
	}

	it := cf.index.Iterator(false)
	newPositions := make(map[string]*model.RecordPos)
	for it.Valid() {
		key := append([]byte(nil), it.Key()...)
		value, err := cf.readValue(it.Value())
		if err != nil {
			return err
		}

		data, size := cf.opts.codec.MarshalRecord(&model.Record{Key: key, Value: value})
		offset, err := newFile.Write(data)
		if err != nil {
			return err
		}
		newPositions[string(key)] = &model.RecordPos{Fid: newFid, Offset: offset, Size: uint32(size)}
		it.Next()
	}

	if err := newFile.Sync(); err != nil {
		return err
	}

	for key, pos := range newPositions {
		cf.index.Put([]byte(key), pos)
	}

	for fid, f := range oldFiles {
		if fid == newFid {
			continue
		}
		_ = f.Close()
	}
	cf.olderFiles = make(map[uint32]*model.DataFile)
	cf.activeFile = newFile

	for fid := range oldFiles {
		if fid == newFid {
			continue
		}
		name := model.GetDataFileName(cf.dirPath, model.DataFileType, fid)
		_ = os.Remove(name)
	}

	return nil
}
