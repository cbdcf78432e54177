package model

import (
	"fmt"
	"path/filepath"

	"github.com/wanghenshui/blackwidow/fio"
)

// FileType distinguishes the kind of file a DataFile backs, mirroring the
// different files a merge cycle produces.
type FileType byte

const (
	DataFileType FileType = iota
	HintFileType
	MergeFinishedFileType
)

const (
	DataFileSuffix          = ".data"
	HintFileSuffix          = ".hint"
	MergeFinishedFileSuffix = ".merge-finished"
)

const MergeFinishedFileName = "merge-finished" + MergeFinishedFileSuffix

// GetDataFileName builds the on-disk file name for a given column family
// directory, file type and file id.
func GetDataFileName(dirPath string, ft FileType, fid uint32) string {
	switch ft {
	case HintFileType:
		return filepath.Join(dirPath, "hint"+HintFileSuffix)
	case MergeFinishedFileType:
		return filepath.Join(dirPath, MergeFinishedFileName)
	default:
		return filepath.Join(dirPath, fmt.Sprintf("%09d%s", fid, DataFileSuffix))
	}
}

// DataFile is one append-only segment of a column family's log.
type DataFile struct {
	Fid         uint32
	WriteOffset int64 // only meaningful for the active file
	IOManager   fio.IOManager
}

func OpenDataFile(fid uint32, ioManager fio.IOManager) (*DataFile, error) {
	df := &DataFile{Fid: fid, IOManager: ioManager}
	size, err := ioManager.Size()
	if err != nil {
		return nil, err
	}
	df.WriteOffset = size
	return df, nil
}

func (df *DataFile) Sync() error {
	return df.IOManager.Sync()
}

func (df *DataFile) Close() error {
	return df.IOManager.Close()
}

// Write appends raw bytes and advances WriteOffset.
func (df *DataFile) Write(data []byte) (int64, error) {
	off := df.WriteOffset
	n, err := df.IOManager.Write(data)
	if err != nil {
		return 0, err
	}
	df.WriteOffset += int64(n)
	return off, nil
}

// ReadAt reads exactly n bytes starting at offset, clamped to the file size.
func (df *DataFile) ReadAt(offset, n int64) ([]byte, error) {
	size, err := df.IOManager.Size()
	if err != nil {
		return nil, err
	}
	if offset+n > size {
		n = size - offset
	}
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err = df.IOManager.Read(buf, offset); err != nil {
		return nil, err
	}
	return buf, nil
}
