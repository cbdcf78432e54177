package blackwidow

import (
	"github.com/wanghenshui/blackwidow/clock"
	"github.com/wanghenshui/blackwidow/codec"
	"github.com/wanghenshui/blackwidow/fio"
	"github.com/wanghenshui/blackwidow/model"
)

type options struct {
	dataFileSize int64

	ioManagerCreator func(dirPath string, fid uint32) (fio.IOManager, error)
	codec            codec.Codec
	clock            clock.Clock
}

// Option configures Open via the standard functional-options shape
// (WithDataFileSize/WithIOManagerCreator/WithCodec/WithClock).
type Option func(*options)

const defaultDataFileSize = 256 * 1024 * 1024

var defaultIOManagerCreator = func(dirPath string, fid uint32) (fio.IOManager, error) {
	return fio.NewFileIO(model.GetDataFileName(dirPath, model.DataFileType, fid))
}

func defaultOptions() *options {
	return &options{
		dataFileSize:     defaultDataFileSize,
		ioManagerCreator: defaultIOManagerCreator,
		codec:            codec.NewCodecImpl(),
		clock:            clock.SystemClock{},
	}
}

func WithDataFileSize(size int64) Option {
	return func(o *options) { o.dataFileSize = size }
}

func WithIOManagerCreator(fn func(dirPath string, fid uint32) (fio.IOManager, error)) Option {
	return func(o *options) { o.ioManagerCreator = fn }
}

func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}
