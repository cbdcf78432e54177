package codec

import "github.com/wanghenshui/blackwidow/model"

// Codec marshals/unmarshals the physical on-disk record format. Swappable
// via options.WithCodec so a caller can replace the wire format without
// touching the storage loop.
type Codec interface {
	MarshalRecordHeader(*model.RecordHeader) ([]byte, int64)
	UnmarshalRecordHeader([]byte) (*model.RecordHeader, int64, error)

	MarshalRecord(*model.Record) ([]byte, int64)
	UnmarshalRecord(data []byte, header *model.RecordHeader) *model.Record

	MarshalRecordPos(*model.RecordPos) []byte
	UnmarshalRecordPos([]byte) *model.RecordPos
}
