package codec

import (
	"encoding/binary"

	"github.com/wanghenshui/blackwidow/model"
	"github.com/wanghenshui/blackwidow/utils"
)

// CodecImpl is the default on-disk record format:
//
//	crc(4) | isDelete(1) | keySize(varint) | valueSize(varint) | key | value
type CodecImpl struct{}

func NewCodecImpl() *CodecImpl { return &CodecImpl{} }

func (c *CodecImpl) MarshalRecordHeader(h *model.RecordHeader) ([]byte, int64) {
	buf := make([]byte, model.MaxHeaderSize)

	if h.IsDelete {
		buf[4] = 1
	}

	idx := 5
	idx += binary.PutVarint(buf[idx:], h.KeySize)
	idx += binary.PutVarint(buf[idx:], h.ValueSize)

	return buf, int64(idx)
}

func (c *CodecImpl) UnmarshalRecordHeader(data []byte) (*model.RecordHeader, int64, error) {
	if len(data) < 6 {
		return nil, 0, model.ErrShortHeader
	}

	crc := binary.BigEndian.Uint32(data[:4])
	isDelete := data[4] == 1

	idx := 5
	keySize, n := binary.Varint(data[idx:])
	idx += n
	valueSize, n := binary.Varint(data[idx:])
	idx += n

	return &model.RecordHeader{
		Crc:       crc,
		IsDelete:  isDelete,
		KeySize:   keySize,
		ValueSize: valueSize,
	}, int64(idx), nil
}

// MarshalRecord returns the full on-disk bytes for record (header + key +
// value) and its total size.
func (c *CodecImpl) MarshalRecord(r *model.Record) ([]byte, int64) {
	header := &model.RecordHeader{
		IsDelete:  r.IsDelete,
		KeySize:   int64(len(r.Key)),
		ValueSize: int64(len(r.Value)),
	}
	headerBuf, headerSize := c.MarshalRecordHeader(header)

	body := make([]byte, len(r.Key)+len(r.Value))
	copy(body, r.Key)
	copy(body[len(r.Key):], r.Value)

	crc := utils.GenerateCrc(append(headerBuf[4:headerSize:headerSize], body...))
	binary.BigEndian.PutUint32(headerBuf[:4], crc)

	data := make([]byte, 0, headerSize+int64(len(body)))
	data = append(data, headerBuf[:headerSize]...)
	data = append(data, body...)

	return data, int64(len(data))
}

func (c *CodecImpl) UnmarshalRecord(data []byte, header *model.RecordHeader) *model.Record {
	kz, vz := header.KeySize, header.ValueSize
	key := make([]byte, kz)
	copy(key, data[:kz])

	var value []byte
	if vz > 0 {
		value = make([]byte, vz)
		copy(value, data[kz:kz+vz])
	}

	return &model.Record{Key: key, Value: value, IsDelete: header.IsDelete}
}

func (c *CodecImpl) MarshalRecordPos(pos *model.RecordPos) []byte {
	buf := make([]byte, binary.MaxVarintLen32*2+binary.MaxVarintLen64)
	idx := 0
	idx += binary.PutVarint(buf[idx:], int64(pos.Fid))
	idx += binary.PutVarint(buf[idx:], pos.Offset)
	idx += binary.PutVarint(buf[idx:], int64(pos.Size))
	return buf[:idx]
}

func (c *CodecImpl) UnmarshalRecordPos(buf []byte) *model.RecordPos {
	idx := 0
	fid, n := binary.Varint(buf[idx:])
	idx += n
	offset, n := binary.Varint(buf[idx:])
	idx += n
	size, _ := binary.Varint(buf[idx:])
	return &model.RecordPos{Fid: uint32(fid), Offset: offset, Size: uint32(size)}
}
