package lists

import "encoding/binary"

// dataKeyOverhead is the fixed-width portion of an encoded data key: a
// 4-byte big-endian user-key length prefix, a 4-byte big-endian version,
// and an 8-byte big-endian index.
const dataKeyOverhead = 4 + 4 + 8

// encodeDataKey lays out user_key_len ‖ user_key ‖ version ‖ index so
// that, within one (user_key, version) pair, byte-lexicographic order
// matches ascending index order. The length prefix disambiguates
// different user keys so no textual escaping of user_key is needed; index
// is big-endian so larger indices always sort after smaller ones.
func encodeDataKey(key []byte, version uint32, index uint64) []byte {
	buf := make([]byte, 4+len(key)+4+8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(key)))
	copy(buf[4:4+len(key)], key)
	off := 4 + len(key)
	binary.BigEndian.PutUint32(buf[off:off+4], version)
	binary.BigEndian.PutUint64(buf[off+4:off+12], index)
	return buf
}

// decodeDataKey reverses encodeDataKey. ok is false if buf is too short
// or its length prefix is inconsistent with its actual length.
func decodeDataKey(buf []byte) (key []byte, version uint32, index uint64, ok bool) {
	if len(buf) < 4 {
		return nil, 0, 0, false
	}
	klen := int(binary.BigEndian.Uint32(buf[0:4]))
	if len(buf) != 4+klen+4+8 {
		return nil, 0, 0, false
	}
	key = buf[4 : 4+klen]
	off := 4 + klen
	version = binary.BigEndian.Uint32(buf[off : off+4])
	index = binary.BigEndian.Uint64(buf[off+4 : off+12])
	return key, version, index, true
}
