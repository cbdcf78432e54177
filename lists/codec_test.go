package lists

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeDataKey_RoundTrip(t *testing.T) {
	buf := encodeDataKey([]byte("mylist"), 7, 42)

	key, version, index, ok := decodeDataKey(buf)
	assert.True(t, ok)
	assert.True(t, bytes.Equal([]byte("mylist"), key))
	assert.Equal(t, uint32(7), version)
	assert.Equal(t, uint64(42), index)
}

func TestEncodeDataKey_OrdersByIndexWithinSameKeyAndVersion(t *testing.T) {
	a := encodeDataKey([]byte("k"), 1, 10)
	b := encodeDataKey([]byte("k"), 1, 11)
	assert.True(t, bytes.Compare(a, b) < 0)
}

func TestEncodeDataKey_DisambiguatesDifferentKeys(t *testing.T) {
	a := encodeDataKey([]byte("k"), 1, 0)
	b := encodeDataKey([]byte("k2"), 1, 0)
	assert.False(t, bytes.Equal(a, b))
}

func TestDecodeDataKey_RejectsShortBuffer(t *testing.T) {
	_, _, _, ok := decodeDataKey([]byte{1, 2, 3})
	assert.False(t, ok)
}

func TestDecodeDataKey_RejectsInconsistentLengthPrefix(t *testing.T) {
	buf := encodeDataKey([]byte("k"), 1, 0)
	// corrupt the length prefix so it no longer matches the buffer's actual size
	buf[3] = 99
	_, _, _, ok := decodeDataKey(buf)
	assert.False(t, ok)
}
