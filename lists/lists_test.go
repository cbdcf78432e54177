package lists

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanghenshui/blackwidow/clock"
)

func openTestLists(t *testing.T, opts ...Option) *Lists {
	t.Helper()
	l, err := Open(t.TempDir(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func strs(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}

func TestRPush_LPush_PreserveInsertionOrder(t *testing.T) {
	l := openTestLists(t)

	count, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	count, err = l.LPush([]byte("L"), []byte("x"), []byte("y"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)

	// LPush("x","y") means y ends up at the head, then x, then the original a b c
	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x", "a", "b", "c"}, strs(values))
}

func TestLRange_ClampsOutOfBoundIndices(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)

	values, err := l.LRange([]byte("L"), -100, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, strs(values))

	values, err = l.LRange([]byte("L"), 5, 10)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestLRange_MissingKey(t *testing.T) {
	l := openTestLists(t)
	_, err := l.LRange([]byte("nope"), 0, -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLPop_RPop_RoundTrip(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)

	v, err := l.LPop([]byte("L"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(v))

	v, err = l.RPop([]byte("L"))
	require.NoError(t, err)
	assert.Equal(t, "c", string(v))

	n, err := l.LLen([]byte("L"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	v, err = l.LPop([]byte("L"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(v))

	_, err = l.LPop([]byte("L"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLIndex_PositiveAndNegative(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)

	v, err := l.LIndex([]byte("L"), 0)
	require.NoError(t, err)
	assert.Equal(t, "a", string(v))

	v, err = l.LIndex([]byte("L"), -1)
	require.NoError(t, err)
	assert.Equal(t, "c", string(v))

	_, err = l.LIndex([]byte("L"), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLSet_OverwritesInPlace(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)

	require.NoError(t, l.LSet([]byte("L"), 1, []byte("B")))

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, strs(values))
}

func TestLSet_OutOfRangeIsStrictError(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"))
	require.NoError(t, err)

	err = l.LSet([]byte("L"), 5, []byte("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLPushx_RPushx_OnlyActOnExistingLists(t *testing.T) {
	l := openTestLists(t)

	_, err := l.LPushx([]byte("missing"), []byte("a"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.RPush([]byte("L"), []byte("a"))
	require.NoError(t, err)

	count, err := l.RPushx([]byte("L"), []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, strs(values))
}

func TestLTrim_KeepsOnlyTheInclusiveWindow(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"), []byte("d"), []byte("e"))
	require.NoError(t, err)

	require.NoError(t, l.LTrim([]byte("L"), 1, 3))

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, strs(values))
}

func TestLTrim_EmptyRangeAfterConversionLeavesListUntouched(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)

	require.NoError(t, l.LTrim([]byte("L"), 5, 1))

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, strs(values))
}

func TestLTrim_OnMissingListReportsErrorWithoutCreatingOne(t *testing.T) {
	l := openTestLists(t)

	err := l.LTrim([]byte("missing"), 0, -1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.LRange([]byte("missing"), 0, -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLTrim_ClampsStartPastTheHead(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"), []byte("d"), []byte("e"))
	require.NoError(t, err)

	require.NoError(t, l.LTrim([]byte("L"), -100, 2))

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, strs(values))
}

func TestLInsert_BeforeAndAfterPivot(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)

	n, err := l.LInsert([]byte("L"), Before, []byte("b"), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "x", "b", "c"}, strs(values))

	n, err = l.LInsert([]byte("L"), After, []byte("b"), []byte("y"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	values, err = l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "x", "b", "y", "c"}, strs(values))
}

func TestLInsert_PivotNotFound(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"))
	require.NoError(t, err)

	n, err := l.LInsert([]byte("L"), Before, []byte("nope"), []byte("x"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(-1), n)
}

func TestLInsert_ByteExactPivotMatch(t *testing.T) {
	l := openTestLists(t)
	valueWithNUL := []byte("ab\x00cd")
	_, err := l.RPush([]byte("L"), valueWithNUL, []byte("z"))
	require.NoError(t, err)

	// a pivot that would match under C-string (strcmp) semantics but not
	// byte-exact comparison must not be treated as found
	n, err := l.LInsert([]byte("L"), After, []byte("ab"), []byte("new"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(-1), n)

	n, err = l.LInsert([]byte("L"), After, valueWithNUL, []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestLRem_PositiveCountRemovesFromHead(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"),
		[]byte("a"), []byte("b"), []byte("a"), []byte("c"), []byte("a"))
	require.NoError(t, err)

	removed, err := l.LRem([]byte("L"), 2, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, strs(values))
}

func TestLRem_NegativeCountRemovesFromTail(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"),
		[]byte("a"), []byte("b"), []byte("a"), []byte("c"), []byte("a"))
	require.NoError(t, err)

	removed, err := l.LRem([]byte("L"), -2, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, strs(values))
}

func TestLRem_ZeroCountRemovesAll(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"),
		[]byte("a"), []byte("b"), []byte("a"), []byte("c"), []byte("a"))
	require.NoError(t, err)

	removed, err := l.LRem([]byte("L"), 0, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), removed)

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, strs(values))
}

func TestLRem_NoMatchReportsNotFound(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"))
	require.NoError(t, err)

	removed, err := l.LRem([]byte("L"), 0, []byte("nope"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uint64(0), removed)
}

func TestLRem_IdempotentOnSecondCall(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("a"), []byte("b"))
	require.NoError(t, err)

	removed, err := l.LRem([]byte("L"), 0, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)

	removed, err = l.LRem([]byte("L"), 0, []byte("a"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uint64(0), removed)
}

func TestRPoplpush_MovesTailToHeadOfDestination(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("src"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)
	_, err = l.RPush([]byte("dst"), []byte("x"))
	require.NoError(t, err)

	v, err := l.RPoplpush([]byte("src"), []byte("dst"))
	require.NoError(t, err)
	assert.Equal(t, "c", string(v))

	srcValues, err := l.LRange([]byte("src"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, strs(srcValues))

	dstValues, err := l.LRange([]byte("dst"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "x"}, strs(dstValues))
}

func TestRPoplpush_CreatesDestinationIfMissing(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("src"), []byte("a"), []byte("b"))
	require.NoError(t, err)

	v, err := l.RPoplpush([]byte("src"), []byte("dst"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(v))

	dstValues, err := l.LRange([]byte("dst"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, strs(dstValues))
}

func TestRPoplpush_SelfRotationOnSingleElementIsNoOp(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("only"))
	require.NoError(t, err)

	v, err := l.RPoplpush([]byte("L"), []byte("L"))
	require.NoError(t, err)
	assert.Equal(t, "only", string(v))

	n, err := l.LLen([]byte("L"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestRPoplpush_SelfRotationMovesTailToHead(t *testing.T) {
	l := openTestLists(t)
	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)

	v, err := l.RPoplpush([]byte("L"), []byte("L"))
	require.NoError(t, err)
	assert.Equal(t, "c", string(v))

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, strs(values))
}

func TestExpire_FutureDeadlineKeepsListAndNonPositiveTTLResetsIt(t *testing.T) {
	c := clock.Fixed(1000)
	l := openTestLists(t, WithClock(c))

	_, err := l.RPush([]byte("L"), []byte("a"))
	require.NoError(t, err)

	require.NoError(t, l.Expire([]byte("L"), 5))

	_, err = l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err) // not stale yet

	staleClock := clock.Fixed(1006)
	l2 := openTestLists(t, WithClock(staleClock))
	_, err = l2.RPush([]byte("L"), []byte("a"))
	require.NoError(t, err)
	require.NoError(t, l2.Expire([]byte("L"), -1)) // reset == Del semantics

	_, err = l2.LRange([]byte("L"), 0, -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDel_ThenPushReusesKeyWithFreshVersion(t *testing.T) {
	c := clock.Fixed(1000)
	l := openTestLists(t, WithClock(c))

	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"))
	require.NoError(t, err)
	require.NoError(t, l.Del([]byte("L")))

	_, err = l.LRange([]byte("L"), 0, -1)
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := l.RPush([]byte("L"), []byte("fresh"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, strs(values))
}

func TestDel_OnMissingKeyReportsNotFound(t *testing.T) {
	l := openTestLists(t)
	err := l.Del([]byte("missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLLen_OnMissingKeyReportsNotFound(t *testing.T) {
	l := openTestLists(t)
	_, err := l.LLen([]byte("missing"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCompactRange_ReclaimsDataLeftByDel(t *testing.T) {
	l := openTestLists(t)

	_, err := l.RPush([]byte("L"), []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)
	require.NoError(t, l.Del([]byte("L")))

	// the old generation's data is unreachable and gets reclaimed; the
	// now-empty meta has no timestamp, so it is not stale and is kept.
	// CompactRange should not error while sweeping either column family
	require.NoError(t, l.CompactRange(nil, nil))

	_, err = l.RPush([]byte("L"), []byte("new"))
	require.NoError(t, err)
	values, err := l.LRange([]byte("L"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, strs(values))
}
