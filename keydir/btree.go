package keydir

import (
	"bytes"

	"github.com/google/btree"
	"github.com/wanghenshui/blackwidow/model"
)

var _ Keydir = (*BTree)(nil)

const defaultDegree = 32

// Comparator orders keys. The default is plain lexicographic byte
// comparison, which is sufficient for the lists data-key encoding: a
// fixed-width key-length prefix disambiguates different user keys, so no
// textual escaping is needed (see the lists package's key codec).
type Comparator func(a, b []byte) int

func DefaultComparator(a, b []byte) int { return bytes.Compare(a, b) }

// BTree is the default Keydir, an in-memory ordered index backed by
// google/btree.
type BTree struct {
	tree *btree.BTree
	cmp  Comparator
}

type item struct {
	key []byte
	pos *model.RecordPos
	cmp Comparator
}

func (i *item) Less(than btree.Item) bool {
	return i.cmp(i.key, than.(*item).key) < 0
}

func NewBTree(degree int, cmp Comparator) *BTree {
	if degree <= 0 {
		degree = defaultDegree
	}
	if cmp == nil {
		cmp = DefaultComparator
	}
	return &BTree{
		tree: btree.New(degree),
		cmp:  cmp,
	}
}

func (bt *BTree) Put(key []byte, pos *model.RecordPos) bool {
	bt.tree.ReplaceOrInsert(&item{key: key, pos: pos, cmp: bt.cmp})
	return true
}

func (bt *BTree) Get(key []byte) *model.RecordPos {
	found := bt.tree.Get(&item{key: key, cmp: bt.cmp})
	if found == nil {
		return nil
	}
	return found.(*item).pos
}

func (bt *BTree) Delete(key []byte) bool {
	return bt.tree.Delete(&item{key: key, cmp: bt.cmp}) != nil
}

func (bt *BTree) Len() int {
	return bt.tree.Len()
}

func (bt *BTree) Iterator(reverse bool) Iterator {
	return newBTreeIterator(bt, reverse)
}

type btreeIterator struct {
	bt      *BTree
	reverse bool
	keys    [][]byte
	poss    []*model.RecordPos
	cur     int
}

func newBTreeIterator(bt *BTree, reverse bool) *btreeIterator {
	it := &btreeIterator{
		bt:      bt,
		reverse: reverse,
		keys:    make([][]byte, 0, bt.tree.Len()),
		poss:    make([]*model.RecordPos, 0, bt.tree.Len()),
	}

	collect := func(i btree.Item) bool {
		itm := i.(*item)
		it.keys = append(it.keys, itm.key)
		it.poss = append(it.poss, itm.pos)
		return true
	}

	if reverse {
		bt.tree.Descend(collect)
	} else {
		bt.tree.Ascend(collect)
	}

	return it
}

// Seek moves the cursor to the first entry that would sort at or after key
// (at or before, when iterating in reverse).
func (it *btreeIterator) Seek(key []byte) {
	if it.reverse {
		it.cur = sortSearch(it.keys, key, it.bt.cmp, func(c int) bool { return c <= 0 })
	} else {
		it.cur = sortSearch(it.keys, key, it.bt.cmp, func(c int) bool { return c >= 0 })
	}
}

func sortSearch(keys [][]byte, key []byte, cmp Comparator, match func(int) bool) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if match(cmp(keys[mid], key)) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

func (it *btreeIterator) Next() { it.cur++ }

func (it *btreeIterator) Valid() bool { return it.cur >= 0 && it.cur < len(it.keys) }

func (it *btreeIterator) Key() []byte { return it.keys[it.cur] }

func (it *btreeIterator) Value() *model.RecordPos { return it.poss[it.cur] }

func (it *btreeIterator) Close() {}
