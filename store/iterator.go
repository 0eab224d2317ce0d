package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendBtree collects all cached items in [start, end) in ascending order.
// nil start or end means the range is unbounded on that side.
func ascendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendBtree collects all cached items in [start, end) in descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// mergeIterator drains the parent iterator and overlays the cached items.
// Set items shadow the parent value, deleted items hide the parent entry.
// Both inputs must be ordered in the same direction.
func mergeIterator(parent Iterator, cached []btree.Item, reverse bool) *SliceIterator {
	defer parent.Close()

	// before reports whether a comes first in iteration order
	before := func(a, b []byte) bool {
		c := bytes.Compare(a, b)
		if reverse {
			return c > 0
		}
		return c < 0
	}

	var res []Model
	emit := func(i btree.Item) {
		if s, ok := i.(setItem); ok {
			res = append(res, Model{Key: s.key, Value: s.value})
		}
	}

	for parent.Valid() {
		pk := parent.Key()
		for len(cached) > 0 && before(cached[0].(keyer).Key(), pk) {
			emit(cached[0])
			cached = cached[1:]
		}
		if len(cached) > 0 && bytes.Equal(cached[0].(keyer).Key(), pk) {
			emit(cached[0])
			cached = cached[1:]
		} else {
			res = append(res, Model{Key: pk, Value: parent.Value()})
		}
		parent.Next()
	}
	for _, i := range cached {
		emit(i)
	}
	return NewSliceIterator(res)
}
