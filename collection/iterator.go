package collection

import (
	"container/list"
	"iter"
)

// Iterator walks a collection forward, one entry per Next call.
//
//	it := c.Iterator()
//	for it.Next() {
//		fmt.Println(it.Key(), it.Value())
//	}
//
// Removing the entry an iterator stands on is allowed, the following Next call moves to
// the entry that came after it. Entries set after the iterator passed the end are not
// visited. Clear and ReplaceAll end every iterator of the collection.
type Iterator[V any] struct {
	m       *Collection[V]
	at      *list.Element
	gen     uint64
	started bool
}

// Iterator returns a new iterator positioned before the first entry.
func (m *Collection[V]) Iterator() *Iterator[V] {
	return &Iterator[V]{m: m, gen: m.gen}
}

// Next advances to the following entry and reports whether there is one.
func (it *Iterator[V]) Next() bool {
	if it.gen != it.m.gen {
		it.started, it.at = true, nil
		return false
	}
	if !it.started {
		it.started = true
		it.at = it.m.entries.Front()
		return it.at != nil
	}
	if it.at == nil {
		return false
	}
	if en := it.at.Value.(*entry[V]); en.removed {
		it.at = live[V](en.succ)
	} else {
		it.at = it.at.Next()
	}
	return it.at != nil
}

func live[V any](e *list.Element) *list.Element {
	for e != nil {
		en := e.Value.(*entry[V])
		if !en.removed {
			return e
		}
		e = en.succ
	}
	return nil
}

// Valid reports whether the iterator stands on an entry that is still in the collection.
func (it *Iterator[V]) Valid() bool {
	return it.at != nil && it.gen == it.m.gen && !it.at.Value.(*entry[V]).removed
}

func (it *Iterator[V]) Key() Key {
	if !it.Valid() {
		return Key{}
	}
	return it.at.Value.(*entry[V]).key
}

func (it *Iterator[V]) Value() (v V) {
	if !it.Valid() {
		return
	}
	return it.at.Value.(*entry[V]).value
}

// Reset moves the iterator back before the first entry.
func (it *Iterator[V]) Reset() {
	it.started, it.at, it.gen = false, nil, it.m.gen
}

func (it *Iterator[V]) seek(e *list.Element) {
	it.started, it.at, it.gen = true, e, it.m.gen
}

// All returns a one-shot sequence over the entries, for use with range.
func (m *Collection[V]) All() iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		it := m.Iterator()
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Fetch calls p for every entry in order until p returns false.
func (m *Collection[V]) Fetch(p func(key Key, value V) bool) {
	for k, v := range m.All() {
		if !p(k, v) {
			return
		}
	}
}

// The cursor below keeps the classic first/next/current/key accessors on top of one
// Iterator owned by the collection. A cursor that was never moved stands on the first
// entry, as soon as there is one.

func (m *Collection[V]) cursorIterator() *Iterator[V] {
	c := &m.cursor
	if c.m == nil {
		c.m, c.gen = m, m.gen
	}
	return c
}

func (m *Collection[V]) positioned() *Iterator[V] {
	c := m.cursorIterator()
	if !c.started && m.entries.Len() > 0 {
		c.Next()
	}
	return c
}

// First moves the cursor to the first entry and returns its value.
func (m *Collection[V]) First() (V, bool) {
	c := m.cursorIterator()
	c.Reset()
	c.Next()
	return c.Value(), c.Valid()
}

// Last moves the cursor to the last entry and returns its value.
func (m *Collection[V]) Last() (V, bool) {
	c := m.cursorIterator()
	c.seek(m.entries.Back())
	return c.Value(), c.Valid()
}

// Key returns the key under the cursor, false once the cursor is exhausted.
func (m *Collection[V]) Key() (Key, bool) {
	c := m.positioned()
	return c.Key(), c.Valid()
}

// Current returns the value under the cursor, false once the cursor is exhausted.
func (m *Collection[V]) Current() (V, bool) {
	c := m.positioned()
	return c.Value(), c.Valid()
}

// Next moves the cursor to the following entry and returns its value. Moving past the
// last entry exhausts the cursor.
func (m *Collection[V]) Next() (V, bool) {
	c := m.positioned()
	c.Next()
	return c.Value(), c.Valid()
}
