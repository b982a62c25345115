// Package collection provides Collection, an ordered key-addressable container.
//
// A Collection keeps its entries in insertion order, answers key lookups through a hash
// index and offers set-like membership tests and functional combinators (Filter, Map,
// Partition, Exists, ForAll) that produce new collections.
//
// A Collection is not safe for concurrent use. Callers sharing one instance between
// goroutines must guard every access with their own lock. Predicates and transforms
// given to the combinators must not modify the collection they examine; doing so panics.
package collection

import (
	"container/list"
	"encoding/json"
	"math"
	"sort"

	"github.com/wecisecode/datastructures/merrs"
)

type Entry[V any] struct {
	Key   Key
	Value V
}

// NewEntry builds an Entry, converting k with KeyOf.
func NewEntry[V any](k any, v V) Entry[V] {
	return Entry[V]{Key: KeyOf(k), Value: v}
}

type entry[V any] struct {
	key   Key
	value V
	// successor at the time of removal, used by iterators parked on a removed entry
	removed bool
	succ    *list.Element
}

// Collection is an ordered map from Key to V.
// The zero value is an empty collection ready to use.
type Collection[V any] struct {
	mapping   map[Key]*list.Element
	entries   list.List
	nextIndex int64
	equal     Equal[V]
	cursor    Iterator[V]
	gen       uint64
	walking   int
}

// New returns a collection holding entries in the given order. A repeated key keeps
// its first position and its last value.
func New[V any](entries ...Entry[V]) *Collection[V] {
	m := &Collection[V]{}
	for _, e := range entries {
		m.set(e.Key, e.Value)
	}
	return m
}

// FromSlice returns a collection keyed 0..len(values)-1.
func FromSlice[V any](values []V) *Collection[V] {
	m := &Collection[V]{}
	for _, v := range values {
		m.add(v)
	}
	return m
}

// FromMap returns a collection of the map entries ordered by key. Keys go through KeyOf.
func FromMap[V any](amap map[string]V) *Collection[V] {
	keys := make([]string, 0, len(amap))
	for k := range amap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := &Collection[V]{}
	for _, k := range keys {
		m.set(KeyOf(k), amap[k])
	}
	return m
}

// WithEqual replaces the equality used by Contains, IndexOf and RemoveElement.
func (m *Collection[V]) WithEqual(eq Equal[V]) *Collection[V] {
	m.equal = eq
	return m
}

func (m *Collection[V]) eq() Equal[V] {
	if m.equal == nil {
		return StrictEqual[V]
	}
	return m.equal
}

func (m *Collection[V]) modifying(op string) {
	if m.walking > 0 {
		panic(merrs.ProgrammerError.NewWith("collection", nil,
			merrs.SSMaps{{"operation": op}, {"reason": "collection modified by a predicate or transform"}}, -1))
	}
}

func (m *Collection[V]) touch(k Key) {
	if n, ok := k.Int(); ok && n >= m.nextIndex && n < math.MaxInt64 {
		m.nextIndex = n + 1
	}
}

func (m *Collection[V]) set(k Key, v V) {
	if e, ok := m.mapping[k]; ok {
		e.Value.(*entry[V]).value = v
		return
	}
	if m.mapping == nil {
		m.mapping = map[Key]*list.Element{}
	}
	m.mapping[k] = m.entries.PushBack(&entry[V]{key: k, value: v})
	m.touch(k)
}

func (m *Collection[V]) add(v V) Key {
	k := IntKey(m.nextIndex)
	m.set(k, v)
	return k
}

func (m *Collection[V]) unlink(e *list.Element) *entry[V] {
	en := e.Value.(*entry[V])
	next := e.Next()
	if m.cursor.at == e {
		m.cursor.at = next
	}
	en.removed = true
	en.succ = next
	m.entries.Remove(e)
	delete(m.mapping, en.key)
	return en
}

// Add appends value under the next sequential integer key and returns that key.
//
// The next key is one past the highest integer key the collection has ever held, 0 for a
// collection that never held one. Removing entries does not lower it, Clear resets it and
// ReplaceAll recomputes it from the new contents. Negative keys never lower it below 0, and
// the key math.MaxInt64 leaves it unchanged since it has no successor.
func (m *Collection[V]) Add(value V) Key {
	m.modifying("Add")
	return m.add(value)
}

// Set will set (or replace) a value for a key. A replaced key keeps its position, a new
// key is appended at the end.
func (m *Collection[V]) Set(key Key, value V) {
	m.modifying("Set")
	m.set(key, value)
}

// Remove deletes key and returns its value. If the cursor stood on the removed entry it
// moves to the following entry, or becomes exhausted when there is none.
func (m *Collection[V]) Remove(key Key) (value V, ok bool) {
	m.modifying("Remove")
	e, ok := m.mapping[key]
	if !ok {
		return value, false
	}
	return m.unlink(e).value, true
}

// RemoveElement removes the first entry whose value equals element. O(n).
func (m *Collection[V]) RemoveElement(element V) bool {
	m.modifying("RemoveElement")
	if e := m.find(element); e != nil {
		m.unlink(e)
		return true
	}
	return false
}

// Clear empties the collection. The cursor becomes exhausted and the sequential key
// counter restarts at 0.
func (m *Collection[V]) Clear() {
	m.modifying("Clear")
	m.reset()
	m.cursor.started = true
}

func (m *Collection[V]) reset() {
	m.mapping = nil
	m.entries.Init()
	m.nextIndex = 0
	m.gen++
	m.cursor = Iterator[V]{m: m, gen: m.gen}
}

// ReplaceAll discards all entries and the cursor state, then loads entries in order.
func (m *Collection[V]) ReplaceAll(entries []Entry[V]) {
	m.modifying("ReplaceAll")
	m.reset()
	for _, e := range entries {
		m.set(e.Key, e.Value)
	}
}

func (m *Collection[V]) find(element V) *list.Element {
	eq := m.eq()
	for e := m.entries.Front(); e != nil; e = e.Next() {
		if eq(e.Value.(*entry[V]).value, element) {
			return e
		}
	}
	return nil
}

// Contains reports whether any value equals element. O(n).
func (m *Collection[V]) Contains(element V) bool {
	return m.find(element) != nil
}

// IndexOf returns the key of the first value equal to element.
func (m *Collection[V]) IndexOf(element V) (Key, bool) {
	if e := m.find(element); e != nil {
		return e.Value.(*entry[V]).key, true
	}
	return Key{}, false
}

func (m *Collection[V]) Has(key Key) bool {
	_, ok := m.mapping[key]
	return ok
}

// Get returns the value for a key. If the key does not exist, the second return
// parameter will be false and the value will be the zero value or defaultValue.
// A stored zero value is still reported as present.
func (m *Collection[V]) Get(key Key, defaultValue ...V) (V, bool) {
	if e, ok := m.mapping[key]; ok {
		return e.Value.(*entry[V]).value, true
	}
	var v V
	if len(defaultValue) > 0 {
		v = defaultValue[0]
	}
	return v, false
}

func (m *Collection[V]) GetValue(key Key, defaultValue ...V) V {
	v, _ := m.Get(key, defaultValue...)
	return v
}

// Keys returns all of the keys in collection order.
func (m *Collection[V]) Keys() []Key {
	keys := make([]Key, 0, m.entries.Len())
	for e := m.entries.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*entry[V]).key)
	}
	return keys
}

// Values returns all of the values in collection order.
func (m *Collection[V]) Values() []V {
	values := make([]V, 0, m.entries.Len())
	for e := m.entries.Front(); e != nil; e = e.Next() {
		values = append(values, e.Value.(*entry[V]).value)
	}
	return values
}

func (m *Collection[V]) Count() int {
	return m.entries.Len()
}

// Len is Count.
func (m *Collection[V]) Len() int {
	return m.entries.Len()
}

func (m *Collection[V]) IsEmpty() bool {
	return m.entries.Len() == 0
}

// ToArray returns a snapshot of all entries in order.
func (m *Collection[V]) ToArray() []Entry[V] {
	entries := make([]Entry[V], 0, m.entries.Len())
	for e := m.entries.Front(); e != nil; e = e.Next() {
		en := e.Value.(*entry[V])
		entries = append(entries, Entry[V]{en.key, en.value})
	}
	return entries
}

// Slice returns the entries from position offset on, at most length of them when a
// length is given. Positions count in collection order, keys are kept.
//
// A negative offset counts from the end. A negative length stops that many entries
// before the end. Out of range arguments give an empty result.
func (m *Collection[V]) Slice(offset int, length ...int) []Entry[V] {
	n := m.entries.Len()
	if offset > n {
		return []Entry[V]{}
	}
	if offset < 0 {
		offset = max(n+offset, 0)
	}
	count := n - offset
	if len(length) > 0 {
		if l := length[0]; l < 0 {
			count = max(n-offset+l, 0)
		} else if l < count {
			count = l
		}
	}
	entries := make([]Entry[V], 0, count)
	i := 0
	for e := m.entries.Front(); e != nil && len(entries) < count; e = e.Next() {
		if i >= offset {
			en := e.Value.(*entry[V])
			entries = append(entries, Entry[V]{en.key, en.value})
		}
		i++
	}
	return entries
}

// Copy returns a new collection with the same entries, equality and key counter.
func (m *Collection[V]) Copy() *Collection[V] {
	c := New(m.ToArray()...)
	c.equal = m.equal
	c.nextIndex = max(c.nextIndex, m.nextIndex)
	return c
}

func (m *Collection[V]) String() string {
	bs, _ := json.MarshalIndent(m, "", "    ")
	return string(bs)
}
