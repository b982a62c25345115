package collection

// Predicate tests one entry of a collection.
type Predicate[V any] func(key Key, value V) bool

func (m *Collection[V]) walk(f func(en *entry[V]) bool) {
	m.walking++
	defer func() { m.walking-- }()
	for e := m.entries.Front(); e != nil; e = e.Next() {
		if !f(e.Value.(*entry[V])) {
			return
		}
	}
}

// Exists reports whether p holds for at least one entry, stopping at the first match.
func (m *Collection[V]) Exists(p Predicate[V]) (found bool) {
	m.walk(func(en *entry[V]) bool {
		found = p(en.key, en.value)
		return !found
	})
	return
}

// ForAll reports whether p holds for every entry, stopping at the first failure.
func (m *Collection[V]) ForAll(p Predicate[V]) bool {
	all := true
	m.walk(func(en *entry[V]) bool {
		all = p(en.key, en.value)
		return all
	})
	return all
}

// Filter returns a new collection of the entries matching p, keys and order kept.
func (m *Collection[V]) Filter(p Predicate[V]) *Collection[V] {
	c := &Collection[V]{equal: m.equal}
	m.walk(func(en *entry[V]) bool {
		if p(en.key, en.value) {
			c.set(en.key, en.value)
		}
		return true
	})
	return c
}

// Partition splits the entries into those matching p and the others.
func (m *Collection[V]) Partition(p Predicate[V]) (matched *Collection[V], rest *Collection[V]) {
	matched = &Collection[V]{equal: m.equal}
	rest = &Collection[V]{equal: m.equal}
	m.walk(func(en *entry[V]) bool {
		if p(en.key, en.value) {
			matched.set(en.key, en.value)
		} else {
			rest.set(en.key, en.value)
		}
		return true
	})
	return
}

// MapIn replaces every value with transform(value) in place and returns m.
func (m *Collection[V]) MapIn(transform func(V) V) *Collection[V] {
	m.walk(func(en *entry[V]) bool {
		en.value = transform(en.value)
		return true
	})
	return m
}

// Map returns a new collection with every value transformed, keys and order kept.
// m is left unchanged.
func Map[V, W any](m *Collection[V], transform func(V) W) *Collection[W] {
	c := &Collection[W]{}
	m.walk(func(en *entry[V]) bool {
		c.set(en.key, transform(en.value))
		return true
	})
	c.nextIndex = max(c.nextIndex, m.nextIndex)
	return c
}

// Any returns a copy holding the values as any, for code that handles collections of
// every value type alike.
func (m *Collection[V]) Any() *Collection[any] {
	return Map(m, func(v V) any { return v })
}
