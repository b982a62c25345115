package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wecisecode/datastructures/collection"
)

func TestCursor(t *testing.T) {
	c := seq("a", "b", "c")

	v, ok := c.Current()
	assert.True(t, ok, "an unmoved cursor stands on the first entry")
	assert.Equal(t, "a", v)

	v, ok = c.Next()
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	k, ok := c.Key()
	assert.True(t, ok)
	assert.Equal(t, collection.IntKey(1), k)

	v, _ = c.Last()
	assert.Equal(t, "c", v)
	_, ok = c.Next()
	assert.False(t, ok)
	_, ok = c.Current()
	assert.False(t, ok)
	_, ok = c.Key()
	assert.False(t, ok)

	v, ok = c.First()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestCursorEmpty(t *testing.T) {
	c := collection.New[string]()
	_, ok := c.First()
	assert.False(t, ok)
	_, ok = c.Last()
	assert.False(t, ok)
	_, ok = c.Current()
	assert.False(t, ok)

	d := collection.New[string]()
	d.Add("a")
	v, ok := d.Current()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestCursorRemove(t *testing.T) {
	c := seq("a", "b", "c")
	c.First()
	c.Remove(collection.IntKey(0))
	v, ok := c.Current()
	assert.True(t, ok, "the cursor moves to the following entry")
	assert.Equal(t, "b", v)

	c.Last()
	c.RemoveElement("c")
	_, ok = c.Current()
	assert.False(t, ok, "removing the last entry under the cursor exhausts it")

	c.Remove(collection.IntKey(1))
	assert.True(t, c.IsEmpty())
}

func TestCursorClear(t *testing.T) {
	c := seq("a", "b")
	c.Clear()
	_, ok := c.Current()
	assert.False(t, ok)
	c.Add("x")
	_, ok = c.Current()
	assert.False(t, ok, "clear leaves the cursor exhausted until First")
	v, ok := c.First()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func collect(it *collection.Iterator[string]) (keys []collection.Key, values []string) {
	for it.Next() {
		keys = append(keys, it.Key())
		values = append(values, it.Value())
	}
	return
}

func TestIterator(t *testing.T) {
	c := collection.New(collection.NewEntry("x", "a"), collection.NewEntry(5, "b"))
	it := c.Iterator()
	assert.False(t, it.Valid())
	keys, values := collect(it)
	assert.Equal(t, collection.Keys("x", 5), keys)
	assert.Equal(t, []string{"a", "b"}, values)
	assert.False(t, it.Next())
	assert.False(t, it.Valid())
	assert.Equal(t, "", it.Value())

	it.Reset()
	_, values = collect(it)
	assert.Equal(t, []string{"a", "b"}, values)

	a, b := c.Iterator(), c.Iterator()
	require.True(t, a.Next())
	require.True(t, a.Next())
	require.True(t, b.Next())
	assert.Equal(t, "b", a.Value())
	assert.Equal(t, "a", b.Value(), "iterators are independent")
}

func TestIteratorRemoval(t *testing.T) {
	c := seq("a", "b", "c", "d")
	it := c.Iterator()
	require.True(t, it.Next())
	require.True(t, it.Next())
	assert.Equal(t, "b", it.Value())

	c.Remove(collection.IntKey(1))
	c.Remove(collection.IntKey(2))
	assert.False(t, it.Valid())
	require.True(t, it.Next())
	assert.Equal(t, "d", it.Value())

	c.Add("e")
	require.True(t, it.Next())
	assert.Equal(t, "e", it.Value())
	assert.False(t, it.Next())
}

func TestIteratorEndedByClear(t *testing.T) {
	c := seq("a", "b")
	it := c.Iterator()
	require.True(t, it.Next())
	c.Clear()
	c.Add("x")
	assert.False(t, it.Valid())
	assert.False(t, it.Next())

	it.Reset()
	_, values := collect(it)
	assert.Equal(t, []string{"x"}, values)

	it = c.Iterator()
	require.True(t, it.Next())
	c.ReplaceAll(nil)
	assert.False(t, it.Next())
}

func TestAllAndFetch(t *testing.T) {
	c := seq("a", "b", "c")
	var values []string
	for k, v := range c.All() {
		if k == collection.IntKey(2) {
			break
		}
		values = append(values, v)
	}
	assert.Equal(t, []string{"a", "b"}, values)

	values = nil
	c.Fetch(func(k collection.Key, v string) bool {
		values = append(values, v)
		return v != "b"
	})
	assert.Equal(t, []string{"a", "b"}, values)

	for k := range c.All() {
		c.Remove(k)
	}
	assert.True(t, c.IsEmpty(), "removing while ranging is allowed")
}
