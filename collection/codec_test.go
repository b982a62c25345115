package collection_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/wecisecode/datastructures/collection"
	"github.com/wecisecode/datastructures/merrs"
)

func TestJSONOrder(t *testing.T) {
	c := collection.New(collection.NewEntry("z", 1), collection.NewEntry(3, 2), collection.NewEntry("a", 3))
	bs, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"3":2,"a":3}`, string(bs))

	d := collection.New[int]()
	require.NoError(t, json.Unmarshal(bs, d))
	assert.Equal(t, c.ToArray(), d.ToArray())
	assert.Equal(t, collection.IntKey(4), d.Add(4))
}

func TestJSONNested(t *testing.T) {
	type page struct {
		Title string                                 `json:"title"`
		Tags  *collection.Collection[string]         `json:"tags"`
		Meta  map[string]*collection.Collection[int] `json:"meta"`
	}
	in := page{
		Title: "home",
		Tags:  collection.FromSlice([]string{"b", "a"}),
		Meta:  map[string]*collection.Collection[int]{"m": collection.New(collection.NewEntry("y", 1), collection.NewEntry("x", 2))},
	}
	bs, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"home","tags":{"0":"b","1":"a"},"meta":{"m":{"y":1,"x":2}}}`, string(bs))

	var out page
	require.NoError(t, json.Unmarshal(bs, &out))
	assert.Equal(t, []string{"b", "a"}, out.Tags.Values())
	assert.Equal(t, collection.Keys("y", "x"), out.Meta["m"].Keys())
}

func TestJSONArrayAndNull(t *testing.T) {
	c := seq("old")
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), c))
	assert.Equal(t, collection.Keys(0, 1), c.Keys())
	assert.Equal(t, []string{"a", "b"}, c.Values())

	require.NoError(t, c.UnmarshalJSON([]byte(`null`)))
	assert.True(t, c.IsEmpty())

	err := c.UnmarshalJSON([]byte(`"text"`))
	assert.True(t, merrs.ErrJson.Contains(err))
	err = c.UnmarshalJSON([]byte(`{"a":1}`))
	assert.True(t, merrs.ErrJson.Contains(err))
}

func TestDecodeJSON(t *testing.T) {
	v, err := collection.DecodeJSON([]byte(`{"b":{"d":1,"c":[1.5,"x",null,true]},"a":9007199254740993}`))
	require.NoError(t, err)
	c := v.(*collection.Collection[any])
	assert.Equal(t, collection.Keys("b", "a"), c.Keys())
	assert.Equal(t, int64(9007199254740993), c.GetValue(collection.StrKey("a")))
	b := c.GetValue(collection.StrKey("b")).(*collection.Collection[any])
	assert.Equal(t, collection.Keys("d", "c"), b.Keys())
	assert.Equal(t, []any{1.5, "x", nil, true}, b.GetValue(collection.StrKey("c")))

	_, err = collection.DecodeJSON([]byte(`{} {}`))
	assert.True(t, merrs.ErrJson.Contains(err))
	_, err = collection.DecodeJSON([]byte(`[1,`))
	assert.True(t, merrs.ErrJson.Contains(err))
}

func TestMsgpack(t *testing.T) {
	c := collection.New(collection.NewEntry("z", "a"), collection.NewEntry(-2, "b"), collection.NewEntry(7, "c"))
	bs, err := msgpack.Marshal(c)
	require.NoError(t, err)

	d := collection.New[string]()
	require.NoError(t, msgpack.Unmarshal(bs, d))
	assert.Equal(t, c.ToArray(), d.ToArray())
	k, _ := d.Keys()[1].Int()
	assert.Equal(t, int64(-2), k)
	assert.Equal(t, collection.IntKey(8), d.Add("d"))

	bad, err := msgpack.Marshal([][]any{{1, "a", "extra"}})
	require.NoError(t, err)
	err = msgpack.Unmarshal(bad, d)
	assert.True(t, merrs.ErrFormat.Contains(err))
}
