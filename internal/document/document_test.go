package document

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conftree/conftree/internal/pathkey"
)

func mustParse(t *testing.T, src string) *Value {
	t.Helper()
	v, err := Parse([]byte(src))
	require.NoError(t, err)
	return v
}

func TestParsePreservesMemberOrder(t *testing.T) {
	v := mustParse(t, `{"zebra":1,"apple":2,"mango":3}`)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, v.Keys())
}

func TestParseJSONC(t *testing.T) {
	src := `{
		// server settings
		"port": 8080, /* inline */
		"hosts": ["a", "b",],
	}`
	v, err := ParseJSONC([]byte(src))
	require.NoError(t, err)

	port, ok := v.Member("port")
	require.True(t, ok)
	assert.Equal(t, float64(8080), port.NumberValue())

	hosts, ok := v.Member("hosts")
	require.True(t, ok)
	assert.Equal(t, 2, hosts.Len())
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, src := range []string{``, `{`, `{"a":}`, `[1,2] trailing`, `nope`} {
		_, err := Parse([]byte(src))
		assert.Error(t, err, "source %q", src)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, "source %q", src)
	}
}

func TestGet(t *testing.T) {
	root := mustParse(t, `{"a":{"b":[{"c":null},2]},"n":5}`)

	tests := []struct {
		key   string
		found bool
	}{
		{"", true},
		{"a", true},
		{"a.b", true},
		{"a.b[0]", true},
		{"a.b[0].c", true}, // present null is found
		{"a.b[1]", true},
		{"a.b[2]", false},  // out of range
		{"a.missing", false},
		{"n.b", false},     // traversal through a leaf
		{"a[0]", false},    // index against an object
		{"a.b.c", false},   // key against an array
	}
	for _, tt := range tests {
		_, ok := Get(root, pathkey.Decode(tt.key))
		assert.Equal(t, tt.found, ok, "key %q", tt.key)
	}

	null, ok := Get(root, pathkey.Decode("a.b[0].c"))
	require.True(t, ok)
	assert.Equal(t, KindNull, null.Kind())
}

func TestGetEmptyPathReturnsRoot(t *testing.T) {
	root := mustParse(t, `{"a":1}`)
	got, ok := Get(root, pathkey.Path{})
	require.True(t, ok)
	assert.Same(t, root, got)
}

func TestSet(t *testing.T) {
	root := mustParse(t, `{"server":{"port":8080},"tags":["x","y"]}`)

	ok := Set(root, pathkey.Decode("server.port"), Number(9000))
	require.True(t, ok)
	got, _ := Get(root, pathkey.Decode("server.port"))
	assert.Equal(t, float64(9000), got.NumberValue())

	// Sibling subtree untouched.
	tags, _ := Get(root, pathkey.Decode("tags"))
	assert.True(t, Equal(tags, mustParse(t, `["x","y"]`)))

	// New key appends.
	require.True(t, Set(root, pathkey.Decode("server.host"), String("localhost")))
	server, _ := Get(root, pathkey.Decode("server"))
	assert.Equal(t, []string{"port", "host"}, server.Keys())
}

func TestSetFailures(t *testing.T) {
	root := mustParse(t, `{"server":{"port":8080},"tags":["x"]}`)

	assert.False(t, Set(root, pathkey.Path{}, Number(1)), "empty path rejected")
	assert.False(t, Set(root, pathkey.Decode("server.port.deep"), Number(1)), "through a leaf")
	assert.False(t, Set(root, pathkey.Decode("tags[5]"), String("z")), "index out of range")
	assert.False(t, Set(root, pathkey.Decode("tags.name"), String("z")), "key against array")

	// Failed sets leave the tree unchanged.
	assert.True(t, Equal(root, mustParse(t, `{"server":{"port":8080},"tags":["x"]}`)))
}

func TestGetSetConsistency(t *testing.T) {
	root := mustParse(t, `{"a":{"b":[1,2,3]},"c":true}`)
	p := pathkey.Decode("a.b[1]")

	require.True(t, Set(root, p, String("mid")))
	got, ok := Get(root, p)
	require.True(t, ok)
	assert.True(t, Equal(got, String("mid")))
}

func TestCloneBreaksAliasing(t *testing.T) {
	root := mustParse(t, `{"a":{"b":[1,{"c":2}]}}`)
	dup := root.Clone()
	require.True(t, Equal(root, dup))

	require.True(t, Set(dup, pathkey.Decode("a.b[1].c"), Number(99)))
	orig, _ := Get(root, pathkey.Decode("a.b[1].c"))
	assert.Equal(t, float64(2), orig.NumberValue())
}

func TestPrimitiveEqual(t *testing.T) {
	assert.True(t, PrimitiveEqual(Number(5), Number(5)))
	assert.True(t, PrimitiveEqual(Null(), Null()))
	assert.True(t, PrimitiveEqual(Number(math.NaN()), Number(math.NaN())))
	assert.False(t, PrimitiveEqual(Number(5), String("5")))
	assert.False(t, PrimitiveEqual(Object(), Object()), "containers never primitive-equal")
}

func TestSerialize(t *testing.T) {
	root := mustParse(t, `{"server":{"port":9000},"mode":"dev","tags":[],"opts":{}}`)
	want := "{\n  \"server\": {\n    \"port\": 9000\n  },\n  \"mode\": \"dev\",\n  \"tags\": [],\n  \"opts\": {}\n}"
	assert.Equal(t, want, string(Serialize(root, 2)))
}

func TestSerializeCompact(t *testing.T) {
	root := mustParse(t, `{"a":[1,true,null,"s"]}`)
	assert.Equal(t, `{"a":[1,true,null,"s"]}`, string(Serialize(root, 0)))
}

func TestSerializeNumbers(t *testing.T) {
	assert.Equal(t, "65535", string(Serialize(Number(65535), 0)))
	assert.Equal(t, "0.5", string(Serialize(Number(0.5), 0)))
	assert.Equal(t, "-3", string(Serialize(Number(-3), 0)))
}

func TestSerializeRoundTrip(t *testing.T) {
	src := `{"a":{"b":[0,1,{"c":"x\ny"}]},"d":null,"e":false}`
	root := mustParse(t, src)
	again := mustParse(t, string(Serialize(root, 4)))
	assert.True(t, Equal(root, again))
}

func idx(i int) *int { return &i }

func TestArrayAdd(t *testing.T) {
	root := mustParse(t, `{"tags":["a","b"]}`)
	p := pathkey.Decode("tags")

	i, err := ArrayAdd(root, p, idx(1), String("mid"))
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	tags, _ := Get(root, p)
	assert.True(t, Equal(tags, mustParse(t, `["a","mid","b"]`)))

	// Index past the end clamps to append.
	i, err = ArrayAdd(root, p, idx(99), String("end"))
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	// Missing index appends.
	i, err = ArrayAdd(root, p, nil, String("tail"))
	require.NoError(t, err)
	assert.Equal(t, 4, i)
}

func TestArrayAddAtRoot(t *testing.T) {
	root := mustParse(t, `[1,2]`)
	_, err := ArrayAdd(root, pathkey.Path{}, idx(0), Number(0))
	require.NoError(t, err)
	assert.True(t, Equal(root, mustParse(t, `[0,1,2]`)))
}

func TestArrayRemove(t *testing.T) {
	root := mustParse(t, `{"tags":["a","b","c"]}`)
	p := pathkey.Decode("tags")

	// Out-of-range index clamps to last.
	i, err := ArrayRemove(root, p, idx(99))
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	// Missing index removes last.
	_, err = ArrayRemove(root, p, nil)
	require.NoError(t, err)

	tags, _ := Get(root, p)
	assert.True(t, Equal(tags, mustParse(t, `["a"]`)))
}

func TestArrayClone(t *testing.T) {
	root := mustParse(t, `{"items":[{"n":1},{"n":2}]}`)
	p := pathkey.Decode("items")

	i, err := ArrayClone(root, p, idx(0))
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	items, _ := Get(root, p)
	require.Equal(t, 3, items.Len())
	assert.True(t, Equal(items.At(0), items.At(1)))

	// The clone is a value copy, not an alias.
	require.True(t, Set(root, pathkey.Decode("items[1].n"), Number(42)))
	assert.Equal(t, float64(1), items.At(0).members["n"].NumberValue())
}

func TestArrayEmptyFailures(t *testing.T) {
	root := mustParse(t, `{"tags":[]}`)
	p := pathkey.Decode("tags")

	_, err := ArrayRemove(root, p, nil)
	assert.ErrorIs(t, err, ErrEmptyArray)
	_, err = ArrayClone(root, p, idx(0))
	assert.ErrorIs(t, err, ErrEmptyArray)

	assert.True(t, Equal(root, mustParse(t, `{"tags":[]}`)))
}

func TestArrayNotArray(t *testing.T) {
	root := mustParse(t, `{"tags":"oops"}`)
	_, err := ArrayAdd(root, pathkey.Decode("tags"), nil, Number(1))
	assert.ErrorIs(t, err, ErrNotArray)
	_, err = ArrayAdd(root, pathkey.Decode("missing"), nil, Number(1))
	assert.ErrorIs(t, err, ErrNotArray)
}
