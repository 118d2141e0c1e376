package pathkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"empty", Path{}, ""},
		{"single key", Path{Key("a")}, "a"},
		{"nested keys", Path{Key("a"), Key("b"), Key("c")}, "a.b.c"},
		{"index after key", Path{Key("a"), Index(0)}, "a[0]"},
		{"key after index", Path{Key("a"), Index(0), Key("c")}, "a[0].c"},
		{"root index", Path{Index(3)}, "[3]"},
		{"consecutive indices", Path{Key("m"), Index(1), Index(2)}, "m[1][2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.path))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want Path
	}{
		{"empty", "", Path{}},
		{"single key", "a", Path{Key("a")}},
		{"nested keys", "a.b.c", Path{Key("a"), Key("b"), Key("c")}},
		{"mixed", "a.b[0].c", Path{Key("a"), Key("b"), Index(0), Key("c")}},
		{"root index", "[7]", Path{Index(7)}},
		{"consecutive indices", "m[1][2]", Path{Key("m"), Index(1), Index(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.key))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	paths := []Path{
		{},
		{Key("server"), Key("port")},
		{Key("features"), Index(0), Key("enabled")},
		{Key("a_1"), Index(10), Index(0), Key("Z9")},
		{Index(0)},
	}

	for _, p := range paths {
		assert.Equal(t, p, Decode(Encode(p)), "round-trip for %q", Encode(p))
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a", Join("", Key("a")))
	assert.Equal(t, "a.b", Join("a", Key("b")))
	assert.Equal(t, "a[2]", Join("a", Index(2)))
	assert.Equal(t, "[0]", Join("", Index(0)))
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "server.port", JoinKey("", "server.port"))
	assert.Equal(t, "app.server.port", JoinKey("app", "server.port"))
	assert.Equal(t, "app[0]", JoinKey("app", "[0]"))
}
