// Package pathkey converts between structured paths into a JSON value tree
// and their canonical string form.
//
// A path is a sequence of segments, each either an object key or an array
// index. The canonical string form writes the first key bare, every later
// key with a leading dot, and every index as [n] with no separator before
// it, so ["a","b",0,"c"] becomes "a.b[0].c". The empty path encodes to the
// empty string and addresses the document root.
//
// Keys containing literal '.', '[' or ']' characters are not escaped and
// cannot be round-tripped; such keys are outside the path grammar.
package pathkey

import (
	"regexp"
	"strconv"
	"strings"
)

// Segment is one step of a path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key builds an object-key segment.
func Key(k string) Segment {
	return Segment{Key: k}
}

// Index builds an array-index segment.
func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

// Path is an ordered sequence of segments. The empty path is the root.
type Path []Segment

// tokenPattern matches one path token: a run of characters that are not
// '.', '[' or ']', or a bracketed decimal index.
var tokenPattern = regexp.MustCompile(`[^.\[\]]+|\[\d+\]`)

// Encode serializes a path into its canonical string key.
func Encode(p Path) string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
	}
	return b.String()
}

// Decode parses a canonical string key back into a path.
// Decode("") returns the empty (root) path.
func Decode(key string) Path {
	if key == "" {
		return Path{}
	}

	tokens := tokenPattern.FindAllString(key, -1)
	p := make(Path, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) >= 2 && tok[0] == '[' && tok[len(tok)-1] == ']' {
			n, err := strconv.Atoi(tok[1 : len(tok)-1])
			if err != nil {
				// Overflow or similar; keep the literal token as a key.
				p = append(p, Segment{Key: tok})
				continue
			}
			p = append(p, Segment{Index: n, IsIndex: true})
			continue
		}
		p = append(p, Segment{Key: tok})
	}
	return p
}

// Join appends a segment to an encoded key, producing the child's key.
func Join(parent string, seg Segment) string {
	if seg.IsIndex {
		return parent + "[" + strconv.Itoa(seg.Index) + "]"
	}
	return JoinKey(parent, seg.Key)
}

// JoinKey appends a raw key fragment to an encoded parent key. The fragment
// may itself be a dotted/bracketed sub-path (schema documents address nested
// fields with keys like "server.port" or "features[0]").
func JoinKey(parent, key string) string {
	if parent == "" {
		return key
	}
	if strings.HasPrefix(key, "[") {
		return parent + key
	}
	return parent + "." + key
}
