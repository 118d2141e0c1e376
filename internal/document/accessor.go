package document

import (
	"github.com/conftree/conftree/internal/pathkey"
)

// Get walks path from root and returns the addressed node. The second
// result distinguishes "not found" from a present null: a missing object
// key, an out-of-range index, a key segment against an array, an index
// segment against an object, or any traversal through a leaf all report
// false. The empty path returns root itself.
func Get(root *Value, p pathkey.Path) (*Value, bool) {
	node := root
	for _, seg := range p {
		next, ok := step(node, seg)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Set assigns newValue at path, mutating root in place. The empty path is
// rejected: the root cannot be replaced through a path assignment. If any
// intermediate node is not a container of the matching kind, Set reports
// false and leaves the tree untouched. Assigning a fresh object key
// appends it; assigning an out-of-range array index fails.
func Set(root *Value, p pathkey.Path, newValue *Value) bool {
	if len(p) == 0 {
		return false
	}

	parent := root
	for _, seg := range p[:len(p)-1] {
		next, ok := step(parent, seg)
		if !ok {
			return false
		}
		parent = next
	}

	last := p[len(p)-1]
	switch {
	case parent.Kind() == KindObject && !last.IsIndex:
		parent.SetMember(last.Key, newValue)
		return true
	case parent.Kind() == KindArray && last.IsIndex:
		return parent.SetAt(last.Index, newValue)
	default:
		return false
	}
}

// step indexes node by one segment: key lookup on objects, integer index
// on arrays. Any kind mismatch is "not found", not an error.
func step(node *Value, seg pathkey.Segment) (*Value, bool) {
	switch node.Kind() {
	case KindObject:
		if seg.IsIndex {
			return nil, false
		}
		return node.Member(seg.Key)
	case KindArray:
		if !seg.IsIndex {
			return nil, false
		}
		el := node.At(seg.Index)
		if el == nil {
			return nil, false
		}
		return el, true
	default:
		return nil, false
	}
}
