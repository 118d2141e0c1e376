// Package document provides the in-memory value tree for JSON/JSONC
// configuration documents: an ordered, path-addressable representation
// with get/set access and array mutation primitives.
package document

import (
	"math"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of a JSON document tree. Objects preserve member
// insertion order so that serialization keeps the author's layout.
type Value struct {
	kind    Kind
	boolVal bool
	numVal  float64
	strVal  string
	elems   []*Value
	keys    []string
	members map[string]*Value
}

// Null returns a null node.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a boolean node.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, boolVal: b}
}

// Number returns a numeric node.
func Number(f float64) *Value {
	return &Value{kind: KindNumber, numVal: f}
}

// String returns a string node.
func String(s string) *Value {
	return &Value{kind: KindString, strVal: s}
}

// Array returns an array node with the given elements.
func Array(elems ...*Value) *Value {
	return &Value{kind: KindArray, elems: elems}
}

// Object returns an empty object node.
func Object() *Value {
	return &Value{kind: KindObject, members: make(map[string]*Value)}
}

// Kind returns the variant of the node.
func (v *Value) Kind() Kind {
	return v.kind
}

// IsContainer reports whether the node is an object or an array.
func (v *Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindObject
}

// IsLeaf reports whether the node is null or a primitive.
func (v *Value) IsLeaf() bool {
	return !v.IsContainer()
}

// BoolValue returns the boolean payload. Valid only for KindBool.
func (v *Value) BoolValue() bool {
	return v.boolVal
}

// NumberValue returns the numeric payload. Valid only for KindNumber.
func (v *Value) NumberValue() float64 {
	return v.numVal
}

// StringValue returns the string payload. Valid only for KindString.
func (v *Value) StringValue() string {
	return v.strVal
}

// Len returns the element count for arrays and the member count for
// objects; 0 for leaves.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.keys)
	default:
		return 0
	}
}

// At returns the i-th array element, or nil if out of range.
func (v *Value) At(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return nil
	}
	return v.elems[i]
}

// SetAt replaces the i-th array element. Reports whether i was in range.
func (v *Value) SetAt(i int, el *Value) bool {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return false
	}
	v.elems[i] = el
	return true
}

// Elements returns the backing element slice of an array node.
func (v *Value) Elements() []*Value {
	return v.elems
}

// Keys returns object member names in insertion order.
func (v *Value) Keys() []string {
	return v.keys
}

// Member returns the named object member. The second result distinguishes
// a missing member from a present null.
func (v *Value) Member(key string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	m, ok := v.members[key]
	return m, ok
}

// SetMember assigns a member, appending the key if it is new.
func (v *Value) SetMember(key string, el *Value) {
	if v.kind != KindObject {
		return
	}
	if _, ok := v.members[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.members[key] = el
}

// Clone returns a deep copy sharing no nodes with the original.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{
		kind:    v.kind,
		boolVal: v.boolVal,
		numVal:  v.numVal,
		strVal:  v.strVal,
	}
	switch v.kind {
	case KindArray:
		out.elems = make([]*Value, len(v.elems))
		for i, el := range v.elems {
			out.elems[i] = el.Clone()
		}
	case KindObject:
		out.keys = append([]string(nil), v.keys...)
		out.members = make(map[string]*Value, len(v.members))
		for k, m := range v.members {
			out.members[k] = m.Clone()
		}
	}
	return out
}

// Replace overwrites the node in place with the contents of other,
// preserving the node's identity for callers holding the pointer.
// Used for root replacement, which the path-addressed Set cannot express.
func (v *Value) Replace(other *Value) {
	*v = *other
}

// Interface converts the tree into plain Go values: nil, bool, float64,
// string, []any and map[string]any (losing member order).
func (v *Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.numVal
	case KindString:
		return v.strVal
	case KindArray:
		out := make([]any, len(v.elems))
		for i, el := range v.elems {
			out[i] = el.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.members[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// FromPrimitive wraps a plain Go scalar as a leaf node.
func FromPrimitive(x any) *Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case string:
		return String(t)
	default:
		return Null()
	}
}

// Equal reports deep structural equality. NaN compares equal to NaN so
// that a tree always equals its own clone.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return numberEqual(a.numVal, b.numVal)
	case KindString:
		return a.strVal == b.strVal
	case KindArray:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i, k := range a.keys {
			if b.keys[i] != k {
				return false
			}
			if !Equal(a.members[k], b.members[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// PrimitiveEqual compares two leaf nodes. Containers never compare equal
// through this function; it backs dirty-state tracking, where only scalar
// edits are compared against the baseline.
func PrimitiveEqual(a, b *Value) bool {
	if a == nil || b == nil || a.IsContainer() || b.IsContainer() {
		return false
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return numberEqual(a.numVal, b.numVal)
	case KindString:
		return a.strVal == b.strVal
	}
	return false
}

func numberEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
