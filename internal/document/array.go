package document

import (
	"errors"

	"github.com/conftree/conftree/internal/pathkey"
)

var (
	// ErrNotArray reports that the addressed node is missing or not an array.
	ErrNotArray = errors.New("selected node is not an array")

	// ErrEmptyArray reports a remove or clone against an empty array.
	ErrEmptyArray = errors.New("array is empty")
)

// ArrayAdd inserts elem into the array at path p, shifting later elements
// right. A nil index appends; any other index is clamped to [0, len].
// Returns the index actually used. The path may be empty when the whole
// document is an array.
func ArrayAdd(root *Value, p pathkey.Path, index *int, elem *Value) (int, error) {
	arr, err := arrayAt(root, p)
	if err != nil {
		return 0, err
	}

	i := clampInsert(index, len(arr.elems))
	next := Array(make([]*Value, 0, len(arr.elems)+1)...)
	next.elems = append(next.elems, arr.elems[:i]...)
	next.elems = append(next.elems, elem)
	next.elems = append(next.elems, arr.elems[i:]...)

	replaceArray(root, p, next)
	return i, nil
}

// ArrayRemove deletes the element at index, defaulting to the last element
// and clamping to [0, len-1]. Fails without mutation if the array is empty.
func ArrayRemove(root *Value, p pathkey.Path, index *int) (int, error) {
	arr, err := arrayAt(root, p)
	if err != nil {
		return 0, err
	}
	if len(arr.elems) == 0 {
		return 0, ErrEmptyArray
	}

	i := clampExisting(index, len(arr.elems))
	next := Array(make([]*Value, 0, len(arr.elems)-1)...)
	next.elems = append(next.elems, arr.elems[:i]...)
	next.elems = append(next.elems, arr.elems[i+1:]...)

	replaceArray(root, p, next)
	return i, nil
}

// ArrayClone deep-copies the element at index and inserts the copy
// immediately after it. The copy shares no nodes with the original.
// Fails without mutation if the array is empty.
func ArrayClone(root *Value, p pathkey.Path, index *int) (int, error) {
	arr, err := arrayAt(root, p)
	if err != nil {
		return 0, err
	}
	if len(arr.elems) == 0 {
		return 0, ErrEmptyArray
	}

	i := clampExisting(index, len(arr.elems))
	dup := arr.elems[i].Clone()
	next := Array(make([]*Value, 0, len(arr.elems)+1)...)
	next.elems = append(next.elems, arr.elems[:i+1]...)
	next.elems = append(next.elems, dup)
	next.elems = append(next.elems, arr.elems[i+1:]...)

	replaceArray(root, p, next)
	return i, nil
}

func arrayAt(root *Value, p pathkey.Path) (*Value, error) {
	node, ok := Get(root, p)
	if !ok || node.Kind() != KindArray {
		return nil, ErrNotArray
	}
	return node, nil
}

// replaceArray installs a rebuilt array at p. The array path itself is
// reassigned rather than patched element-wise, so the whole path counts
// as one modification.
func replaceArray(root *Value, p pathkey.Path, next *Value) {
	if len(p) == 0 {
		root.Replace(next)
		return
	}
	// Cannot fail: arrayAt already traversed the same path.
	Set(root, p, next)
}

func clampInsert(index *int, n int) int {
	if index == nil {
		return n
	}
	i := *index
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func clampExisting(index *int, n int) int {
	if index == nil {
		return n - 1
	}
	i := *index
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
