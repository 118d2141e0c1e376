package session

import (
	"github.com/conftree/conftree/internal/document"
	"github.com/conftree/conftree/internal/pathkey"
)

// IsVisible reports whether the node at key should be displayed. Leaves
// follow the schema flag alone. A container explicitly marked invisible
// is hidden outright; otherwise a non-root container is visible only
// while at least one descendant is, so branches disappear once every
// leaf beneath them is individually hidden. The check recurses down,
// never up, and is recomputed per call since hiding one descendant can
// empty an entire branch.
func (s *Session) IsVisible(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return false
	}
	return s.visibleLocked(key)
}

func (s *Session) visibleLocked(key string) bool {
	if !s.schema.IsVisible(key) {
		return false
	}

	node, ok := document.Get(s.doc, pathkey.Decode(key))
	if !ok {
		return true
	}
	if node.IsContainer() && key != "" {
		return s.anyVisibleDescendant(node, key)
	}
	return true
}

func (s *Session) anyVisibleDescendant(node *document.Value, base string) bool {
	switch node.Kind() {
	case document.KindObject:
		for _, k := range node.Keys() {
			child, _ := node.Member(k)
			if s.childVisible(child, pathkey.Join(base, pathkey.Key(k))) {
				return true
			}
		}
	case document.KindArray:
		for i, child := range node.Elements() {
			if s.childVisible(child, pathkey.Join(base, pathkey.Index(i))) {
				return true
			}
		}
	}
	return false
}

func (s *Session) childVisible(child *document.Value, key string) bool {
	if !s.schema.IsVisible(key) {
		return false
	}
	if child.IsLeaf() {
		return true
	}
	return s.anyVisibleDescendant(child, key)
}
