package server

import (
	"net/http"

	"github.com/conftree/conftree/internal/document"
	"github.com/conftree/conftree/internal/pathkey"
	"github.com/conftree/conftree/internal/schema"
	"github.com/conftree/conftree/internal/session"
)

// TreeNode is one rendered node of the visibility-pruned document tree.
type TreeNode struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Value    any    `json:"value,omitempty"`
	Modified bool   `json:"modified,omitempty"`

	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Type        string `json:"type,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	Children []*TreeNode `json:"children,omitempty"`
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	path := r.URL.Query().Get("path")

	root, ok := sess.Get(path)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "path not found: "+path)
		return
	}
	node := renderTree(sess, root, path)
	if node == nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "path is hidden: "+path)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// renderTree renders the subtree rooted at v, skipping hidden paths.
// Returns nil when the node itself is hidden.
func renderTree(sess *session.Session, v *document.Value, path string) *TreeNode {
	if !sess.IsVisible(path) {
		return nil
	}

	node := &TreeNode{
		Path:     path,
		Kind:     v.Kind().String(),
		Modified: sess.IsModified(path),
	}
	annotate(node, sess.Schema(), path)

	switch v.Kind() {
	case document.KindObject:
		for _, key := range v.Keys() {
			member, _ := v.Member(key)
			child := renderTree(sess, member, pathkey.JoinKey(path, key))
			if child != nil {
				node.Children = append(node.Children, child)
			}
		}
	case document.KindArray:
		for i, el := range v.Elements() {
			child := renderTree(sess, el, pathkey.Join(path, pathkey.Index(i)))
			if child != nil {
				node.Children = append(node.Children, child)
			}
		}
	default:
		node.Value = v.Interface()
	}
	return node
}

// annotate copies schema metadata onto the node, if any is defined.
func annotate(node *TreeNode, sch *schema.ConfigSchema, path string) {
	def := sch.Field(path)
	if def == nil {
		return
	}
	node.Label = def.Label
	node.Description = def.Description
	node.Unit = def.Unit
	node.Type = string(def.Type)
	node.Enum = def.Enum
}
