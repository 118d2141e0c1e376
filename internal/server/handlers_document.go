package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conftree/conftree/internal/schema"
	"github.com/conftree/conftree/internal/session"
)

// DocumentInfo is the wire representation of an open session.
type DocumentInfo struct {
	ID       string   `json:"id"`
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Schema   string   `json:"schema,omitempty"`
	Modified []string `json:"modified"`
}

func documentInfo(s *session.Session) DocumentInfo {
	info := DocumentInfo{
		ID:       s.ID(),
		File:     s.File(),
		Valid:    s.Valid(),
		Modified: s.Modified(),
	}
	if sch := s.Schema(); sch != nil {
		info.Schema = sch.Path()
	}
	return info
}

// lookup resolves the documentID route param to an open session.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *session.Session {
	id := chi.URLParam(r, "documentID")
	sess, ok := s.manager.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "document not found: "+id)
		return nil
	}
	return sess
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	sessions := s.manager.Sessions()
	out := make([]DocumentInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, documentInfo(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) openDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		File string `json:"file"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.File == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "file is required")
		return
	}

	sess, err := s.manager.Open(r.Context(), req.File)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.watchSession(sess)

	writeJSON(w, http.StatusOK, documentInfo(sess))
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, documentInfo(sess))
}

func (s *Server) closeDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	s.unwatchSession(sess.ID())
	s.manager.Close(sess.File())
	writeSuccess(w)
}

func (s *Server) getValue(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	path := r.URL.Query().Get("path")

	v, ok := sess.Get(path)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "path not found: "+path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":     path,
		"kind":     v.Kind().String(),
		"value":    v.Interface(),
		"modified": sess.IsModified(path),
	})
}

func (s *Server) updateValue(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Path  string `json:"path"`
		Value any    `json:"value"`
		Type  string `json:"type,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	if err := sess.UpdateValue(req.Path, req.Value, schema.FieldType(req.Type)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":     req.Path,
		"modified": sess.IsModified(req.Path),
	})
}

// arrayRequest is the shared body for array mutations.
type arrayRequest struct {
	Path  string `json:"path"`
	Index *int   `json:"index,omitempty"`
	Value any    `json:"value,omitempty"`
	Type  string `json:"type,omitempty"`
}

func decodeArrayRequest(w http.ResponseWriter, r *http.Request) (*arrayRequest, bool) {
	var req arrayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return nil, false
	}
	return &req, true
}

func writeArrayResult(w http.ResponseWriter, path string, index int, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":  path,
		"index": index,
	})
}

func (s *Server) arrayAdd(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	req, ok := decodeArrayRequest(w, r)
	if !ok {
		return
	}
	idx, err := sess.ArrayAdd(req.Path, req.Index, req.Value, schema.FieldType(req.Type))
	writeArrayResult(w, req.Path, idx, err)
}

func (s *Server) arrayRemove(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	req, ok := decodeArrayRequest(w, r)
	if !ok {
		return
	}
	idx, err := sess.ArrayRemove(req.Path, req.Index)
	writeArrayResult(w, req.Path, idx, err)
}

func (s *Server) arrayClone(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	req, ok := decodeArrayRequest(w, r)
	if !ok {
		return
	}
	idx, err := sess.ArrayClone(req.Path, req.Index)
	writeArrayResult(w, req.Path, idx, err)
}

func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	if err := sess.Save(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w)
}

func (s *Server) reloadDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	if err := sess.Reload(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentInfo(sess))
}

func (s *Server) getModified(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"modified": sess.Modified()})
}

func (s *Server) getDiff(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"diff": sess.Diff()})
}
