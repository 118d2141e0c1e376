package server

import (
	"encoding/json"
	"net/http"

	"github.com/conftree/conftree/internal/schema"
)

// FieldInfo is the wire representation of a normalized field definition.
type FieldInfo struct {
	Path        string   `json:"path"`
	Visible     bool     `json:"visible"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Type        string   `json:"type,omitempty"`
	RawType     string   `json:"rawType,omitempty"`
	Enum        []any    `json:"enum,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Options     []any    `json:"options,omitempty"`
}

func fieldInfo(key string, def *schema.FieldDefinition) FieldInfo {
	info := FieldInfo{
		Path:        key,
		Visible:     def.Visible == nil || *def.Visible,
		Label:       def.Label,
		Description: def.Description,
		Unit:        def.Unit,
		Type:        string(def.Type),
		RawType:     def.RawType,
		Enum:        def.Enum,
	}
	if def.Range != nil {
		info.Min = def.Range.Min
		info.Max = def.Range.Max
		info.Options = def.Range.Options
	}
	return info
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	sch := sess.Schema()
	if sch == nil {
		writeJSON(w, http.StatusOK, map[string]any{"attached": false})
		return
	}

	fields := make([]FieldInfo, 0, sch.Len())
	for _, key := range sch.Keys() {
		fields = append(fields, fieldInfo(key, sch.Field(key)))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"attached": true,
		"path":     sch.Path(),
		"fields":   fields,
	})
}

func (s *Server) reloadSchema(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	sess.ReloadSchema(r.Context())
	writeSuccess(w)
}

func (s *Server) detachSchema(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	sess.DetachSchema()
	writeSuccess(w)
}

func (s *Server) getPin(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "file is required")
		return
	}
	schemaPath, ok := s.pins.Get(r.Context(), file)
	writeJSON(w, http.StatusOK, map[string]any{
		"file":   file,
		"pinned": ok,
		"schema": schemaPath,
	})
}

func (s *Server) setPin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		File   string `json:"file"`
		Schema string `json:"schema"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.File == "" || req.Schema == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "file and schema are required")
		return
	}
	if err := s.pins.Pin(r.Context(), req.File, req.Schema); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w)
}

func (s *Server) removePin(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "file is required")
		return
	}
	if err := s.pins.Unpin(r.Context(), file); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w)
}
