// Package session owns one loaded configuration document: its current
// value tree, the optional attached schema, the baseline snapshot taken
// at load/save time, and the set of paths modified relative to that
// baseline.
//
// All mutations run to completion under the session lock, and the tree
// is only touched after every coercion, validation and path-resolution
// check for the operation has passed: a rejected operation always leaves
// the session in its previous state.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/conftree/conftree/internal/discovery"
	"github.com/conftree/conftree/internal/document"
	"github.com/conftree/conftree/internal/event"
	"github.com/conftree/conftree/internal/logging"
	"github.com/conftree/conftree/internal/pathkey"
	"github.com/conftree/conftree/internal/schema"
)

// Options configures session loading.
type Options struct {
	// Discoverer locates the companion schema document. Nil disables
	// schema attachment.
	Discoverer *discovery.Discoverer

	// Indent is the JSON output indent width used by Save.
	Indent int
}

// Session is the mutable aggregate for one open document.
type Session struct {
	mu sync.Mutex

	id       string
	file     string
	opts     Options
	doc      *document.Value
	baseline *document.Value
	schema   *schema.ConfigSchema
	modified map[string]struct{}
	valid    bool
}

// Load parses the file (JSON or JSONC) into a new session. The baseline
// snapshot is an independent second parse of the same bytes, so no node
// is aliased between the working tree and the baseline.
func Load(ctx context.Context, file string, opts Options) (*Session, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, &IOError{Op: "resolve", File: file, Err: err}
	}

	s := &Session{
		id:       ulid.Make().String(),
		file:     abs,
		opts:     opts,
		modified: make(map[string]struct{}),
	}
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	s.valid = true

	logging.Info().Str("session", s.id).Str("file", abs).
		Bool("schema", s.schema != nil).Msg("document loaded")
	event.Publish(event.Event{Type: event.DocumentLoaded, Data: event.DocumentData{
		SessionID: s.id, File: abs,
	}})
	return s, nil
}

// loadLocked reads and parses the backing file into doc and baseline and
// runs schema discovery. Callers hold the lock (or own s exclusively).
func (s *Session) loadLocked(ctx context.Context) error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return &IOError{Op: "read", File: s.file, Err: err}
	}

	doc, err := document.ParseJSONC(data)
	if err != nil {
		return err
	}
	baseline, err := document.ParseJSONC(data)
	if err != nil {
		return err
	}

	s.doc = doc
	s.baseline = baseline
	s.modified = make(map[string]struct{})
	if s.opts.Discoverer != nil {
		s.schema = s.opts.Discoverer.Discover(ctx, s.file)
	}
	return nil
}

// ID returns the session's ULID.
func (s *Session) ID() string {
	return s.id
}

// File returns the absolute path of the backing document.
func (s *Session) File() string {
	return s.file
}

// Valid reports whether the session still accepts operations. A deleted
// backing file invalidates the session.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// Schema returns the attached schema, or nil.
func (s *Session) Schema() *schema.ConfigSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema
}

// Document returns the current value tree. The presentation layer reads
// it for rendering; all writes go through session operations.
func (s *Session) Document() *document.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Get resolves a path key against the current tree.
func (s *Session) Get(key string) (*document.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return nil, false
	}
	return document.Get(s.doc, pathkey.Decode(key))
}

// Modified returns the modified path keys, sorted.
func (s *Session) Modified() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.modified))
	for k := range s.modified {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsModified reports whether the path differs from the baseline.
func (s *Session) IsModified(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.modified[key]
	return ok
}

// UpdateValue coerces raw into the declared type, validates it against
// the schema entry for the path, and assigns it. An edit that lands back
// on the baseline value un-marks the path as modified.
func (s *Session) UpdateValue(key string, raw any, declared schema.FieldType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return ErrInvalidated
	}

	p := pathkey.Decode(key)
	def := s.schema.Field(key)
	if declared == schema.TypeUnknown && def != nil {
		declared = def.Type
	}

	coerced, err := schema.Coerce(raw, declared)
	if err != nil {
		return err
	}
	if err := schema.Validate(coerced, def); err != nil {
		return err
	}

	newVal := document.FromPrimitive(coerced)
	if len(p) == 0 {
		// Root replacement cannot go through the path assignment.
		s.doc.Replace(newVal)
	} else if !document.Set(s.doc, p, newVal) {
		return fmt.Errorf("%w: %s", ErrPathResolution, key)
	}

	base, ok := document.Get(s.baseline, p)
	nowModified := !(ok && document.PrimitiveEqual(base, newVal))
	if nowModified {
		s.modified[key] = struct{}{}
	} else {
		delete(s.modified, key)
	}

	event.Publish(event.Event{Type: event.ValueUpdated, Data: event.ValueUpdatedData{
		SessionID: s.id, File: s.file, PathKey: key, Modified: nowModified,
	}})
	return nil
}

// ArrayAdd inserts a value into the array at key. With a declared type
// the raw input is coerced first and a coercion failure aborts with no
// mutation; without one, raw may be a prebuilt node or anything
// stringifiable.
func (s *Session) ArrayAdd(key string, index *int, raw any, declared schema.FieldType) (int, error) {
	elem, err := buildElement(raw, declared)
	if err != nil {
		return 0, err
	}
	return s.applyArrayOp(key, "add", func(p pathkey.Path) (int, error) {
		return document.ArrayAdd(s.doc, p, index, elem)
	})
}

// ArrayRemove deletes an element from the array at key.
func (s *Session) ArrayRemove(key string, index *int) (int, error) {
	return s.applyArrayOp(key, "remove", func(p pathkey.Path) (int, error) {
		return document.ArrayRemove(s.doc, p, index)
	})
}

// ArrayClone duplicates an element of the array at key, inserting the
// copy right after the original.
func (s *Session) ArrayClone(key string, index *int) (int, error) {
	return s.applyArrayOp(key, "clone", func(p pathkey.Path) (int, error) {
		return document.ArrayClone(s.doc, p, index)
	})
}

// applyArrayOp runs one array mutation under the lock. Successful
// array-shape edits always mark the path as modified; unlike scalar
// edits they are not compared against the baseline afterwards.
func (s *Session) applyArrayOp(key, op string, fn func(pathkey.Path) (int, error)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return 0, ErrInvalidated
	}

	i, err := fn(pathkey.Decode(key))
	if err != nil {
		return 0, err
	}
	s.modified[key] = struct{}{}

	event.Publish(event.Event{Type: event.ArrayMutated, Data: event.ArrayMutatedData{
		SessionID: s.id, File: s.file, PathKey: key, Op: op, Index: i,
	}})
	return i, nil
}

func buildElement(raw any, declared schema.FieldType) (*document.Value, error) {
	if declared != schema.TypeUnknown {
		coerced, err := schema.Coerce(raw, declared)
		if err != nil {
			return nil, err
		}
		return document.FromPrimitive(coerced), nil
	}
	if v, ok := raw.(*document.Value); ok {
		return v, nil
	}
	coerced, err := schema.Coerce(raw, schema.TypeUnknown)
	if err != nil {
		return nil, err
	}
	return document.FromPrimitive(coerced), nil
}

// Save serializes the current tree at the configured indent with a
// trailing newline and atomically replaces the backing file, then resets
// the baseline to a deep copy of the tree and clears the modified set.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return ErrInvalidated
	}

	out := append(document.Serialize(s.doc, s.opts.Indent), '\n')

	tmp := s.file + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return &IOError{Op: "write", File: s.file, Err: err}
	}
	if err := os.Rename(tmp, s.file); err != nil {
		os.Remove(tmp)
		return &IOError{Op: "write", File: s.file, Err: err}
	}

	s.baseline = s.doc.Clone()
	s.modified = make(map[string]struct{})

	logging.Info().Str("session", s.id).Str("file", s.file).Msg("document saved")
	event.Publish(event.Event{Type: event.DocumentSaved, Data: event.DocumentData{
		SessionID: s.id, File: s.file,
	}})
	return nil
}

// Reload re-reads the backing file, discarding in-memory edits. A failed
// parse or read leaves the session untouched.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevDoc, prevBaseline, prevSchema := s.doc, s.baseline, s.schema
	if err := s.loadLocked(ctx); err != nil {
		s.doc, s.baseline, s.schema = prevDoc, prevBaseline, prevSchema
		return err
	}
	s.valid = true

	event.Publish(event.Event{Type: event.DocumentReloaded, Data: event.DocumentData{
		SessionID: s.id, File: s.file,
	}})
	return nil
}

// ReloadSchema re-runs schema discovery, leaving the value tree and the
// modified set untouched.
func (s *Session) ReloadSchema(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid || s.opts.Discoverer == nil {
		return
	}

	s.schema = s.opts.Discoverer.Discover(ctx, s.file)
	if s.schema != nil {
		event.Publish(event.Event{Type: event.SchemaAttached, Data: event.SchemaData{
			SessionID: s.id, File: s.file, Schema: s.schema.Path(),
		}})
	} else {
		event.Publish(event.Event{Type: event.SchemaDetached, Data: event.SchemaData{
			SessionID: s.id, File: s.file,
		}})
	}
}

// DetachSchema drops the attached schema (the schema file was deleted).
func (s *Session) DetachSchema() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schema == nil {
		return
	}
	s.schema = nil
	event.Publish(event.Event{Type: event.SchemaDetached, Data: event.SchemaData{
		SessionID: s.id, File: s.file,
	}})
}

// Invalidate marks the session unusable (the backing file was deleted).
// No further operations are accepted until a fresh load.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return
	}
	s.valid = false

	logging.Warn().Str("session", s.id).Str("file", s.file).Msg("document invalidated")
	event.Publish(event.Event{Type: event.DocumentInvalidated, Data: event.DocumentData{
		SessionID: s.id, File: s.file,
	}})
}
