// Package schema flattens loosely-structured schema documents into
// per-path field definitions and validates edited values against them.
//
// The schema format is a flat metadata overlay, not a structural JSON
// Schema: each entry describes how one path of the configuration document
// is displayed and edited (visibility, label, description, type, allowed
// range or choice list, unit). Authors have used several spellings for
// most properties over time; the normalizer accepts all of them through
// an explicit rule table (see normalize.go).
package schema

import (
	"github.com/conftree/conftree/internal/document"
)

// FieldType is the normalized semantic type of a field.
type FieldType string

const (
	TypeUnknown FieldType = ""
	TypeString  FieldType = "string"
	TypeEnum    FieldType = "enum"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// Range constrains numeric fields or carries an authored option list.
type Range struct {
	Min     *float64
	Max     *float64
	Options []any
}

// FieldDefinition is the normalized metadata for one document path.
// Every property is optional; a definition exists only if at least one
// property was recognized in source.
type FieldDefinition struct {
	// Visible is nil when the schema does not say; absence means visible.
	Visible     *bool
	Label       string
	Description string
	Unit        string

	// Type is the normalized classification; RawType keeps the authored
	// spelling (lowercased) so the presentation layer can distinguish
	// e.g. "float" from "number" for input stepping.
	Type    FieldType
	RawType string

	Enum  []any
	Range *Range

	// SchemaPath is the sequence of raw keys, as literally written,
	// locating this definition's source object in the schema document.
	// Edits to the schema itself are written back through it.
	SchemaPath []string
}

// ConfigSchema is an immutable mapping from path keys to field
// definitions, plus the location of the schema document it came from.
type ConfigSchema struct {
	path   string
	fields map[string]*FieldDefinition
	order  []string
}

// Load parses raw bytes as strict JSON and normalizes them into a
// ConfigSchema. Schema documents do not accept JSONC.
func Load(path string, data []byte) (*ConfigSchema, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	fields, order := Normalize(doc)
	return &ConfigSchema{path: path, fields: fields, order: order}, nil
}

// New builds a ConfigSchema from an already-normalized field map.
func New(path string, fields map[string]*FieldDefinition, order []string) *ConfigSchema {
	return &ConfigSchema{path: path, fields: fields, order: order}
}

// Path returns the schema document's location.
func (s *ConfigSchema) Path() string {
	return s.path
}

// Field returns the definition for a path key, or nil.
func (s *ConfigSchema) Field(key string) *FieldDefinition {
	if s == nil {
		return nil
	}
	return s.fields[key]
}

// Keys returns all defined path keys in document order.
func (s *ConfigSchema) Keys() []string {
	return s.order
}

// Len returns the number of defined fields.
func (s *ConfigSchema) Len() int {
	return len(s.fields)
}

// IsVisible reports false only when an entry exists for the key and its
// visibility is explicitly false. No entry, or no visibility set, means
// visible.
func (s *ConfigSchema) IsVisible(key string) bool {
	if s == nil {
		return true
	}
	def := s.fields[key]
	if def == nil || def.Visible == nil {
		return true
	}
	return *def.Visible
}
