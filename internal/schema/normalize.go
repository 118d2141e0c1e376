package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/conftree/conftree/internal/document"
	"github.com/conftree/conftree/internal/pathkey"
)

// reservedKeys are the metadata property names a field definition may
// carry. When an object is recognized as a definition, recursion skips
// these keys; everything else under it may hold nested definitions (an
// object can simultaneously be a field's metadata and a namespace).
var reservedKeys = map[string]bool{
	"visible":     true,
	"visibility":  true,
	"label":       true,
	"title":       true,
	"description": true,
	"meaning":     true,
	"help":        true,
	"helpText":    true,
	"type":        true,
	"enum":        true,
	"range":       true,
	"unit":        true,
}

// rule is one entry of the normalization table: it consumes a property
// spelling (or family of spellings) from a candidate object and folds it
// into the definition. Rules run in order; any rule reporting success
// marks the object as a recognized field definition. New spellings are
// added here, never in the traversal.
type rule struct {
	name  string
	apply func(obj *document.Value, def *FieldDefinition) bool
}

var normalizeRules = []rule{
	{"visible", applyVisible},
	{"visibility", applyVisibility},
	{"label", applyLabel},
	{"description", applyDescription},
	{"unit", applyUnit},
	{"type", applyType},
	{"enum", applyEnum},
	{"range", applyRange},
}

// Normalize flattens a schema document into path-keyed field definitions.
// Two trees contribute entries: the object under the document's "fields"
// property, and every other top-level object property rooted at the
// document itself. Returns the mapping plus the keys in document order.
func Normalize(doc *document.Value) (map[string]*FieldDefinition, []string) {
	out := make(map[string]*FieldDefinition)
	var order []string
	if doc == nil || doc.Kind() != document.KindObject {
		return out, order
	}

	if fields, ok := doc.Member("fields"); ok && fields.Kind() == document.KindObject {
		for _, key := range fields.Keys() {
			child, _ := fields.Member(key)
			if child.Kind() == document.KindObject {
				visit(key, child, "", []string{"fields"}, out, &order)
			}
		}
	}

	for _, key := range doc.Keys() {
		if key == "fields" {
			continue
		}
		child, _ := doc.Member(key)
		if child.Kind() == document.KindObject {
			visit(key, child, "", nil, out, &order)
		}
	}

	return out, order
}

// visit interprets obj as a candidate definition at the accumulated path,
// then recurses into its object-valued properties. A recognized
// definition skips recursion into reserved metadata keys; an unrecognized
// object recurses into everything.
func visit(key string, obj *document.Value, base string, rawBase []string, out map[string]*FieldDefinition, order *[]string) {
	pk := pathkey.JoinKey(base, key)
	raw := make([]string, 0, len(rawBase)+1)
	raw = append(raw, rawBase...)
	raw = append(raw, key)

	def := normalizeDefinition(obj)
	if def != nil {
		def.SchemaPath = raw
		if _, exists := out[pk]; !exists {
			*order = append(*order, pk)
		}
		out[pk] = def
	}

	for _, childKey := range obj.Keys() {
		child, _ := obj.Member(childKey)
		if child.Kind() != document.KindObject {
			continue
		}
		if def != nil && reservedKeys[childKey] {
			continue
		}
		visit(childKey, child, pk, raw, out, order)
	}
}

// normalizeDefinition runs the rule table over a candidate object.
// Returns nil when no rule recognized anything; the object is then a
// pure namespace.
func normalizeDefinition(obj *document.Value) *FieldDefinition {
	def := &FieldDefinition{}
	recognized := false
	for _, r := range normalizeRules {
		if r.apply(obj, def) {
			recognized = true
		}
	}
	if !recognized {
		return nil
	}
	return def
}

func applyVisible(obj *document.Value, def *FieldDefinition) bool {
	v, ok := obj.Member("visible")
	if !ok || v.Kind() != document.KindBool {
		return false
	}
	b := v.BoolValue()
	def.Visible = &b
	return true
}

func applyVisibility(obj *document.Value, def *FieldDefinition) bool {
	v, ok := obj.Member("visibility")
	if !ok || v.Kind() != document.KindString {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v.StringValue())) {
	case "visible":
		t := true
		def.Visible = &t
	case "invisible", "hidden", "false":
		f := false
		def.Visible = &f
	}
	// An unrecognized visibility string still marks the object as a
	// field definition.
	return true
}

func applyLabel(obj *document.Value, def *FieldDefinition) bool {
	if s, ok := nonEmptyString(obj, "label"); ok {
		def.Label = s
		return true
	}
	if s, ok := nonEmptyString(obj, "title"); ok {
		def.Label = s
		return true
	}
	return false
}

func applyDescription(obj *document.Value, def *FieldDefinition) bool {
	for _, key := range []string{"description", "meaning", "helpText", "help"} {
		if s, ok := nonEmptyString(obj, key); ok {
			def.Description = s
			return true
		}
	}
	return false
}

func applyUnit(obj *document.Value, def *FieldDefinition) bool {
	s, ok := nonEmptyString(obj, "unit")
	if !ok {
		return false
	}
	def.Unit = s
	return true
}

func applyType(obj *document.Value, def *FieldDefinition) bool {
	v, ok := obj.Member("type")
	if !ok || v.Kind() != document.KindString {
		return false
	}
	raw := strings.ToLower(strings.TrimSpace(v.StringValue()))
	if raw == "" {
		return false
	}
	def.RawType = raw
	switch raw {
	case "string", "text":
		def.Type = TypeString
	case "enum", "select":
		def.Type = TypeEnum
	case "integer", "int", "long", "short":
		def.Type = TypeInteger
	case "float", "double", "number", "decimal":
		def.Type = TypeNumber
	case "boolean", "bool":
		def.Type = TypeBoolean
	}
	return true
}

func applyEnum(obj *document.Value, def *FieldDefinition) bool {
	v, ok := obj.Member("enum")
	if !ok || v.Kind() != document.KindArray {
		return false
	}
	def.Enum = arrayOptions(v)
	return true
}

// intervalPattern matches "<num><-|~><num>" with optional signs and
// decimals, e.g. "0-10", "-1.5~1.5".
var intervalPattern = regexp.MustCompile(`^\s*([+-]?\d+(?:\.\d+)?)\s*[-~]\s*([+-]?\d+(?:\.\d+)?)\s*$`)

func applyRange(obj *document.Value, def *FieldDefinition) bool {
	v, ok := obj.Member("range")
	if !ok {
		return false
	}

	var r *Range
	switch v.Kind() {
	case document.KindArray:
		if v.Len() > 0 {
			r = &Range{Options: arrayOptions(v)}
		}
	case document.KindObject:
		r = objectRange(v)
	case document.KindString:
		r = stringRange(v.StringValue(), def.Type)
	}
	if r == nil {
		return false
	}

	def.Range = r
	// Whenever a choice list exists, enum is reliably populated no
	// matter which property authored it.
	if len(r.Options) > 0 && len(def.Enum) == 0 {
		def.Enum = append([]any(nil), r.Options...)
	}
	return true
}

func objectRange(v *document.Value) *Range {
	r := &Range{}
	present := false
	if m, ok := v.Member("min"); ok && m.Kind() == document.KindNumber {
		n := m.NumberValue()
		r.Min = &n
		present = true
	}
	if m, ok := v.Member("max"); ok && m.Kind() == document.KindNumber {
		n := m.NumberValue()
		r.Max = &n
		present = true
	}
	if m, ok := v.Member("options"); ok && m.Kind() == document.KindArray && m.Len() > 0 {
		r.Options = arrayOptions(m)
		present = true
	}
	if !present {
		return nil
	}
	return r
}

func stringRange(s string, declared FieldType) *Range {
	if m := intervalPattern.FindStringSubmatch(s); m != nil {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return &Range{Min: &lo, Max: &hi}
		}
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ';'
	})
	var tokens []any
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	// A single token that is not an interval is ambiguous unless the
	// declared type already says this is a choice field.
	if declared == TypeEnum && len(tokens) > 0 || len(tokens) >= 2 {
		return &Range{Options: tokens}
	}
	return nil
}

func arrayOptions(v *document.Value) []any {
	out := make([]any, 0, v.Len())
	for _, el := range v.Elements() {
		out = append(out, el.Interface())
	}
	return out
}

func nonEmptyString(obj *document.Value, key string) (string, bool) {
	v, ok := obj.Member(key)
	if !ok || v.Kind() != document.KindString {
		return "", false
	}
	s := strings.TrimSpace(v.StringValue())
	if s == "" {
		return "", false
	}
	return s, true
}
