package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoercionError reports that a raw input could not be interpreted as the
// declared type.
type CoercionError struct {
	Raw  any
	Type FieldType
}

func (e *CoercionError) Error() string {
	t := string(e.Type)
	if t == "" {
		t = "value"
	}
	return fmt.Sprintf("cannot interpret %v as %s", e.Raw, t)
}

// ValidationError reports that a coerced value violates the schema
// entry's enum or range constraint.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Coerce casts a raw input (typically a form string, possibly an
// already-typed value) into the declared semantic type. The result is
// always one of float64, bool or string. A nil raw input is an error: a
// cast is never asked to produce an absent value.
func Coerce(raw any, declared FieldType) (any, error) {
	if raw == nil {
		return nil, &CoercionError{Raw: raw, Type: declared}
	}

	switch declared {
	case TypeInteger:
		switch v := raw.(type) {
		case float64:
			if v != math.Trunc(v) {
				return nil, &CoercionError{Raw: raw, Type: declared}
			}
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, &CoercionError{Raw: raw, Type: declared}
			}
			return float64(n), nil
		default:
			return nil, &CoercionError{Raw: raw, Type: declared}
		}

	case TypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, &CoercionError{Raw: raw, Type: declared}
			}
			return f, nil
		default:
			return nil, &CoercionError{Raw: raw, Type: declared}
		}

	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return nil, &CoercionError{Raw: raw, Type: declared}

	default:
		// string, enum and unrecognized types stringify.
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return fmt.Sprint(raw), nil
	}
}

// Validate checks a coerced value against a field definition. A non-empty
// enum demands typed equality with one of its members; otherwise a
// numeric range is checked for numeric values. No definition, or no
// constraint, accepts everything.
func Validate(value any, def *FieldDefinition) error {
	if def == nil {
		return nil
	}

	if len(def.Enum) > 0 {
		for _, opt := range def.Enum {
			if value == opt {
				return nil
			}
		}
		return &ValidationError{
			Message: fmt.Sprintf("Value must be one of %s.", formatOptions(def.Enum)),
		}
	}

	if def.Range != nil {
		n, ok := value.(float64)
		if !ok {
			return nil
		}
		if def.Range.Min != nil && n < *def.Range.Min {
			return &ValidationError{
				Message: fmt.Sprintf("Value must be >= %s.", formatNumber(*def.Range.Min)),
			}
		}
		if def.Range.Max != nil && n > *def.Range.Max {
			return &ValidationError{
				Message: fmt.Sprintf("Value must be <= %s.", formatNumber(*def.Range.Max)),
			}
		}
	}

	return nil
}

func formatOptions(opts []any) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		if f, ok := o.(float64); ok {
			parts = append(parts, formatNumber(f))
			continue
		}
		parts = append(parts, fmt.Sprint(o))
	}
	return strings.Join(parts, ", ")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
