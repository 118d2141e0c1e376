package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

// ParseError reports that a byte stream was not valid JSON/JSONC.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes strict JSON into a value tree, preserving object member
// order.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	v, err := parseToken(dec, tok)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	// Anything but EOF after the top-level value is garbage.
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("trailing data after top-level value")
		}
		return nil, &ParseError{Err: err}
	}
	return v, nil
}

// ParseJSONC decodes JSON with comments and trailing commas by stripping
// them with tidwall/jsonc before the strict parse.
func ParseJSONC(data []byte) (*Value, error) {
	return Parse(jsonc.ToJSON(data))
}

func parseToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				child, err := parseToken(dec, valTok)
				if err != nil {
					return nil, err
				}
				obj.SetMember(key, child)
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array()
			for dec.More() {
				elTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				el, err := parseToken(dec, elTok)
				if err != nil {
					return nil, err
				}
				arr.elems = append(arr.elems, el)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}
