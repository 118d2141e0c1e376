package document

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Serialize renders the tree as formatted JSON text. indent is the number
// of spaces per nesting level; values below 1 produce compact output. The
// result carries no trailing newline; callers writing files append one.
func Serialize(v *Value, indent int) []byte {
	var buf bytes.Buffer
	var pad string
	if indent > 0 {
		pad = strings.Repeat(" ", indent)
	}
	writeValue(&buf, v, pad, 0)
	return buf.Bytes()
}

func writeValue(buf *bytes.Buffer, v *Value, pad string, depth int) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.boolVal {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(formatNumber(v.numVal))
	case KindString:
		writeString(buf, v.strVal)
	case KindArray:
		if len(v.elems) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, el := range v.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, pad, depth+1)
			writeValue(buf, el, pad, depth+1)
		}
		newline(buf, pad, depth)
		buf.WriteByte(']')
	case KindObject:
		if len(v.keys) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, pad, depth+1)
			writeString(buf, k)
			buf.WriteByte(':')
			if pad != "" {
				buf.WriteByte(' ')
			}
			writeValue(buf, v.members[k], pad, depth+1)
		}
		newline(buf, pad, depth)
		buf.WriteByte('}')
	}
}

func newline(buf *bytes.Buffer, pad string, depth int) {
	if pad == "" {
		return
	}
	buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		buf.WriteString(pad)
	}
}

// writeString emits a JSON string literal. encoding/json handles the
// escaping rules.
func writeString(buf *bytes.Buffer, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		buf.WriteString(`""`)
		return
	}
	buf.Write(b)
}

// formatNumber follows encoding/json's choice of fixed vs exponent
// notation so integers like ports render without an exponent.
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.FormatFloat(f, format, -1, 64)
}
