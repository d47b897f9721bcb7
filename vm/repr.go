package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Repr returns the printable representation of v, as the interactive
// interpreter would echo it.
func (vm *VM) Repr(v Value) string {
	switch v.rep {
	case RepBool:
		if v.Bool() {
			return "True"
		}
		return "False"
	case RepFixedInt:
		return strconv.FormatInt(v.Int(), 10)
	case RepWideInt:
		return v.BigInt().String()
	case RepFloat:
		return FormatFloat(v.Float64())
	}

	switch {
	case v.IsNone():
		return "None"
	case v.IsNotImplemented():
		return "NotImplemented"
	}

	class := vm.ClassOf(v)
	switch p := payloadOf(v).(type) {
	case string:
		return quoteString(p)
	case []byte:
		if class.Kind == KindByteArray {
			return "bytearray(" + quoteBytes(p) + ")"
		}
		return quoteBytes(p)
	case []Value:
		parts := make([]string, len(p))
		for i, e := range p {
			parts[i] = vm.Repr(e)
		}
		if class.Kind == KindTuple {
			if len(p) == 1 {
				return "(" + parts[0] + ",)"
			}
			return "(" + strings.Join(parts, ", ") + ")"
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Value:
		return vm.Repr(p)
	}
	return fmt.Sprintf("<%s object>", class.Name)
}

// FormatFloat formats f the way float repr does: shortest round-trip digits,
// always with a decimal point or exponent.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	q := strconv.Quote(s)
	if strings.Contains(s, "'") {
		return q
	}
	inner := strings.ReplaceAll(q[1:len(q)-1], `\"`, `"`)
	return "'" + inner + "'"
}

func quoteBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteString("b'")
	for _, c := range b {
		switch {
		case c == '\\' || c == '\'':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
