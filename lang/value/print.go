package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func formatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'g', 16, 64)
	}
}

func formatComplex(c complex64) string {
	re, im := float64(real(c)), float64(imag(c))
	if re == 0.0 {
		return formatDouble(im) + "j"
	}
	sign := "+"
	imAbs := im
	if im < 0 || math.Signbit(im) {
		sign = "-"
		imAbs = -im
	}
	return fmt.Sprintf("(%s%s%sj)", formatDouble(re), sign, formatDouble(imAbs))
}

// formatString renders a string's bytes, optionally quoted. Quoting prefers
// double quotes unless the content contains one, in which case it switches
// to single quotes unless the content also contains a single quote, in
// which case it falls back to double quotes with embedded quotes
// backslash-escaped.
func formatString(s string, quote bool) string {
	if !quote {
		return s
	}
	hasDouble := strings.ContainsRune(s, '"')
	hasSingle := strings.ContainsRune(s, '\'')
	if !hasDouble {
		return `"` + s + `"`
	}
	if !hasSingle {
		return `'` + s + `'`
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Print renders v the way the 'print' statement does: top-level strings are
// unquoted.
func Print(v Value) string { return format(v, false) }

// Inspect renders v the way nested container elements and hashmap
// keys/values are rendered: always quoted if a string.
func Inspect(v Value) string { return format(v, true) }

func format(v Value, quote bool) string {
	switch v.Kind {
	case Nil:
		return "nil"
	case Bool:
		if v.boolv {
			return "true"
		}
		return "false"
	case Int:
		return strconv.FormatInt(int64(v.intv), 10)
	case Double:
		return formatDouble(v.doublev)
	case Complex:
		return formatComplex(v.complexv)
	case Object:
		return formatObject(v.obj, quote)
	default:
		return "(invalid value)"
	}
}

func formatObject(o Obj, quote bool) string {
	switch ov := o.(type) {
	case *String:
		return formatString(ov.Chars, quote)
	case *StringView:
		return formatString(ov.Chars(), quote)
	case *Array:
		var b strings.Builder
		b.WriteByte('[')
		for i, elem := range ov.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Inspect(elem))
		}
		b.WriteByte(']')
		return b.String()
	case *HashmapObj:
		var b strings.Builder
		b.WriteByte('{')
		first := true
		ov.Map.Iter(func(_ int, k, val Value) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(Inspect(k))
			b.WriteString(": ")
			b.WriteString(Inspect(val))
		})
		b.WriteByte('}')
		return b.String()
	case *Function:
		return ov.String()
	case *Native:
		return ov.String()
	default:
		return "(object)"
	}
}
