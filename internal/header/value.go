package header

import (
	"bytes"
	"strconv"
	"strings"
)

// ValueFieldSize is the width of the value/comment field following "= ".
const ValueFieldSize = 70

// Value is a parsed header value. The concrete type is one of Logical,
// Integer, Float, String, ComplexInt or ComplexFloat.
type Value interface {
	isValue()
	String() string
}

// Logical is a FITS logical (T/F) value.
type Logical bool

// Integer is a FITS integer value.
type Integer int64

// Float is a FITS real floating-point value.
type Float float64

// String is a FITS character string value, without quotes or trailing spaces.
type String string

// ComplexInt is a FITS complex integer value.
type ComplexInt struct {
	Re, Im int64
}

// ComplexFloat is a FITS complex floating-point value.
type ComplexFloat struct {
	Re, Im float64
}

func (Logical) isValue()      {}
func (Integer) isValue()      {}
func (Float) isValue()        {}
func (String) isValue()       {}
func (ComplexInt) isValue()   {}
func (ComplexFloat) isValue() {}

func (v Logical) String() string {
	if v {
		return "T"
	}
	return "F"
}

func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Float) String() string { return formatFloat(float64(v)) }

func (v String) String() string { return "'" + strings.ReplaceAll(string(v), "'", "''") + "'" }

func (v ComplexInt) String() string {
	return "(" + strconv.FormatInt(v.Re, 10) + ", " + strconv.FormatInt(v.Im, 10) + ")"
}

func (v ComplexFloat) String() string {
	return "(" + formatFloat(v.Re) + ", " + formatFloat(v.Im) + ")"
}

// ParseValue decodes a value field (normally the 70 bytes after "= ").
// It returns the value, the trailing comment ("" when absent) and whether a
// value was recognized.
func ParseValue(field []byte) (Value, string, bool) {
	field = bytes.TrimLeft(field, " ")
	if len(field) == 0 {
		return nil, "", false
	}
	if field[0] == '\'' {
		s, rest := parseQuoted(field)
		return String(s), findComment(rest), true
	}

	valPart, comment := splitComment(field)
	text := strings.TrimSpace(string(valPart))
	if text == "" {
		return nil, "", false
	}

	switch text {
	case "T":
		return Logical(true), comment, true
	case "F":
		return Logical(false), comment, true
	}

	if strings.HasPrefix(text, "(") {
		if v, ok := parseComplex(text); ok {
			return v, comment, true
		}
	}

	if !strings.ContainsAny(text, ".EeDd") {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Integer(n), comment, true
		}
	}

	if f, ok := parseFloat(text); ok {
		return Float(f), comment, true
	}
	return nil, "", false
}

// parseQuoted reads a quoted string starting at field[0]. A doubled quote is
// a literal quote; an unterminated string runs to the end of the field.
// It returns the string with trailing spaces removed and the unread remainder.
func parseQuoted(field []byte) (string, []byte) {
	var sb strings.Builder
	i := 1
	for i < len(field) {
		if field[i] == '\'' {
			if i+1 < len(field) && field[i+1] == '\'' {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			i++
			break
		}
		sb.WriteByte(field[i])
		i++
	}
	return strings.TrimRight(sb.String(), " "), field[i:]
}

// splitComment splits field at the first " /" separator. One optional space
// after the slash is skipped.
func splitComment(field []byte) ([]byte, string) {
	idx := bytes.Index(field, []byte(" /"))
	if idx < 0 {
		return field, ""
	}
	return field[:idx], commentAfter(field[idx+2:])
}

func findComment(rest []byte) string {
	idx := bytes.Index(rest, []byte(" /"))
	if idx < 0 {
		return ""
	}
	return commentAfter(rest[idx+2:])
}

func commentAfter(b []byte) string {
	if len(b) > 0 && b[0] == ' ' {
		b = b[1:]
	}
	return strings.TrimRight(string(b), " ")
}

func parseComplex(text string) (Value, bool) {
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") || len(text) < 2 {
		return nil, false
	}
	inner := text[1 : len(text)-1]
	left, right, found := strings.Cut(inner, ",")
	if !found {
		return nil, false
	}
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)

	if !strings.Contains(left, ".") && !strings.Contains(right, ".") {
		re, errRe := strconv.ParseInt(left, 10, 64)
		im, errIm := strconv.ParseInt(right, 10, 64)
		if errRe == nil && errIm == nil {
			return ComplexInt{Re: re, Im: im}, true
		}
	}

	re, ok := parseFloat(left)
	if !ok {
		return nil, false
	}
	im, ok := parseFloat(right)
	if !ok {
		return nil, false
	}
	return ComplexFloat{Re: re, Im: im}, true
}

// parseFloat parses a real number, accepting D as an exponent marker.
func parseFloat(s string) (float64, bool) {
	s = strings.NewReplacer("D", "E", "d", "e").Replace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatValue renders v into a 70-byte value field. Logical, integer and
// real values are right-justified in the first 20 bytes; strings start at
// byte 0 with the closing quote no earlier than byte 9.
func FormatValue(v Value) [ValueFieldSize]byte {
	var buf [ValueFieldSize]byte
	for i := range buf {
		buf[i] = ' '
	}

	switch v := v.(type) {
	case Logical:
		buf[19] = v.String()[0]
	case Integer:
		rightJustify(buf[:20], v.String())
	case Float:
		rightJustify(buf[:20], v.String())
	case String:
		writeString(&buf, string(v))
	case ComplexInt:
		rightJustify(buf[:30], v.String())
	case ComplexFloat:
		rightJustify(buf[:50], v.String())
	}
	return buf
}

func rightJustify(dst []byte, s string) {
	n := len(s)
	if n > len(dst) {
		n = len(dst)
	}
	copy(dst[len(dst)-n:], s[:n])
}

// formatFloat returns the shortest exponent form of f that fits in 20 bytes.
func formatFloat(f float64) string {
	if f == 0 {
		return "0.0"
	}
	s := strconv.FormatFloat(f, 'E', -1, 64)
	for prec := 15; len(s) > 20 && prec >= 0; prec-- {
		s = strconv.FormatFloat(f, 'E', prec, 64)
	}
	if i := strings.IndexByte(s, 'E'); i > 0 && !strings.Contains(s[:i], ".") {
		s = s[:i] + ".0" + s[i:]
	}
	return s
}

func writeString(buf *[ValueFieldSize]byte, s string) {
	pos := 0
	buf[pos] = '\''
	pos++

	for i := 0; i < len(s); i++ {
		if pos >= ValueFieldSize-1 {
			break
		}
		if s[i] == '\'' {
			if pos+1 >= ValueFieldSize-1 {
				break
			}
			buf[pos] = '\''
			buf[pos+1] = '\''
			pos += 2
			continue
		}
		buf[pos] = s[i]
		pos++
	}

	if pos < 9 {
		pos = 9
	}
	buf[pos] = '\''
}
