package imap

import (
	"fmt"
	"strconv"
	"strings"
)

// Data is a node of a parsed response.
//
// Data is a closed sum type: it is implemented by Atom, QuotedString,
// *Literal and List. Callers are expected to use a type switch.
type Data interface {
	// String returns the wire representation of the node.
	String() string
	// Value unwraps the node: atoms and quoted strings become a string,
	// literals a []byte and lists a []interface{}.
	Value() interface{}

	isData()
}

var (
	_ Data = Atom("")
	_ Data = QuotedString("")
	_ Data = (*Literal)(nil)
	_ Data = List(nil)
)

// Atom is an unquoted word.
//
// NIL is represented as the atom "NIL".
type Atom string

func (Atom) isData() {}

func (a Atom) String() string {
	return string(a)
}

func (a Atom) Value() interface{} {
	return string(a)
}

// IsNil returns true if the atom is the NIL special atom.
func (a Atom) IsNil() bool {
	return strings.EqualFold(string(a), "NIL")
}

// QuotedString is a string which was enclosed in double quotes on the wire.
// The value is unescaped.
type QuotedString string

func (QuotedString) isData() {}

// String returns the quoted string with backslash and double quote escaped.
func (q QuotedString) String() string {
	var sb strings.Builder
	sb.Grow(len(q) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(q); i++ {
		ch := q[i]
		if ch == '"' || ch == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(ch)
	}
	sb.WriteByte('"')
	return sb.String()
}

func (q QuotedString) Value() interface{} {
	return string(q)
}

// Literal is a byte-counted string. Its contents are opaque and may contain
// any byte, including CR and LF.
type Literal struct {
	contents []byte
}

// NewLiteral creates a new literal.
func NewLiteral(b []byte) *Literal {
	return &Literal{contents: b}
}

func (*Literal) isData() {}

// Len returns the number of bytes in the literal.
func (l *Literal) Len() int {
	return len(l.contents)
}

// Bytes returns the literal contents.
func (l *Literal) Bytes() []byte {
	return l.contents
}

// String returns the literal with its "{n}\r\n" prefix.
func (l *Literal) String() string {
	return "{" + strconv.Itoa(len(l.contents)) + "}\r\n" + string(l.contents)
}

func (l *Literal) Value() interface{} {
	return l.contents
}

// List is a parenthesized list of data nodes.
type List []Data

func (List) isData() {}

// String renders the list with its children separated by a single space.
func (l List) String() string {
	return "(" + joinData(l) + ")"
}

func (l List) Value() interface{} {
	return values(l)
}

// At returns the child at position i, or nil if there is none.
func (l List) At(i int) Data {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

// Lookup scans the children from left to right for a node whose string form
// equals marker and returns the node right after it. Nil is returned if the
// marker is missing or is the last child.
//
// The comparison is exact: IMAP keywords are case-insensitive, but folding is
// left to the caller.
func (l List) Lookup(marker string) Data {
	for i, d := range l {
		if d.String() == marker {
			return l.At(i + 1)
		}
	}
	return nil
}

// Contains returns true if one of the children renders as s.
func (l List) Contains(s string) bool {
	for _, d := range l {
		if d.String() == s {
			return true
		}
	}
	return false
}

func joinData(l []Data) string {
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}

func values(l []Data) []interface{} {
	out := make([]interface{}, len(l))
	for i, d := range l {
		out[i] = d.Value()
	}
	return out
}

// AsString returns the textual value of an atom, quoted string or literal.
func AsString(d Data) (string, bool) {
	switch d := d.(type) {
	case Atom:
		return string(d), true
	case QuotedString:
		return string(d), true
	case *Literal:
		return string(d.contents), true
	default:
		return "", false
	}
}

// AsNString is like AsString, but maps the NIL atom to an empty string.
func AsNString(d Data) (string, bool) {
	if a, ok := d.(Atom); ok && a.IsNil() {
		return "", true
	}
	return AsString(d)
}

// ParseNumber converts a data node to a number.
func ParseNumber(d Data) (uint32, error) {
	a, ok := d.(Atom)
	if !ok {
		return 0, newParseError(fmt.Sprintf("number is not an atom: %v", d))
	}
	n, err := strconv.ParseUint(string(a), 10, 32)
	if err != nil {
		return 0, newParseError(fmt.Sprintf("invalid number %q", string(a)))
	}
	return uint32(n), nil
}

// ParseNumber64 is like ParseNumber, but for 64-bit numbers.
func ParseNumber64(d Data) (int64, error) {
	a, ok := d.(Atom)
	if !ok {
		return 0, newParseError(fmt.Sprintf("number is not an atom: %v", d))
	}
	n, err := strconv.ParseInt(string(a), 10, 64)
	if err != nil {
		return 0, newParseError(fmt.Sprintf("invalid number %q", string(a)))
	}
	return n, nil
}

// ParseStringList converts a list of data nodes to a list of strings.
func ParseStringList(l List) ([]string, error) {
	list := make([]string, len(l))
	for i, d := range l {
		s, ok := AsString(d)
		if !ok {
			return nil, newParseError("string list contains a non-string")
		}
		list[i] = s
	}
	return list, nil
}
