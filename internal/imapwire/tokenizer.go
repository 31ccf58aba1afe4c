package imapwire

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/directorytree/go-imapengine"
)

// maxLiteralSize caps the declared size of a literal.
const maxLiteralSize = 1 << 30

// Tokenizer lexes bytes pulled from a Stream into tokens.
//
// The tokenizer only pulls a new line from the stream when it runs out of
// buffered bytes, so it never reads past the response being parsed.
type Tokenizer struct {
	stream Stream
	buf    []byte
	pos    int
}

// NewTokenizer creates a tokenizer reading from s.
func NewTokenizer(s Stream) *Tokenizer {
	return &Tokenizer{stream: s}
}

// Reset discards all buffered bytes and reads from s from now on.
func (t *Tokenizer) Reset(s Stream) {
	t.stream = s
	t.buf = t.buf[:0]
	t.pos = 0
}

// Buffered returns the number of bytes buffered but not consumed yet.
func (t *Tokenizer) Buffered() int {
	return len(t.buf) - t.pos
}

// ensureBuffer pulls lines from the stream until at least n bytes are
// available past the cursor.
func (t *Tokenizer) ensureBuffer(n int) error {
	for len(t.buf)-t.pos < n {
		if t.pos == len(t.buf) {
			t.buf = t.buf[:0]
			t.pos = 0
		}
		line, err := t.stream.ReadLine()
		t.buf = append(t.buf, line...)
		if err != nil {
			// A timed out read may have left half a line behind
			if len(t.buf)-t.pos >= n && !errors.Is(err, imap.ErrTimeout) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Next returns the next token. io.EOF is returned at the end of the stream.
func (t *Tokenizer) Next() (Token, error) {
	var ch byte
	for {
		if err := t.ensureBuffer(1); err != nil {
			return Token{}, err
		}
		ch = t.buf[t.pos]
		if ch != ' ' && ch != '\t' {
			break
		}
		t.pos++
	}

	switch ch {
	case '(':
		t.pos++
		return Token{Kind: TokenListOpen}, nil
	case ')':
		t.pos++
		return Token{Kind: TokenListClose}, nil
	case '"':
		return t.quoted()
	case '{':
		return t.literal()
	case '\r', '\n':
		return t.eol(), nil
	default:
		return t.atom(), nil
	}
}

func (t *Tokenizer) eol() Token {
	if t.buf[t.pos] == '\r' {
		t.pos++
	}
	if t.pos < len(t.buf) && t.buf[t.pos] == '\n' {
		t.pos++
	}
	return Token{Kind: TokenEOL}
}

func isAtomEnd(ch byte) bool {
	switch ch {
	case ' ', '\t', '(', ')', '{', '"', '\r', '\n':
		return true
	}
	return false
}

func (t *Tokenizer) atom() Token {
	start := t.pos
	for t.pos < len(t.buf) && !isAtomEnd(t.buf[t.pos]) {
		t.pos++
	}
	return Token{Kind: TokenAtom, Value: append([]byte(nil), t.buf[start:t.pos]...)}
}

// quoted scans a quoted string. Quoted strings can't span lines, so the
// closing quote must be in the buffered line.
func (t *Tokenizer) quoted() (Token, error) {
	var value []byte
	for i := t.pos + 1; i < len(t.buf); i++ {
		switch ch := t.buf[i]; ch {
		case '"':
			t.pos = i + 1
			return Token{Kind: TokenQuoted, Value: value}, nil
		case '\\':
			if i+1 >= len(t.buf) || t.buf[i+1] == '\r' || t.buf[i+1] == '\n' {
				return Token{}, imap.NewParseError("unterminated quoted string")
			}
			i++
			value = append(value, t.buf[i])
		case '\r', '\n':
			return Token{}, imap.NewParseError("unterminated quoted string")
		default:
			value = append(value, ch)
		}
	}
	return Token{}, imap.NewParseError("unterminated quoted string")
}

// literal reads a "{n}\r\n" literal specifier followed by exactly n bytes.
func (t *Tokenizer) literal() (Token, error) {
	end := -1
	for i := t.pos + 1; i < len(t.buf); i++ {
		ch := t.buf[i]
		if ch == '}' {
			end = i
			break
		} else if ch < '0' || ch > '9' {
			return Token{}, imap.NewParseError(fmt.Sprintf("invalid character %q in literal specifier", ch))
		}
	}
	if end < 0 {
		return Token{}, imap.NewParseError("unterminated literal specifier")
	}

	digits := string(t.buf[t.pos+1 : end])
	n, err := strconv.Atoi(digits)
	if err != nil || n > maxLiteralSize {
		return Token{}, imap.NewParseError(fmt.Sprintf("invalid literal length %q", digits))
	}
	t.pos = end + 1

	if err := t.ensureBuffer(2); err != nil {
		if errors.Is(err, io.EOF) {
			return Token{}, imap.NewParseError("missing CRLF after literal length")
		}
		return Token{}, err
	}
	if t.buf[t.pos] != '\r' || t.buf[t.pos+1] != '\n' {
		return Token{}, imap.NewParseError("malformed CRLF after literal length")
	}
	t.pos += 2

	value := make([]byte, 0, n)
	if avail := len(t.buf) - t.pos; avail > 0 {
		take := avail
		if take > n {
			take = n
		}
		value = append(value, t.buf[t.pos:t.pos+take]...)
		t.pos += take
	}
	if short := n - len(value); short > 0 {
		b, err := t.stream.ReadFull(short)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return Token{}, fmt.Errorf("imapwire: short read in literal of %v bytes: %w", n, err)
		}
		if len(b) != short {
			return Token{}, fmt.Errorf("imapwire: short read in literal of %v bytes: %w", n, io.ErrUnexpectedEOF)
		}
		value = append(value, b...)
	}
	return Token{Kind: TokenLiteral, Value: value}, nil
}
