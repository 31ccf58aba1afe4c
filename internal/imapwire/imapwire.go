// Package imapwire implements the IMAP wire protocol on the client side:
// a tokenizer turning a byte stream into lexical tokens, and a parser
// assembling tokens into responses.
//
// The IMAP wire protocol is defined in RFC 3501 section 4.
package imapwire

import (
	"bufio"
	"io"
)

// Stream is the capability the tokenizer pulls bytes from.
type Stream interface {
	// ReadLine reads bytes up to and including the next LF. At the end of
	// the stream, the remaining bytes are returned along with an error.
	ReadLine() ([]byte, error)
	// ReadFull reads exactly n bytes.
	ReadFull(n int) ([]byte, error)
}

// ReaderStream is a Stream reading from a buffered reader.
type ReaderStream struct {
	r *bufio.Reader
}

var _ Stream = (*ReaderStream)(nil)

// NewReaderStream creates a stream reading from r. If r is not a
// *bufio.Reader, it is wrapped in one.
func NewReaderStream(r io.Reader) *ReaderStream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &ReaderStream{r: br}
}

// ReadLine implements Stream.
func (s *ReaderStream) ReadLine() ([]byte, error) {
	return s.r.ReadBytes('\n')
}

// ReadFull implements Stream.
func (s *ReaderStream) ReadFull(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(s.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Buffered returns the number of bytes that can be read without blocking.
func (s *ReaderStream) Buffered() int {
	return s.r.Buffered()
}
