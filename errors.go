package imap

import (
	"errors"
)

// Transport and protocol errors. Callers match them with errors.Is; the
// imapclient package wraps them with context.
var (
	// ErrConnectionRefused is returned when the transport cannot be opened
	// or when the server greeting is not acceptable.
	ErrConnectionRefused = errors.New("imap: connection refused")
	// ErrTimeout is returned when a read or write exceeds the transport
	// timeout.
	ErrTimeout = errors.New("imap: connection timed out")
	// ErrConnectionClosed is returned when the connection was closed, either
	// by the peer (EOF) or locally.
	ErrConnectionClosed = errors.New("imap: connection closed")
	// ErrMalformedResponse is returned when a response is syntactically
	// valid but doesn't make sense for the command.
	ErrMalformedResponse = errors.New("imap: malformed response")
	// ErrWriteFailed is returned when a command could not be written.
	ErrWriteFailed = errors.New("imap: write failed")
	// ErrContinuationMissing is returned when the server didn't send a
	// continuation request after a literal marker.
	ErrContinuationMissing = errors.New("imap: literal continuation missing")
)

// ParseError is a framing error produced while tokenizing or parsing a
// response. It is always fatal to the response being parsed.
type ParseError struct {
	msg string
}

func newParseError(text string) error {
	return &ParseError{msg: text}
}

// NewParseError creates a new parse error.
func NewParseError(text string) error {
	return newParseError(text)
}

func (err *ParseError) Error() string {
	return "imap: parse error: " + err.msg
}

// IsParseError returns true if the provided error is a parse error.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
