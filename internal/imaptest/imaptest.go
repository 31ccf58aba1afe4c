// Package imaptest provides a scripted IMAP server for client tests.
//
// A script drives the server side of an in-memory connection: it writes
// responses and checks the commands written by the client, line by line.
package imaptest

import (
	"bufio"
	"errors"
	"io"
	"net"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// Greeting is a typical server greeting.
const Greeting = "* OK [CAPABILITY IMAP4rev1 SASL-IR AUTH=PLAIN IDLE UIDPLUS MOVE ID] imaptest ready"

// Conn is the server side of a scripted connection.
type Conn struct {
	t    testing.TB
	conn net.Conn
	br   *bufio.Reader
}

// Serve runs script on the server side of an in-memory connection and
// returns the client side.
//
// The script runs in its own goroutine. When the test ends, the client side
// is closed and the script is waited for.
func Serve(t testing.TB, script func(c *Conn)) net.Conn {
	t.Helper()

	clientConn, serverConn := net.Pipe()
	c := &Conn{t: t, conn: serverConn, br: bufio.NewReader(serverConn)}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer serverConn.Close()
		script(c)
	}()

	t.Cleanup(func() {
		clientConn.Close()
		<-done
	})
	return clientConn
}

// fail reports an error and stops the script.
func (c *Conn) fail(format string, args ...interface{}) {
	c.t.Errorf("imaptest: "+format, args...)
	runtime.Goexit()
}

// Writeln writes each line followed by CRLF.
func (c *Conn) Writeln(lines ...string) {
	for _, line := range lines {
		if _, err := io.WriteString(c.conn, line+"\r\n"); err != nil {
			c.fail("writing %q: %v", line, err)
		}
	}
}

// Write writes raw bytes, e.g. a literal payload.
func (c *Conn) Write(s string) {
	if _, err := io.WriteString(c.conn, s); err != nil {
		c.fail("writing %q: %v", s, err)
	}
}

// ReadLine reads a line written by the client, without CRLF.
func (c *Conn) ReadLine() string {
	line, err := c.br.ReadString('\n')
	if err != nil {
		c.fail("reading line: %v", err)
	}
	return strings.TrimRight(line, "\r\n")
}

// Expect reads a line and checks it.
func (c *Conn) Expect(want string) {
	if line := c.ReadLine(); line != want {
		c.t.Errorf("imaptest: got %q, want %q", line, want)
	}
}

// ExpectCommand reads a command and checks its name, compared
// case-insensitively. The tag and the rest of the line are returned.
func (c *Conn) ExpectCommand(verb string) (tag, args string) {
	line := c.ReadLine()
	tag, rest, ok := strings.Cut(line, " ")
	if !ok {
		c.fail("malformed command %q", line)
	}
	if len(rest) < len(verb) || !strings.EqualFold(rest[:len(verb)], verb) {
		c.fail("got command %q, want %v", line, verb)
	}
	args = strings.TrimPrefix(rest[len(verb):], " ")
	return tag, args
}

// ReadLiteral reads a literal of n bytes, after acknowledging it with a
// continuation request.
func (c *Conn) ReadLiteral(n int) string {
	c.Writeln("+ Ready for literal data")
	b := make([]byte, n)
	if _, err := io.ReadFull(c.br, b); err != nil {
		c.fail("reading literal: %v", err)
	}
	return string(b)
}

// LiteralSize returns the size declared by a trailing literal marker such
// as "{20}", or -1.
func LiteralSize(line string) int {
	if !strings.HasSuffix(line, "}") {
		return -1
	}
	i := strings.LastIndexByte(line, '{')
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(line[i+1 : len(line)-1])
	if err != nil {
		return -1
	}
	return n
}

// WaitClosed reads and discards everything until the client closes the
// connection.
func (c *Conn) WaitClosed() {
	_, err := io.Copy(io.Discard, c.br)
	if err != nil && !errors.Is(err, io.ErrClosedPipe) {
		c.t.Errorf("imaptest: waiting for close: %v", err)
	}
}

// Close closes the server side of the connection.
func (c *Conn) Close() {
	c.conn.Close()
}
