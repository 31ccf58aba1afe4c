package imapclient

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/directorytree/go-imapengine"
)

// Security is the transport security mode.
type Security int

const (
	// SecurityNone is a plain-text connection.
	SecurityNone Security = iota
	// SecurityTLS is an implicit TLS connection, usually on port 993.
	SecurityTLS
	// SecurityStartTLS is a plain-text connection upgraded with STARTTLS
	// before authenticating.
	SecurityStartTLS
)

// ParseSecurity parses a security mode name: "none", "tls"/"ssl" or
// "starttls".
func ParseSecurity(s string) (Security, error) {
	switch s {
	case "", "none", "plain":
		return SecurityNone, nil
	case "tls", "ssl":
		return SecurityTLS, nil
	case "starttls":
		return SecurityStartTLS, nil
	default:
		return SecurityNone, fmt.Errorf("imapclient: unknown security mode %q", s)
	}
}

// TransportMeta describes the state of a transport after its last operation.
type TransportMeta struct {
	// TimedOut is set if the last read or write exceeded the timeout.
	TimedOut bool
	// EOF is set once the peer has closed the connection.
	EOF bool
	// TLS is set once the connection is encrypted.
	TLS bool
	// CipherSuite is the negotiated TLS cipher suite, if any.
	CipherSuite string
}

// Transport is a byte stream to an IMAP server.
//
// ReadLine and ReadFull satisfy the stream capability used by the response
// parser. Read errors are typed: imap.ErrTimeout and imap.ErrConnectionClosed
// can be matched with errors.Is.
type Transport interface {
	// ReadLine reads bytes up to and including the next LF.
	ReadLine() ([]byte, error)
	// ReadFull reads exactly n bytes.
	ReadFull(n int) ([]byte, error)
	// Write writes and flushes b.
	Write(b []byte) error
	IsOpen() bool
	Meta() TransportMeta
	Close() error
	// SetTimeout sets the timeout applied to each subsequent read and
	// write. Zero disables the timeout.
	SetTimeout(d time.Duration)
	// StartTLS upgrades the connection to TLS.
	StartTLS(config *tls.Config) error
}

type netTransport struct {
	conn        net.Conn
	serverName  string
	debugWriter io.Writer
	timeout     time.Duration

	br *bufio.Reader
	bw *bufio.Writer

	meta   TransportMeta
	closed atomic.Bool
}

var _ Transport = (*netTransport)(nil)

// DialTransport opens a transport to the server.
//
// A nil options pointer is equivalent to a zero options value.
func DialTransport(ctx context.Context, host string, port int, options *Options) (Transport, error) {
	if options == nil {
		options = &Options{}
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	netDialer := &net.Dialer{Timeout: options.dialTimeout()}

	var (
		conn net.Conn
		err  error
	)
	if options.Security == SecurityTLS {
		tlsDialer := &tls.Dialer{
			NetDialer: netDialer,
			Config:    options.tlsConfig(host),
		}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = netDialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imap.ErrConnectionRefused, err)
	}

	t := newNetTransport(conn, options)
	t.serverName = host
	return t, nil
}

// NewTransport creates a transport on top of an established connection.
//
// This function doesn't perform I/O.
func NewTransport(conn net.Conn, options *Options) Transport {
	if options == nil {
		options = &Options{}
	}
	return newNetTransport(conn, options)
}

func newNetTransport(conn net.Conn, options *Options) *netTransport {
	t := &netTransport{
		conn:        conn,
		debugWriter: options.DebugWriter,
		timeout:     options.timeout(),
	}
	if tlsConn, ok := conn.(*tls.Conn); ok {
		t.setTLSMeta(tlsConn)
	}
	rw := t.wrapReadWriter(conn)
	t.br = bufio.NewReader(rw)
	t.bw = bufio.NewWriter(rw)
	return t
}

func (t *netTransport) wrapReadWriter(rw io.ReadWriter) io.ReadWriter {
	if t.debugWriter == nil {
		return rw
	}
	return struct {
		io.Reader
		io.Writer
	}{
		Reader: io.TeeReader(rw, t.debugWriter),
		Writer: io.MultiWriter(rw, t.debugWriter),
	}
}

func (t *netTransport) setReadDeadline() {
	if t.timeout > 0 {
		t.conn.SetReadDeadline(time.Now().Add(t.timeout))
	} else {
		t.conn.SetReadDeadline(time.Time{})
	}
}

func (t *netTransport) setWriteDeadline() {
	if t.timeout > 0 {
		t.conn.SetWriteDeadline(time.Now().Add(t.timeout))
	} else {
		t.conn.SetWriteDeadline(time.Time{})
	}
}

// readError records the failure in the transport metadata and types it.
func (t *netTransport) readError(err error) error {
	if isTimeout(err) {
		t.meta.TimedOut = true
		return fmt.Errorf("%w: %v", imap.ErrTimeout, err)
	}
	t.meta.EOF = true
	return fmt.Errorf("%w: %v", imap.ErrConnectionClosed, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (t *netTransport) ReadLine() ([]byte, error) {
	if t.closed.Load() {
		return nil, imap.ErrConnectionClosed
	}
	t.meta.TimedOut = false
	t.setReadDeadline()
	line, err := t.br.ReadBytes('\n')
	if err != nil {
		return line, t.readError(err)
	}
	return line, nil
}

func (t *netTransport) ReadFull(n int) ([]byte, error) {
	if t.closed.Load() {
		return nil, imap.ErrConnectionClosed
	}
	t.meta.TimedOut = false
	t.setReadDeadline()
	b := make([]byte, n)
	if _, err := io.ReadFull(t.br, b); err != nil {
		return nil, t.readError(err)
	}
	return b, nil
}

func (t *netTransport) Write(b []byte) error {
	if t.closed.Load() {
		return fmt.Errorf("%w: %v", imap.ErrWriteFailed, imap.ErrConnectionClosed)
	}
	t.meta.TimedOut = false
	t.setWriteDeadline()
	_, err := t.bw.Write(b)
	if err == nil {
		err = t.bw.Flush()
	}
	if err != nil {
		if isTimeout(err) {
			t.meta.TimedOut = true
		} else {
			t.meta.EOF = true
		}
		return fmt.Errorf("%w: %v", imap.ErrWriteFailed, err)
	}
	return nil
}

func (t *netTransport) IsOpen() bool {
	return !t.closed.Load() && !t.meta.EOF
}

func (t *netTransport) Meta() TransportMeta {
	return t.meta
}

func (t *netTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.conn.Close()
}

func (t *netTransport) SetTimeout(d time.Duration) {
	t.timeout = d
}

func (t *netTransport) StartTLS(config *tls.Config) error {
	if config == nil {
		config = &tls.Config{}
	}
	if config.ServerName == "" {
		config = config.Clone()
		config.ServerName = t.serverName
	}

	// Drain buffered data from our bufio.Reader
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, t.br, int64(t.br.Buffered())); err != nil {
		panic(err) // unreachable
	}

	var cleartextConn net.Conn
	if buf.Len() > 0 {
		r := io.MultiReader(&buf, t.conn)
		cleartextConn = startTLSConn{t.conn, r}
	} else {
		cleartextConn = t.conn
	}

	tlsConn := tls.Client(cleartextConn, config)
	t.setReadDeadline()
	if err := tlsConn.Handshake(); err != nil {
		return fmt.Errorf("imapclient: TLS handshake failed: %w", err)
	}
	t.setTLSMeta(tlsConn)

	t.conn = tlsConn
	rw := t.wrapReadWriter(tlsConn)
	t.br.Reset(rw)
	t.bw = bufio.NewWriter(rw)
	return nil
}

func (t *netTransport) setTLSMeta(conn *tls.Conn) {
	t.meta.TLS = true
	if state := conn.ConnectionState(); state.HandshakeComplete {
		t.meta.CipherSuite = tls.CipherSuiteName(state.CipherSuite)
	}
}

type startTLSConn struct {
	net.Conn
	r io.Reader
}

func (conn startTLSConn) Read(b []byte) (int, error) {
	return conn.r.Read(b)
}
