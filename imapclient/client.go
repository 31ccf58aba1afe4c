// Package imapclient implements an IMAP4rev1 client.
//
// A Client runs one command at a time: every command method writes the
// command, then reads responses until the tagged completion of that command.
// Responses which are not part of the command result (unilateral data such
// as EXISTS) are recorded in the result as well.
//
// A Client must not be used concurrently by multiple goroutines.
package imapclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal/imapwire"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultDialTimeout = 30 * time.Second
	defaultTagPrefix   = "TAG"
)

// Options contains options for Client.
type Options struct {
	// Raw ingress and egress data will be written to this writer, if any
	DebugWriter io.Writer
	// Logger receives structured logs. Defaults to the logrus standard
	// logger.
	Logger logrus.FieldLogger

	// Security selects implicit TLS or STARTTLS.
	Security Security
	// TLSConfig is used for implicit TLS and STARTTLS.
	TLSConfig *tls.Config

	// Timeout bounds each read and write on the transport. Defaults to
	// 30 seconds. A negative value disables the timeout.
	Timeout time.Duration
	// DialTimeout bounds the TCP connection. Defaults to 30 seconds.
	DialTimeout time.Duration

	// TagPrefix is prepended to the command sequence number to form tags.
	// Defaults to "TAG".
	TagPrefix string
}

func (options *Options) timeout() time.Duration {
	switch {
	case options.Timeout < 0:
		return 0
	case options.Timeout == 0:
		return defaultTimeout
	default:
		return options.Timeout
	}
}

func (options *Options) dialTimeout() time.Duration {
	if options.DialTimeout > 0 {
		return options.DialTimeout
	}
	return defaultDialTimeout
}

func (options *Options) tlsConfig(host string) *tls.Config {
	var config *tls.Config
	if options.TLSConfig != nil {
		config = options.TLSConfig.Clone()
	} else {
		config = &tls.Config{}
	}
	if config.ServerName == "" {
		config.ServerName = host
	}
	return config
}

func (options *Options) logger() logrus.FieldLogger {
	if options.Logger != nil {
		return options.Logger
	}
	return logrus.StandardLogger()
}

func (options *Options) tagPrefix() string {
	if options.TagPrefix != "" {
		return options.TagPrefix
	}
	return defaultTagPrefix
}

// Client is an IMAP client.
type Client struct {
	transport Transport
	parser    *imapwire.Parser
	options   Options
	logger    logrus.FieldLogger
	host      string

	state    imap.ConnState
	seq      uint64
	greeting *imap.UntaggedResponse
	caps     imap.CapSet
	mailbox  string
	bye      *imap.UntaggedResponse

	idle    *imap.Command
	idleSeq uint64
	last    *imap.Result
}

// New creates a new IMAP client on top of an open transport and reads the
// server greeting.
//
// A nil options pointer is equivalent to a zero options value.
func New(transport Transport, options *Options) (*Client, error) {
	if options == nil {
		options = &Options{}
	}

	c := &Client{
		transport: transport,
		parser:    imapwire.NewParser(transport),
		options:   *options,
		logger:    options.logger(),
		state:     imap.ConnStateConnected,
	}
	if err := c.readGreeting(); err != nil {
		transport.Close()
		c.state = imap.ConnStateDisconnected
		return nil, err
	}
	return c, nil
}

// Dial connects to an IMAP server, reads the greeting and negotiates
// STARTTLS if requested by the options.
func Dial(ctx context.Context, host string, port int, options *Options) (*Client, error) {
	if options == nil {
		options = &Options{}
	}

	transport, err := DialTransport(ctx, host, port, options)
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		transport.Close()
	})
	defer stop()

	c, err := New(transport, options)
	if err != nil {
		return nil, err
	}
	c.host = host

	if options.Security == SecurityStartTLS {
		if err := c.StartTLS(options.tlsConfig(host)); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) readGreeting() error {
	resp, err := c.readResponse()
	if errors.Is(err, imap.ErrConnectionClosed) {
		return fmt.Errorf("%w: no greeting: %v", imap.ErrConnectionRefused, err)
	} else if err != nil {
		return err
	}

	untagged, ok := resp.(*imap.UntaggedResponse)
	if !ok {
		return fmt.Errorf("%w: unexpected greeting %q", imap.ErrConnectionRefused, resp.String())
	}
	c.greeting = untagged

	switch imap.StatusResponseType(untagged.Type()) {
	case imap.StatusResponseTypeOK:
		c.state = imap.ConnStateConnected
	case imap.StatusResponseTypePreAuth:
		c.state = imap.ConnStateAuthenticated
	case imap.StatusResponseTypeBye:
		return imap.ByeError(untagged)
	default:
		return fmt.Errorf("%w: unexpected greeting %q", imap.ErrConnectionRefused, untagged.String())
	}
	c.handleUnilateral(untagged)
	c.logger.WithField("state", c.state).Debugf("greeting: %v", untagged.Text())
	return nil
}

// Greeting returns the server greeting.
func (c *Client) Greeting() *imap.UntaggedResponse {
	return c.greeting
}

// State returns the current connection state.
func (c *Client) State() imap.ConnState {
	return c.state
}

// Mailbox returns the name of the selected mailbox, if any.
func (c *Client) Mailbox() string {
	if c.state != imap.ConnStateSelected {
		return ""
	}
	return c.mailbox
}

// Transport returns the underlying transport.
func (c *Client) Transport() Transport {
	return c.transport
}

// LastResult returns the result of the last command.
func (c *Client) LastResult() *imap.Result {
	return c.last
}

// SetTimeout changes the read and write timeout of the transport.
func (c *Client) SetTimeout(d time.Duration) {
	c.transport.SetTimeout(d)
}

// Timeout returns the transport timeout configured in the options. Zero
// means no timeout.
func (c *Client) Timeout() time.Duration {
	return c.options.timeout()
}

// Close immediately closes the connection.
func (c *Client) Close() error {
	c.state = imap.ConnStateDisconnected
	c.idle = nil
	return c.transport.Close()
}

// Logout sends a LOGOUT command and closes the connection.
//
// A server closing the connection after its BYE response is not an error.
func (c *Client) Logout() error {
	_, err := c.Execute("LOGOUT")
	var imapErr *imap.Error
	if errors.As(err, &imapErr) && imapErr.Type == imap.StatusResponseTypeBye {
		err = nil
	} else if errors.Is(err, imap.ErrConnectionClosed) && c.bye != nil {
		err = nil
	}
	if closeErr := c.Close(); err == nil && closeErr != nil {
		c.logger.WithError(closeErr).Debug("failed to close connection after LOGOUT")
	}
	return err
}

func (c *Client) nextTag() string {
	c.seq++
	return c.options.tagPrefix() + strconv.FormatUint(c.seq, 10)
}

// Execute sends a command with a new tag and waits for its tagged
// completion.
//
// OK completions return the result. NO, BAD and BYE completions return an
// *imap.Error. Any other status is an imap.ErrMalformedResponse.
func (c *Client) Execute(verb string, args ...imap.Arg) (*imap.Result, error) {
	cmd := imap.NewCommand(c.nextTag(), verb, args...)
	return c.run(c.seq, cmd, nil)
}

// Send is like Execute, but the command, including its tag, is built by the
// caller.
func (c *Client) Send(cmd *imap.Command) (*imap.Result, error) {
	c.seq++
	return c.run(c.seq, cmd, nil)
}

// continuationFunc answers a continuation request received after the last
// command line was written.
type continuationFunc func(resp *imap.ContinuationResponse) error

func (c *Client) run(seq uint64, cmd *imap.Command, onContinuation continuationFunc) (*imap.Result, error) {
	res := imap.NewResult(seq, cmd)
	c.last = res

	if c.state == imap.ConnStateDisconnected || !c.transport.IsOpen() {
		return res, imap.ErrConnectionClosed
	}
	if c.idle != nil {
		return res, fmt.Errorf("imapclient: cannot send %v while IDLE is running", cmd.Verb())
	}

	start := time.Now()
	c.logger.WithField("tag", cmd.Tag()).Debug(cmd.Redacted())

	err := c.writeCommand(res)
	if err == nil {
		err = c.readUntilTagged(res, onContinuation)
	}
	observeCommand(cmd.Verb(), start, err)
	if err != nil {
		c.logger.WithField("tag", cmd.Tag()).WithError(err).Debug("command failed")
	}
	return res, err
}

type writeState int

const (
	writeLineSent writeState = iota
	writeAwaitingContinuation
	writeNextLineOrDone
)

// writeCommand writes the command lines. Every line but the last ends with
// a literal marker, so the server must send a continuation request before
// the next line is written.
func (c *Client) writeCommand(res *imap.Result) error {
	lines := res.Command.Compile()
	i := 0
	state := writeLineSent
	if err := c.writeLine(lines[i]); err != nil {
		return err
	}
	for {
		switch state {
		case writeLineSent:
			if i == len(lines)-1 {
				return nil
			}
			state = writeAwaitingContinuation
		case writeAwaitingContinuation:
			if err := c.awaitContinuation(res); err != nil {
				return err
			}
			state = writeNextLineOrDone
		case writeNextLineOrDone:
			i++
			if err := c.writeLine(lines[i]); err != nil {
				return err
			}
			state = writeLineSent
		}
	}
}

func (c *Client) writeLine(line string) error {
	if err := c.transport.Write([]byte(line + "\r\n")); err != nil {
		if !errors.Is(err, imap.ErrWriteFailed) {
			err = fmt.Errorf("%w: %v", imap.ErrWriteFailed, err)
		}
		if !c.transport.IsOpen() {
			c.state = imap.ConnStateDisconnected
		}
		return err
	}
	return nil
}

// awaitContinuation reads responses until the server accepts a literal.
func (c *Client) awaitContinuation(res *imap.Result) error {
	for {
		resp, err := c.readResponse()
		if err != nil {
			return err
		}
		res.Add(resp)

		switch resp := resp.(type) {
		case *imap.ContinuationResponse:
			return nil
		case *imap.UntaggedResponse:
			c.handleUnilateral(resp)
		case *imap.TaggedResponse:
			if res.Done() {
				if resp.Failed() {
					return fmt.Errorf("%w: %w", imap.ErrContinuationMissing, imap.StatusError(resp))
				}
				return fmt.Errorf("%w: %v", imap.ErrContinuationMissing, resp.String())
			}
		}
	}
}

// readUntilTagged reads responses until the tagged completion of the
// command, and classifies it.
func (c *Client) readUntilTagged(res *imap.Result, onContinuation continuationFunc) error {
	var contErr error
	for {
		resp, err := c.readResponse()
		if err != nil {
			return err
		}
		res.Add(resp)

		switch resp := resp.(type) {
		case *imap.UntaggedResponse:
			c.handleUnilateral(resp)
		case *imap.ContinuationResponse:
			if onContinuation == nil {
				c.logger.WithField("tag", res.Command.Tag()).Debug("ignoring unexpected continuation request")
				continue
			}
			if err := onContinuation(resp); err != nil {
				if errors.Is(err, imap.ErrWriteFailed) {
					return err
				}
				// Cancel the exchange and wait for the server to reject it
				contErr = err
				if err := c.writeLine("*"); err != nil {
					return err
				}
			}
		case *imap.TaggedResponse:
			if !res.Done() {
				c.logger.WithField("tag", resp.Tag()).Debug("ignoring stale tagged response")
				continue
			}
			if err := c.completeTagged(resp); err != nil {
				return err
			}
			return contErr
		}
	}
}

func (c *Client) completeTagged(resp *imap.TaggedResponse) error {
	switch resp.Status() {
	case imap.StatusResponseTypeOK:
		c.handleCode(resp.Code())
		return nil
	case imap.StatusResponseTypeNo, imap.StatusResponseTypeBad, imap.StatusResponseTypeBye:
		return imap.StatusError(resp)
	default:
		return fmt.Errorf("%w: %v", imap.ErrMalformedResponse, resp.String())
	}
}

// readResponse reads a single response and types read failures.
func (c *Client) readResponse() (imap.Response, error) {
	resp, err := c.parser.Next()
	if err != nil {
		return nil, c.readError(err)
	}
	return resp, nil
}

func (c *Client) readError(err error) error {
	if imap.IsParseError(err) {
		// The stream is desynchronized: nothing read afterwards can be trusted
		c.logger.WithError(err).Warn("closing connection after a framing error")
		c.Close()
		return err
	}

	if c.transport.Meta().TimedOut || errors.Is(err, imap.ErrTimeout) {
		if !errors.Is(err, imap.ErrTimeout) {
			err = fmt.Errorf("%w: %v", imap.ErrTimeout, err)
		}
		if c.parser.InResponse() {
			// Part of a response or literal was consumed: the framing is lost
			c.logger.WithError(err).Warn("closing connection after a timeout in the middle of a response")
			c.Close()
		}
		return err
	}

	c.state = imap.ConnStateDisconnected
	c.idle = nil
	if c.bye != nil {
		return imap.ByeError(c.bye)
	}
	if !errors.Is(err, imap.ErrConnectionClosed) {
		err = fmt.Errorf("%w: %v", imap.ErrConnectionClosed, err)
	}
	return err
}

// handleUnilateral updates the client state from untagged responses.
func (c *Client) handleUnilateral(resp *imap.UntaggedResponse) {
	switch resp.Type() {
	case "CAPABILITY":
		c.caps = imap.ParseCapabilities(resp.Data())
	case string(imap.StatusResponseTypeBye):
		c.bye = resp
	}
	if resp.IsStatus() {
		if code, args := resp.Code(); code == imap.ResponseCodeAlert {
			c.logger.WithField("alert", resp.Text()).Warn("server alert")
		} else {
			c.handleCode(code, args)
		}
	}
}

func (c *Client) handleCode(code imap.ResponseCode, args []imap.Data) {
	if code == imap.ResponseCodeCapability {
		c.caps = imap.ParseCapabilities(args)
	}
}
