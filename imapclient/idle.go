package imapclient

import (
	"fmt"
	"time"

	"github.com/directorytree/go-imapengine"
)

// Idle sends an IDLE command.
//
// Unlike other commands, this method returns as soon as the server
// acknowledges IDLE with a continuation request. While IDLE is running, the
// server may send unilateral data, which is read with ReadResponse. No
// other command can be sent until Done is called.
//
// Untagged responses received before the continuation request are recorded
// in the returned result.
//
// This command requires support for IMAP4rev2 or the IDLE extension.
func (c *Client) Idle() (*imap.Result, error) {
	if c.idle != nil {
		return nil, fmt.Errorf("imapclient: IDLE is already running")
	}

	cmd := imap.NewCommand(c.nextTag(), "IDLE")
	res := imap.NewResult(c.seq, cmd)
	c.last = res
	if c.state == imap.ConnStateDisconnected || !c.transport.IsOpen() {
		return res, imap.ErrConnectionClosed
	}

	start := time.Now()
	c.logger.WithField("tag", cmd.Tag()).Debug(cmd.Redacted())
	err := c.writeLine(cmd.Compile()[0])
	if err == nil {
		err = c.awaitContinuation(res)
	}
	observeCommand(cmd.Verb(), start, err)
	if err != nil {
		return res, err
	}

	c.idle = cmd
	c.idleSeq = res.Seq
	return res, nil
}

// Idling returns true if IDLE is running.
func (c *Client) Idling() bool {
	return c.idle != nil
}

// ReadResponse reads a single response while IDLE is running.
//
// The call blocks until a response arrives or the transport read times out,
// in which case an error matching imap.ErrTimeout is returned and IDLE is
// still running. If the server terminates IDLE on its own, the tagged
// completion is returned and IDLE is no longer running.
func (c *Client) ReadResponse() (imap.Response, error) {
	if c.idle == nil {
		return nil, fmt.Errorf("imapclient: IDLE is not running")
	}

	resp, err := c.readResponse()
	if err != nil {
		return nil, err
	}

	switch resp := resp.(type) {
	case *imap.UntaggedResponse:
		c.handleUnilateral(resp)
	case *imap.TaggedResponse:
		if resp.Tag() == c.idle.Tag() {
			c.idle = nil
			if err := c.completeTagged(resp); err != nil {
				return resp, err
			}
		}
	}
	return resp, nil
}

// Done stops IDLE by sending DONE, and waits for the tagged completion of
// the IDLE command.
//
// Untagged responses received before the completion are recorded in the
// returned result.
func (c *Client) Done() (*imap.Result, error) {
	if c.idle == nil {
		return nil, fmt.Errorf("imapclient: IDLE is not running")
	}

	cmd := c.idle
	res := imap.NewResult(c.idleSeq, cmd)
	c.last = res
	c.idle = nil

	c.logger.WithField("tag", cmd.Tag()).Debug("DONE")
	if err := c.writeLine("DONE"); err != nil {
		return res, err
	}
	return res, c.readUntilTagged(res, nil)
}
