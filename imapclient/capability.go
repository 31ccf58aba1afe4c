package imapclient

import (
	"github.com/directorytree/go-imapengine"
)

// Capability sends a CAPABILITY command.
func (c *Client) Capability() (imap.CapSet, error) {
	res, err := c.Execute("CAPABILITY")
	if err != nil {
		return nil, err
	}
	if len(res.UntaggedOfType("CAPABILITY")) == 0 {
		return nil, imap.ErrMalformedResponse
	}
	return c.caps, nil
}

// Caps returns the capabilities advertised by the server.
//
// When the server has sent capabilities in the greeting or after
// authentication, the cached set is returned. Otherwise a CAPABILITY
// command is sent; nil is returned if it fails.
func (c *Client) Caps() imap.CapSet {
	if c.caps != nil {
		return c.caps
	}
	caps, err := c.Capability()
	if err != nil {
		c.logger.WithError(err).Debug("failed to fetch capabilities")
		return nil
	}
	return caps
}

// Noop sends a NOOP command. Unilateral data such as EXISTS is available in
// the result.
func (c *Client) Noop() (*imap.Result, error) {
	return c.Execute("NOOP")
}

// Check sends a CHECK command.
func (c *Client) Check() error {
	_, err := c.Execute("CHECK")
	return err
}
