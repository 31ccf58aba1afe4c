package imapclient

import (
	"crypto/tls"
	"fmt"
)

// StartTLS sends a STARTTLS command and upgrades the connection.
//
// Capabilities are discarded: the server may advertise different ones over
// TLS.
func (c *Client) StartTLS(config *tls.Config) error {
	if config == nil {
		config = c.options.tlsConfig(c.host)
	}
	if _, err := c.Execute("STARTTLS"); err != nil {
		return err
	}
	if err := c.transport.StartTLS(config); err != nil {
		c.Close()
		return fmt.Errorf("imapclient: STARTTLS: %w", err)
	}
	c.parser.Reset(c.transport)
	c.caps = nil
	return nil
}
