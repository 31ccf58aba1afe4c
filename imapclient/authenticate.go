package imapclient

import (
	"encoding/base64"
	"fmt"

	"github.com/emersion/go-sasl"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal"
)

// Login sends a LOGIN command.
func (c *Client) Login(username, password string) error {
	c.caps = nil
	if _, err := c.Execute("LOGIN", imap.StringArg(username), imap.StringArg(password)); err != nil {
		return err
	}
	c.state = imap.ConnStateAuthenticated
	return nil
}

// Authenticate sends an AUTHENTICATE command.
//
// The SASL exchange runs over continuation requests: each server challenge
// is passed to the SASL client and its response is written back.
func (c *Client) Authenticate(saslClient sasl.Client) error {
	mech, initialResp, err := saslClient.Start()
	if err != nil {
		return err
	}

	// c.Caps may send a CAPABILITY command, so check it before building the
	// command
	var hasSASLIR bool
	if initialResp != nil {
		hasSASLIR = c.Caps().Has(imap.CapSASLIR)
	}

	args := []imap.Arg{imap.RawArg(mech)}
	if initialResp != nil && hasSASLIR {
		args = append(args, imap.RawArg(internal.EncodeSASL(initialResp)))
		initialResp = nil
	}

	c.caps = nil
	cmd := imap.NewCommand(c.nextTag(), "AUTHENTICATE", args...)
	_, err = c.run(c.seq, cmd, func(resp *imap.ContinuationResponse) error {
		challengeStr := resp.Text()
		if challengeStr == "" {
			if initialResp == nil {
				return fmt.Errorf("imapclient: server requested SASL initial response, but we don't have one")
			}
			err := c.writeSASLResp(initialResp)
			initialResp = nil
			return err
		}

		challenge, err := internal.DecodeSASL(challengeStr)
		if err != nil {
			return err
		}
		saslResp, err := saslClient.Next(challenge)
		if err != nil {
			return err
		}
		return c.writeSASLResp(saslResp)
	})
	if err != nil {
		return err
	}

	c.state = imap.ConnStateAuthenticated
	return nil
}

// writeSASLResp writes a response to a SASL challenge. Empty responses are
// sent as an empty line.
func (c *Client) writeSASLResp(resp []byte) error {
	return c.writeLine(base64.StdEncoding.EncodeToString(resp))
}
