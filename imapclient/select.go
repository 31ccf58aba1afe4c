package imapclient

import (
	"fmt"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal"
)

// Select sends a SELECT or EXAMINE command.
//
// A nil options pointer is equivalent to a zero options value.
func (c *Client) Select(mailbox string, options *imap.SelectOptions) (*imap.SelectData, error) {
	verb := "SELECT"
	if options != nil && options.ReadOnly {
		verb = "EXAMINE"
	}

	res, err := c.Execute(verb, imap.MailboxArg(mailbox))
	if err != nil {
		// A failed SELECT leaves no mailbox selected
		if c.state == imap.ConnStateSelected {
			c.state = imap.ConnStateAuthenticated
		}
		return nil, err
	}

	data, err := readSelectData(res)
	if err != nil {
		return nil, err
	}
	c.state = imap.ConnStateSelected
	c.mailbox = mailbox
	return data, nil
}

// Examine sends an EXAMINE command, selecting the mailbox read-only.
func (c *Client) Examine(mailbox string) (*imap.SelectData, error) {
	return c.Select(mailbox, &imap.SelectOptions{ReadOnly: true})
}

func readSelectData(res *imap.Result) (*imap.SelectData, error) {
	data := &imap.SelectData{}
	for _, resp := range res.Untagged() {
		if n, ok := resp.Number(); ok {
			switch resp.Type() {
			case "EXISTS":
				data.NumMessages = n
			case "RECENT":
				data.NumRecent = n
			}
			continue
		}

		switch resp.Type() {
		case "FLAGS":
			flags, err := internal.ReadFlagList(resp.TokenAt(2))
			if err != nil {
				return nil, fmt.Errorf("in FLAGS: %w", err)
			}
			data.Flags = flags
		case "OK":
			code, args := resp.Code()
			if err := readSelectCode(data, code, args); err != nil {
				return nil, err
			}
		}
	}

	code, _ := res.Tagged().Code()
	data.ReadOnly = code == imap.ResponseCodeReadOnly
	return data, nil
}

func readSelectCode(data *imap.SelectData, code imap.ResponseCode, args []imap.Data) error {
	var err error
	switch code {
	case imap.ResponseCodePermanentFlags:
		if len(args) > 0 {
			data.PermanentFlags, err = internal.ReadFlagList(args[0])
		}
	case imap.ResponseCodeUIDNext:
		if len(args) > 0 {
			var uid uint32
			uid, err = internal.ReadNumber(args[0], "UIDNEXT")
			data.UIDNext = imap.UID(uid)
		}
	case imap.ResponseCodeUIDValidity:
		if len(args) > 0 {
			data.UIDValidity, err = internal.ReadNumber(args[0], "UIDVALIDITY")
		}
	}
	return err
}

// Unselect sends an UNSELECT command.
//
// This command requires support for IMAP4rev2 or the UNSELECT extension.
func (c *Client) Unselect() error {
	if _, err := c.Execute("UNSELECT"); err != nil {
		return err
	}
	c.state = imap.ConnStateAuthenticated
	c.mailbox = ""
	return nil
}

// UnselectAndExpunge sends a CLOSE command.
//
// CLOSE implicitly performs a silent EXPUNGE command.
func (c *Client) UnselectAndExpunge() error {
	if _, err := c.Execute("CLOSE"); err != nil {
		return err
	}
	c.state = imap.ConnStateAuthenticated
	c.mailbox = ""
	return nil
}
