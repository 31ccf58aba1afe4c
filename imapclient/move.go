package imapclient

import (
	"github.com/directorytree/go-imapengine"
)

// Move sends a MOVE command, or a UID MOVE command if numSet is a UIDSet.
//
// If the server doesn't support IMAP4rev2 nor the MOVE extension, a
// fallback with COPY + STORE + EXPUNGE is used.
func (c *Client) Move(numSet imap.NumSet, mailbox string) (*imap.CopyData, error) {
	if caps := c.Caps(); caps != nil && !caps.Has(imap.CapMove) {
		return c.moveFallback(numSet, mailbox)
	}

	res, err := c.Execute(uidCmdName("MOVE", isUIDSet(numSet)), imap.RawArg(numSet.String()), imap.MailboxArg(mailbox))
	if err != nil {
		return nil, err
	}
	return readCopyUID(res)
}

func (c *Client) moveFallback(numSet imap.NumSet, mailbox string) (*imap.CopyData, error) {
	data, err := c.Copy(numSet, mailbox)
	if err != nil {
		return nil, err
	}

	storeFlags := &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Flags:  []imap.Flag{imap.FlagDeleted},
		Silent: true,
	}
	if _, err := c.Store(numSet, storeFlags); err != nil {
		return nil, err
	}

	if uidSet, ok := numSet.(imap.UIDSet); ok && c.Caps().Has(imap.CapUIDPlus) {
		_, err = c.UIDExpunge(uidSet)
	} else {
		// TODO: this may expunge more than what we want
		_, err = c.Expunge()
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
