package imapclient

import (
	"github.com/directorytree/go-imapengine"
)

// Store sends a STORE command, or a UID STORE command if numSet is a
// UIDSet.
//
// The updated flags are returned, unless the store is silent.
func (c *Client) Store(numSet imap.NumSet, flags *imap.StoreFlags) ([]*FetchMessage, error) {
	uid := isUIDSet(numSet)
	res, err := c.Execute(uidCmdName("STORE", uid),
		imap.RawArg(numSet.String()),
		imap.RawArg(flags.Item()),
		imap.FlagArg(flags.Flags),
	)
	if err != nil {
		return nil, err
	}
	return readFetchMessages(res, numSet)
}
