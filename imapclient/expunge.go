package imapclient

import (
	"github.com/directorytree/go-imapengine"
)

// Expunge sends an EXPUNGE command.
//
// The sequence numbers of the expunged messages are returned in the order
// the server sent them.
func (c *Client) Expunge() ([]uint32, error) {
	res, err := c.Execute("EXPUNGE")
	if err != nil {
		return nil, err
	}
	return expungedSeqNums(res), nil
}

// UIDExpunge sends a UID EXPUNGE command.
//
// This command requires support for IMAP4rev2 or the UIDPLUS extension.
func (c *Client) UIDExpunge(uids imap.UIDSet) ([]uint32, error) {
	res, err := c.Execute("UID EXPUNGE", imap.RawArg(uids.String()))
	if err != nil {
		return nil, err
	}
	return expungedSeqNums(res), nil
}

func expungedSeqNums(res *imap.Result) []uint32 {
	var l []uint32
	for _, resp := range res.UntaggedOfType("EXPUNGE") {
		if n, ok := resp.Number(); ok {
			l = append(l, n)
		}
	}
	return l
}
