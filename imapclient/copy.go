package imapclient

import (
	"fmt"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal"
)

// Copy sends a COPY command, or a UID COPY command if numSet is a UIDSet.
//
// The returned data is only populated if the server supports UIDPLUS.
func (c *Client) Copy(numSet imap.NumSet, mailbox string) (*imap.CopyData, error) {
	res, err := c.Execute(uidCmdName("COPY", isUIDSet(numSet)), imap.RawArg(numSet.String()), imap.MailboxArg(mailbox))
	if err != nil {
		return nil, err
	}
	return readCopyUID(res)
}

// readCopyUID decodes a COPYUID response code. It's sent in the tagged
// completion of COPY, and usually in an untagged OK response before the
// expunges of MOVE.
func readCopyUID(res *imap.Result) (*imap.CopyData, error) {
	code, args := res.Tagged().Code()
	if code != imap.ResponseCodeCopyUID {
		for _, resp := range res.UntaggedOfType("OK") {
			if code, args = resp.Code(); code == imap.ResponseCodeCopyUID {
				break
			}
		}
	}
	if code != imap.ResponseCodeCopyUID {
		return &imap.CopyData{}, nil
	}
	if len(args) < 3 {
		return nil, fmt.Errorf("%w: COPYUID with %v arguments", imap.ErrMalformedResponse, len(args))
	}

	data := &imap.CopyData{}
	var err error
	if data.UIDValidity, err = internal.ReadNumber(args[0], "COPYUID"); err != nil {
		return nil, err
	}
	if data.SourceUIDs, err = readUIDSet(args[1]); err != nil {
		return nil, err
	}
	if data.DestUIDs, err = readUIDSet(args[2]); err != nil {
		return nil, err
	}
	return data, nil
}

func readUIDSet(d imap.Data) (imap.UIDSet, error) {
	s, ok := d.(imap.Atom)
	if !ok {
		return nil, imap.NewParseError(fmt.Sprintf("expected UID set, got %v", d))
	}
	set, err := imap.ParseUIDSet(string(s))
	if err != nil {
		return nil, imap.NewParseError(err.Error())
	}
	return set, nil
}
