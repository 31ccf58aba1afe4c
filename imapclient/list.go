package imapclient

import (
	"fmt"
	"unicode/utf8"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal"
)

// List sends a LIST command.
//
// The pattern can contain the "*" and "%" wildcards.
func (c *Client) List(ref, pattern string) ([]*imap.ListData, error) {
	return c.list("LIST", ref, pattern)
}

// Lsub sends an LSUB command, listing subscribed mailboxes.
func (c *Client) Lsub(ref, pattern string) ([]*imap.ListData, error) {
	return c.list("LSUB", ref, pattern)
}

func (c *Client) list(verb, ref, pattern string) ([]*imap.ListData, error) {
	res, err := c.Execute(verb, imap.MailboxArg(ref), imap.MailboxArg(pattern))
	if err != nil {
		return nil, err
	}

	var l []*imap.ListData
	for _, resp := range res.UntaggedOfType(verb) {
		data, err := readList(resp.Data())
		if err != nil {
			return nil, fmt.Errorf("imapclient: in %v: %w", verb, err)
		}
		l = append(l, data)
	}
	return l, nil
}

func readList(fields []imap.Data) (*imap.ListData, error) {
	if len(fields) < 3 {
		return nil, imap.NewParseError(fmt.Sprintf("expected 3 fields, got %v", len(fields)))
	}

	attrList, ok := fields[0].(imap.List)
	if !ok {
		return nil, imap.NewParseError(fmt.Sprintf("expected attribute list, got %v", fields[0]))
	}
	data := &imap.ListData{}
	for _, attr := range attrList {
		s, ok := attr.(imap.Atom)
		if !ok {
			return nil, imap.NewParseError(fmt.Sprintf("expected attribute, got %v", attr))
		}
		data.Attrs = append(data.Attrs, imap.MailboxAttr(s))
	}

	delim, ok := imap.AsNString(fields[1])
	if !ok {
		return nil, imap.NewParseError(fmt.Sprintf("expected delimiter, got %v", fields[1]))
	}
	if delim != "" {
		r, size := utf8.DecodeRuneInString(delim)
		if size != len(delim) {
			return nil, imap.NewParseError(fmt.Sprintf("invalid delimiter %q", delim))
		}
		data.Delim = r
	}

	name, err := internal.ReadMailboxName(fields[2])
	if err != nil {
		return nil, err
	}
	data.Mailbox = name
	return data, nil
}
