package imapclient

import (
	"fmt"
	"strings"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal"
)

// Status sends a STATUS command.
//
// If no items are requested, MESSAGES, UIDNEXT, UIDVALIDITY and UNSEEN are
// requested.
func (c *Client) Status(mailbox string, items []imap.StatusItem) (*imap.StatusData, error) {
	if len(items) == 0 {
		items = []imap.StatusItem{
			imap.StatusItemNumMessages,
			imap.StatusItemUIDNext,
			imap.StatusItemUIDValidity,
			imap.StatusItemNumUnseen,
		}
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = string(item)
	}

	res, err := c.Execute("STATUS", imap.MailboxArg(mailbox), imap.ListArg(names...))
	if err != nil {
		return nil, err
	}

	var last *imap.StatusData
	for _, resp := range res.UntaggedOfType("STATUS") {
		data, err := readStatus(resp.Data())
		if err != nil {
			return nil, fmt.Errorf("imapclient: in STATUS: %w", err)
		}
		if strings.EqualFold(data.Mailbox, mailbox) {
			return data, nil
		}
		last = data
	}
	if last == nil {
		return nil, fmt.Errorf("%w: missing STATUS response for %q", imap.ErrMalformedResponse, mailbox)
	}
	return last, nil
}

// readStatus decodes the mailbox name and the flat key/value list of a
// STATUS response.
func readStatus(fields []imap.Data) (*imap.StatusData, error) {
	if len(fields) < 2 {
		return nil, imap.NewParseError(fmt.Sprintf("expected 2 fields, got %v", len(fields)))
	}

	name, err := internal.ReadMailboxName(fields[0])
	if err != nil {
		return nil, err
	}
	l, ok := fields[1].(imap.List)
	if !ok {
		return nil, imap.NewParseError(fmt.Sprintf("expected status list, got %v", fields[1]))
	}
	if len(l)%2 != 0 {
		return nil, imap.NewParseError("status list has an odd number of items")
	}

	data := &imap.StatusData{
		Mailbox: name,
		Items:   make(map[imap.StatusItem]int64, len(l)/2),
	}
	for i := 0; i < len(l); i += 2 {
		key, ok := l[i].(imap.Atom)
		if !ok {
			return nil, imap.NewParseError(fmt.Sprintf("expected status item, got %v", l[i]))
		}
		v, err := imap.ParseNumber64(l[i+1])
		if err != nil {
			return nil, fmt.Errorf("in %v: %w", key, err)
		}
		data.Items[imap.StatusItem(strings.ToUpper(string(key)))] = v
	}
	return data, nil
}
