package imapclient

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-message/textproto"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal"
	"github.com/directorytree/go-imapengine/internal/imapnum"
)

// Common FETCH data items.
const (
	FetchItemUID          = "UID"
	FetchItemFlags        = "FLAGS"
	FetchItemInternalDate = "INTERNALDATE"
	FetchItemRFC822Size   = "RFC822.SIZE"
	FetchItemEnvelope     = "ENVELOPE"
	FetchItemBodyHeader   = "BODY.PEEK[HEADER]"
	FetchItemBodyText     = "BODY.PEEK[TEXT]"
	FetchItemBody         = "BODY.PEEK[]"
)

func uidCmdName(name string, uid bool) string {
	if uid {
		return "UID " + name
	}
	return name
}

func isUIDSet(numSet imap.NumSet) bool {
	_, ok := numSet.(imap.UIDSet)
	return ok
}

// Fetch sends a FETCH command, or a UID FETCH command if numSet is a
// UIDSet.
//
// Items are FETCH data items such as FetchItemFlags or "BODY.PEEK[HEADER]".
// Messages are correlated with the requested set by sequence number, or by
// their UID item for UID FETCH. FETCH responses for other messages (e.g.
// unilateral flag updates) are left out.
func (c *Client) Fetch(numSet imap.NumSet, items ...string) ([]*FetchMessage, error) {
	uid := isUIDSet(numSet)
	if len(items) == 0 {
		items = []string{FetchItemFlags}
	}
	// Ensure we request UID as the first data item for UID FETCH, to be safer.
	// We want to get it before any literal.
	if uid {
		itemsWithUID := []string{FetchItemUID}
		for _, item := range items {
			if !strings.EqualFold(item, FetchItemUID) {
				itemsWithUID = append(itemsWithUID, item)
			}
		}
		items = itemsWithUID
	}

	res, err := c.Execute(uidCmdName("FETCH", uid), imap.RawArg(numSet.String()), imap.ListArg(items...))
	if err != nil {
		return nil, err
	}
	return readFetchMessages(res, numSet)
}

// readFetchMessages collects the FETCH responses matching numSet. Once a
// single non-ranged identifier is matched, later FETCH responses are
// ignored. The result always holds the tagged completion, so nothing is left
// pending on the connection.
func readFetchMessages(res *imap.Result, numSet imap.NumSet) ([]*FetchMessage, error) {
	uid := isUIDSet(numSet)
	single := imap.IsSingle(numSet)

	var msgs []*FetchMessage
	for _, resp := range res.UntaggedOfType("FETCH") {
		msg, err := readFetchMessage(resp)
		if err != nil {
			return nil, fmt.Errorf("imapclient: in FETCH: %w", err)
		}

		id := msg.SeqNum
		if uid {
			u, ok := msg.UID()
			if !ok {
				continue
			}
			id = uint32(u)
		}
		if !matchNumSet(numSet, id) {
			continue
		}

		msgs = append(msgs, msg)
		if single {
			break
		}
	}
	return msgs, nil
}

// matchNumSet is like imap.Contains, but a bare "*" matches any number since
// the client can't know the number of the last message.
func matchNumSet(numSet imap.NumSet, num uint32) bool {
	if imap.Contains(numSet, num) {
		return true
	}
	var set imapnum.Set
	switch s := numSet.(type) {
	case imap.SeqSet:
		set = imapnum.Set(s)
	case imap.UIDSet:
		set = imapnum.Set(s)
	}
	for _, r := range set {
		if r.Start == 0 {
			return true
		}
	}
	return false
}

func readFetchMessage(resp *imap.UntaggedResponse) (*FetchMessage, error) {
	seqNum, ok := resp.Number()
	if !ok {
		return nil, imap.NewParseError(fmt.Sprintf("missing sequence number in %q", resp.String()))
	}
	data := resp.Data()
	if len(data) == 0 {
		return nil, imap.NewParseError("missing FETCH data items")
	}
	items, ok := data[0].(imap.List)
	if !ok {
		return nil, imap.NewParseError(fmt.Sprintf("expected FETCH item list, got %v", data[0]))
	}
	return &FetchMessage{SeqNum: seqNum, Items: items}, nil
}

// FetchMessage is the data returned for a message by a FETCH command.
type FetchMessage struct {
	SeqNum uint32
	// Items is the list of data item names and values, e.g.
	// (UID 42 FLAGS (\Seen)).
	Items imap.List
}

// Item returns the value following the data item name, compared exactly
// (e.g. "BODY[HEADER]"). Nil is returned if the item is missing.
func (msg *FetchMessage) Item(name string) imap.Data {
	return msg.Items.Lookup(name)
}

// UID returns the UID data item.
func (msg *FetchMessage) UID() (imap.UID, bool) {
	d := msg.Item(FetchItemUID)
	if d == nil {
		return 0, false
	}
	uid, err := imap.ParseNumber(d)
	if err != nil {
		return 0, false
	}
	return imap.UID(uid), true
}

// Flags returns the FLAGS data item.
func (msg *FetchMessage) Flags() ([]imap.Flag, error) {
	d := msg.Item(FetchItemFlags)
	if d == nil {
		return nil, nil
	}
	return internal.ReadFlagList(d)
}

// HasFlag returns true if the FLAGS data item contains flag, compared
// case-insensitively.
func (msg *FetchMessage) HasFlag(flag imap.Flag) bool {
	flags, _ := msg.Flags()
	for _, f := range flags {
		if strings.EqualFold(string(f), string(flag)) {
			return true
		}
	}
	return false
}

// Size returns the RFC822.SIZE data item.
func (msg *FetchMessage) Size() (int64, bool) {
	d := msg.Item(FetchItemRFC822Size)
	if d == nil {
		return 0, false
	}
	size, err := imap.ParseNumber64(d)
	return size, err == nil
}

// InternalDate returns the INTERNALDATE data item.
func (msg *FetchMessage) InternalDate() (time.Time, error) {
	s, ok := imap.AsString(msg.Item(FetchItemInternalDate))
	if !ok {
		return time.Time{}, fmt.Errorf("imapclient: missing INTERNALDATE")
	}
	return imap.ParseDateTime(s)
}

// Body returns the contents of the BODY[section] data item, e.g. "HEADER",
// "TEXT" or "" for the whole message. Nil is returned if the item is
// missing or NIL.
func (msg *FetchMessage) Body(section string) []byte {
	d := msg.Item("BODY[" + section + "]")
	if d == nil {
		return nil
	}
	switch d := d.(type) {
	case *imap.Literal:
		return d.Bytes()
	case imap.QuotedString:
		return []byte(d)
	default:
		return nil
	}
}

// Header parses the header returned in the BODY[section] data item. The
// section is usually "HEADER" or "" for the whole message.
func (msg *FetchMessage) Header(section string) (textproto.Header, error) {
	b := msg.Body(section)
	if b == nil {
		return textproto.Header{}, fmt.Errorf("imapclient: missing BODY[%v] in FETCH response", section)
	}
	return textproto.ReadHeader(bufio.NewReader(bytes.NewReader(b)))
}
