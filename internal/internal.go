// Package internal contains decoders shared by the client packages.
package internal

import (
	"fmt"
	"strings"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/utf7"
)

// ReadFlagList decodes a parenthesized flag list such as "(\Seen $Junk)".
func ReadFlagList(d imap.Data) ([]imap.Flag, error) {
	l, ok := d.(imap.List)
	if !ok {
		return nil, imap.NewParseError(fmt.Sprintf("expected flag list, got %v", d))
	}
	flags := make([]imap.Flag, 0, len(l))
	for _, item := range l {
		flag, err := ReadFlag(item)
		if err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

// ReadFlag decodes a single flag atom.
func ReadFlag(d imap.Data) (imap.Flag, error) {
	a, ok := d.(imap.Atom)
	if !ok || a == "" {
		return "", imap.NewParseError(fmt.Sprintf("in flag: expected atom, got %v", d))
	}
	return imap.Flag(a), nil
}

// ReadMailboxName decodes a mailbox name. INBOX is case-insensitive and
// normalized; other names are decoded from modified UTF-7. Names that are not
// valid modified UTF-7 are returned as-is.
func ReadMailboxName(d imap.Data) (string, error) {
	name, ok := imap.AsString(d)
	if !ok {
		return "", imap.NewParseError(fmt.Sprintf("expected mailbox name, got %v", d))
	}
	if strings.EqualFold(name, "INBOX") {
		return "INBOX", nil
	}
	if decoded, err := utf7.Encoding.NewDecoder().String(name); err == nil {
		return decoded, nil
	}
	return name, nil
}

// ReadNumber decodes a number or fails with a parse error naming what was
// being decoded.
func ReadNumber(d imap.Data, what string) (uint32, error) {
	n, err := imap.ParseNumber(d)
	if err != nil {
		return 0, fmt.Errorf("in %v: %w", what, err)
	}
	return n, nil
}
