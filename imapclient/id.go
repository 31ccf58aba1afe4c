package imapclient

import (
	"fmt"
	"strings"

	"github.com/directorytree/go-imapengine"
)

// ID sends an ID command, identifying the client with the given keys and
// values. The server identification is returned; NIL values are left out.
//
// Keys and values must be quotable strings: 7-bit, without CR or LF.
//
// This command requires support for the ID extension (RFC 2971).
func (c *Client) ID(keysAndValues ...string) (map[string]string, error) {
	if len(keysAndValues)%2 != 0 {
		panic("imapclient: the length of keys and values is odd")
	}

	arg := imap.RawArg("NIL")
	if len(keysAndValues) > 0 {
		quoted := make([]string, len(keysAndValues))
		for i, keyOrValue := range keysAndValues {
			if !imap.CanQuote(keyOrValue) {
				return nil, fmt.Errorf("imapclient: ID field %q can't be sent as a quoted string", keyOrValue)
			}
			quoted[i] = imap.Quote(keyOrValue)
		}
		arg = imap.RawArg("(" + strings.Join(quoted, " ") + ")")
	}

	res, err := c.Execute("ID", arg)
	if err != nil {
		return nil, err
	}

	serverID := make(map[string]string)
	for _, resp := range res.UntaggedOfType("ID") {
		l, ok := resp.TokenAt(2).(imap.List)
		if !ok {
			// ID NIL
			continue
		}
		if len(l)%2 != 0 {
			return nil, fmt.Errorf("imapclient: in ID: %w", imap.NewParseError("odd number of fields"))
		}
		for i := 0; i < len(l); i += 2 {
			key, ok := imap.AsString(l[i])
			if !ok {
				return nil, fmt.Errorf("imapclient: in ID: %w", imap.NewParseError(fmt.Sprintf("expected key, got %v", l[i])))
			}
			if value, ok := imap.AsNString(l[i+1]); ok && value != "" {
				serverID[strings.ToLower(key)] = value
			}
		}
	}
	return serverID, nil
}
