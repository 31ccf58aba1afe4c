package imapclient

import (
	"fmt"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal"
)

// Append sends an APPEND command.
//
// The message is sent as a literal. The returned data is only populated if
// the server supports UIDPLUS.
//
// A nil options pointer is equivalent to a zero options value.
func (c *Client) Append(mailbox string, message []byte, options *imap.AppendOptions) (*imap.AppendData, error) {
	args := []imap.Arg{imap.MailboxArg(mailbox)}
	if options != nil && len(options.Flags) > 0 {
		args = append(args, imap.FlagArg(options.Flags))
	}
	if options != nil && !options.Time.IsZero() {
		args = append(args, imap.RawArg(imap.Quote(imap.FormatDateTime(options.Time))))
	}
	args = append(args, imap.LiteralArg(message))

	res, err := c.Execute("APPEND", args...)
	if err != nil {
		return nil, err
	}

	data := &imap.AppendData{}
	code, codeArgs := res.Tagged().Code()
	if code != imap.ResponseCodeAppendUID {
		return data, nil
	}
	if len(codeArgs) < 2 {
		return nil, fmt.Errorf("%w: %v", imap.ErrMalformedResponse, res.Tagged().String())
	}
	if data.UIDValidity, err = internal.ReadNumber(codeArgs[0], "APPENDUID"); err != nil {
		return nil, err
	}
	uid, err := internal.ReadNumber(codeArgs[1], "APPENDUID")
	if err != nil {
		return nil, err
	}
	data.UID = imap.UID(uid)
	return data, nil
}
