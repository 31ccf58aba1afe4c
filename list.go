package imap

// ListData is the mailbox data returned by a LIST or LSUB command.
type ListData struct {
	Attrs []MailboxAttr
	// Delim is the hierarchy delimiter, or 0 if the server doesn't have a
	// hierarchy (NIL).
	Delim   rune
	Mailbox string
}

// HasAttr returns true if the mailbox has the attribute, compared
// case-insensitively.
func (data *ListData) HasAttr(attr MailboxAttr) bool {
	for _, a := range data.Attrs {
		if equalFoldASCII(string(a), string(attr)) {
			return true
		}
	}
	return false
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
