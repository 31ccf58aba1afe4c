package imap

import (
	"strings"
	"unicode"

	"github.com/directorytree/go-imapengine/utf7"
)

// maxQuotedLen is the length above which strings are sent as literals.
const maxQuotedLen = 4096

// Quote returns s as a quoted string, escaping backslashes and double quotes.
func Quote(s string) string {
	return QuotedString(s).String()
}

// CanQuote returns true if s can be sent as a quoted string. Strings with
// NUL, CR, LF or 8-bit characters, or longer than 4096 bytes, must be sent as
// literals.
func CanQuote(s string) bool {
	if len(s) > maxQuotedLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case 0, '\r', '\n':
			return false
		}
		if ch > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// StringArg returns s as a quoted string argument if possible, and as a
// literal argument otherwise.
func StringArg(s string) Arg {
	if CanQuote(s) {
		return RawArg(Quote(s))
	}
	return LiteralArg([]byte(s))
}

// MailboxArg returns a mailbox name argument. INBOX is case-insensitive and
// always sent as an atom; other names are encoded with modified UTF-7.
func MailboxArg(name string) Arg {
	if strings.EqualFold(name, "INBOX") {
		return RawArg("INBOX")
	}
	encoded, err := utf7.Encoding.NewEncoder().String(name)
	if err != nil {
		encoded = name
	}
	return StringArg(encoded)
}

// ListArg returns a parenthesized list of atoms.
func ListArg(items ...string) Arg {
	return RawArg("(" + strings.Join(items, " ") + ")")
}

// IsAtomChar returns true if ch can appear in an atom.
func IsAtomChar(ch byte) bool {
	switch ch {
	case '(', ')', '{', ' ', '%', '*', '"', '\\', ']':
		return false
	default:
		return !unicode.IsControl(rune(ch)) && ch <= unicode.MaxASCII
	}
}

// FlagArg returns a parenthesized flag list argument.
func FlagArg(flags []Flag) Arg {
	l := make([]string, len(flags))
	for i, f := range flags {
		l[i] = string(f)
	}
	return ListArg(l...)
}
