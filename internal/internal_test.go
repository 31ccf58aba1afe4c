package internal

import (
	"testing"

	"github.com/directorytree/go-imapengine"
)

func TestReadFlagList(t *testing.T) {
	flags, err := ReadFlagList(imap.List{imap.Atom(`\Seen`), imap.Atom(`\*`), imap.Atom("$Junk")})
	if err != nil {
		t.Fatalf("ReadFlagList() = %v", err)
	}
	want := []imap.Flag{imap.FlagSeen, imap.FlagWildcard, imap.FlagJunk}
	if len(flags) != len(want) {
		t.Fatalf("ReadFlagList() = %v, want %v", flags, want)
	}
	for i := range want {
		if flags[i] != want[i] {
			t.Errorf("flag #%v = %v, want %v", i, flags[i], want[i])
		}
	}

	if _, err := ReadFlagList(imap.Atom("NIL")); !imap.IsParseError(err) {
		t.Errorf("ReadFlagList(NIL) = %v, want a parse error", err)
	}
	if _, err := ReadFlagList(imap.List{imap.QuotedString("x")}); !imap.IsParseError(err) {
		t.Errorf("ReadFlagList((\"x\")) = %v, want a parse error", err)
	}
}

func TestReadMailboxName(t *testing.T) {
	tests := []struct {
		in   imap.Data
		want string
	}{
		{imap.Atom("inbox"), "INBOX"},
		{imap.QuotedString("Entw&APw-rfe"), "Entwürfe"},
		{imap.QuotedString("Sent Items"), "Sent Items"},
		{imap.NewLiteral([]byte("a&-b")), "a&b"},
		{imap.QuotedString("&Jjo!"), "&Jjo!"},
	}
	for _, tc := range tests {
		name, err := ReadMailboxName(tc.in)
		if err != nil {
			t.Errorf("ReadMailboxName(%v) = %v", tc.in, err)
		} else if name != tc.want {
			t.Errorf("ReadMailboxName(%v) = %q, want %q", tc.in, name, tc.want)
		}
	}
}

func TestSASL(t *testing.T) {
	if s := EncodeSASL(nil); s != "=" {
		t.Errorf("EncodeSASL(nil) = %q, want \"=\"", s)
	}
	b, err := DecodeSASL("=")
	if err != nil || b == nil || len(b) != 0 {
		t.Errorf("DecodeSASL(\"=\") = %v, %v, want empty non-nil slice", b, err)
	}
	b, err = DecodeSASL(EncodeSASL([]byte("\x00user\x00pass")))
	if err != nil || string(b) != "\x00user\x00pass" {
		t.Errorf("DecodeSASL(EncodeSASL()) = %q, %v", b, err)
	}
}
