package imap_test

import (
	"strings"
	"testing"

	"github.com/directorytree/go-imapengine"
)

func TestStringArg(t *testing.T) {
	tests := []struct {
		in      string
		inline  string
		literal bool
	}{
		{in: "INBOX", inline: `"INBOX"`},
		{in: `a "quoted" \ word`, inline: `"a \"quoted\" \\ word"`},
		{in: "", inline: `""`},
		{in: "line\r\nbreak", literal: true},
		{in: "Entwürfe", literal: true},
		{in: strings.Repeat("a", 4097), literal: true},
	}
	for _, tc := range tests {
		arg := imap.StringArg(tc.in)
		if arg.IsLiteral() != tc.literal {
			t.Errorf("StringArg(%q).IsLiteral() = %v, want %v", tc.in, arg.IsLiteral(), tc.literal)
			continue
		}
		if tc.literal {
			if arg.Payload != tc.in {
				t.Errorf("StringArg(%q).Payload = %q", tc.in, arg.Payload)
			}
		} else if arg.Inline != tc.inline {
			t.Errorf("StringArg(%q).Inline = %v, want %v", tc.in, arg.Inline, tc.inline)
		}
	}
}

func TestMailboxArg(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"INBOX", "INBOX"},
		{"Inbox", "INBOX"},
		{"Sent Items", `"Sent Items"`},
		{"Entwürfe", `"Entw&APw-rfe"`},
		{"a&b", `"a&-b"`},
	}
	for _, tc := range tests {
		arg := imap.MailboxArg(tc.name)
		if arg.IsLiteral() || arg.Inline != tc.want {
			t.Errorf("MailboxArg(%q) = %v, want %v", tc.name, arg.Inline, tc.want)
		}
	}
}

func TestFlagArg(t *testing.T) {
	arg := imap.FlagArg([]imap.Flag{imap.FlagSeen, imap.FlagDeleted, "$Label1"})
	if want := `(\Seen \Deleted $Label1)`; arg.Inline != want {
		t.Errorf("FlagArg() = %v, want %v", arg.Inline, want)
	}
}
