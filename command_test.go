package imap_test

import (
	"reflect"
	"testing"

	"github.com/directorytree/go-imapengine"
)

var commandCompileTests = []struct {
	name string
	cmd  *imap.Command
	want []string
}{
	{
		name: "no args",
		cmd:  imap.NewCommand("A001", "NOOP"),
		want: []string{"A001 NOOP"},
	},
	{
		name: "inline args",
		cmd:  imap.NewCommand("A002", "SELECT", imap.MailboxArg("inbox")),
		want: []string{"A002 SELECT INBOX"},
	},
	{
		name: "one literal",
		cmd: imap.NewCommand("A003", "APPEND",
			imap.RawArg(`"INBOX"`),
			imap.LiteralArgWithMarker("{20}", "literal-data"),
		),
		want: []string{`A003 APPEND "INBOX" {20}`, "literal-data"},
	},
	{
		name: "inline after literal",
		cmd: imap.NewCommand("A004", "LOGIN",
			imap.LiteralArg([]byte("jöhn")),
			imap.RawArg(`"secret"`),
		),
		want: []string{"A004 LOGIN {5}", `jöhn "secret"`},
	},
	{
		name: "two literals",
		cmd: imap.NewCommand("A005", "RENAME",
			imap.LiteralArg([]byte("a\r\nb")),
			imap.LiteralArg([]byte("c")),
		),
		want: []string{"A005 RENAME {4}", "a\r\nb {1}", "c"},
	},
	{
		name: "untagged DONE",
		cmd:  imap.NewCommand("", "DONE"),
		want: []string{"DONE"},
	},
}

func TestCommand_Compile(t *testing.T) {
	for _, tc := range commandCompileTests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			lines := tc.cmd.Compile()
			if !reflect.DeepEqual(lines, tc.want) {
				t.Errorf("Compile() = %q, want %q", lines, tc.want)
			}

			literals := 0
			for _, arg := range tc.cmd.Args() {
				if arg.IsLiteral() {
					literals++
				}
			}
			if len(lines) != literals+1 {
				t.Errorf("len(Compile()) = %v, want %v", len(lines), literals+1)
			}
		})
	}
}

func TestCommand_Compile_memoized(t *testing.T) {
	cmd := imap.NewCommand("A1", "CAPABILITY")
	first := cmd.Compile()
	second := cmd.Compile()
	if &first[0] != &second[0] {
		t.Errorf("Compile() returned a new slice on the second call")
	}
}

func TestCommand_String(t *testing.T) {
	cmd := imap.NewCommand("A003", "APPEND", imap.RawArg(`"INBOX"`), imap.LiteralArgWithMarker("{20}", "literal-data"))
	want := "A003 APPEND \"INBOX\" {20}\r\nliteral-data"
	if s := cmd.String(); s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
}

func TestCommand_Redacted(t *testing.T) {
	tests := []struct {
		cmd  *imap.Command
		want string
	}{
		{imap.NewCommand("A1", "LOGIN", imap.StringArg("user"), imap.StringArg("hunter2")), "A1 LOGIN <redacted>"},
		{imap.NewCommand("A2", "AUTHENTICATE", imap.RawArg("PLAIN"), imap.RawArg("AGZvbwBiYXI=")), "A2 AUTHENTICATE <redacted>"},
		{imap.NewCommand("A3", "APPEND", imap.MailboxArg("INBOX"), imap.LiteralArg([]byte("hello"))), "A3 APPEND INBOX {5}"},
	}
	for _, tc := range tests {
		if s := tc.cmd.Redacted(); s != tc.want {
			t.Errorf("Redacted() = %q, want %q", s, tc.want)
		}
	}
}
