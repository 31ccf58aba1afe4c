package imapclient_test

import (
	"testing"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal/imaptest"
)

func TestStore(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect(`TAG1 STORE 1 +FLAGS (\Deleted)`)
		c.Writeln(`* 1 FETCH (FLAGS (\Seen \Deleted))`, "TAG1 OK STORE completed")

		c.Expect(`TAG2 UID STORE 7:9 -FLAGS.SILENT (\Seen $Junk)`)
		c.Writeln("TAG2 OK STORE completed")
	})

	seqSet := imap.SeqSetNum(1)
	storeFlags := imap.StoreFlags{
		Op:    imap.StoreFlagsAdd,
		Flags: []imap.Flag{imap.FlagDeleted},
	}
	msgs, err := client.Store(seqSet, &storeFlags)
	if err != nil {
		t.Fatalf("Store() = %v", err)
	} else if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %v, want %v", len(msgs), 1)
	}
	msg := msgs[0]
	if msg.SeqNum != 1 {
		t.Errorf("msg.SeqNum = %v, want %v", msg.SeqNum, 1)
	}
	if !msg.HasFlag(imap.FlagDeleted) {
		t.Errorf("msg.Flags() doesn't contain %v", imap.FlagDeleted)
	}

	var uidSet imap.UIDSet
	uidSet.AddRange(7, 9)
	msgs, err = client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsDel,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen, imap.FlagJunk},
	})
	if err != nil {
		t.Fatalf("Store() = %v", err)
	} else if len(msgs) != 0 {
		t.Errorf("len(msgs) = %v, want 0", len(msgs))
	}
}

func TestCopy(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect(`TAG1 UID COPY 2:4 "Archive"`)
		c.Writeln("TAG1 OK [COPYUID 38505 2:4 3956:3958] COPY completed")
	})

	var uidSet imap.UIDSet
	uidSet.AddRange(2, 4)
	data, err := client.Copy(uidSet, "Archive")
	if err != nil {
		t.Fatalf("Copy() = %v", err)
	}
	if data.UIDValidity != 38505 {
		t.Errorf("data.UIDValidity = %v, want %v", data.UIDValidity, 38505)
	}
	if s := data.SourceUIDs.String(); s != "2:4" {
		t.Errorf("data.SourceUIDs = %v, want 2:4", s)
	}
	if s := data.DestUIDs.String(); s != "3956:3958" {
		t.Errorf("data.DestUIDs = %v, want 3956:3958", s)
	}
}

func TestMove(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect(`TAG1 MOVE 1 "Trash"`)
		c.Writeln(
			"* OK [COPYUID 432432 42 7] Moved",
			"* 1 EXPUNGE",
			"TAG1 OK MOVE completed",
		)
	})

	data, err := client.Move(imap.SeqSetNum(1), "Trash")
	if err != nil {
		t.Fatalf("Move() = %v", err)
	}
	if data.UIDValidity != 432432 {
		t.Errorf("data.UIDValidity = %v, want %v", data.UIDValidity, 432432)
	}
	if s := data.DestUIDs.String(); s != "7" {
		t.Errorf("data.DestUIDs = %v, want 7", s)
	}
}

func TestMove_fallback(t *testing.T) {
	conn := imaptest.Serve(t, func(c *imaptest.Conn) {
		c.Writeln("* OK [CAPABILITY IMAP4rev1 UIDPLUS] ready")
		c.Expect(`TAG1 UID COPY 42 "Trash"`)
		c.Writeln("TAG1 OK [COPYUID 1 42 7] COPY completed")
		c.Expect(`TAG2 UID STORE 42 +FLAGS.SILENT (\Deleted)`)
		c.Writeln("TAG2 OK STORE completed")
		c.Expect("TAG3 UID EXPUNGE 42")
		c.Writeln("* 3 EXPUNGE", "TAG3 OK EXPUNGE completed")
	})
	client := newClientConn(t, conn)

	if _, err := client.Move(imap.UIDSetNum(42), "Trash"); err != nil {
		t.Fatalf("Move() = %v", err)
	}
}

func TestExpunge(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 EXPUNGE")
		c.Writeln("* 3 EXPUNGE", "* 3 EXPUNGE", "* 5 EXPUNGE", "TAG1 OK EXPUNGE completed")
	})

	seqNums, err := client.Expunge()
	if err != nil {
		t.Fatalf("Expunge() = %v", err)
	}
	if len(seqNums) != 3 || seqNums[0] != 3 || seqNums[2] != 5 {
		t.Errorf("Expunge() = %v, want [3 3 5]", seqNums)
	}
}
