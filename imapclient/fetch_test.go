package imapclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal/imaptest"
)

func TestClient_Fetch_uid(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 UID FETCH 42 (UID FLAGS BODY.PEEK[HEADER])")
		c.Writeln(
			`* 1 FETCH (FLAGS (\Seen))`,
			`* 7 FETCH (FLAGS (\Seen) UID 42 BODY[HEADER] {31}`,
		)
		c.Write("Subject: Hello\r\nFrom: a@b.c\r\n\r\n")
		c.Writeln(
			")",
			"* 8 FETCH (UID 42 FLAGS ())",
			"TAG1 OK UID FETCH completed",
		)

		c.Expect("TAG2 NOOP")
		c.Writeln("TAG2 OK NOOP completed")
	})

	msgs, err := client.Fetch(imap.UIDSetNum(42), "FLAGS", "BODY.PEEK[HEADER]")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	msg := msgs[0]
	assert.Equal(t, uint32(7), msg.SeqNum)
	uid, ok := msg.UID()
	assert.True(t, ok)
	assert.Equal(t, imap.UID(42), uid)
	assert.True(t, msg.HasFlag(imap.FlagSeen))

	header, err := msg.Header("HEADER")
	require.NoError(t, err)
	assert.Equal(t, "Hello", header.Get("Subject"))
	assert.Equal(t, "a@b.c", header.Get("From"))

	// The tagged completion was consumed, the next command gets its own
	// completion.
	_, err = client.Noop()
	require.NoError(t, err)
}

func TestClient_Fetch_seqRange(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 FETCH 2:* (FLAGS RFC822.SIZE INTERNALDATE)")
		c.Writeln(
			`* 1 FETCH (FLAGS (\Answered))`,
			`* 2 FETCH (FLAGS (\Seen $Junk) RFC822.SIZE 1024 INTERNALDATE "17-Jul-1996 02:44:25 -0700")`,
			`* 3 FETCH (FLAGS () RFC822.SIZE 12 INTERNALDATE " 7-Feb-1994 21:52:25 -0800")`,
			"TAG1 OK FETCH completed",
		)
	})

	var seqSet imap.SeqSet
	seqSet.AddRange(2, 0)
	msgs, err := client.Fetch(seqSet, "FLAGS", "RFC822.SIZE", "INTERNALDATE")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, uint32(2), msgs[0].SeqNum)
	flags, err := msgs[0].Flags()
	require.NoError(t, err)
	assert.Equal(t, []imap.Flag{imap.FlagSeen, imap.FlagJunk}, flags)
	size, ok := msgs[0].Size()
	assert.True(t, ok)
	assert.Equal(t, int64(1024), size)

	date, err := msgs[1].InternalDate()
	require.NoError(t, err)
	assert.Equal(t, 1994, date.Year())
	assert.Equal(t, 7, date.Day())
	assert.False(t, msgs[1].HasFlag(imap.FlagSeen))
}

func TestClient_Fetch_missing(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 FETCH 5 (FLAGS)")
		c.Writeln("TAG1 OK FETCH completed")
	})

	msgs, err := client.Fetch(imap.SeqSetNum(5))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestClient_Fetch_body(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 FETCH 1 (BODY.PEEK[])")
		c.Writeln(`* 1 FETCH (BODY[] {5}`)
		c.Write("Hello")
		c.Writeln(")", "TAG1 OK FETCH completed")
	})

	msgs, err := client.Fetch(imap.SeqSetNum(1), "BODY.PEEK[]")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello", string(msgs[0].Body("")))
	assert.Nil(t, msgs[0].Body("TEXT"))

	_, err = msgs[0].Header("TEXT")
	assert.Error(t, err)
}
