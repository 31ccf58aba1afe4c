package imapclient_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directorytree/go-imapengine"
	"github.com/directorytree/go-imapengine/internal/imaptest"
)

func TestClient_Idle(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 IDLE")
		c.Writeln("+ idling", "* 3 EXISTS")
		c.Expect("DONE")
		c.Writeln("* 4 EXISTS", "TAG1 OK IDLE terminated")
	})

	_, err := client.Idle()
	require.NoError(t, err)
	assert.True(t, client.Idling())

	resp, err := client.ReadResponse()
	require.NoError(t, err)
	untagged, ok := resp.(*imap.UntaggedResponse)
	require.True(t, ok, "ReadResponse() = %T, want *imap.UntaggedResponse", resp)
	assert.Equal(t, "EXISTS", untagged.Type())
	n, _ := untagged.Number()
	assert.Equal(t, uint32(3), n)

	client.SetTimeout(50 * time.Millisecond)
	_, err = client.ReadResponse()
	if !errors.Is(err, imap.ErrTimeout) {
		t.Fatalf("ReadResponse() = %v, want ErrTimeout", err)
	}
	assert.True(t, client.Idling(), "a read timeout must not end IDLE")
	client.SetTimeout(5 * time.Second)

	_, err = client.Noop()
	assert.Error(t, err, "commands can't be sent while IDLE is running")

	res, err := client.Done()
	require.NoError(t, err)
	assert.False(t, client.Idling())
	require.Len(t, res.Untagged(), 1)
	assert.Equal(t, "* 4 EXISTS", res.Untagged()[0].String())
	assert.Equal(t, "TAG1", res.Tagged().Tag())
}

func TestClient_Idle_terminatedByServer(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 IDLE")
		c.Writeln("+ idling", "TAG1 OK IDLE timed out")
		c.Expect("TAG2 NOOP")
		c.Writeln("TAG2 OK NOOP completed")
	})

	_, err := client.Idle()
	require.NoError(t, err)
	resp, err := client.ReadResponse()
	require.NoError(t, err)
	_, ok := resp.(*imap.TaggedResponse)
	assert.True(t, ok, "ReadResponse() = %T, want *imap.TaggedResponse", resp)
	assert.False(t, client.Idling())

	_, err = client.Done()
	assert.Error(t, err)

	_, err = client.Noop()
	require.NoError(t, err)
}

func TestClient_Idle_rejected(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 IDLE")
		c.Writeln("TAG1 BAD IDLE not supported")
	})

	_, err := client.Idle()
	assert.ErrorIs(t, err, imap.ErrContinuationMissing)
	var imapErr *imap.Error
	require.True(t, errors.As(err, &imapErr))
	assert.Equal(t, imap.StatusResponseTypeBad, imapErr.Type)
	assert.False(t, client.Idling())
}

func TestClient_Idle_existsBeforeContinuation(t *testing.T) {
	client := newClient(t, func(c *imaptest.Conn) {
		c.Expect("TAG1 IDLE")
		c.Writeln("* 8 EXISTS", "+ idling")
		c.Expect("DONE")
		c.Writeln("TAG1 OK IDLE terminated")
	})

	res, err := client.Idle()
	require.NoError(t, err)
	exists := res.UntaggedOfType("EXISTS")
	require.Len(t, exists, 1)
	n, _ := exists[0].Number()
	assert.Equal(t, uint32(8), n)

	_, err = client.Done()
	require.NoError(t, err)
}
