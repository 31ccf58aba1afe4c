package imap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/directorytree/go-imapengine"
)

func TestResult(t *testing.T) {
	cmd := imap.NewCommand("TAG3", "SEARCH", imap.RawArg("UNSEEN"))
	res := imap.NewResult(3, cmd)
	assert.False(t, res.Done())
	assert.Equal(t, []string{"TAG3 SEARCH UNSEEN"}, res.Lines())

	res.Add(imap.NewUntaggedResponse(atoms("*", "SEARCH", "2", "5")))
	res.Add(imap.NewUntaggedResponse(atoms("*", "4", "EXISTS")))
	res.Add(imap.NewTaggedResponse(atoms("TAG2", "OK", "stale")))
	assert.False(t, res.Done(), "a tagged response with another tag must not complete the result")

	res.Add(imap.NewTaggedResponse(atoms("TAG3", "OK", "SEARCH", "completed")))
	assert.True(t, res.Done())
	assert.Equal(t, "TAG3", res.Tagged().Tag())
	assert.Len(t, res.Responses(), 4)
	assert.Len(t, res.Untagged(), 2)
	assert.Len(t, res.UntaggedOfType("search"), 1)
	assert.Len(t, res.UntaggedOfType("EXISTS"), 1)
	assert.Empty(t, res.Continuations())

	assert.Panics(t, func() {
		res.Add(imap.NewUntaggedResponse(atoms("*", "5", "EXISTS")))
	})
}
