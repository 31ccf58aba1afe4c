package imap_test

import (
	"testing"

	"github.com/directorytree/go-imapengine"
)

func TestStatusData(t *testing.T) {
	data := &imap.StatusData{
		Mailbox: "INBOX",
		Items: map[imap.StatusItem]int64{
			imap.StatusItemNumMessages: 17,
			imap.StatusItemUIDNext:     4392,
		},
	}

	if n, ok := data.NumMessages(); !ok || n != 17 {
		t.Errorf("NumMessages() = %v, %v, want 17, true", n, ok)
	}
	if uid, ok := data.UIDNext(); !ok || uid != 4392 {
		t.Errorf("UIDNext() = %v, %v, want 4392, true", uid, ok)
	}
	if _, ok := data.NumUnseen(); ok {
		t.Errorf("NumUnseen() ok = true, want false")
	}
}

func TestStoreFlags_Item(t *testing.T) {
	tests := []struct {
		flags imap.StoreFlags
		want  string
	}{
		{imap.StoreFlags{Op: imap.StoreFlagsSet}, "FLAGS"},
		{imap.StoreFlags{Op: imap.StoreFlagsAdd, Silent: true}, "+FLAGS.SILENT"},
		{imap.StoreFlags{Op: imap.StoreFlagsDel}, "-FLAGS"},
	}
	for _, tc := range tests {
		if item := tc.flags.Item(); item != tc.want {
			t.Errorf("Item() = %v, want %v", item, tc.want)
		}
	}
}

func TestListData_HasAttr(t *testing.T) {
	data := &imap.ListData{Attrs: []imap.MailboxAttr{`\HasNoChildren`, `\NoSelect`}}
	if !data.HasAttr(imap.MailboxAttrNoSelect) {
		t.Errorf("HasAttr(%v) = false, want true", imap.MailboxAttrNoSelect)
	}
	if data.HasAttr(imap.MailboxAttrTrash) {
		t.Errorf("HasAttr(%v) = true, want false", imap.MailboxAttrTrash)
	}
}
