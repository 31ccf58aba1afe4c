package imap_test

import (
	"testing"

	"github.com/directorytree/go-imapengine"
)

func TestIsSingle(t *testing.T) {
	tests := []struct {
		set  imap.NumSet
		want bool
	}{
		{imap.SeqSetNum(1), true},
		{imap.UIDSetNum(42), true},
		{imap.SeqSetNum(1, 2), false},
		{imap.SeqSetNum(0), false},
		{imap.UIDSet{}, false},
	}
	for _, tc := range tests {
		if got := imap.IsSingle(tc.set); got != tc.want {
			t.Errorf("IsSingle(%v) = %v, want %v", tc.set, got, tc.want)
		}
	}
}

func TestParseUIDSet(t *testing.T) {
	set, err := imap.ParseUIDSet("100:102,200")
	if err != nil {
		t.Fatalf("ParseUIDSet() = %v", err)
	}
	if s := set.String(); s != "100:102,200" {
		t.Errorf("String() = %v, want 100:102,200", s)
	}
	uids, ok := set.Nums()
	if !ok || len(uids) != 4 || uids[3] != 200 {
		t.Errorf("Nums() = %v, %v, want [100 101 102 200], true", uids, ok)
	}
	if !imap.Contains(set, 101) || imap.Contains(set, 103) {
		t.Errorf("Contains() mismatch for %v", set)
	}

	if _, err := imap.ParseUIDSet(""); err == nil {
		t.Errorf("ParseUIDSet(\"\") = nil, want an error")
	}

	dyn, err := imap.ParseSeqSet("5:*")
	if err != nil {
		t.Fatalf("ParseSeqSet() = %v", err)
	}
	if !dyn.Dynamic() {
		t.Errorf("Dynamic() = false, want true")
	}
}
