package imap

import (
	"github.com/directorytree/go-imapengine/internal/imapnum"
)

// NumSet is a set of numbers identifying messages. NumSet is either a SeqSet
// or a UIDSet.
type NumSet interface {
	// String returns the IMAP representation of the message number set.
	String() string
	// Dynamic returns true if the set contains "*" or "n:*" ranges.
	Dynamic() bool

	isNumSet()
}

var (
	_ NumSet = SeqSet(nil)
	_ NumSet = UIDSet(nil)
)

// SeqSet is a set of message sequence numbers.
type SeqSet imapnum.Set

// SeqSetNum returns a new SeqSet containing the specified sequence numbers.
func SeqSetNum(nums ...uint32) SeqSet {
	var s SeqSet
	s.AddNum(nums...)
	return s
}

// ParseSeqSet parses a sequence set such as "1:4,7".
func ParseSeqSet(s string) (SeqSet, error) {
	set, err := imapnum.ParseSet(s)
	return SeqSet(set), err
}

func (SeqSet) isNumSet() {}

func (s SeqSet) String() string {
	return imapnum.Set(s).String()
}

// Dynamic returns true if the set contains "*" or "n:*" values.
func (s SeqSet) Dynamic() bool {
	return imapnum.Set(s).Dynamic()
}

// Contains returns true if the non-zero sequence number is contained in the set.
func (s SeqSet) Contains(num uint32) bool {
	return imapnum.Set(s).Contains(num)
}

// Nums returns a slice of all sequence numbers contained in the set.
func (s SeqSet) Nums() ([]uint32, bool) {
	return imapnum.Set(s).Nums()
}

// AddNum inserts new sequence numbers into the set. The value 0 represents "*".
func (s *SeqSet) AddNum(nums ...uint32) {
	(*imapnum.Set)(s).AddNum(nums...)
}

// AddRange inserts a new range into the set.
func (s *SeqSet) AddRange(start, stop uint32) {
	(*imapnum.Set)(s).AddRange(start, stop)
}

// UIDSet is a set of message UIDs.
type UIDSet imapnum.Set

// UIDSetNum returns a new UIDSet containing the specified UIDs.
func UIDSetNum(uids ...UID) UIDSet {
	var s UIDSet
	s.AddNum(uids...)
	return s
}

// ParseUIDSet parses a UID set such as "100:110,112".
func ParseUIDSet(s string) (UIDSet, error) {
	set, err := imapnum.ParseSet(s)
	return UIDSet(set), err
}

func (UIDSet) isNumSet() {}

func (s UIDSet) String() string {
	return imapnum.Set(s).String()
}

// Dynamic returns true if the set contains "*" or "n:*" values.
func (s UIDSet) Dynamic() bool {
	return imapnum.Set(s).Dynamic()
}

// Contains returns true if the non-zero UID is contained in the set.
func (s UIDSet) Contains(uid UID) bool {
	return imapnum.Set(s).Contains(uint32(uid))
}

// Nums returns a slice of all UIDs contained in the set.
func (s UIDSet) Nums() ([]UID, bool) {
	nums, ok := imapnum.Set(s).Nums()
	if !ok {
		return nil, false
	}
	uids := make([]UID, len(nums))
	for i, n := range nums {
		uids[i] = UID(n)
	}
	return uids, true
}

// AddNum inserts new UIDs into the set. The value 0 represents "*".
func (s *UIDSet) AddNum(uids ...UID) {
	for _, uid := range uids {
		(*imapnum.Set)(s).AddNum(uint32(uid))
	}
}

// AddRange inserts a new range into the set.
func (s *UIDSet) AddRange(start, stop UID) {
	(*imapnum.Set)(s).AddRange(uint32(start), uint32(stop))
}

// IsSingle returns true if the set identifies exactly one message, without
// ranges or "*".
func IsSingle(numSet NumSet) bool {
	var set imapnum.Set
	switch s := numSet.(type) {
	case SeqSet:
		set = imapnum.Set(s)
	case UIDSet:
		set = imapnum.Set(s)
	default:
		return false
	}
	return len(set) == 1 && set[0].Start == set[0].Stop && set[0].Start != 0
}

// Contains returns true if the set contains num. num is interpreted as a
// sequence number or a UID depending on the set kind.
func Contains(numSet NumSet, num uint32) bool {
	switch s := numSet.(type) {
	case SeqSet:
		return s.Contains(num)
	case UIDSet:
		return s.Contains(UID(num))
	default:
		return false
	}
}
