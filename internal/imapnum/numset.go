// Package imapnum implements sets of message sequence numbers and UIDs.
//
// The number 0 stands for "*", the largest number in use in the mailbox.
package imapnum

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// star sorts "*" after every static number.
const star = math.MaxUint32 + 1

// Range is a range of numbers, e.g. "2:4" or "7:*". A single number has
// Start == Stop.
type Range struct {
	Start, Stop uint32
}

func newRange(start, stop uint32) Range {
	if start == 0 || (stop != 0 && stop < start) {
		start, stop = stop, start
	}
	return Range{start, stop}
}

func (r Range) bounds() (lo, hi uint64) {
	lo, hi = uint64(r.Start), uint64(r.Stop)
	if r.Start == 0 {
		lo = star
	}
	if r.Stop == 0 {
		hi = star
	}
	return lo, hi
}

// Contains returns true if q is in the range. "*" is only contained in "*"
// and "n:*".
func (r Range) Contains(q uint32) bool {
	if q == 0 {
		return r.Stop == 0
	}
	return r.Start != 0 && r.Start <= q && (q <= r.Stop || r.Stop == 0)
}

func (r Range) String() string {
	if r.Start == r.Stop {
		return formatNum(r.Start)
	}
	return formatNum(r.Start) + ":" + formatNum(r.Stop)
}

func formatNum(n uint32) string {
	if n == 0 {
		return "*"
	}
	return strconv.FormatUint(uint64(n), 10)
}

// Set is a sorted list of disjoint ranges.
type Set []Range

// AddNum inserts numbers into the set.
func (s *Set) AddNum(nums ...uint32) {
	for _, n := range nums {
		s.insert(Range{n, n})
	}
}

// AddRange inserts a range into the set. The bounds can be in any order.
func (s *Set) AddRange(start, stop uint32) {
	s.insert(newRange(start, stop))
}

// insert adds r, then merges the ranges which overlap or touch.
func (s *Set) insert(r Range) {
	l := append(*s, r)
	slices.SortFunc(l, func(a, b Range) int {
		alo, _ := a.bounds()
		blo, _ := b.bounds()
		switch {
		case alo < blo:
			return -1
		case alo > blo:
			return 1
		default:
			return 0
		}
	})

	merged := l[:1]
	for _, next := range l[1:] {
		cur := &merged[len(merged)-1]
		_, curHi := cur.bounds()
		nextLo, nextHi := next.bounds()
		// A static number never touches "*"
		touches := nextLo <= curHi || (nextLo == curHi+1 && nextLo != star)
		if !touches {
			merged = append(merged, next)
			continue
		}
		if nextHi > curHi {
			cur.Stop = next.Stop
		}
	}
	*s = merged
}

// Contains returns true if the non-zero number q is in the set.
func (s Set) Contains(q uint32) bool {
	if q == 0 {
		return false
	}
	for _, r := range s {
		if r.Contains(q) {
			return true
		}
	}
	return false
}

// Dynamic returns true if the set contains "*" or "n:*".
func (s Set) Dynamic() bool {
	for _, r := range s {
		if r.Stop == 0 {
			return true
		}
	}
	return false
}

// Nums returns all numbers in the set. ok is false if the set is dynamic.
func (s Set) Nums() (nums []uint32, ok bool) {
	if s.Dynamic() {
		return nil, false
	}
	for _, r := range s {
		for n := r.Start; n <= r.Stop; n++ {
			nums = append(nums, n)
			if n == math.MaxUint32 {
				break
			}
		}
	}
	return nums, true
}

// String returns the IMAP representation of the set, e.g. "1:3,7,9:*".
func (s Set) String() string {
	l := make([]string, len(s))
	for i, r := range s {
		l[i] = r.String()
	}
	return strings.Join(l, ",")
}

type errBadNumSet string

func (err errBadNumSet) Error() string {
	return fmt.Sprintf("imapnum: bad number set value %q", string(err))
}

// ParseSet parses a set such as "1:3,7,9:*".
func ParseSet(set string) (Set, error) {
	if set == "" {
		return nil, errBadNumSet(set)
	}
	var s Set
	for _, part := range strings.Split(set, ",") {
		startStr, stopStr, isRange := strings.Cut(part, ":")
		start, err := parseNum(startStr)
		if err != nil {
			return nil, errBadNumSet(set)
		}
		stop := start
		if isRange {
			if stop, err = parseNum(stopStr); err != nil {
				return nil, errBadNumSet(set)
			}
		}
		s.AddRange(start, stop)
	}
	return s, nil
}

func parseNum(s string) (uint32, error) {
	if s == "*" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, errBadNumSet(s)
	}
	return uint32(n), nil
}
