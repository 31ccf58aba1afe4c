package imapnum

import (
	"reflect"
	"testing"
)

func TestSet_String(t *testing.T) {
	tests := []struct {
		add  func(s *Set)
		want string
	}{
		{func(s *Set) { s.AddNum(3, 1, 2) }, "1:3"},
		{func(s *Set) { s.AddNum(1, 3, 5) }, "1,3,5"},
		{func(s *Set) { s.AddRange(9, 4); s.AddNum(2) }, "2,4:9"},
		{func(s *Set) { s.AddRange(5, 0); s.AddNum(4) }, "4:*"},
		{func(s *Set) { s.AddNum(0); s.AddRange(2, 3) }, "2:3,*"},
		{func(s *Set) { s.AddRange(0, 7) }, "7:*"},
		{func(s *Set) { s.AddRange(1, 10); s.AddRange(3, 4) }, "1:10"},
	}
	for _, tc := range tests {
		var s Set
		tc.add(&s)
		if got := s.String(); got != tc.want {
			t.Errorf("String() = %v, want %v", got, tc.want)
		}
	}
}

func TestSet_Contains(t *testing.T) {
	s, err := ParseSet("2:4,10:*")
	if err != nil {
		t.Fatalf("ParseSet() = %v", err)
	}
	for q, want := range map[uint32]bool{
		0:   false,
		1:   false,
		2:   true,
		4:   true,
		5:   false,
		10:  true,
		999: true,
	} {
		if got := s.Contains(q); got != want {
			t.Errorf("Contains(%v) = %v, want %v", q, got, want)
		}
	}
	if !s.Dynamic() {
		t.Errorf("Dynamic() = false, want true")
	}
	if _, ok := s.Nums(); ok {
		t.Errorf("Nums() succeeded on a dynamic set")
	}
}

func TestParseSet(t *testing.T) {
	s, err := ParseSet("7,1:3,*")
	if err != nil {
		t.Fatalf("ParseSet() = %v", err)
	}
	if got := s.String(); got != "1:3,7,*" {
		t.Errorf("String() = %v, want %v", got, "1:3,7,*")
	}

	s, err = ParseSet("5,1:2")
	if err != nil {
		t.Fatalf("ParseSet() = %v", err)
	}
	nums, ok := s.Nums()
	if want := []uint32{1, 2, 5}; !ok || !reflect.DeepEqual(nums, want) {
		t.Errorf("Nums() = %v, %v, want %v, true", nums, ok, want)
	}

	for _, bad := range []string{"", "0", "1:", "a", "1,,2", "4294967296"} {
		if _, err := ParseSet(bad); err == nil {
			t.Errorf("ParseSet(%q) succeeded", bad)
		}
	}
}
