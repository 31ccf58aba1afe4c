package imap

import (
	"testing"
	"time"
)

var expectedDateTime = time.Date(2009, time.November, 2, 23, 0, 0, 0, time.FixedZone("", -6*60*60))

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{" 2-Nov-2009 23:00:00 -0600", true},
		{"02-Nov-2009 23:00:00 -0600", true},
		{"2-Nov-2009 23:00:00 -0600", true},
		{"2 Nov 2009 23:00 -0600", false},
		{"", false},
	}
	for _, tc := range tests {
		out, err := ParseDateTime(tc.in)
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseDateTime(%q) = %v, want an error", tc.in, out)
			}
		} else if err != nil {
			t.Errorf("ParseDateTime(%q) = %v", tc.in, err)
		} else if !out.Equal(expectedDateTime) {
			t.Errorf("ParseDateTime(%q) = %v, want %v", tc.in, out, expectedDateTime)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	if s := FormatDateTime(expectedDateTime); s != " 2-Nov-2009 23:00:00 -0600" {
		t.Errorf("FormatDateTime() = %q", s)
	}
	if s := FormatDate(expectedDateTime); s != "2-Nov-2009" {
		t.Errorf("FormatDate() = %q", s)
	}

	d, err := ParseDate("2-Nov-2009")
	if err != nil || d.Day() != 2 || d.Month() != time.November {
		t.Errorf("ParseDate() = %v, %v", d, err)
	}
}
