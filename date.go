package imap

import (
	"fmt"
	"strings"
	"time"
)

// Date and time layouts.
const (
	// Described in RFC 3501 section 9, "date".
	DateLayout = "2-Jan-2006"
	// Described in RFC 3501 section 9, "date-time". The day is padded with
	// a space.
	DateTimeLayout = "_2-Jan-2006 15:04:05 -0700"
)

// FormatDateTime formats t as an IMAP date-time, e.g. for the INTERNALDATE
// of an APPEND command.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// FormatDate formats t as an IMAP date, e.g. for SINCE search criteria.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateTime parses an IMAP date-time such as an INTERNALDATE.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// Some servers don't pad single-digit days
	for _, layout := range []string{DateTimeLayout, "2-Jan-2006 15:04:05 -0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("imap: date-time %q could not be parsed", s)
}

// ParseDate parses an IMAP date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("imap: date %q could not be parsed", s)
	}
	return t, nil
}
