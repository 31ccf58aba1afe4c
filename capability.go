package imap

import (
	"strings"
)

// ParseCapabilities builds a capability set from the data nodes of a
// CAPABILITY response or response code.
func ParseCapabilities(data []Data) CapSet {
	caps := make(CapSet, len(data))
	for _, d := range data {
		if s, ok := AsString(d); ok {
			caps[Cap(strings.ToUpper(s))] = struct{}{}
		}
	}
	return caps
}

// Cap represents an IMAP capability.
type Cap string

// Capabilities checked by the client.
//
// See: https://www.iana.org/assignments/imap-capabilities/
const (
	CapIMAP4rev1 Cap = "IMAP4rev1" // RFC 3501
	CapIMAP4rev2 Cap = "IMAP4rev2" // RFC 9051

	CapStartTLS Cap = "STARTTLS"
	CapSASLIR   Cap = "SASL-IR" // RFC 4959
	CapIdle     Cap = "IDLE"    // RFC 2177
	CapMove     Cap = "MOVE"    // RFC 6851
	CapUIDPlus  Cap = "UIDPLUS" // RFC 4315
)

// Folded in IMAP4rev2
var imap4rev2Caps = CapSet{
	CapSASLIR:  {},
	CapIdle:    {},
	CapMove:    {},
	CapUIDPlus: {},
}

// AuthCap returns the capability name for an SASL authentication mechanism.
func AuthCap(mechanism string) Cap {
	return Cap("AUTH=" + strings.ToUpper(mechanism))
}

// CapSet is a set of capabilities.
type CapSet map[Cap]struct{}

func (set CapSet) has(c Cap) bool {
	_, ok := set[Cap(strings.ToUpper(string(c)))]
	return ok
}

// Has checks whether a capability is supported. Capabilities folded in
// IMAP4rev2 are implied by it.
func (set CapSet) Has(c Cap) bool {
	if set.has(c) {
		return true
	}
	return set.has(CapIMAP4rev2) && imap4rev2Caps.has(c)
}
