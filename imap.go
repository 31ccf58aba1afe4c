// Package imap implements the protocol engine of an IMAP4rev1 client.
//
// IMAP4rev1 is defined in RFC 3501.
//
// This package contains the response model produced by the parser (data
// nodes and responses), the command builder and the error taxonomy shared by
// the imapclient and imapwatch packages.
package imap

// ConnState describes the connection state.
//
// See RFC 3501 section 3.
type ConnState int

const (
	ConnStateDisconnected ConnState = iota
	ConnStateConnected
	ConnStateAuthenticated
	ConnStateSelected
)

// String implements fmt.Stringer.
func (state ConnState) String() string {
	switch state {
	case ConnStateDisconnected:
		return "disconnected"
	case ConnStateConnected:
		return "connected"
	case ConnStateAuthenticated:
		return "authenticated"
	case ConnStateSelected:
		return "selected"
	default:
		panic("imap: unknown connection state")
	}
}

// MailboxAttr is a mailbox attribute.
//
// Mailbox attributes are defined in RFC 3501 section 7.2.2 and RFC 6154.
type MailboxAttr string

const (
	// Base attributes
	MailboxAttrNonExistent   MailboxAttr = "\\NonExistent"
	MailboxAttrNoInferiors   MailboxAttr = "\\Noinferiors"
	MailboxAttrNoSelect      MailboxAttr = "\\Noselect"
	MailboxAttrHasChildren   MailboxAttr = "\\HasChildren"
	MailboxAttrHasNoChildren MailboxAttr = "\\HasNoChildren"
	MailboxAttrMarked        MailboxAttr = "\\Marked"
	MailboxAttrUnmarked      MailboxAttr = "\\Unmarked"
	MailboxAttrSubscribed    MailboxAttr = "\\Subscribed"

	// Role (aka. "special-use") attributes
	MailboxAttrAll     MailboxAttr = "\\All"
	MailboxAttrArchive MailboxAttr = "\\Archive"
	MailboxAttrDrafts  MailboxAttr = "\\Drafts"
	MailboxAttrFlagged MailboxAttr = "\\Flagged"
	MailboxAttrJunk    MailboxAttr = "\\Junk"
	MailboxAttrSent    MailboxAttr = "\\Sent"
	MailboxAttrTrash   MailboxAttr = "\\Trash"
)

// Flag is a message flag.
//
// Message flags are defined in RFC 3501 section 2.3.2.
type Flag string

const (
	// System flags
	FlagSeen     Flag = "\\Seen"
	FlagAnswered Flag = "\\Answered"
	FlagFlagged  Flag = "\\Flagged"
	FlagDeleted  Flag = "\\Deleted"
	FlagDraft    Flag = "\\Draft"
	FlagRecent   Flag = "\\Recent"

	// Widely used flags
	FlagForwarded Flag = "$Forwarded"
	FlagMDNSent   Flag = "$MDNSent" // Message Disposition Notification sent
	FlagJunk      Flag = "$Junk"
	FlagNotJunk   Flag = "$NotJunk"
	FlagPhishing  Flag = "$Phishing"
	FlagImportant Flag = "$Important" // RFC 8457

	// Permanent flags
	FlagWildcard Flag = "\\*"
)

// UID is a message unique identifier.
type UID uint32
