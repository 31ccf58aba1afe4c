package imap

// StatusItem is a data item which can be requested by a STATUS command.
type StatusItem string

const (
	StatusItemNumMessages StatusItem = "MESSAGES"
	StatusItemNumRecent   StatusItem = "RECENT"
	StatusItemUIDNext     StatusItem = "UIDNEXT"
	StatusItemUIDValidity StatusItem = "UIDVALIDITY"
	StatusItemNumUnseen   StatusItem = "UNSEEN"
)

// StatusData is the data returned by a STATUS command.
//
// Items maps the upper-cased item names returned by the server to their
// values.
type StatusData struct {
	Mailbox string
	Items   map[StatusItem]int64
}

func (data *StatusData) item(name StatusItem) (uint32, bool) {
	v, ok := data.Items[name]
	return uint32(v), ok
}

// NumMessages returns the MESSAGES item.
func (data *StatusData) NumMessages() (uint32, bool) {
	return data.item(StatusItemNumMessages)
}

// UIDNext returns the UIDNEXT item.
func (data *StatusData) UIDNext() (UID, bool) {
	v, ok := data.item(StatusItemUIDNext)
	return UID(v), ok
}

// UIDValidity returns the UIDVALIDITY item.
func (data *StatusData) UIDValidity() (uint32, bool) {
	return data.item(StatusItemUIDValidity)
}

// NumUnseen returns the UNSEEN item.
func (data *StatusData) NumUnseen() (uint32, bool) {
	return data.item(StatusItemNumUnseen)
}
