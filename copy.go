package imap

// CopyData is the data returned by a COPY or MOVE command.
type CopyData struct {
	// requires UIDPLUS
	UIDValidity uint32
	SourceUIDs  UIDSet
	DestUIDs    UIDSet
}
