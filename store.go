package imap

// StoreFlagsOp is a flag operation: set, add or delete.
type StoreFlagsOp int

const (
	StoreFlagsSet StoreFlagsOp = iota
	StoreFlagsAdd
	StoreFlagsDel
)

// StoreFlags alters message flags.
type StoreFlags struct {
	Op     StoreFlagsOp
	Silent bool
	Flags  []Flag
}

// Item returns the STORE data item name, e.g. "+FLAGS.SILENT".
func (f *StoreFlags) Item() string {
	var item string
	switch f.Op {
	case StoreFlagsAdd:
		item = "+FLAGS"
	case StoreFlagsDel:
		item = "-FLAGS"
	default:
		item = "FLAGS"
	}
	if f.Silent {
		item += ".SILENT"
	}
	return item
}
