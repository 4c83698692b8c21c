package table

import "github.com/symtoe/symmetry"

// Overlay reads Base with Delta's accumulations added on top. A self-play
// worker records into its own Delta while Base stays frozen; the deltas are
// merged back once every worker is done.
type Overlay struct {
	Base  Reader
	Delta *Table
}

// Lookup implements Reader.
func (o Overlay) Lookup(k symmetry.Key) (Entry, bool) {
	var e Entry
	var found bool
	if o.Base != nil {
		if b, ok := o.Base.Lookup(k); ok {
			e, found = b, true
		}
	}
	if o.Delta != nil {
		if d, ok := o.Delta.Lookup(k); ok {
			e, found = e.add(d), true
		}
	}
	return e, found
}
