// Package table holds the learned value table: for every canonical
// state-action key, the sum of terminal rewards it received and the number
// of times it was taken.
package table

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/symtoe/game"
	"github.com/symtoe/symmetry"
)

// ErrInvalidEntry marks a table that does not have the expected shape.
var ErrInvalidEntry = errors.New("invalid table entry")

// Entry accumulates terminal rewards for one key.
type Entry struct {
	Sum   int64 `json:"sum"`
	Count int64 `json:"count"`
}

// Average is Sum/Count, or 0 for a key never taken. It is for display;
// use CompareAverage to rank entries.
func (e Entry) Average() float32 {
	if e.Count <= 0 {
		return 0
	}
	return float32(e.Sum) / float32(e.Count)
}

// CompareAverage orders e and o by exact average reward, returning -1, 0
// or +1. A key never taken averages 0. The averages are cross-multiplied,
// so counts must stay below 3e9.
func (e Entry) CompareAverage(o Entry) int {
	return cmp.Compare(e.Sum*max(o.Count, 1), o.Sum*max(e.Count, 1))
}

// Valid reports whether 0 <= Count and |Sum| <= Count.
func (e Entry) Valid() bool {
	return e.Count >= 0 && e.Sum <= e.Count && -e.Sum <= e.Count
}

func (e Entry) add(o Entry) Entry {
	return Entry{Sum: e.Sum + o.Sum, Count: e.Count + o.Count}
}

// Reader is anything that can look up entries.
type Reader interface {
	// Lookup returns the entry for k, and false if k was never recorded.
	Lookup(k symmetry.Key) (Entry, bool)
}

// Table is the mutable value table. It is not safe for concurrent writes;
// concurrent readers are fine while nobody records.
type Table struct {
	entries map[symmetry.Key]Entry
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make(map[symmetry.Key]Entry)}
}

// FromEntries builds a table from a plain mapping, as loaded from storage.
// Every malformed entry is reported.
func FromEntries(m map[symmetry.Key]Entry) (*Table, error) {
	if m == nil {
		return nil, errors.Wrap(ErrInvalidEntry, "table is not a mapping")
	}
	t := &Table{entries: make(map[symmetry.Key]Entry, len(m))}
	for k, e := range m {
		t.entries[k] = e
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Lookup implements Reader. A nil table has no entries.
func (t *Table) Lookup(k symmetry.Key) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[k]
	return e, ok
}

// Record adds one terminal reward to the key's sum and increments its count.
func (t *Table) Record(k symmetry.Key, reward int) {
	e := t.entries[k]
	e.Sum += int64(reward)
	e.Count++
	t.entries[k] = e
}

// Merge accumulates every entry of other into t.
func (t *Table) Merge(other *Table) {
	for k, e := range other.entries {
		t.entries[k] = t.entries[k].add(e)
	}
}

// Len is the number of distinct keys.
func (t *Table) Len() int { return len(t.entries) }

// Totals sums every entry.
func (t *Table) Totals() Entry {
	var total Entry
	for _, e := range t.entries {
		total = total.add(e)
	}
	return total
}

// Entries returns a copy of the underlying mapping.
func (t *Table) Entries() map[symmetry.Key]Entry {
	m := make(map[symmetry.Key]Entry, len(t.entries))
	for k, e := range t.entries {
		m[k] = e
	}
	return m
}

// Keys returns every key in ascending order.
func (t *Table) Keys() []symmetry.Key {
	keys := make([]symmetry.Key, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Best returns the key with the highest average, the smallest key on ties,
// and that average. An empty table reports -Inf.
func (t *Table) Best() (symmetry.Key, float32) {
	var (
		bestKey symmetry.Key
		best    Entry
		found   bool
	)
	for _, k := range t.Keys() {
		if e := t.entries[k]; !found || e.CompareAverage(best) > 0 {
			bestKey, best, found = k, e, true
		}
	}
	if !found {
		return bestKey, math32.Inf(-1)
	}
	return bestKey, best.Average()
}

// Validate checks that every key is a canonical pair playing onto an empty
// cell and that every entry satisfies |Sum| <= Count.
func (t *Table) Validate() error {
	var errs error
	for _, k := range t.Keys() {
		if err := validateKey(k); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if e := t.entries[k]; !e.Valid() {
			errs = multierror.Append(errs, errors.Wrapf(ErrInvalidEntry, "key %v: sum %d, count %d", k, e.Sum, e.Count))
		}
	}
	return errs
}

func validateKey(k symmetry.Key) error {
	b, err := game.FromID(k.State)
	if err != nil || int(k.Action) >= game.Cells {
		return errors.Wrapf(ErrInvalidEntry, "key %v out of range", k)
	}
	if row, col := game.Coords(int(k.Action)); !b.IsLegalMove(row, col) {
		return errors.Wrapf(ErrInvalidEntry, "key %v plays onto an occupied cell", k)
	}
	if c := symmetry.Canonicalize(k.State, int(k.Action)); c != k {
		return errors.Wrapf(ErrInvalidEntry, "key %v is not canonical (want %v)", k, c)
	}
	return nil
}

func (t *Table) String() string {
	total := t.Totals()
	return fmt.Sprintf("Table{keys: %d, visits: %d, reward: %d}", t.Len(), total.Count, total.Sum)
}
