// Package store persists value tables. Files ending in .db, .sqlite or
// .sqlite3 are SQLite databases; anything else is a gob stream.
package store

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/symtoe/symmetry"
	"github.com/symtoe/table"
)

// Format is an on-disk table encoding.
type Format int

const (
	Gob Format = iota
	SQLite
)

func (f Format) String() string {
	switch f {
	case Gob:
		return "gob"
	case SQLite:
		return "sqlite"
	}
	return "UNKNOWN FORMAT"
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SQLite
	}
	return Gob
}

// record is one row of a stored table.
type record struct {
	State  uint16
	Action uint8
	Sum    int64
	Count  int64
}

// Save writes t to path, replacing whatever was there.
func Save(path string, t *table.Table) error {
	if t == nil {
		return errors.New("cannot save a nil table")
	}
	records := toRecords(t)
	switch FormatOf(path) {
	case SQLite:
		return errors.WithMessagef(saveSQLite(path, records), "saving %s", path)
	default:
		return errors.WithMessagef(saveGob(path, records), "saving %s", path)
	}
}

// Load reads a table from path. A table that fails table.Validate is
// rejected with every bad entry listed.
func Load(path string) (*table.Table, error) {
	var (
		records []record
		err     error
	)
	switch FormatOf(path) {
	case SQLite:
		records, err = loadSQLite(path)
	default:
		records, err = loadGob(path)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "loading %s", path)
	}
	t, err := fromRecords(records)
	return t, errors.WithMessagef(err, "loading %s", path)
}

func toRecords(t *table.Table) []record {
	entries := t.Entries()
	records := make([]record, 0, len(entries))
	for _, k := range t.Keys() {
		e := entries[k]
		records = append(records, record{State: k.State, Action: k.Action, Sum: e.Sum, Count: e.Count})
	}
	return records
}

func fromRecords(records []record) (*table.Table, error) {
	if records == nil {
		records = []record{}
	}
	m := make(map[symmetry.Key]table.Entry, len(records))
	for _, r := range records {
		k := symmetry.Key{State: r.State, Action: r.Action}
		if _, dup := m[k]; dup {
			return nil, errors.Wrapf(table.ErrInvalidEntry, "duplicate key %v", k)
		}
		m[k] = table.Entry{Sum: r.Sum, Count: r.Count}
	}
	return table.FromEntries(m)
}
