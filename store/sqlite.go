package store

import (
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/symtoe/game"
	"github.com/symtoe/table"
)

const schema = `CREATE TABLE IF NOT EXISTS qvalues (
	state INTEGER NOT NULL,
	action INTEGER NOT NULL,
	total INTEGER NOT NULL,
	visits INTEGER NOT NULL,
	PRIMARY KEY (state, action));`

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return db, nil
}

func saveSQLite(path string, records []record) (err error) {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM qvalues`); err != nil {
		return errors.WithStack(err)
	}
	stmt, err := tx.Prepare(`INSERT INTO qvalues(state, action, total, visits) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.WithStack(err)
	}
	defer stmt.Close()
	for _, r := range records {
		if _, err = stmt.Exec(r.State, r.Action, r.Sum, r.Count); err != nil {
			return errors.Wrapf(err, "inserting (%d, %d)", r.State, r.Action)
		}
	}
	return errors.WithStack(tx.Commit())
}

func loadSQLite(path string) ([]record, error) {
	// opening a missing file would create an empty database
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WithStack(err)
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT state, action, total, visits FROM qvalues ORDER BY state, action`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	records := []record{}
	for rows.Next() {
		var state, action, sum, count int64
		if err = rows.Scan(&state, &action, &sum, &count); err != nil {
			return nil, errors.WithStack(err)
		}
		if state < 0 || state >= game.NumStates || action < 0 || action >= game.Cells {
			return nil, errors.Wrapf(table.ErrInvalidEntry, "row (%d, %d) out of range", state, action)
		}
		records = append(records, record{State: uint16(state), Action: uint8(action), Sum: sum, Count: count})
	}
	return records, errors.WithStack(rows.Err())
}
