package db

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// querier is satisfied by both *sql.DB and *sql.Tx so every store method can
// run standalone or inside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store exposes the entity operations. A Store obtained from DB.Store runs
// each call in its own implicit transaction; one obtained inside InTx shares
// the surrounding transaction.
type Store struct {
	q querier
}

// Store returns a Store bound to the raw connection.
func (db *DB) Store() *Store {
	return &Store{q: db.DB}
}

// InTx runs fn inside a single transaction. The transaction is rolled back
// if fn returns an error and committed otherwise, so a mutation and the
// aggregate recompute it triggers are visible together or not at all.
func (db *DB) InTx(fn func(s *Store) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(&Store{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation reports whether err is a SQLite unique constraint
// failure, e.g. a second open time entry hitting the partial unique index.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// IsBusy reports whether err is a transient SQLITE_BUSY/LOCKED failure that
// an idempotent read may retry.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}
