// Package database provides SQLite persistence for credentials, todos and
// bookings.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"git.sr.ht/~jakintosh/tally/internal/service"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) *SQLiteStore {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v\n", err)
	}

	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		log.Fatalf("failed to init database schema: couldn't enable foreign keys: %v\n", err)
	}

	if err := initSchema(db); err != nil {
		log.Fatalf("failed to init database: %v\n", err)
	}

	return &SQLiteStore{db: db}
}

// Store exposes the SQLiteStore as the service's persistence interface.
func (s *SQLiteStore) Store() service.Store {
	return s
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

func initSchema(db *sql.DB) error {
	if err := initTable(db, "credential", `
		CREATE TABLE IF NOT EXISTS credential (
			id          TEXT PRIMARY KEY,
			email       TEXT NOT NULL UNIQUE,
			hash        TEXT NOT NULL
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "todo", `
		CREATE TABLE IF NOT EXISTS todo (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			created     INTEGER NOT NULL DEFAULT (unixepoch())
		);`,
	); err != nil {
		return err
	}

	if err := initTable(db, "booking", `
		CREATE TABLE IF NOT EXISTS booking (
			id          TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			appointment INTEGER NOT NULL,
			details     TEXT NOT NULL,
			created     INTEGER NOT NULL DEFAULT (unixepoch())
		);`,
	); err != nil {
		return err
	}

	return nil
}

func initTable(
	db *sql.DB,
	name string,
	sql string,
) error {
	if _, err := db.Exec(sql); err != nil {
		return fmt.Errorf("failed to init '%s' table schema: %v", name, err)
	}
	return nil
}

func resultsEmpty(result sql.Result) bool {
	count, err := result.RowsAffected()
	if err != nil {
		return false
	}
	return count == 0
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
