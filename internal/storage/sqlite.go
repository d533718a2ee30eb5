// Package storage persists labelled passwords in an embedded SQLite file.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// BusyTimeout is how long a connection waits on a lock held by another
// alfpass process before SQLite reports SQLITE_BUSY.
const BusyTimeout = 2 * time.Second

// ErrNotFound is returned when no entry exists for a label.
var ErrNotFound = errors.New("password not found")

// Entry is one saved credential.
type Entry struct {
	Label     string
	Secret    string
	CreatedAt time.Time
}

// DB wraps the SQLite database holding the passwords table.
type DB struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithClock overrides the clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(d *DB) {
		d.now = now
	}
}

// Open opens or creates the database at path and ensures the schema exists.
// The parent directory is created when missing.
func Open(path string, opts ...Option) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &StorageError{Op: OpInit, Err: fmt.Errorf("creating database directory: %w", err)}
	}

	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, &StorageError{Op: OpInit, Err: fmt.Errorf("opening database: %w", err)}
	}

	// SQLite doesn't support concurrent writes
	sqlDB.SetMaxOpenConns(1)

	d := &DB{db: sqlDB, path: path, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.Init(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// dsn builds the driver URI for path. The path is made absolute and escaped
// so '#', '?' and '%' in directory names reach SQLite unchanged.
func dsn(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{
		Scheme:   "file",
		Path:     p,
		RawQuery: fmt.Sprintf("_pragma=busy_timeout(%d)", BusyTimeout.Milliseconds()),
	}
	return u.String()
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the file the database was opened from.
func (d *DB) Path() string {
	return d.path
}

// Init creates the passwords table if it doesn't exist. It is safe to call
// on every invocation.
func (d *DB) Init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS passwords (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE,
			password TEXT,
			created_at TIMESTAMP
		);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return &StorageError{Op: OpInit, Err: fmt.Errorf("creating schema: %w", err)}
	}
	return nil
}

// Save inserts or replaces the secret for label and stamps created_at with
// the current time. Replacing an existing label is not an error.
func (d *DB) Save(label, secret string) error {
	err := retryOnce(func() error {
		_, err := d.db.Exec(
			`INSERT OR REPLACE INTO passwords (name, password, created_at) VALUES (?, ?, ?)`,
			label, secret, d.now().Unix(),
		)
		return err
	})
	if err != nil {
		return &StorageError{Op: OpSave, Err: err}
	}
	return nil
}

// Get returns the secret stored under exactly label, or ErrNotFound.
func (d *DB) Get(label string) (string, error) {
	var secret sql.NullString
	err := d.db.QueryRow(`SELECT password FROM passwords WHERE name = ?`, label).Scan(&secret)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &StorageError{Op: OpGet, Err: err}
	}
	return secret.String, nil
}

// Find looks label up case-insensitively. An exact match wins over a
// case-folded one. The stored label is returned alongside the secret.
func (d *DB) Find(label string) (string, string, error) {
	secret, err := d.Get(label)
	if err == nil {
		return label, secret, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", "", err
	}

	var name string
	var pwd sql.NullString
	err = d.db.QueryRow(`
		SELECT name, password FROM passwords
		WHERE name = ? COLLATE NOCASE
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, label).Scan(&name, &pwd)
	if err == sql.ErrNoRows {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", &StorageError{Op: OpGet, Err: err}
	}
	return name, pwd.String, nil
}

// List returns all labels, most recently created or updated first.
func (d *DB) List() ([]string, error) {
	rows, err := d.db.Query(`SELECT name FROM passwords ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, &StorageError{Op: OpList, Err: err}
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &StorageError{Op: OpList, Err: fmt.Errorf("scanning row: %w", err)}
		}
		labels = append(labels, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: OpList, Err: err}
	}
	return labels, nil
}

// Entries returns every entry in List order.
func (d *DB) Entries() ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT name, password, created_at FROM passwords
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, &StorageError{Op: OpList, Err: err}
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			name    string
			secret  sql.NullString
			created int64
		)
		if err := rows.Scan(&name, &secret, &created); err != nil {
			return nil, &StorageError{Op: OpList, Err: fmt.Errorf("scanning row: %w", err)}
		}
		entries = append(entries, Entry{
			Label:     name,
			Secret:    secret.String,
			CreatedAt: time.Unix(created, 0),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: OpList, Err: err}
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (d *DB) Count() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM passwords`).Scan(&count); err != nil {
		return 0, &StorageError{Op: OpList, Err: err}
	}
	return count, nil
}

// Delete removes label. It reports whether a row was removed.
func (d *DB) Delete(label string) (bool, error) {
	var affected int64
	err := retryOnce(func() error {
		res, err := d.db.Exec(`DELETE FROM passwords WHERE name = ?`, label)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, &StorageError{Op: OpDelete, Err: err}
	}
	return affected > 0, nil
}

// Clear removes every entry and returns how many there were.
func (d *DB) Clear() (int, error) {
	var count int
	err := retryOnce(func() error {
		tx, err := d.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := tx.QueryRow(`SELECT COUNT(*) FROM passwords`).Scan(&count); err != nil {
			return fmt.Errorf("counting rows: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM passwords`); err != nil {
			return fmt.Errorf("deleting rows: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, &StorageError{Op: OpClear, Err: err}
	}
	return count, nil
}
