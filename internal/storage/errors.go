package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Storage operations named in StorageError.
const (
	OpInit   = "init"
	OpSave   = "save"
	OpGet    = "get"
	OpList   = "list"
	OpDelete = "delete"
	OpClear  = "clear"
)

// retryDelay is the pause before the single retry of a locked write.
var retryDelay = 100 * time.Millisecond

// StorageError reports a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsInitError reports whether err came from opening or creating the schema.
func IsInitError(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Op == OpInit
}

// isBusy reports whether err means another process holds the database lock.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return strings.Contains(err.Error(), "database is locked")
}

// retryOnce runs fn and, if it fails because the database is locked,
// runs it exactly one more time.
func retryOnce(fn func() error) error {
	err := fn()
	if !isBusy(err) {
		return err
	}
	time.Sleep(retryDelay)
	return fn()
}
