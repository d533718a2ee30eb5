package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// jsonEntry is the backup line format.
type jsonEntry struct {
	Label     string `json:"label"`
	Secret    string `json:"secret"`
	CreatedAt int64  `json:"created_at"`
}

// ReadEntries reads a JSONL backup written by WriteEntries.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var je jsonEntry
		if err := json.Unmarshal(line, &je); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if je.Label == "" {
			return nil, fmt.Errorf("line %d: empty label", lineNum)
		}
		entries = append(entries, Entry{
			Label:     je.Label,
			Secret:    je.Secret,
			CreatedAt: time.Unix(je.CreatedAt, 0),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	return entries, nil
}

// WriteEntries writes entries to a JSONL file readable only by the owner,
// replacing existing content.
func WriteEntries(path string, entries []Entry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, e := range entries {
		je := jsonEntry{Label: e.Label, Secret: e.Secret, CreatedAt: e.CreatedAt.Unix()}
		if err := enc.Encode(je); err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return f.Close()
}

// Restore inserts entries keeping their original created_at. Existing
// labels are replaced. Entries are applied oldest first in one transaction.
func (d *DB) Restore(entries []Entry) (int, error) {
	err := retryOnce(func() error {
		tx, err := d.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO passwords (name, password, created_at) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			if _, err := stmt.Exec(e.Label, e.Secret, e.CreatedAt.Unix()); err != nil {
				return fmt.Errorf("inserting %q: %w", e.Label, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, &StorageError{Op: OpSave, Err: err}
	}
	return len(entries), nil
}
