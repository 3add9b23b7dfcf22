// Package jsonfile implements the record store over plain JSON files, one
// file per record family. Writes go to a temp file in the same directory and
// are renamed into place, so a crash mid-write never leaves a half-written
// store behind.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// timeLayout is the timestamp-string format used across all persisted records.
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Store is the shared root of the jsonfile backend: the data directory plus a
// mutex per file, serializing every load-modify-persist sequence.
type Store struct {
	dir string

	ratesMu      sync.Mutex
	historyMu    sync.Mutex
	usersMu      sync.Mutex
	portfoliosMu sync.Mutex
}

// NewStore creates the data directory if needed and returns a Store rooted in it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readJSON decodes the named file into v. A missing file reports
// os.ErrNotExist; a file that does not decode reports the decode error, and
// callers decide whether that means "empty store" or a real failure.
func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSON atomically replaces the named file with the encoding of v.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path(name))
}

// missingOrCorrupt reports whether a read failure should be treated as an
// empty store: the file does not exist yet, or it does not parse as JSON.
func missingOrCorrupt(err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
