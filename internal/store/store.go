// Package store persists the single status record shared by the writer and
// the display. The two sides are independent processes; the only contract
// between them is this file and its atomic-replace semantics.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glimlab/glim/internal/logging"
	"github.com/glimlab/glim/internal/presence"
)

var storeLog = logging.ForComponent(logging.CompStore)

// StateFileName is the status record slot inside the data directory.
const StateFileName = "state.json"

// ErrCorrupt reports an unreadable or malformed status record. Readers
// recover by substituting the bootstrap default; they never crash on it.
var ErrCorrupt = errors.New("status record corrupt")

// Store reads and writes the single status record slot.
type Store struct {
	path string
}

// New returns a store rooted at the given data directory.
func New(dir string) *Store {
	return &Store{path: filepath.Join(dir, StateFileName)}
}

// Path returns the full path of the record file.
func (s *Store) Path() string {
	return s.path
}

// Write atomically replaces the status record. The record lands in a
// uniquely named temp file in the same directory, is fsynced, then renamed
// over the slot, so a concurrent reader sees either the old record or the
// new one, never a blend. Racing writers resolve by last rename wins.
// A zero UpdatedAt is stamped with the current time.
func (s *Store) Write(rec presence.Record) error {
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = time.Now().Unix()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	tmp, err := os.CreateTemp(dir, StateFileName+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod temp record: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}

	storeLog.Debug("record_written",
		slog.String("state", string(rec.State)),
		slog.String("message", rec.Message),
		slog.Int64("updated", rec.UpdatedAt),
	)
	return nil
}

// Read returns the most recently written record.
// A missing file reports fs.ErrNotExist (no write has ever happened);
// garbage or an unrecognized persisted state reports ErrCorrupt. Callers
// map both to the bootstrap default.
func (s *Store) Read() (presence.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return presence.Record{}, fmt.Errorf("read record: %w", err)
		}
		return presence.Record{}, fmt.Errorf("read record %s: %w", s.path, err)
	}

	var rec presence.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return presence.Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !rec.State.IsValid() {
		return presence.Record{}, fmt.Errorf("%w: unknown state %q", ErrCorrupt, rec.State)
	}
	return rec, nil
}
