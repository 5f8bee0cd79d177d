// Package export writes team users to a CSV file.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oncallops/opteam/internal/team"
)

// Header is the fixed CSV column set.
var Header = []string{"ID", "Email", "Name", "State"}

// WriteCSV exports users to path and returns the number of data rows
// written. An empty user list writes nothing at all: no file is created and
// an existing file at path is left untouched.
func WriteCSV(path string, users []team.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}

	// Atomic write: build the file next to the target, then rename.
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	w := csv.NewWriter(f)
	writeErr := w.Write(Header)
	if writeErr == nil {
		for _, u := range users {
			if writeErr = w.Write([]string{u.ID, u.Email, u.Name, u.State}); writeErr != nil {
				break
			}
		}
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if writeErr == nil {
		writeErr = f.Sync()
	}

	if err := f.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write csv: %w", writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("rename temp file: %w", err)
	}

	return len(users), nil
}
