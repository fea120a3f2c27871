// Package export writes pipeline tables to CSV. Every write replaces the
// target file in a single rename so readers never see a partial file.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/futplot/futplot-data/internal/stats"
)

// WriteCSV overwrites path with t, header row first.
func WriteCSV(path string, t stats.Table) error {
	header := t.Header()
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(header); err != nil {
			return err
		}
		row := make([]string, len(header))
		for _, r := range t.Rows {
			for i, col := range header {
				row[i] = r.Cell(col)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WritePlayersCSV overwrites path with Understat rows in players-table
// column order.
func WritePlayersCSV(path string, rows []stats.DerivedPlayer) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(stats.PlayerColumns); err != nil {
			return err
		}
		for _, r := range rows {
			if err := w.Write(r.Strings()); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAtomic(path string, fill func(*csv.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp opens 0600; keep the target's mode or fall back to 0644.
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	w := csv.NewWriter(tmp)
	if err := fill(w); err != nil {
		tmp.Close()
		return fmt.Errorf("csv write: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("csv flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
