// Package export writes mining results as CSV tables and plain-text rule lists.
//
// File names:
//
//   - k<k>.csv for a general level: columns cat1,id1,...,catk,idk (no positions).
//   - "<2006-01-02 15:04:05>.csv" for an emergent snapshot: columns
//     new_cat,new_id,new_pos,old_cat,old_id,old_pos with WKT positions.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/katalvlaran/colomine/emergent"
)

// SnapshotLayout formats the bucket time in snapshot file names.
const SnapshotLayout = "2006-01-02 15:04:05"

// LevelPath returns the file WriteLevel writes for level k.
func LevelPath(dir string, k int) string {
	return filepath.Join(dir, "k"+strconv.Itoa(k)+".csv")
}

// SnapshotPath returns the file WriteSnapshot writes for s.
func SnapshotPath(dir string, s emergent.Snapshot) string {
	return filepath.Join(dir, s.Time.UTC().Format(SnapshotLayout)+".csv")
}

// WriteLevel writes the table instance of lvl to LevelPath(dir, lvl.K).
func WriteLevel(dir string, lvl colocation.Level) (string, error) {
	path := LevelPath(dir, lvl.K)
	err := writeFile(path, func(w io.Writer) error {
		return LevelCSV(w, lvl.Table)
	})

	return path, err
}

// LevelCSV streams t as CSV.
func LevelCSV(w io.Writer, t colocation.TableInstance) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, 2*t.K)
	for i := 1; i <= t.K; i++ {
		n := strconv.Itoa(i)
		header = append(header, "cat"+n, "id"+n)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, 0, 2*t.K)
	for _, row := range t.Rows {
		rec = rec[:0]
		for _, x := range row {
			rec = append(rec, x.Category, x.ID)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteSnapshot writes s to SnapshotPath(dir, s).
func WriteSnapshot(dir string, s emergent.Snapshot) (string, error) {
	path := SnapshotPath(dir, s)
	err := writeFile(path, func(w io.Writer) error {
		return SnapshotCSV(w, s)
	})

	return path, err
}

// SnapshotCSV streams the matches of s as CSV.
func SnapshotCSV(w io.Writer, s emergent.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"new_cat", "new_id", "new_pos", "old_cat", "old_id", "old_pos"}); err != nil {
		return err
	}
	for _, m := range s.Matches {
		err := cw.Write([]string{
			m.New.Category, m.New.ID, m.New.Pos.String(),
			m.Old.Category, m.Old.ID, m.Old.Pos.String(),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteRules prints one rule per line.
func WriteRules[R fmt.Stringer](w io.Writer, rules []R) error {
	for _, r := range rules {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}

	return nil
}

// writeFile creates dir if needed and writes path through fill. A failed
// write leaves no partial file behind.
func writeFile(path string, fill func(io.Writer) error) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: closing %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	if err = fill(f); err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}

	return nil
}
