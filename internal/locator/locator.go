// Package locator scans a directory for files whose extension-stripped name
// matches per-row identifiers in a tabular dataset and records the discovered
// absolute paths back into the table.
package locator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"pathbridge/internal/logging"
	"pathbridge/internal/table"
	"pathbridge/internal/types"
)

// IdentifierColumn is the column whose per-row value drives filename pattern
// construction.
const IdentifierColumn = "test_idx"

// Options tunes LocateAdvanced.
type Options struct {
	// Extensions restricts matches to these extensions and, when non-empty,
	// also sets the selection priority: the first extension in the list that
	// has a matching file wins. Entries are normalized to lower case with a
	// leading dot, so "csv" and ".CSV" both mean ".csv".
	Extensions []string

	// CreateColumn auto-creates the target column (all cells absent) when it
	// does not exist. When false a missing target column is an error.
	CreateColumn bool
}

// Locator finds files for table rows. Zero-value construction via New.
type Locator struct {
	log *zap.Logger
}

// New returns a locator logging under the locator subsystem.
func New() *Locator {
	return &Locator{log: logging.Named(logging.CategoryLocator)}
}

// Locate fills targetColumn for each row whose identifier matches a file
// under dir named prefix+identifier (extension-stripped name must equal the
// pattern exactly). Among several matches the first one in directory
// enumeration order wins; that order is not sorted or otherwise specified.
// Rows with no match keep their current cell value. The table is mutated in
// place and returned.
//
// The identifier column and targetColumn must already exist, and dir must be
// an existing directory; violations return ErrMissingColumn, ErrNotFound, or
// ErrNotADirectory.
func (l *Locator) Locate(t *table.Table, targetColumn, dir, prefix string) (*table.Table, error) {
	if !t.HasColumn(IdentifierColumn) {
		return nil, fmt.Errorf("locator: column %q: %w", IdentifierColumn, types.ErrMissingColumn)
	}
	if !t.HasColumn(targetColumn) {
		return nil, fmt.Errorf("locator: column %q: %w", targetColumn, types.ErrMissingColumn)
	}
	absDir, entries, err := readSearchDir(dir)
	if err != nil {
		return nil, err
	}

	for row := 0; row < t.NumRows(); row++ {
		id, ok := identifier(t, row)
		if !ok {
			l.log.Debug("row has no identifier", zap.Int("row", row))
			continue
		}
		pattern := prefix + id
		selected := ""
		for _, name := range entries {
			if stem(name) == pattern {
				selected = name
				break
			}
		}
		if selected == "" {
			l.log.Info("no matching file", zap.String("test_idx", id), zap.String("pattern", pattern))
			continue
		}
		path := filepath.Join(absDir, selected)
		if err := t.SetCell(row, targetColumn, path); err != nil {
			return nil, fmt.Errorf("locator: %w", err)
		}
		l.log.Info("file found", zap.String("test_idx", id), zap.String("path", path))
	}
	return t, nil
}

// LocateAdvanced is Locate with extension filtering, deterministic selection,
// and optional target-column creation. With an extension list, selection
// walks the list in its given order and picks the first matching file
// carrying that extension; without one, matches sort by name and the
// lexicographically first wins. It returns the table and the number of rows
// updated.
func (l *Locator) LocateAdvanced(t *table.Table, targetColumn, dir, prefix string, opts Options) (*table.Table, int, error) {
	if !t.HasColumn(IdentifierColumn) {
		return nil, 0, fmt.Errorf("locator: column %q: %w", IdentifierColumn, types.ErrMissingColumn)
	}
	if !t.HasColumn(targetColumn) {
		if !opts.CreateColumn {
			return nil, 0, fmt.Errorf("locator: column %q: %w", targetColumn, types.ErrMissingColumn)
		}
		t.AddColumn(targetColumn)
		l.log.Info("created target column", zap.String("column", targetColumn))
	}
	absDir, entries, err := readSearchDir(dir)
	if err != nil {
		return nil, 0, err
	}

	exts := normalizeExtensions(opts.Extensions)
	updated := 0
	for row := 0; row < t.NumRows(); row++ {
		id, ok := identifier(t, row)
		if !ok {
			l.log.Debug("row has no identifier", zap.Int("row", row))
			continue
		}
		pattern := prefix + id

		var matches []string
		for _, name := range entries {
			if stem(name) != pattern {
				continue
			}
			if len(exts) > 0 && !containsString(exts, strings.ToLower(filepath.Ext(name))) {
				continue
			}
			matches = append(matches, name)
		}
		if len(matches) == 0 {
			l.log.Info("no matching file", zap.String("test_idx", id), zap.String("pattern", pattern))
			continue
		}

		selected := selectMatch(matches, exts)
		path := filepath.Join(absDir, selected)
		if err := t.SetCell(row, targetColumn, path); err != nil {
			return nil, updated, fmt.Errorf("locator: %w", err)
		}
		updated++
		l.log.Info("file found", zap.String("test_idx", id), zap.String("file", selected))
	}
	l.log.Info("locate finished", zap.Int("updated_rows", updated))
	return t, updated, nil
}

// selectMatch applies the selection policy: extension-priority order when an
// extension list was given, otherwise lexicographic by name.
func selectMatch(matches, exts []string) string {
	if len(exts) == 0 {
		sorted := append([]string(nil), matches...)
		sort.Strings(sorted)
		return sorted[0]
	}
	for _, ext := range exts {
		for _, name := range matches {
			if strings.ToLower(filepath.Ext(name)) == ext {
				return name
			}
		}
	}
	return matches[0]
}

// readSearchDir validates dir and returns its absolute path plus the names of
// its regular files in enumeration order.
func readSearchDir(dir string) (string, []string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("locator: directory %s: %w", dir, types.ErrNotFound)
		}
		return "", nil, fmt.Errorf("locator: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("locator: %s: %w", dir, types.ErrNotADirectory)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("locator: resolving %s: %w", dir, err)
	}
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, fmt.Errorf("locator: listing %s: %w", dir, err)
	}
	var names []string
	for _, e := range dirents {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return absDir, names, nil
}

func identifier(t *table.Table, row int) (string, bool) {
	cell, err := t.Cell(row, IdentifierColumn)
	if err != nil || !cell.Valid {
		return "", false
	}
	return cell.Value, true
}

// stem strips the final extension from a file name.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// normalizeExtensions lower-cases each entry and ensures a leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func containsString(s []string, v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}
