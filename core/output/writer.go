// Package output handles file naming and writing for guide exports.
// Filenames are derived from the page name (e.g. "San Marino" →
// san_marino.pdf) inside a configurable export directory.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered guide exports to disk.
type Writer struct {
	Dir string
}

// New creates a Writer targeting the given export directory. An empty
// directory defaults to the current working directory.
func New(dir string) (*Writer, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

// Write stores the rendered data under a slug of the page name plus the
// renderer's extension, returning the final path.
func (w *Writer) Write(pageName string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.Dir, Slug(pageName)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Slug converts a page name into a filesystem-safe, lowercase filename
// stem. Runs of non-alphanumeric characters collapse into one underscore.
func Slug(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, ch := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9'):
			b.WriteRune(ch)
			lastUnderscore = false
		case lastUnderscore:
			// collapse
		default:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
