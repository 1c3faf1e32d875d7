package apkg

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/atollk/geoguessr-scripts/core"
)

// Writer serializes a Package into an .apkg file.
type Writer struct {
	Log *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(log *slog.Logger) *Writer {
	return &Writer{Log: log}
}

// Write builds the SQLite collection in a temporary file, then assembles
// the zip envelope with the collection, the media manifest, and the media
// files. Media files that cannot be read are logged and left out.
func (w *Writer) Write(pkg *core.Package, path string) error {
	tmp, err := os.CreateTemp("", "collection-*.anki2")
	if err != nil {
		return fmt.Errorf("creating collection scratch file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := w.writeCollection(tmpPath, pkg); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating package %s: %w", path, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	if err := addZipFile(zw, "collection.anki2", tmpPath); err != nil {
		return err
	}

	manifest := make(map[string]string)
	index := 0
	for _, media := range pkg.MediaFiles {
		data, err := os.ReadFile(media)
		if err != nil {
			w.Log.Warn("media file unreadable, leaving it out", "path", media, "error", err)
			continue
		}
		name := strconv.Itoa(index)
		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("adding media %s: %w", media, err)
		}
		if _, err := entry.Write(data); err != nil {
			return fmt.Errorf("writing media %s: %w", media, err)
		}
		manifest[name] = filepath.Base(media)
		index++
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encoding media manifest: %w", err)
	}
	entry, err := zw.Create("media")
	if err != nil {
		return fmt.Errorf("adding media manifest: %w", err)
	}
	if _, err := entry.Write(manifestJSON); err != nil {
		return fmt.Errorf("writing media manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing package: %w", err)
	}
	return out.Close()
}

// writeCollection creates the Anki collection database at dbPath.
func (w *Writer) writeCollection(dbPath string, pkg *core.Package) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening collection db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("creating collection schema: %w", err)
	}

	now := time.Now()
	nowSec := now.Unix()
	nowMilli := now.UnixMilli()

	models, err := modelsJSON(nowSec)
	if err != nil {
		return fmt.Errorf("encoding models: %w", err)
	}
	entries := make([]deckEntry, 0, len(pkg.Decks))
	for _, d := range pkg.Decks {
		entries = append(entries, deckEntry{id: d.ID, name: d.Name, desc: d.Description})
	}
	decks, err := decksJSON(nowSec, entries)
	if err != nil {
		return fmt.Errorf("encoding decks: %w", err)
	}
	conf, err := confJSON()
	if err != nil {
		return fmt.Errorf("encoding conf: %w", err)
	}
	dconf, err := dconfJSON(nowSec)
	if err != nil {
		return fmt.Errorf("encoding dconf: %w", err)
	}

	if _, err := db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
         VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		nowSec, nowMilli, nowMilli, conf, models, decks, dconf,
	); err != nil {
		return fmt.Errorf("inserting collection row: %w", err)
	}

	// Note and card ids only have to be unique within the collection;
	// millisecond timestamps with an increment per row follow Anki's own
	// id convention.
	noteID := nowMilli
	cardID := nowMilli + 1_000_000

	for _, d := range pkg.Decks {
		for _, card := range d.Cards {
			fields := []string{
				card.Title,
				fmt.Sprintf("<img src=%s>", filepath.Base(card.FrontImage)),
				card.Back,
			}

			if _, err := db.Exec(
				`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
                 VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`,
				noteID, noteGUID(fields), ModelID, nowSec,
				joinFields(fields), card.Title, fieldChecksum(card.Title),
			); err != nil {
				return fmt.Errorf("inserting note %q: %w", card.Title, err)
			}

			if _, err := db.Exec(
				`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due,
                                    ivl, factor, reps, lapses, left, odue, odid, flags, data)
                 VALUES (?, ?, ?, 0, ?, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
				cardID, noteID, d.ID, nowSec,
			); err != nil {
				return fmt.Errorf("inserting card for %q: %w", card.Title, err)
			}

			noteID++
			cardID++
		}
	}
	return nil
}

func addZipFile(zw *zip.Writer, name, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer src.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
