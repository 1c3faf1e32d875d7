// Package images materializes the images referenced by an entry's markup.
// Downloads are best-effort: a failed image is logged and omitted, never a
// reason to abort the entry.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/atollk/geoguessr-scripts/core"
)

// Pipeline downloads every image referenced by a content fragment into a
// working directory.
type Pipeline struct {
	Log        *slog.Logger
	Downloader core.Downloader
}

// Filename derives a local name from an image's document position and its
// source basename, stripping any query string. The position prefix keeps
// same-named images from different sources on one page apart.
func Filename(index int, src string) string {
	name := fmt.Sprintf("image_%d_%s", index, path.Base(src))
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	return name
}

// Download fetches all images of the fragment, in document order, and
// returns the paths of the ones that materialized. Indexes count every img
// tag, including ones that were skipped, so filenames stay stable across
// partial failures.
func (p *Pipeline) Download(ctx context.Context, fragment, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}

	var paths []string
	doc.Find("img").Each(func(i int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}

		data, err := p.Downloader.Download(ctx, src)
		if err != nil {
			p.Log.Warn("image download failed", "url", src, "error", err)
			return
		}

		full := filepath.Join(dir, Filename(i, src))
		if err := os.WriteFile(full, data, 0o644); err != nil {
			p.Log.Warn("writing image failed", "path", full, "error", err)
			return
		}
		paths = append(paths, full)
	})
	return paths, nil
}
