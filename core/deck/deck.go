// Package deck assembles flashcards from scraped entries: one card per
// selected question image, a deck per map, and a package over all decks
// with a deduplicated media set.
package deck

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"

	"github.com/atollk/geoguessr-scripts/config"
	"github.com/atollk/geoguessr-scripts/core"
	"github.com/atollk/geoguessr-scripts/core/images"
)

// Builder assembles cards, decks, and the final package.
type Builder struct {
	Log       *slog.Logger
	Images    *images.Pipeline
	Overrides *config.Overrides

	// Workdir receives the downloaded entry images.
	Workdir string
	// CustomImageDir is where operator-supplied override images live.
	CustomImageDir string
	// AttributionBase is the source site named in deck descriptions.
	AttributionBase string

	// Progress, when set, is called after each processed entry.
	Progress func(done, total int)
}

// ID derives a stable deck id from the map name. Hash collisions between
// map names are an accepted risk.
func ID(name string) int64 {
	return int64(xxhash.Sum64String(name) & math.MaxInt64)
}

// StripClassAttributes removes every class attribute from the fragment, so
// the answer side renders without the source site's styling hooks.
func StripClassAttributes(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}
	doc.Find("[class]").RemoveAttr("class")
	return doc.Find("body").Html()
}

// Cards builds the cards for one entry and returns them together with the
// media paths its markup produced. Question images follow the override
// precedence: custom image list, then 1-based selection index, then every
// extracted image. Zero selected images mean zero cards, which is valid.
func (b *Builder) Cards(ctx context.Context, name, fragment string) ([]core.Card, []string, error) {
	content, err := b.Images.Download(ctx, fragment, b.Workdir)
	if err != nil {
		return nil, nil, err
	}

	var question []string
	if custom, ok := b.Overrides.CustomFor(name); ok {
		question = custom
	} else if idx, ok := b.Overrides.SelectFor(name); ok {
		if idx < 1 || idx > len(content) {
			b.Log.Warn("image selection out of range",
				"entry", name, "index", idx, "images", len(content))
		} else {
			question = []string{content[idx-1]}
		}
	} else {
		question = content
	}

	back, err := StripClassAttributes(fragment)
	if err != nil {
		return nil, nil, err
	}

	cards := make([]core.Card, 0, len(question))
	for _, img := range question {
		cards = append(cards, core.Card{
			Title:      name,
			FrontImage: img,
			Back:       back,
		})
	}
	return cards, content, nil
}

// BuildDeck assembles the deck for one map. Entry-level failures are
// logged and skipped; the deck simply ends up with fewer cards.
func (b *Builder) BuildDeck(ctx context.Context, meta core.MetaMap, entries []core.Entry) (core.Deck, []string) {
	d := core.Deck{
		ID:   ID(meta.Name),
		Name: "Learnable Meta::" + meta.Name,
		Description: fmt.Sprintf("%s\n\nCreated from %s using github.com/atollk/geoguessr-scripts.",
			meta.Description, b.AttributionBase),
	}

	var media []string
	for i, entry := range entries {
		cards, entryMedia, err := b.Cards(ctx, entry.Name, entry.HTML)
		if err != nil {
			b.Log.Warn("skipping entry", "entry", entry.Name, "error", err)
			continue
		}
		d.Cards = append(d.Cards, cards...)
		media = append(media, entryMedia...)
		if b.Progress != nil {
			b.Progress(i+1, len(entries))
		}
	}
	return d, media
}

// ScrapeFunc fetches the entries of one map.
type ScrapeFunc func(ctx context.Context, meta core.MetaMap) ([]core.Entry, error)

// BuildPackage scrapes every map and aggregates the decks. A map whose
// scrape fails at the session level is skipped and the run continues; the
// package is always produced, possibly with fewer decks than maps.
func (b *Builder) BuildPackage(ctx context.Context, maps []core.MetaMap, scrape ScrapeFunc) (*core.Package, error) {
	pkg := &core.Package{}

	// Operator custom images belong to the media set whether or not any
	// entry ends up selecting them. Missing files are validated here, not
	// at package-write time.
	for _, entry := range sortedKeys(overrideImages(b.Overrides)) {
		for _, img := range overrideImages(b.Overrides)[entry] {
			full := filepath.Join(b.CustomImageDir, img)
			if _, err := os.Stat(full); err != nil {
				b.Log.Warn("custom image not found", "entry", entry, "path", full)
				continue
			}
			pkg.AddMedia(full)
		}
	}

	for i, meta := range maps {
		b.Log.Info(fmt.Sprintf("Crawling %s...", meta.Name))
		entries, err := scrape(ctx, meta)
		if err != nil {
			b.Log.Warn("skipping map", "map", meta.Name, "error", err)
			continue
		}

		b.Log.Info(fmt.Sprintf("Creating deck %s (%d / %d)...", meta.Name, i+1, len(maps)))
		d, media := b.BuildDeck(ctx, meta, entries)
		pkg.Decks = append(pkg.Decks, d)
		pkg.AddMedia(media...)
	}
	return pkg, nil
}

func overrideImages(o *config.Overrides) map[string]config.StringList {
	if o == nil {
		return nil
	}
	return o.CustomImage
}

func sortedKeys(m map[string]config.StringList) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
