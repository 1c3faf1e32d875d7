// Package crawl discovers the pages the pipeline processes: the map cards
// of the Learnable Meta site and the country subpages of the Plonkit
// guide. Discovery is separate from the scraping pipeline itself.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/atollk/geoguessr-scripts/core"
	"github.com/atollk/geoguessr-scripts/core/scrape"
)

// Selectors for the maps page card grid. These track the source site's
// utility-class markup and are the first thing to check when discovery
// comes back empty.
const (
	mapCardSelector        = "div.bg-card.text-card-foreground.rounded-xl.border.shadow.flex.flex-col"
	mapNameSelector        = "h3.font-semibold.leading-none.tracking-tight"
	mapAuthorSelector      = "p.text-muted-foreground.text-sm strong"
	mapDescriptionSelector = "p.mt-6.text-base.text-gray-600.dark\\:text-gray-300"
	mapPlayLinkSelector    = "a[href*='maps/']"
)

var mapIDPattern = regexp.MustCompile(`maps/([a-zA-Z0-9]+)`)

// MapLister extracts the list of available maps from the maps page.
type MapLister struct {
	Log *slog.Logger
}

// LoadMapList navigates the session to the maps page and reads one MetaMap
// per card. Cards missing a usable play link are skipped with a warning.
func (l *MapLister) LoadMapList(ctx context.Context, sess core.Session, url string) ([]core.MetaMap, error) {
	if err := sess.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("loading maps page: %w", err)
	}

	cards, err := sess.QueryAll(ctx, core.ByCSS, mapCardSelector)
	if err != nil {
		return nil, fmt.Errorf("listing map cards: %w", err)
	}

	var maps []core.MetaMap
	for _, card := range cards {
		meta, err := l.readCard(ctx, card)
		if err != nil {
			l.Log.Warn("skipping map card", "error", err)
			continue
		}
		maps = append(maps, meta)
	}
	return maps, nil
}

func (l *MapLister) readCard(ctx context.Context, card core.Element) (core.MetaMap, error) {
	nameEl, err := card.Query(ctx, core.ByCSS, mapNameSelector)
	if err != nil {
		return core.MetaMap{}, fmt.Errorf("map name: %w", err)
	}
	// The name doubles as an XPath literal later, so take the raw markup
	// text rather than the rendered text.
	name, err := scrape.RawText(ctx, nameEl)
	if err != nil {
		return core.MetaMap{}, fmt.Errorf("map name: %w", err)
	}

	authorEl, err := card.Query(ctx, core.ByCSS, mapAuthorSelector)
	if err != nil {
		return core.MetaMap{}, fmt.Errorf("map author: %w", err)
	}
	author, err := authorEl.Text(ctx)
	if err != nil {
		return core.MetaMap{}, fmt.Errorf("map author: %w", err)
	}

	descEl, err := card.Query(ctx, core.ByCSS, mapDescriptionSelector)
	if err != nil {
		return core.MetaMap{}, fmt.Errorf("map description: %w", err)
	}
	desc, err := descEl.Text(ctx)
	if err != nil {
		return core.MetaMap{}, fmt.Errorf("map description: %w", err)
	}

	linkEl, err := card.Query(ctx, core.ByCSS, mapPlayLinkSelector)
	if err != nil {
		return core.MetaMap{}, fmt.Errorf("play link: %w", err)
	}
	href, _, err := linkEl.Attr(ctx, "href")
	if err != nil {
		return core.MetaMap{}, fmt.Errorf("play link: %w", err)
	}
	id := ExtractMapID(href)
	if id == "" {
		return core.MetaMap{}, fmt.Errorf("no map id in link %q", href)
	}

	return core.MetaMap{
		Name:        strings.TrimSpace(name),
		Author:      strings.TrimSpace(author),
		Description: strings.TrimSpace(desc),
		MapID:       id,
		// The difficulty badge is an icon without text; not extracted.
		Difficulty: "?",
	}, nil
}

// ExtractMapID pulls the map id out of a play link such as
// "https://www.geoguessr.com/maps/66fda352ee1c8ee4735e1aa8".
func ExtractMapID(href string) string {
	m := mapIDPattern.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}

// MapURL returns the address of one map's detail page.
func MapURL(baseURL, mapID string) string {
	return strings.TrimSuffix(baseURL, "/") + "/maps/" + mapID
}
