package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atollk/geoguessr-scripts/core"
)

const (
	defaultTableTimeout   = 10 * time.Second
	defaultResolveTimeout = 5 * time.Second
	defaultPollInterval   = 200 * time.Millisecond
)

// Scraper walks the meta table of one map page. Losing individual cells is
// expected during long crawl runs, so every per-cell failure is logged and
// skipped; only session-level faults (the table never appearing) abort the
// page.
type Scraper struct {
	Log *slog.Logger

	// TableTimeout bounds the wait for the meta table to appear.
	TableTimeout time.Duration
	// ResolveTimeout bounds the wait for a clicked cell's detail panel.
	ResolveTimeout time.Duration
	// PollInterval is the re-query interval while waiting for a panel.
	PollInterval time.Duration
}

// NewScraper creates a Scraper with default timeouts.
func NewScraper(log *slog.Logger) *Scraper {
	return &Scraper{
		Log:            log,
		TableTimeout:   defaultTableTimeout,
		ResolveTimeout: defaultResolveTimeout,
		PollInterval:   defaultPollInterval,
	}
}

// Entries clicks every td of the already-navigated map page and returns the
// outer HTML of each cell's detail panel, in table order. Entry names are
// unique within the result: when the table names the same meta twice, the
// panel of the latest click replaces the earlier one, at the earlier
// position.
func (s *Scraper) Entries(ctx context.Context, sess core.Session, mapName string) ([]core.Entry, error) {
	if err := sess.WaitVisible(ctx, "table", s.TableTimeout); err != nil {
		return nil, fmt.Errorf("waiting for meta table: %w", err)
	}

	cells, err := sess.QueryAll(ctx, core.ByCSS, "td")
	if err != nil {
		return nil, fmt.Errorf("listing table cells: %w", err)
	}

	var entries []core.Entry
	index := make(map[string]int)
	for _, cell := range cells {
		name, err := RawText(ctx, cell)
		if err != nil {
			s.Log.Warn("reading cell text failed", "error", err)
			continue
		}
		if strings.TrimSpace(name) == "" {
			s.Log.Warn("skipping cell with empty name")
			continue
		}

		// The detail panel is populated only after the click.
		if err := cell.Click(ctx); err != nil {
			s.Log.Warn("clicking cell failed", "cell", name, "error", err)
			continue
		}

		panel, err := s.Resolve(ctx, sess, mapName, name)
		if err != nil {
			s.Log.Warn("resolving detail panel failed", "cell", name, "error", err)
			continue
		}

		outer, err := panel.OuterHTML(ctx)
		if err != nil {
			s.Log.Warn("reading detail panel failed", "cell", name, "error", err)
			continue
		}
		if outer == "" {
			s.Log.Warn("detail panel has no markup", "cell", name)
			continue
		}
		if at, ok := index[name]; ok {
			s.Log.Warn("duplicate cell name, keeping the latest panel", "cell", name)
			entries[at].HTML = outer
			continue
		}
		index[name] = len(entries)
		entries = append(entries, core.Entry{Name: name, HTML: outer})
	}
	return entries, nil
}

// Resolve locates the unique detail panel for a clicked cell. It polls the
// disambiguating query until the panel renders or the bounded wait elapses.
// When several innermost containers survive the descendant filter, the
// first in document order wins; the source site does not define a
// tie-break for that case.
func (s *Scraper) Resolve(ctx context.Context, sess core.Session, mapName, cellName string) (core.Element, error) {
	query := detailPanelQuery(mapName, cellName)
	deadline := time.Now().Add(s.ResolveTimeout)
	for {
		el, err := sess.Query(ctx, core.ByXPath, query)
		if err == nil {
			return el, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("detail panel for %q: %w", cellName, core.ErrNotFound)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.PollInterval):
		}
	}
}
