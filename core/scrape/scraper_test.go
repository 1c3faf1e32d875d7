package scrape_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/atollk/geoguessr-scripts/browser"
	"github.com/atollk/geoguessr-scripts/core/scrape"
)

// mapPage mimics the structure the resolver has to disambiguate: the cell
// label appears in the table and again inside the detail panel, and an
// outer container holds both occurrences. Only the innermost container
// with both the map name and the cell name may win.
const mapPage = `<html><body>
<table><tr>
  <td>Bollard</td>
  <td>  </td>
  <td>Tom &amp; Jerry</td>
</tr></table>
<div id="panels">
  <div class="panel">
    <span>A Learnable Map</span>
    <span>Bollard</span>
    <div><p>White with red stripe.</p></div>
  </div>
  <div class="panel">
    <span>A Learnable Map</span>
    <span>Tom &amp; Jerry</span>
    <div><p>Chasing since 1940.</p></div>
  </div>
</div>
</body></html>`

func testScraper(t *testing.T) *scrape.Scraper {
	t.Helper()
	s := scrape.NewScraper(slog.New(slog.DiscardHandler))
	s.ResolveTimeout = 100 * time.Millisecond
	s.PollInterval = 10 * time.Millisecond
	return s
}

func TestEntriesResolvesClickedCells(t *testing.T) {
	sess, err := browser.NewStaticDocument(mapPage)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	entries, err := testScraper(t).Entries(context.Background(), sess, "A Learnable Map")
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "Bollard" {
		t.Errorf("entry 0 name = %q, want %q", entries[0].Name, "Bollard")
	}
	if !strings.Contains(entries[0].HTML, "White with red stripe.") {
		t.Errorf("entry 0 html = %q, want panel body", entries[0].HTML)
	}
	if strings.Contains(entries[0].HTML, "Chasing") {
		t.Errorf("entry 0 html leaked the other panel: %q", entries[0].HTML)
	}

	// The raw cell markup holds an entity; the entry name must carry the
	// decoded form so the follow-up XPath query can match the panel.
	if entries[1].Name != "Tom & Jerry" {
		t.Errorf("entry 1 name = %q, want %q", entries[1].Name, "Tom & Jerry")
	}
	if !strings.Contains(entries[1].HTML, "Chasing since 1940.") {
		t.Errorf("entry 1 html = %q, want panel body", entries[1].HTML)
	}

	// The empty cell is skipped before any click happens.
	if got := sess.Clicks(); got != 2 {
		t.Errorf("session saw %d clicks, want 2", got)
	}
}

func TestEntriesCollapsesDuplicateCellNames(t *testing.T) {
	sess, err := browser.NewStaticDocument(`<html><body>
<table><tr><td>Bollard</td><td>Bollard</td></tr></table>
<div class="panel">
  <span>A Learnable Map</span>
  <span>Bollard</span>
  <div><p>White with red stripe.</p></div>
</div>
</body></html>`)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	entries, err := testScraper(t).Entries(context.Background(), sess, "A Learnable Map")
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}

	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Name]++
	}
	if counts["Bollard"] != 1 {
		t.Fatalf("name %q appears %d times in the result set, want 1", "Bollard", counts["Bollard"])
	}
	if !strings.Contains(entries[0].HTML, "White with red stripe.") {
		t.Errorf("entry html = %q, want panel body", entries[0].HTML)
	}

	// Both occurrences are still clicked; only the result collapses.
	if got := sess.Clicks(); got != 2 {
		t.Errorf("session saw %d clicks, want 2", got)
	}
}

func TestEntriesFailsWithoutTable(t *testing.T) {
	sess, err := browser.NewStaticDocument("<html><body><p>nothing here</p></body></html>")
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	if _, err := testScraper(t).Entries(context.Background(), sess, "A Learnable Map"); err == nil {
		t.Fatal("expected error for page without a table")
	}
}

func TestResolveTimesOutWithNotFound(t *testing.T) {
	// The table names the cell but no panel ever contains both labels.
	sess, err := browser.NewStaticDocument(`<html><body>
<table><tr><td>Bollard</td></tr></table>
</body></html>`)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	_, err = testScraper(t).Resolve(context.Background(), sess, "A Learnable Map", "Bollard")
	if err == nil {
		t.Fatal("expected resolve to time out")
	}
	if !strings.Contains(err.Error(), "Bollard") {
		t.Errorf("error %q does not name the cell", err)
	}
}
