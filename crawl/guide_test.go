package crawl_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/atollk/geoguessr-scripts/core"
	"github.com/atollk/geoguessr-scripts/crawl"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no such page %q", url)
	}
	return &core.FetchResult{URL: url, StatusCode: 200, HTML: html}, nil
}

const guideIndex = `<html><body>
<div onclick="window.open('/sweden','_blank')"><span class="flag-name">Sweden</span></div>
<div onclick="window.open('/san-marino', '_blank')"></div>
<div onclick="window.open('/sweden','_blank')"><span class="flag-name">Sweden again</span></div>
<div onclick="toggleMenu()">not a page</div>
</body></html>`

func TestDiscoverFindsSubpages(t *testing.T) {
	indexURL := "https://www.plonkit.net/guide"
	d := &crawl.GuideDiscoverer{
		Log:     slog.New(slog.DiscardHandler),
		Fetcher: &fakeFetcher{pages: map[string]string{indexURL: guideIndex}},
	}

	refs, err := d.Discover(context.Background(), indexURL)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	want := []crawl.GuideRef{
		{Name: "Sweden", URL: "https://www.plonkit.net/sweden"},
		{Name: "san marino", URL: "https://www.plonkit.net/san-marino"},
	}
	if len(refs) != len(want) {
		t.Fatalf("got %d refs %v, want %d", len(refs), refs, len(want))
	}
	for i, ref := range refs {
		if ref != want[i] {
			t.Errorf("ref %d = %+v, want %+v", i, ref, want[i])
		}
	}
}

func TestSubpageURLResolvesAgainstHostRoot(t *testing.T) {
	cases := []struct {
		base  string
		param string
		want  string
	}{
		{"https://www.plonkit.net/guide", "sweden", "https://www.plonkit.net/sweden"},
		{"https://www.plonkit.net", "san-marino", "https://www.plonkit.net/san-marino"},
		{"https://www.plonkit.net/guide?page=2#top", "sweden", "https://www.plonkit.net/sweden"},
	}
	for _, tc := range cases {
		if got := crawl.SubpageURL(tc.base, tc.param); got != tc.want {
			t.Errorf("SubpageURL(%q, %q) = %q, want %q", tc.base, tc.param, got, tc.want)
		}
	}
}

func TestExtractMapID(t *testing.T) {
	cases := []struct {
		href string
		want string
	}{
		{"https://www.geoguessr.com/maps/66fda352ee1c8ee4735e1aa8", "66fda352ee1c8ee4735e1aa8"},
		{"/maps/abc123/play", "abc123"},
		{"https://www.geoguessr.com/about", ""},
	}
	for _, tc := range cases {
		if got := crawl.ExtractMapID(tc.href); got != tc.want {
			t.Errorf("ExtractMapID(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestMapURL(t *testing.T) {
	got := crawl.MapURL("https://geometa-web.pages.dev/", "abc123")
	if got != "https://geometa-web.pages.dev/maps/abc123" {
		t.Fatalf("MapURL = %q", got)
	}
}
