package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/atollk/geoguessr-scripts/core"
)

// windowOpenPattern matches the inline handlers the guide's country rows
// use: window.open('/sweden','_blank').
var windowOpenPattern = regexp.MustCompile(`window\.open\(['"]([^'"]+)['"],\s*['"]_blank['"]`)

// GuideRef points at one discovered guide subpage.
type GuideRef struct {
	Name string
	URL  string
}

// GuideDiscoverer finds the country subpages linked from the guide index.
type GuideDiscoverer struct {
	Log     *slog.Logger
	Fetcher core.Fetcher
}

// Discover fetches the guide index and returns each subpage referenced by
// a window.open onclick handler, deduplicated, in document order.
func (d *GuideDiscoverer) Discover(ctx context.Context, baseURL string) ([]GuideRef, error) {
	result, err := d.Fetcher.Fetch(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetching guide index: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing guide index: %w", err)
	}

	seen := make(map[string]bool)
	var refs []GuideRef
	doc.Find("[onclick]").Each(func(_ int, sel *goquery.Selection) {
		onclick, _ := sel.Attr("onclick")
		m := windowOpenPattern.FindStringSubmatch(onclick)
		if m == nil {
			return
		}
		param := strings.TrimPrefix(m[1], "/")
		if param == "" || seen[param] {
			return
		}
		seen[param] = true

		name := strings.TrimSpace(sel.Find(".flag-name").Text())
		if name == "" {
			name = strings.ReplaceAll(param, "-", " ")
		}
		refs = append(refs, GuideRef{
			Name: name,
			URL:  SubpageURL(baseURL, param),
		})
	})

	if len(refs) == 0 {
		d.Log.Warn("guide index yielded no subpages", "url", baseURL)
	}
	return refs, nil
}

// SubpageURL resolves a window.open parameter against the site root. The
// guide index lives under a path of its own, so resolution uses the host
// root rather than the index URL.
func SubpageURL(baseURL, param string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return strings.TrimSuffix(baseURL, "/") + "/" + param
	}
	u.Path = "/" + param
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
