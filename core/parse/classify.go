package parse

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/atollk/geoguessr-scripts/core"
)

// Classifier decides which of the three block shapes a section has and
// extracts its text, image source, and link target. The decision order is
// deliberate: a linked figure image wins over a bare image, which wins
// over plain text.
type Classifier struct {
	// BaseURL is the site root used to absolutize root-relative URLs.
	BaseURL string
}

// Classify categorizes one section's markup into a content block. The
// returned ImageRefs carry the source URL only; materializing them on disk
// is the image pipeline's concern.
func (c *Classifier) Classify(sectionHTML string) (core.Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sectionHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing section: %w", err)
	}

	// Linked figure image: text plus image plus link target.
	if img := doc.Find("figure a img").First(); img.Length() > 0 {
		link, _ := doc.Find("figure a").First().Attr("href")
		return core.TextImageBlock{
			Text:    c.textWithLinks(doc),
			Image:   core.ImageRef{SourceURL: AbsoluteURL(imageSource(img), c.BaseURL)},
			LinkURL: AbsoluteURL(link, c.BaseURL),
		}, nil
	}

	// Standalone image, no text retained.
	if img := doc.Find("img").First(); img.Length() > 0 {
		return core.ImageBlock{
			Image: core.ImageRef{SourceURL: AbsoluteURL(imageSource(img), c.BaseURL)},
		}, nil
	}

	return core.TextBlock{Text: c.textWithLinks(doc)}, nil
}

// imageSource reads the primary source attribute, falling back to the
// lazy-load attribute when it is absent.
func imageSource(sel *goquery.Selection) string {
	if src, ok := sel.Attr("src"); ok && src != "" {
		return src
	}
	src, _ := sel.Attr("data-src")
	return src
}

// textWithLinks extracts the section text with every anchor's link text
// replaced by its absolute href, so link targets survive after the markup
// is discarded. Replacements run in document order.
func (c *Classifier) textWithLinks(doc *goquery.Document) string {
	type replacement struct {
		text string
		href string
	}
	var replacements []replacement
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		text := a.Text()
		if !ok || href == "" || text == "" {
			return
		}
		replacements = append(replacements, replacement{
			text: text,
			href: AbsoluteURL(href, c.BaseURL),
		})
	})

	full := doc.Text()
	for _, r := range replacements {
		full = strings.ReplaceAll(full, r.text, r.href)
	}
	return strings.TrimSpace(full)
}
