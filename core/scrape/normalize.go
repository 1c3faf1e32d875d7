package scrape

import (
	"context"
	"html"
	"regexp"

	"github.com/atollk/geoguessr-scripts/core"
)

var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

// RawText returns the element's inner markup with comment nodes removed and
// HTML entities decoded. The result is embedded verbatim into a follow-up
// XPath query, so it has to match the raw markup; the rendered text would
// silently fail against source containing entities.
func RawText(ctx context.Context, el core.Element) (string, error) {
	inner, err := el.InnerHTML(ctx)
	if err != nil {
		return "", err
	}
	return html.UnescapeString(commentPattern.ReplaceAllString(inner, "")), nil
}

// NormalizeRaw applies the same projection to an already-extracted markup
// string.
func NormalizeRaw(inner string) string {
	return html.UnescapeString(commentPattern.ReplaceAllString(inner, ""))
}
