package parse

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/atollk/geoguessr-scripts/core"
)

// stepHeading matches "Step <number> - <title>" section headings. The dash
// may be a hyphen or an en-dash. Markup drift on the source site breaks
// here first, so boundary detection stays behind HeadingTitle rather than
// leaking the regex into the state machine.
var stepHeading = regexp.MustCompile(`(?i)^Step\s+\d+\s*[-–]\s*(.+)`)

// HeadingTitle reports whether a section's text marks a step boundary,
// returning the captured title when it does.
func HeadingTitle(text string) (string, bool) {
	m := stepHeading.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Segmenter groups an ordered sequence of sections into named steps. It is
// a two-state machine: outside any step until the first heading, inside a
// step afterwards. No backtracking.
type Segmenter struct {
	Classifier *Classifier
	Log        *slog.Logger
}

// Segment partitions sections into steps. Content before the first heading
// is discarded; many pages open with introductory material that belongs to
// no step. Sections whose classification fails are skipped, not fatal.
func (s *Segmenter) Segment(sections []core.Section) []core.Step {
	var steps []core.Step
	var current *core.Step

	for _, sec := range sections {
		if title, ok := HeadingTitle(sec.Text); ok {
			if current != nil {
				steps = append(steps, *current)
			}
			current = &core.Step{Title: title}
			continue
		}

		if current == nil {
			s.Log.Warn("discarding content before first step heading")
			continue
		}

		block, err := s.Classifier.Classify(sec.HTML)
		if err != nil {
			s.Log.Warn("classifying section failed", "step", current.Title, "error", err)
			continue
		}
		current.Blocks = append(current.Blocks, block)
	}

	if current != nil {
		steps = append(steps, *current)
	}
	return steps
}

// ArticleHTML extracts the outer markup of the page's main article, the
// container the step sections live in.
func ArticleHTML(pageHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", err
	}
	article := doc.Find("body main article").First()
	if article.Length() == 0 {
		return "", fmt.Errorf("main article: %w", core.ErrNotFound)
	}
	return goquery.OuterHtml(article)
}

// SectionsFromHTML extracts the article sections of a fetched guide page,
// in document order.
func SectionsFromHTML(pageHTML string) ([]core.Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	var sections []core.Section
	doc.Find("body main article section").Each(func(_ int, sel *goquery.Selection) {
		outer, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		sections = append(sections, core.Section{
			Text: strings.TrimSpace(sel.Text()),
			HTML: outer,
		})
	})
	return sections, nil
}
