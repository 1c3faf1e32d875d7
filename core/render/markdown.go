// Package render provides the output renderers for guide exports.
// Markdown is the canonical textual format; the PDF renderer builds on it.
package render

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/atollk/geoguessr-scripts/core"
)

// MarkdownRenderer converts the guide article markup into Markdown with a
// title heading and a source line.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the page into Markdown bytes.
func (r *MarkdownRenderer) Render(page *core.GuidePage) ([]byte, error) {
	body, err := htmltomarkdown.ConvertString(page.HTML)
	if err != nil {
		return nil, fmt.Errorf("converting guide to markdown: %w", err)
	}
	out := fmt.Sprintf("# %s\n\nSource: %s\n\n%s", page.Name, page.URL, body)
	return []byte(out), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
