// JSON renderer. Emits the parsed step/block tree with explicit type tags
// so downstream consumers can tell the three block shapes apart.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/atollk/geoguessr-scripts/core"
)

// JSONRenderer produces structured JSON output from a parsed guide page.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type pageJSON struct {
	Name  string     `json:"name"`
	URL   string     `json:"url"`
	Steps []stepJSON `json:"steps"`
}

type stepJSON struct {
	Title  string      `json:"title"`
	Blocks []blockJSON `json:"blocks"`
}

type blockJSON struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Image   *core.ImageRef `json:"image,omitempty"`
	LinkURL string         `json:"link_url,omitempty"`
}

// Render converts the page into indented JSON bytes.
func (r *JSONRenderer) Render(page *core.GuidePage) ([]byte, error) {
	out := pageJSON{
		Name:  page.Name,
		URL:   page.URL,
		Steps: make([]stepJSON, 0, len(page.Steps)),
	}
	for _, step := range page.Steps {
		s := stepJSON{Title: step.Title, Blocks: make([]blockJSON, 0, len(step.Blocks))}
		for _, block := range step.Blocks {
			b, err := toBlockJSON(block)
			if err != nil {
				return nil, err
			}
			s.Blocks = append(s.Blocks, b)
		}
		out.Steps = append(out.Steps, s)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling guide JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

func toBlockJSON(b core.Block) (blockJSON, error) {
	switch blk := b.(type) {
	case core.TextBlock:
		return blockJSON{Type: "text", Text: blk.Text}, nil
	case core.ImageBlock:
		return blockJSON{Type: "image", Image: &blk.Image}, nil
	case core.TextImageBlock:
		return blockJSON{Type: "text_image", Text: blk.Text, Image: &blk.Image, LinkURL: blk.LinkURL}, nil
	default:
		return blockJSON{}, fmt.Errorf("unhandled block type %T", b)
	}
}
