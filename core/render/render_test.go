package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/atollk/geoguessr-scripts/core"
	"github.com/atollk/geoguessr-scripts/core/render"
)

func fixturePage() *core.GuidePage {
	return &core.GuidePage{
		Name: "Sweden",
		URL:  "https://www.plonkit.net/sweden",
		Steps: []core.Step{
			{
				Title: "Bollards",
				Blocks: []core.Block{
					core.TextBlock{Text: "White with a reflective band."},
					core.ImageBlock{Image: core.ImageRef{SourceURL: "https://cdn.example.com/bollard.png"}},
					core.TextImageBlock{
						Text:    "Seen from the road.",
						Image:   core.ImageRef{SourceURL: "https://cdn.example.com/road.png"},
						LinkURL: "https://www.plonkit.net/sweden#bollards",
					},
				},
			},
		},
		HTML: `<article><h2>Step 1 - Bollards</h2><p>White with a <strong>reflective</strong> band.</p></article>`,
	}
}

func TestMarkdownRender(t *testing.T) {
	r := render.NewMarkdownRenderer()
	out, err := r.Render(fixturePage())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	text := string(out)
	if !strings.HasPrefix(text, "# Sweden\n\nSource: https://www.plonkit.net/sweden\n\n") {
		t.Errorf("missing title header: %q", text[:min(len(text), 80)])
	}
	if !strings.Contains(text, "**reflective**") {
		t.Errorf("markup not converted: %q", text)
	}
	if r.Extension() != ".md" {
		t.Errorf("extension = %q", r.Extension())
	}
}

func TestJSONRenderTagsBlockTypes(t *testing.T) {
	r := render.NewJSONRenderer()
	out, err := r.Render(fixturePage())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	var page struct {
		Name  string `json:"name"`
		Steps []struct {
			Title  string `json:"title"`
			Blocks []struct {
				Type    string `json:"type"`
				Text    string `json:"text"`
				LinkURL string `json:"link_url"`
			} `json:"blocks"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(out, &page); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if page.Name != "Sweden" || len(page.Steps) != 1 {
		t.Fatalf("page = %+v", page)
	}
	blocks := page.Steps[0].Blocks
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	wantTypes := []string{"text", "image", "text_image"}
	for i, b := range blocks {
		if b.Type != wantTypes[i] {
			t.Errorf("block %d type = %q, want %q", i, b.Type, wantTypes[i])
		}
	}
	if blocks[2].LinkURL != "https://www.plonkit.net/sweden#bollards" {
		t.Errorf("text_image link = %q", blocks[2].LinkURL)
	}
	if r.Extension() != ".json" {
		t.Errorf("extension = %q", r.Extension())
	}
}

func TestPDFRenderProducesDocument(t *testing.T) {
	r := render.NewPDFRenderer()
	out, err := r.Render(fixturePage())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(len(out), 8)])
	}
	if r.Extension() != ".pdf" {
		t.Errorf("extension = %q", r.Extension())
	}
}
