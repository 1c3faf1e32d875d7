package core

// MetaMap describes one map listed on the Learnable Meta site.
type MetaMap struct {
	Name        string `json:"name"`
	Author      string `json:"author"`
	Description string `json:"description"`
	MapID       string `json:"map_id"`
	Difficulty  string `json:"difficulty"`
}

// Entry is one named row of a map's meta table together with the raw HTML
// of its detail panel. Entries are kept in a slice because deck assembly
// depends on scrape order.
type Entry struct {
	Name string
	HTML string
}

// Section is one document section of a guide page, as fetched. Text is the
// rendered text used for step-boundary detection; HTML is the raw markup
// handed to the classifier.
type Section struct {
	Text string
	HTML string
}

// Step is a titled grouping of content blocks within one guide page,
// delimited by the "Step N - title" heading convention. A step with zero
// blocks is valid.
type Step struct {
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Block is one classified unit of a step's body. It is a closed union:
// exactly TextBlock, ImageBlock, and TextImageBlock implement it, and call
// sites are expected to switch over all three.
type Block interface {
	isBlock()
}

// TextBlock is a content block containing only text.
type TextBlock struct {
	Text string `json:"text"`
}

// ImageBlock is a content block containing only an image.
type ImageBlock struct {
	Image ImageRef `json:"image"`
}

// TextImageBlock is a content block containing text plus a linked image.
type TextImageBlock struct {
	Text    string   `json:"text"`
	Image   ImageRef `json:"image"`
	LinkURL string   `json:"link_url"`
}

func (TextBlock) isBlock()      {}
func (ImageBlock) isBlock()     {}
func (TextImageBlock) isBlock() {}

// ImageRef points at an image by absolute source URL. LocalPath is set once
// the image has been materialized on disk; it stays empty when the download
// failed, which is a skip rather than an error.
type ImageRef struct {
	SourceURL string `json:"source_url"`
	LocalPath string `json:"local_path,omitempty"`
}

// Card is a single flashcard: the entry name, one question-side image, and
// the shared class-stripped answer markup.
type Card struct {
	Title      string
	FrontImage string // local path of the question image
	Back       string
}

// Deck holds the cards built from one map.
type Deck struct {
	ID          int64
	Name        string
	Description string
	Cards       []Card
}

// Package is the top-level output unit: all decks plus the deduplicated
// set of media file paths they reference.
type Package struct {
	Decks      []Deck
	MediaFiles []string
}

// AddMedia appends paths to the package media set, skipping any path that
// is already present.
func (p *Package) AddMedia(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		seen := false
		for _, existing := range p.MediaFiles {
			if existing == path {
				seen = true
				break
			}
		}
		if !seen {
			p.MediaFiles = append(p.MediaFiles, path)
		}
	}
}

// GuidePage is a parsed Plonkit guide page. HTML holds the raw article
// markup the steps were parsed from; renderers that work on full markup
// use it directly.
type GuidePage struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Steps []Step `json:"steps"`
	HTML  string `json:"-"`
}
