// Package core defines the data model and the capability interfaces the
// scraping pipeline is built on. Each stage talks to the document session,
// the network, and the output format through these interfaces so that the
// core stays testable without a browser.
package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Session.Query when no element matches.
var ErrNotFound = errors.New("element not found")

// By selects the query language for Session lookups.
type By string

const (
	// ByCSS queries with a CSS selector.
	ByCSS By = "css"
	// ByXPath queries with an XPath expression.
	ByXPath By = "xpath"
)

// Element is a handle to a single DOM element inside a Session.
type Element interface {
	// Click simulates a user click on the element.
	Click(ctx context.Context) error
	// OuterHTML returns the element's markup including the element itself.
	OuterHTML(ctx context.Context) (string, error)
	// InnerHTML returns the element's inner markup.
	InnerHTML(ctx context.Context) (string, error)
	// Text returns the element's rendered text content.
	Text(ctx context.Context) (string, error)
	// Attr returns the named attribute and whether it is present.
	Attr(ctx context.Context, name string) (string, bool, error)
	// Query returns the first descendant matching the selector, or
	// ErrNotFound. Element-scoped queries support ByCSS only.
	Query(ctx context.Context, by By, selector string) (Element, error)
	// QueryAll returns all descendants matching the selector.
	QueryAll(ctx context.Context, by By, selector string) ([]Element, error)
}

// Session is a live document the pipeline interacts with. A session is
// owned by exactly one goroutine: clicking a cell mutates which detail
// panel is open, so concurrent use of one session is never safe.
type Session interface {
	// Navigate loads the given URL and waits for the document to settle.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the CSS selector matches a visible element
	// or the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Title returns the current document title.
	Title(ctx context.Context) (string, error)
	// Query returns the first element matching the selector, or ErrNotFound.
	Query(ctx context.Context, by By, selector string) (Element, error)
	// QueryAll returns all elements matching the selector, in document order.
	QueryAll(ctx context.Context, by By, selector string) ([]Element, error)
	// Close releases the session and any underlying browser resources.
	Close() error
}

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Downloader retrieves raw bytes from a URL, used for image acquisition.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// PackageWriter serializes a finished Package into a distributable file.
type PackageWriter interface {
	Write(pkg *Package, path string) error
}

// Renderer converts a parsed guide page into a final output format.
type Renderer interface {
	Render(page *GuidePage) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md").
	Extension() string
}
