// Package browser provides the Session implementations the pipeline runs
// against: a chromedp-driven headless Chrome for pages that render their
// content client-side, and a static session over fetched HTML for pages
// that do not need a browser (and for tests).
package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/atollk/geoguessr-scripts/core"
)

// StaticSession serves a fetched, non-interactive document through the
// Session interface. Clicks are recorded but change nothing; the document
// is whatever the last Navigate (or the constructor) produced.
type StaticSession struct {
	fetcher core.Fetcher

	url    string
	doc    *html.Node
	clicks int
}

// NewStaticSession creates a session that navigates by fetching raw HTML.
func NewStaticSession(fetcher core.Fetcher) *StaticSession {
	return &StaticSession{fetcher: fetcher}
}

// NewStaticDocument creates a session pre-loaded with the given markup.
func NewStaticDocument(pageHTML string) (*StaticSession, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &StaticSession{doc: doc}, nil
}

// Navigate fetches the URL and replaces the current document.
func (s *StaticSession) Navigate(ctx context.Context, url string) error {
	if s.fetcher == nil {
		return errors.New("static session has no fetcher")
	}
	result, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	doc, err := html.Parse(strings.NewReader(result.HTML))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", url, err)
	}
	s.doc = doc
	s.url = url
	return nil
}

// WaitVisible checks for the selector immediately: a static document does
// not render anything after load, so waiting cannot help.
func (s *StaticSession) WaitVisible(ctx context.Context, selector string, _ time.Duration) error {
	els, err := s.QueryAll(ctx, core.ByCSS, selector)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return fmt.Errorf("%s: %w", selector, core.ErrNotFound)
	}
	return nil
}

// Title returns the document title, or "" when there is none.
func (s *StaticSession) Title(context.Context) (string, error) {
	if s.doc == nil {
		return "", errors.New("no document loaded")
	}
	n := htmlquery.FindOne(s.doc, "//title")
	if n == nil {
		return "", nil
	}
	return htmlquery.InnerText(n), nil
}

// Query returns the first match for the selector, or ErrNotFound.
func (s *StaticSession) Query(ctx context.Context, by core.By, selector string) (core.Element, error) {
	els, err := s.QueryAll(ctx, by, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", selector, core.ErrNotFound)
	}
	return els[0], nil
}

// QueryAll returns all matches for the selector, in document order.
func (s *StaticSession) QueryAll(_ context.Context, by core.By, selector string) ([]core.Element, error) {
	if s.doc == nil {
		return nil, errors.New("no document loaded")
	}
	return queryNodes(s, s.doc, by, selector)
}

// Close is a no-op; a static session holds no external resources.
func (s *StaticSession) Close() error { return nil }

// Clicks returns how many element clicks the session has seen.
func (s *StaticSession) Clicks() int { return s.clicks }

func queryNodes(sess *StaticSession, scope *html.Node, by core.By, selector string) ([]core.Element, error) {
	var nodes []*html.Node
	switch by {
	case core.ByXPath:
		found, err := htmlquery.QueryAll(scope, selector)
		if err != nil {
			return nil, fmt.Errorf("xpath %q: %w", selector, err)
		}
		nodes = found
	case core.ByCSS:
		sel, err := cascadia.Compile(selector)
		if err != nil {
			return nil, fmt.Errorf("css %q: %w", selector, err)
		}
		nodes = sel.MatchAll(scope)
	default:
		return nil, fmt.Errorf("unsupported query kind %q", by)
	}

	els := make([]core.Element, len(nodes))
	for i, n := range nodes {
		els[i] = &staticElement{sess: sess, node: n}
	}
	return els, nil
}

type staticElement struct {
	sess *StaticSession
	node *html.Node
}

func (e *staticElement) Click(context.Context) error {
	e.sess.clicks++
	return nil
}

func (e *staticElement) OuterHTML(context.Context) (string, error) {
	var b bytes.Buffer
	if err := html.Render(&b, e.node); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e *staticElement) InnerHTML(context.Context) (string, error) {
	var b bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (e *staticElement) Text(context.Context) (string, error) {
	return htmlquery.InnerText(e.node), nil
}

func (e *staticElement) Attr(_ context.Context, name string) (string, bool, error) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true, nil
		}
	}
	return "", false, nil
}

func (e *staticElement) Query(ctx context.Context, by core.By, selector string) (core.Element, error) {
	els, err := e.QueryAll(ctx, by, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", selector, core.ErrNotFound)
	}
	return els[0], nil
}

func (e *staticElement) QueryAll(_ context.Context, by core.By, selector string) ([]core.Element, error) {
	return queryNodes(e.sess, e.node, by, selector)
}
