package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/atollk/geoguessr-scripts/core"
)

// ChromeSession drives one headless Chrome tab through chromedp. The tab
// holds global state (which detail panel is open), so a session must not
// be shared across goroutines; workers each start their own.
type ChromeSession struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// NewChromeSession launches a headless browser and opens a fresh tab. The
// browser starts eagerly so construction fails fast when no Chrome binary
// is available.
func NewChromeSession(parent context.Context) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	return &ChromeSession{
		ctx:     tabCtx,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
	}, nil
}

// run executes actions on the tab. Actions run on the tab's own context,
// bridged to the caller's so that cancelling the caller also aborts an
// in-flight action.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads the URL and waits for the body to be ready.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// WaitVisible blocks until the CSS selector matches a visible element or
// the timeout elapses.
func (s *ChromeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	waitCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s did not appear within %s: %w", selector, timeout, core.ErrNotFound)
		}
		return err
	}
	return nil
}

// Title returns the current document title.
func (s *ChromeSession) Title(ctx context.Context) (string, error) {
	var title string
	err := s.run(ctx, chromedp.Title(&title))
	return title, err
}

// Query returns the first element matching the selector, or ErrNotFound.
func (s *ChromeSession) Query(ctx context.Context, by core.By, selector string) (core.Element, error) {
	els, err := s.QueryAll(ctx, by, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", selector, core.ErrNotFound)
	}
	return els[0], nil
}

// QueryAll returns all elements matching the selector. XPath expressions
// go through the DOM search API, CSS selectors through querySelectorAll.
func (s *ChromeSession) QueryAll(ctx context.Context, by core.By, selector string) ([]core.Element, error) {
	opt, err := queryOption(by)
	if err != nil {
		return nil, err
	}
	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(selector, &nodes, opt, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	els := make([]core.Element, len(nodes))
	for i, n := range nodes {
		els[i] = &chromeElement{sess: s, node: n}
	}
	return els, nil
}

// Close tears down the tab and the browser process.
func (s *ChromeSession) Close() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	return nil
}

func queryOption(by core.By) (chromedp.QueryOption, error) {
	switch by {
	case core.ByCSS:
		return chromedp.ByQueryAll, nil
	case core.ByXPath:
		return chromedp.BySearch, nil
	default:
		return nil, fmt.Errorf("unsupported query kind %q", by)
	}
}

type chromeElement struct {
	sess *ChromeSession
	node *cdp.Node
}

func (e *chromeElement) Click(ctx context.Context) error {
	return e.sess.run(ctx, chromedp.MouseClickNode(e.node))
}

func (e *chromeElement) OuterHTML(ctx context.Context) (string, error) {
	var outer string
	err := e.sess.run(ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		res, err := dom.GetOuterHTML().WithBackendNodeID(e.node.BackendNodeID).Do(cctx)
		if err != nil {
			return err
		}
		outer = res
		return nil
	}))
	return outer, err
}

func (e *chromeElement) InnerHTML(ctx context.Context) (string, error) {
	return e.eval(ctx, "function() { return this.innerHTML; }")
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	return e.eval(ctx, "function() { return this.innerText; }")
}

// Attr reads from the attributes captured when the node was queried.
func (e *chromeElement) Attr(_ context.Context, name string) (string, bool, error) {
	attrs := e.node.Attributes
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i] == name {
			return attrs[i+1], true, nil
		}
	}
	return "", false, nil
}

func (e *chromeElement) Query(ctx context.Context, by core.By, selector string) (core.Element, error) {
	els, err := e.QueryAll(ctx, by, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", selector, core.ErrNotFound)
	}
	return els[0], nil
}

func (e *chromeElement) QueryAll(ctx context.Context, by core.By, selector string) ([]core.Element, error) {
	if by != core.ByCSS {
		return nil, fmt.Errorf("element-scoped queries support css only, got %q", by)
	}
	var nodes []*cdp.Node
	err := e.sess.run(ctx, chromedp.Nodes(selector, &nodes,
		chromedp.ByQueryAll, chromedp.FromNode(e.node), chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	els := make([]core.Element, len(nodes))
	for i, n := range nodes {
		els[i] = &chromeElement{sess: e.sess, node: n}
	}
	return els, nil
}

// eval calls a zero-argument function with the element bound to this.
func (e *chromeElement) eval(ctx context.Context, fn string) (string, error) {
	var out string
	err := e.sess.run(ctx, chromedp.ActionFunc(func(cctx context.Context) error {
		obj, err := dom.ResolveNode().WithBackendNodeID(e.node.BackendNodeID).Do(cctx)
		if err != nil {
			return err
		}
		res, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true).
			Do(cctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exc
		}
		return json.Unmarshal(res.Value, &out)
	}))
	return out, err
}
