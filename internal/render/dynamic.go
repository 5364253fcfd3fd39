package render

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
)

// Dynamic render defaults.
const (
	defaultWaitTimeout = 10 * time.Second
	defaultSettleDelay = 2 * time.Second
	defaultScrollPause = 2 * time.Second
	defaultMaxScrolls  = 20
)

// DynamicConfig configures a DynamicRenderer.
type DynamicConfig struct {
	// WaitSelector, when set, is the element the renderer waits for before
	// reading the page. When empty the renderer waits SettleDelay instead.
	WaitSelector string
	// WaitTimeout bounds the WaitSelector wait.
	WaitTimeout time.Duration
	// SettleDelay is the fixed pause used when no WaitSelector is set.
	SettleDelay time.Duration
	// ScrollPause is the pause between scroll-to-bottom iterations.
	ScrollPause time.Duration
	// MaxScrolls caps scroll iterations when page height never stabilizes.
	MaxScrolls int
}

// DynamicRenderer fetches pages through a headless browser, executing
// scripts and exhausting lazy-loaded content by scrolling to the bottom
// until the page height stops growing. Every invocation owns its browser
// session exclusively and tears it down on exit. It implements Renderer.
type DynamicRenderer struct {
	cfg DynamicConfig
	log logger.Interface
}

// NewDynamicRenderer creates a dynamic renderer with the given configuration.
func NewDynamicRenderer(cfg DynamicConfig, log logger.Interface) *DynamicRenderer {
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = defaultWaitTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if cfg.ScrollPause <= 0 {
		cfg.ScrollPause = defaultScrollPause
	}
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = defaultMaxScrolls
	}

	return &DynamicRenderer{cfg: cfg, log: log}
}

// Fetch renders the URL, waits for content, scrolls until the page height
// stabilizes, and returns the final markup.
func (d *DynamicRenderer) Fetch(ctx context.Context, pageURL string) (*domain.RenderedPage, error) {
	session, err := d.OpenSession(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if d.cfg.WaitSelector != "" {
		if waitErr := session.WaitVisible(d.cfg.WaitSelector, d.cfg.WaitTimeout); waitErr != nil {
			return nil, &FetchError{URL: pageURL, Reason: "render wait", Err: waitErr}
		}
	} else {
		session.Settle(d.cfg.SettleDelay)
	}

	if scrollErr := session.ScrollToEnd(d.cfg.ScrollPause, d.cfg.MaxScrolls); scrollErr != nil {
		return nil, &FetchError{URL: pageURL, Reason: "scroll", Err: scrollErr}
	}

	markup, err := session.HTML()
	if err != nil {
		return nil, &FetchError{URL: pageURL, Reason: "read rendered html", Err: err}
	}

	d.log.Debug("dynamic render complete", "url", pageURL, "bytes", len(markup))

	return &domain.RenderedPage{
		URL:      pageURL,
		HTML:     markup,
		Strategy: domain.DynamicRender,
	}, nil
}

// OpenSession launches a headless browser, navigates to the URL, and hands
// the caller a session to drive. The caller must Close the session.
func (d *DynamicRenderer) OpenSession(ctx context.Context, pageURL string) (*Session, error) {
	launch := launcher.New().Headless(true).NoSandbox(true)

	controlURL, err := launch.Launch()
	if err != nil {
		return nil, &FetchError{URL: pageURL, Reason: "launch browser", Err: err}
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if connectErr := browser.Connect(); connectErr != nil {
		launch.Kill()
		return nil, &FetchError{URL: pageURL, Reason: "connect browser", Err: connectErr}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		_ = browser.Close()
		launch.Kill()
		return nil, &FetchError{URL: pageURL, Reason: "open page", Err: err}
	}

	if loadErr := page.WaitLoad(); loadErr != nil {
		_ = page.Close()
		_ = browser.Close()
		launch.Kill()
		return nil, &FetchError{URL: pageURL, Reason: "wait load", Err: loadErr}
	}

	return &Session{
		ctx:     ctx,
		launch:  launch,
		browser: browser,
		page:    page,
		log:     d.log,
	}, nil
}

// Session is one exclusive browser session. Sessions are not shared across
// concurrent fetches.
type Session struct {
	ctx     context.Context
	launch  *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
	log     logger.Interface
}

// WaitVisible blocks until the selector is present or the timeout elapses.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	_, err := s.page.Timeout(timeout).Element(selector)
	return err
}

// Settle pauses to let scripts finish, honoring context cancellation.
func (s *Session) Settle(d time.Duration) {
	select {
	case <-s.ctx.Done():
	case <-time.After(d):
	}
}

// ScrollBottom scrolls the page to its current bottom.
func (s *Session) ScrollBottom() error {
	_, err := s.page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

// Height returns the current document height.
func (s *Session) Height() (int, error) {
	res, err := s.page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// ScrollToEnd repeats scroll-pause-measure until the page height stops
// growing or maxScrolls is reached, exhausting lazy-loaded content.
func (s *Session) ScrollToEnd(pause time.Duration, maxScrolls int) error {
	lastHeight, err := s.Height()
	if err != nil {
		return err
	}

	for i := 0; i < maxScrolls; i++ {
		if scrollErr := s.ScrollBottom(); scrollErr != nil {
			return scrollErr
		}
		s.Settle(pause)

		height, heightErr := s.Height()
		if heightErr != nil {
			return heightErr
		}
		if height == lastHeight {
			break
		}
		lastHeight = height
	}

	return nil
}

// HTML returns the current rendered markup.
func (s *Session) HTML() (string, error) {
	return s.page.HTML()
}

// Close tears down the page, the browser connection, and the browser
// process. It is safe on every exit path.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launch != nil {
		s.launch.Kill()
	}
}
