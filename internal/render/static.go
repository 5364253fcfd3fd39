package render

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
)

// defaultUserAgent is a desktop browser user agent sent with every static
// request so listing and article pages serve their full markup.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// defaultTimeout bounds a single static request.
const defaultTimeout = 5 * time.Second

// htmlPrefixLen is how much of a fetched body gets logged at debug level.
const htmlPrefixLen = 300

// StaticConfig configures a StaticFetcher.
type StaticConfig struct {
	UserAgent string
	// Referer, when set, is sent with every request. Tistory serves article
	// markup only behind its own referer.
	Referer string
	Timeout time.Duration
	// MaxRedirects bounds transparently followed redirects. Zero means a
	// redirect response is returned as-is and treated as a failed fetch.
	MaxRedirects int
	// RewriteURL, when set, maps the requested URL to the one actually
	// fetched. Naver desktop pages omit the post body, so its adapter
	// rewrites the host to the mobile subdomain here.
	RewriteURL func(string) string
}

// StaticFetcher issues single HTTP GET requests with a browser-like user
// agent. It implements Renderer.
type StaticFetcher struct {
	client *http.Client
	cfg    StaticConfig
	log    logger.Interface
}

// NewStaticFetcher creates a static fetcher with the given configuration.
func NewStaticFetcher(cfg StaticConfig, log logger.Interface) *StaticFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return &StaticFetcher{client: client, cfg: cfg, log: log}
}

// Fetch performs a single GET and returns the page markup. The returned
// page keeps the requested URL even when RewriteURL changed the target.
func (f *StaticFetcher) Fetch(ctx context.Context, pageURL string) (*domain.RenderedPage, error) {
	target := pageURL
	if f.cfg.RewriteURL != nil {
		target = f.cfg.RewriteURL(pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Reason: "create request", Err: err}
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)
	if f.cfg.Referer != "" {
		req.Header.Set("Referer", f.cfg.Referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Reason: "http get", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Reason:     "unexpected status",
		}
	}

	// Normalize legacy encodings (EUC-KR listing pages) to UTF-8.
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		reader = resp.Body
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Reason: "read body", Err: err}
	}

	markup := string(body)
	f.log.Debug("static fetch complete",
		"url", pageURL,
		"bytes", len(markup),
		"html_prefix", prefix(markup, htmlPrefixLen),
	)

	return &domain.RenderedPage{
		URL:      pageURL,
		HTML:     markup,
		Strategy: domain.StaticFetch,
	}, nil
}

// prefix returns at most n bytes of s.
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
