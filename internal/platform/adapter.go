// Package platform implements the per-platform extraction adapters. Each
// adapter knows how to discover candidate article URLs for a search query
// and how to fetch and extract a single article, escalating from a static
// fetch to a full browser render when the static markup is too thin.
package platform

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
	"github.com/minkyu-dev/blogcrawl/internal/render"
)

// Adapter is one publishing platform.
type Adapter interface {
	// Name returns the platform identifier.
	Name() string
	// Discover runs the platform's listing traversal and returns candidate
	// article URLs in first-seen order, deduplicated and capped at the
	// query's MaxArticles. Each invocation restarts from page one.
	Discover(ctx context.Context, query domain.SearchQuery) ([]domain.CandidateURL, error)
	// Fetch retrieves one candidate's page and extracts a record. A failed
	// fetch returns an error; a page with no recognizable structure returns
	// a record with empty fields and no error.
	Fetch(ctx context.Context, cand domain.CandidateURL) (domain.ArticleRecord, error)
	// Extract runs the platform's extraction chains against an already
	// rendered page.
	Extract(page domain.RenderedPage) domain.ArticleRecord
}

// ListingAdapter is implemented by platforms whose listing pages are
// themselves the content pages, yielding several records per candidate URL.
// An empty FetchAll result means the listing is exhausted.
type ListingAdapter interface {
	Adapter
	FetchAll(ctx context.Context, cand domain.CandidateURL) ([]domain.ArticleRecord, error)
}

// Options carries the tunables shared by every adapter.
type Options struct {
	UserAgent string
	// Timeout bounds a single static fetch.
	Timeout time.Duration
	// Delay is the politeness pause between listing page requests.
	Delay time.Duration
	// MinContentLen is the escalation threshold: a static extraction with
	// fewer content runes than this triggers one dynamic render.
	MinContentLen int
	// Render configures the dynamic render strategy.
	Render render.DynamicConfig
}

// defaultMinContentLen is the escalation threshold when unset.
const defaultMinContentLen = 20

// fetchWithEscalation implements the shared strategy-selection policy:
// fetch with the primary static renderer, and when that fetch fails or the
// extracted content falls below minLen runes, invoke the dynamic fallback
// exactly once for this URL. The richer extraction wins.
func fetchWithEscalation(
	ctx context.Context,
	primary render.Renderer,
	fallback render.Renderer,
	extractFn func(domain.RenderedPage) domain.ArticleRecord,
	cand domain.CandidateURL,
	minLen int,
	log logger.Interface,
) (domain.ArticleRecord, error) {
	if minLen <= 0 {
		minLen = defaultMinContentLen
	}

	var staticRec domain.ArticleRecord

	page, err := primary.Fetch(ctx, cand.URL)
	if err == nil {
		staticRec = extractFn(*page)
		if utf8.RuneCountInString(staticRec.Content) >= minLen {
			return staticRec, nil
		}
	}

	if fallback == nil {
		if err != nil {
			return domain.ArticleRecord{}, err
		}
		return staticRec, nil
	}

	log.Debug("escalating to dynamic render",
		"url", cand.URL,
		"static_failed", err != nil,
		"content_len", utf8.RuneCountInString(staticRec.Content),
	)

	dynPage, dynErr := fallback.Fetch(ctx, cand.URL)
	if dynErr != nil {
		if err != nil {
			// Both strategies failed; surface the original failure.
			return domain.ArticleRecord{}, err
		}
		log.Warn("dynamic render failed, keeping static result",
			"url", cand.URL, "error", dynErr.Error())
		return staticRec, nil
	}

	dynRec := extractFn(*dynPage)
	if len(dynRec.Content) >= len(staticRec.Content) {
		return dynRec, nil
	}
	return staticRec, nil
}

// rewriteRenderer fetches through a rewritten URL while reporting the
// original one on the rendered page, so records keep the canonical URL.
type rewriteRenderer struct {
	inner   render.Renderer
	rewrite func(string) string
}

// Fetch implements render.Renderer.
func (r rewriteRenderer) Fetch(ctx context.Context, url string) (*domain.RenderedPage, error) {
	page, err := r.inner.Fetch(ctx, r.rewrite(url))
	if page != nil {
		page.URL = url
	}
	return page, err
}

// ExternalHTTPURL reports whether raw is an absolute http(s) URL rather than
// a placeholder href ("#", "javascript:void(0)") or a relative path.
func ExternalHTTPURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "#" || raw == "javascript:void(0)" {
		return false
	}
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// sleepCtx pauses for the politeness delay, honoring cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
