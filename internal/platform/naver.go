package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/extract"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
	"github.com/minkyu-dev/blogcrawl/internal/render"
)

// NaverName is the registry name of the Naver blog adapter.
const NaverName = "naver"

// naverPageSize is the fixed result count per search page; the search URL
// wants both a page number and a start offset derived from it.
const naverPageSize = 15

// naverSearchURL is the blog-tab search endpoint.
const naverSearchURL = "https://search.naver.com/search.naver"

// naverListingSelector matches saved-post anchors on a blog search page.
// The article URL lives in the data-url attribute, not href.
const naverListingSelector = "div.api_save_group._keep_wrap a[data-url]"

// Naver blog field chains. Desktop pages omit the post markup entirely, so
// extraction always runs against the mobile subdomain's pages.
var (
	naverTitleChain = extract.Chain{
		{Selector: `meta[property="og:title"]`, Attr: "content"},
		{Selector: "h3"},
	}

	// New editor first, then the legacy post container.
	naverContentChain = extract.Chain{
		{Selector: "div.se-main-container", Blocks: true},
		{Selector: "div#postViewArea", Blocks: true},
	}

	naverDateChain = extract.Chain{
		{Selector: `meta[property="article:published_time"]`, Attr: "content"},
		{Selector: "span.se_publishDate", Post: extract.DateToken},
	}
)

// Naver crawls Naver blog search results.
type Naver struct {
	opts    Options
	log     logger.Interface
	static  render.Renderer
	dynamic render.Renderer
	// searchBase is the search endpoint, overridable in tests.
	searchBase string
}

// NewNaver creates the Naver blog adapter.
func NewNaver(opts Options, log logger.Interface) *Naver {
	log = log.WithComponent("platform.naver")

	static := render.NewStaticFetcher(render.StaticConfig{
		UserAgent:  opts.UserAgent,
		Timeout:    opts.Timeout,
		RewriteURL: naverMobileURL,
	}, log)

	dynamic := rewriteRenderer{
		inner:   render.NewDynamicRenderer(opts.Render, log),
		rewrite: naverMobileURL,
	}

	return &Naver{
		opts:       opts,
		log:        log,
		static:     static,
		dynamic:    dynamic,
		searchBase: naverSearchURL,
	}
}

// Name returns the platform identifier.
func (n *Naver) Name() string { return NaverName }

// naverMobileURL rewrites a desktop blog URL to the mobile subdomain.
func naverMobileURL(pageURL string) string {
	return strings.Replace(pageURL, "://blog.naver.com/", "://m.blog.naver.com/", 1)
}

// Discover walks the paginated blog search listing, collecting post URLs
// from each page until a page yields no results or MaxArticles is reached.
func (n *Naver) Discover(ctx context.Context, query domain.SearchQuery) ([]domain.CandidateURL, error) {
	seen := make(map[string]bool)
	collected := make([]domain.CandidateURL, 0, query.MaxArticles)
	pageMatches := 0

	c := colly.NewCollector(
		colly.UserAgent(n.opts.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(n.opts.Timeout)
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: n.opts.Delay}); err != nil {
		return nil, fmt.Errorf("configure rate limit: %w", err)
	}

	c.OnHTML(naverListingSelector, func(e *colly.HTMLElement) {
		pageMatches++

		raw := strings.TrimSpace(e.Attr("data-url"))
		if !ExternalHTTPURL(raw) {
			return
		}
		if seen[raw] || len(collected) >= query.MaxArticles {
			return
		}

		seen[raw] = true
		collected = append(collected, domain.CandidateURL{URL: raw})
	})

	c.OnError(func(r *colly.Response, err error) {
		n.log.Warn("search page fetch failed",
			"url", r.Request.URL.String(), "error", err.Error())
	})

	for page := 1; page <= query.MaxPages; page++ {
		start := (page-1)*naverPageSize + 1
		searchURL := fmt.Sprintf(
			"%s?ssc=tab.blog.all&sm=tab_jum&query=%s&page=%d&start=%d",
			n.searchBase, url.QueryEscape(query.Keyword), page, start,
		)

		pageMatches = 0
		if err := c.Visit(searchURL); err != nil {
			// A failed page is skipped, not treated as end of results.
			continue
		}

		if pageMatches == 0 {
			n.log.Info("no results on listing page, stopping discovery", "page", page)
			break
		}

		n.log.Info("listing page processed",
			"page", page, "start", start, "collected", len(collected))

		if len(collected) >= query.MaxArticles {
			break
		}
	}

	return collected, nil
}

// Fetch retrieves a blog post through the mobile subdomain and extracts it,
// escalating to a browser render when the static markup is too thin.
func (n *Naver) Fetch(ctx context.Context, cand domain.CandidateURL) (domain.ArticleRecord, error) {
	return fetchWithEscalation(ctx, n.static, n.dynamic, n.Extract, cand, n.opts.MinContentLen, n.log)
}

// Extract runs the Naver field chains against a rendered page.
func (n *Naver) Extract(page domain.RenderedPage) domain.ArticleRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return domain.ArticleRecord{URL: page.URL}
	}

	return domain.ArticleRecord{
		URL:     page.URL,
		Title:   naverTitleChain.Apply(doc),
		Content: naverContentChain.Apply(doc),
		Date:    naverDateChain.Apply(doc),
	}
}
