package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/extract"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
	"github.com/minkyu-dev/blogcrawl/internal/render"
)

// TistoryName is the registry name of the Tistory adapter.
const TistoryName = "tistory"

// tistorySearchURL is the post search endpoint. Listing markup is built by
// scripts, so discovery pages go through the dynamic renderer.
const tistorySearchURL = "https://www.tistory.com/search"

// tistoryReferer is required on article fetches; some blogs serve a stub
// without it.
const tistoryReferer = "https://www.tistory.com/"

// tistoryListingSelector matches post links on a rendered search page.
const tistoryListingSelector = "div.item_group a.link_cont.zoom_cont"

// tistoryListingWait is the element whose presence means the search results
// finished rendering.
const tistoryListingWait = "div.item_group"

// Tistory field chains. Content markup varies wildly across blog skins, so
// the chain walks editor-specific containers before generic ones.
var (
	tistoryTitleChain = extract.Chain{
		{Selector: `meta[property="og:title"]`, Attr: "content"},
		{Selector: "title"},
	}

	tistoryContentChain = extract.Chain{
		{Selector: "article", Blocks: true},
		{Selector: "div.post-content", Blocks: true},
		{Selector: "div#post", Blocks: true},
		{Selector: "div#content", Blocks: true},
		{Selector: "div.entry-content", Blocks: true},
		{Selector: "div.postArea", Blocks: true},
	}

	tistoryDateChain = extract.Chain{
		{Selector: `meta[property="article:published_time"]`, Attr: "content"},
		{Selector: "time", Attr: "datetime"},
		{Selector: "time"},
	}
)

// Tistory crawls Tistory blog search results.
type Tistory struct {
	opts    Options
	log     logger.Interface
	static  render.Renderer
	dynamic render.Renderer
	// listing renders search pages and waits for the result container.
	listing render.Renderer
}

// NewTistory creates the Tistory adapter.
func NewTistory(opts Options, log logger.Interface) *Tistory {
	log = log.WithComponent("platform.tistory")

	static := render.NewStaticFetcher(render.StaticConfig{
		UserAgent: opts.UserAgent,
		Timeout:   opts.Timeout,
		Referer:   tistoryReferer,
	}, log)

	listingCfg := opts.Render
	listingCfg.WaitSelector = tistoryListingWait

	return &Tistory{
		opts:    opts,
		log:     log,
		static:  static,
		dynamic: render.NewDynamicRenderer(opts.Render, log),
		listing: render.NewDynamicRenderer(listingCfg, log),
	}
}

// Name returns the platform identifier.
func (t *Tistory) Name() string { return TistoryName }

// Discover renders each paginated search page and collects absolute post
// URLs, stopping when a page yields none or MaxArticles is reached.
func (t *Tistory) Discover(ctx context.Context, query domain.SearchQuery) ([]domain.CandidateURL, error) {
	seen := make(map[string]bool)
	collected := make([]domain.CandidateURL, 0, query.MaxArticles)

	for page := 1; page <= query.MaxPages; page++ {
		searchURL := fmt.Sprintf(
			"%s?keyword=%s&type=post&sort=ACCURACY&page=%d",
			tistorySearchURL, url.QueryEscape(query.Keyword), page,
		)

		rendered, err := t.listing.Fetch(ctx, searchURL)
		if err != nil {
			t.log.Warn("listing render failed, skipping page",
				"page", page, "error", err.Error())
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered.HTML))
		if err != nil {
			t.log.Warn("listing parse failed", "page", page, "error", err.Error())
			continue
		}

		matches := 0
		doc.Find(tistoryListingSelector).Each(func(_ int, a *goquery.Selection) {
			matches++

			href, _ := a.Attr("href")
			if !ExternalHTTPURL(href) || seen[href] || len(collected) >= query.MaxArticles {
				return
			}

			seen[href] = true
			collected = append(collected, domain.CandidateURL{URL: href})
		})

		if matches == 0 {
			t.log.Info("no results on listing page, stopping discovery", "page", page)
			break
		}

		t.log.Info("listing page processed", "page", page, "collected", len(collected))

		if len(collected) >= query.MaxArticles {
			break
		}
		if err := sleepCtx(ctx, t.opts.Delay); err != nil {
			return collected, err
		}
	}

	return collected, nil
}

// Fetch retrieves a post statically and escalates to a full render when the
// fetch fails or the content is too thin.
func (t *Tistory) Fetch(ctx context.Context, cand domain.CandidateURL) (domain.ArticleRecord, error) {
	return fetchWithEscalation(ctx, t.static, t.dynamic, t.Extract, cand, t.opts.MinContentLen, t.log)
}

// Extract runs the Tistory field chains, falling back to a readability pass
// when no known content container matched.
func (t *Tistory) Extract(page domain.RenderedPage) domain.ArticleRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return domain.ArticleRecord{URL: page.URL}
	}

	content := tistoryContentChain.Apply(doc)
	if content == "" {
		content = extract.Readability(page.HTML, page.URL)
	}

	return domain.ArticleRecord{
		URL:     page.URL,
		Title:   tistoryTitleChain.Apply(doc),
		Content: content,
		Date:    tistoryDateChain.Apply(doc),
	}
}
