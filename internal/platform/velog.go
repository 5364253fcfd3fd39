package platform

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/extract"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
	"github.com/minkyu-dev/blogcrawl/internal/render"
)

// VelogName is the registry name of the Velog adapter.
const VelogName = "velog"

// velogBaseURL is the site root; listing hrefs are site-relative.
const velogBaseURL = "https://velog.io"

// velogPostSelector matches post anchors on the search page: every post
// link starts with the author handle.
const velogPostSelector = `a[href^="/@"]`

// Velog field chains. The content container's class carries a variable
// highlight-theme suffix, so it is matched by substring.
var (
	velogTitleChain = extract.Chain{
		{Selector: `meta[property="og:title"]`, Attr: "content"},
	}

	velogContentChain = extract.Chain{
		{Selector: extract.ClassContains("div", "atom-one"), Blocks: true},
	}
)

// pageSession is the slice of render.Session the scroll traversal needs.
type pageSession interface {
	ScrollBottom() error
	Settle(d time.Duration)
	HTML() (string, error)
	Close()
}

// sessionOpener opens a browser session on a URL.
type sessionOpener interface {
	OpenSession(ctx context.Context, url string) (pageSession, error)
}

// dynamicOpener adapts the dynamic renderer to sessionOpener.
type dynamicOpener struct {
	renderer *render.DynamicRenderer
}

func (o dynamicOpener) OpenSession(ctx context.Context, pageURL string) (pageSession, error) {
	return o.renderer.OpenSession(ctx, pageURL)
}

// Velog crawls Velog search results. The search page is an infinite-scroll
// listing, so discovery drives a browser session through repeated
// scroll-and-reparse iterations.
type Velog struct {
	opts    Options
	log     logger.Interface
	static  render.Renderer
	dynamic render.Renderer
	opener  sessionOpener
}

// NewVelog creates the Velog adapter.
func NewVelog(opts Options, log logger.Interface) *Velog {
	log = log.WithComponent("platform.velog")

	static := render.NewStaticFetcher(render.StaticConfig{
		UserAgent: opts.UserAgent,
		Timeout:   opts.Timeout,
	}, log)

	dynamic := render.NewDynamicRenderer(opts.Render, log)

	return &Velog{
		opts:    opts,
		log:     log,
		static:  static,
		dynamic: dynamic,
		opener:  dynamicOpener{renderer: dynamic},
	}
}

// Name returns the platform identifier.
func (v *Velog) Name() string { return VelogName }

// Discover loads the search page once and scrolls it up to MaxPages times,
// collecting post URLs and their listing-time dates after each scroll.
func (v *Velog) Discover(ctx context.Context, query domain.SearchQuery) ([]domain.CandidateURL, error) {
	searchURL := velogBaseURL + "/search?q=" + url.QueryEscape(query.Keyword)

	session, err := v.opener.OpenSession(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	seen := make(map[string]bool)
	collected := make([]domain.CandidateURL, 0, query.MaxArticles)

	for i := 0; i < query.MaxPages; i++ {
		if scrollErr := session.ScrollBottom(); scrollErr != nil {
			v.log.Warn("scroll failed, stopping discovery", "error", scrollErr.Error())
			break
		}
		session.Settle(v.opts.Render.ScrollPause)

		markup, htmlErr := session.HTML()
		if htmlErr != nil {
			v.log.Warn("read rendered listing failed", "error", htmlErr.Error())
			break
		}

		before := len(collected)
		collected = v.collectAnchors(markup, seen, collected, query.MaxArticles)

		v.log.Info("scroll iteration processed",
			"iteration", i+1, "new", len(collected)-before, "collected", len(collected))

		if len(collected) >= query.MaxArticles {
			break
		}
	}

	return collected, nil
}

// collectAnchors parses the rendered listing and appends unseen post URLs
// with their listing-time date sidecars.
func (v *Velog) collectAnchors(
	markup string,
	seen map[string]bool,
	collected []domain.CandidateURL,
	maxArticles int,
) []domain.CandidateURL {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		v.log.Warn("listing parse failed", "error", err.Error())
		return collected
	}

	doc.Find(velogPostSelector).Each(func(_ int, a *goquery.Selection) {
		if len(collected) >= maxArticles {
			return
		}

		href, _ := a.Attr("href")
		fullURL := velogBaseURL + href
		if seen[fullURL] {
			return
		}

		// The post date is rendered next to the link, not on the post page.
		date := strings.TrimSpace(a.Parent().Find("div.subinfo span").First().Text())

		seen[fullURL] = true
		collected = append(collected, domain.CandidateURL{URL: fullURL, Date: date})
	})

	return collected
}

// Fetch retrieves a post statically, escalating to a render when needed,
// and stamps the record with the listing-time date.
func (v *Velog) Fetch(ctx context.Context, cand domain.CandidateURL) (domain.ArticleRecord, error) {
	rec, err := fetchWithEscalation(ctx, v.static, v.dynamic, v.Extract, cand, v.opts.MinContentLen, v.log)
	if err != nil {
		return rec, err
	}

	rec.Date = cand.Date
	return rec, nil
}

// Extract runs the Velog field chains against a rendered page. The date
// field stays empty here; it comes from the listing sidecar.
func (v *Velog) Extract(page domain.RenderedPage) domain.ArticleRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return domain.ArticleRecord{URL: page.URL}
	}

	return domain.ArticleRecord{
		URL:     page.URL,
		Title:   velogTitleChain.Apply(doc),
		Content: velogContentChain.Apply(doc),
	}
}
