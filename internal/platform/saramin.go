package platform

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/minkyu-dev/blogcrawl/internal/domain"
	"github.com/minkyu-dev/blogcrawl/internal/logger"
	"github.com/minkyu-dev/blogcrawl/internal/render"
)

// SaraminName is the registry name of the Saramin adapter.
const SaraminName = "saramin"

// saraminBaseURL is the interview review listing endpoint. Unlike the blog
// platforms, the listing pages are themselves the content pages: each one
// carries a batch of full reviews and there are no per-review detail URLs.
const saraminBaseURL = "https://www.saramin.co.kr/zf_user/interview-review"

// saraminReviewSelector matches one review box on a listing page.
const saraminReviewSelector = "div.box_review"

// Saramin crawls Saramin interview reviews. It implements ListingAdapter:
// candidate URLs are paginated listing pages and each yields several
// records.
type Saramin struct {
	opts   Options
	log    logger.Interface
	static render.Renderer
}

// NewSaramin creates the Saramin adapter.
func NewSaramin(opts Options, log logger.Interface) *Saramin {
	log = log.WithComponent("platform.saramin")

	static := render.NewStaticFetcher(render.StaticConfig{
		UserAgent: opts.UserAgent,
		Timeout:   opts.Timeout,
	}, log)

	return &Saramin{opts: opts, log: log, static: static}
}

// Name returns the platform identifier.
func (s *Saramin) Name() string { return SaraminName }

// Discover enumerates the paginated listing URLs. No network traffic
// happens here; exhaustion is detected at fetch time when a page carries no
// review boxes.
func (s *Saramin) Discover(_ context.Context, query domain.SearchQuery) ([]domain.CandidateURL, error) {
	pages := query.MaxPages
	if query.MaxArticles < pages {
		// One page yields at least one review, so more pages than
		// MaxArticles can never be needed.
		pages = query.MaxArticles
	}

	collected := make([]domain.CandidateURL, 0, pages)
	for page := 1; page <= pages; page++ {
		collected = append(collected, domain.CandidateURL{URL: s.listingURL(page)})
	}

	return collected, nil
}

// listingURL builds one paginated listing URL with the fixed filter set
// (IT job category, newest first).
func (s *Saramin) listingURL(page int) string {
	params := url.Values{
		"my":           {"0"},
		"page":         {strconv.Itoa(page)},
		"csn":          {""},
		"group_cd":     {""},
		"orderby":      {"registration"},
		"career_cd":    {""},
		"job_category": {"2"},
		"company_nm":   {""},
	}
	return saraminBaseURL + "?" + params.Encode()
}

// FetchAll retrieves one listing page and extracts every review on it. An
// empty result means the listing is exhausted.
func (s *Saramin) FetchAll(ctx context.Context, cand domain.CandidateURL) ([]domain.ArticleRecord, error) {
	page, err := s.static.Fetch(ctx, cand.URL)
	if err != nil {
		return nil, err
	}
	return s.ExtractAll(*page), nil
}

// Fetch satisfies Adapter for callers that want a single record; it returns
// the first review on the page, or an empty record when there is none.
func (s *Saramin) Fetch(ctx context.Context, cand domain.CandidateURL) (domain.ArticleRecord, error) {
	records, err := s.FetchAll(ctx, cand)
	if err != nil {
		return domain.ArticleRecord{}, err
	}
	if len(records) == 0 {
		return domain.ArticleRecord{URL: cand.URL, Result: emptyResult()}, nil
	}
	return records[0], nil
}

// Extract returns the first review on a rendered listing page.
func (s *Saramin) Extract(page domain.RenderedPage) domain.ArticleRecord {
	records := s.ExtractAll(page)
	if len(records) == 0 {
		return domain.ArticleRecord{URL: page.URL, Result: emptyResult()}
	}
	return records[0]
}

// ExtractAll parses every review box on a rendered listing page. Boxes
// missing their title or body container are skipped.
func (s *Saramin) ExtractAll(page domain.RenderedPage) []domain.ArticleRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil
	}

	var records []domain.ArticleRecord
	doc.Find(saraminReviewSelector).Each(func(_ int, box *goquery.Selection) {
		rec, ok := s.parseReview(box, page.URL)
		if !ok {
			return
		}
		records = append(records, rec)
	})

	return records
}

// parseReview extracts one review box into a record. Title is the company
// name, date is the posting date, and the structured review sections fold
// into the content as labeled lines.
func (s *Saramin) parseReview(box *goquery.Selection, pageURL string) (domain.ArticleRecord, bool) {
	title := box.Find("div.view_title").First()
	if title.Length() == 0 {
		s.log.Warn("review box missing title container, skipping")
		return domain.ArticleRecord{}, false
	}

	cont := box.Find("div.view_cont").First()
	if cont.Length() == 0 {
		s.log.Warn("review box missing content container, skipping")
		return domain.ArticleRecord{}, false
	}

	// Company name: the strong tag minus its nested badge span.
	company := ""
	if strong := title.Find("strong").First(); strong.Length() > 0 {
		clone := strong.Clone()
		clone.Find("span").Remove()
		company = strings.TrimSpace(clone.Text())
	}

	date := strings.TrimSpace(title.Find("span.txt_date").First().Text())

	var lines []string
	appendSection(&lines, "면접 정보", flatText(title.Find("ul").First()))

	emotion := cont.Find("div.info_emotion").First()
	appendSection(&lines, "전반적 평가", flatText(emotion.Find("dl").First().Find("dd").First()))
	appendSection(&lines, "난이도", flatText(emotion.Find("dd.spr_review").First()))

	views := cont.Find("div.info_view")
	appendSection(&lines, "면접 유형", flatText(views.Eq(0).Find("ul").First()))
	appendSection(&lines, "면접 인원", flatText(views.Eq(1).Find("ul").First()))
	appendSection(&lines, "면접 진행 방식", flatText(views.Eq(2).Find("p.txt_desc").First()))

	questions := views.Eq(3).Find("ul.list_question li")
	if questions.Length() > 0 {
		lines = append(lines, "면접 질문:")
		questions.Each(func(_ int, li *goquery.Selection) {
			if q := flatText(li); q != "" {
				lines = append(lines, "- "+q)
			}
		})
	}

	// The closing tip is the last of the repeated description paragraphs,
	// present only when there is more than one.
	descs := cont.Find("p.txt_desc")
	if descs.Length() > 1 {
		appendSection(&lines, "팁", flatText(descs.Eq(descs.Length()-1)))
	}

	return domain.ArticleRecord{
		URL:     pageURL,
		Title:   company,
		Content: strings.Join(lines, "\n"),
		Date:    date,
		Result:  emptyResult(),
	}, true
}

// appendSection appends a "label: value" line when the value is non-empty.
func appendSection(lines *[]string, label, value string) {
	if value == "" {
		return
	}
	*lines = append(*lines, label+": "+value)
}

// flatText returns the selection's text with all whitespace runs collapsed
// to single spaces.
func flatText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// emptyResult returns the always-empty result placeholder carried on every
// Saramin record to match the upstream output shape.
func emptyResult() *string {
	empty := ""
	return &empty
}
