// Package domain defines the core types shared across the crawl pipeline.
package domain

// Strategy identifies which fetch strategy produced a rendered page.
type Strategy string

const (
	// StaticFetch is a single non-rendering HTTP request.
	StaticFetch Strategy = "static"
	// DynamicRender is a full browser render including script execution
	// and scroll-triggered lazy loading.
	DynamicRender Strategy = "dynamic"
)

// SearchQuery drives one crawl run. It is immutable input.
type SearchQuery struct {
	Keyword     string
	MaxPages    int
	MaxArticles int
}

// CandidateURL is a normalized absolute article URL discovered on a listing
// page, plus optional sidecar metadata captured at listing time. Identity is
// the URL string.
type CandidateURL struct {
	URL string
	// Date is listing-time date text, set only by platforms whose article
	// pages do not carry a usable date (Velog).
	Date string
}

// RenderedPage is the transient raw markup for a URL. It is owned by the
// adapter invocation that produced it and is never persisted.
type RenderedPage struct {
	URL      string
	HTML     string
	Strategy Strategy
}

// ArticleRecord is one extracted article. Title and Date may be empty when
// the page carried no recognizable markup for them.
//
// Result is emitted only for Saramin interview reviews and is always the
// empty string; it is kept as a placeholder field matching the upstream
// output shape.
type ArticleRecord struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Date    string  `json:"date"`
	Result  *string `json:"result,omitempty"`
}

// Empty reports whether the record carries neither a title nor content.
// Empty records are "nothing to report", not errors, and are dropped
// before aggregation.
func (r ArticleRecord) Empty() bool {
	return r.Title == "" && r.Content == ""
}
