package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minkyu-dev/blogcrawl/internal/extract"
)

func parseDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestChain_FirstNonEmptyWins(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head>
		<meta property="og:title" content="Meta Title">
	</head><body><h3>Heading Title</h3></body></html>`)

	chain := extract.Chain{
		{Selector: `meta[property="og:title"]`, Attr: "content"},
		{Selector: "h3"},
	}

	assert.Equal(t, "Meta Title", chain.Apply(doc))
}

func TestChain_FallsThroughMissingRules(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body><h3>  Heading Title  </h3></body></html>`)

	chain := extract.Chain{
		{Selector: `meta[property="og:title"]`, Attr: "content"},
		{Selector: "h3"},
	}

	assert.Equal(t, "Heading Title", chain.Apply(doc))
}

func TestChain_NoMatchReturnsEmpty(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body><p>unrelated</p></body></html>`)

	chain := extract.Chain{
		{Selector: "div.missing"},
		{Selector: "article"},
	}

	assert.Empty(t, chain.Apply(doc))
}

func TestChain_PostRejectionContinues(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
		<span class="when">posted yesterday</span>
		<span class="stamp">2023.05.17</span>
	</body></html>`)

	chain := extract.Chain{
		{Selector: "span.when", Post: extract.DateToken},
		{Selector: "span.stamp", Post: extract.DateToken},
	}

	assert.Equal(t, "2023.05.17", chain.Apply(doc))
}

func TestDateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain token", in: "2023.01.05", want: "2023.01.05"},
		{name: "embedded token", in: "작성일 2024.11.30 기준", want: "2024.11.30"},
		{name: "no token", in: "yesterday", want: ""},
		{name: "partial token rejected", in: "2023.1.5", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.DateToken(tt.in))
		})
	}
}

func TestBlockText_PreservesBlockBoundaries(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body><div id="post">
		<p>first paragraph</p>
		<div>second <b>block</b></div>
		<script>ignored()</script>
	</div></body></html>`)

	got := extract.BlockText(doc.Find("div#post"))

	assert.Equal(t, "first paragraph\nsecond\nblock", got)
}

func TestMetaProperty(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head>
		<meta property="article:published_time" content=" 2024-02-01T10:00:00 ">
	</head></html>`)

	assert.Equal(t, "2024-02-01T10:00:00", extract.MetaProperty(doc, "article:published_time"))
	assert.Empty(t, extract.MetaProperty(doc, "og:title"))
}

func TestClassContains_MatchesDynamicSuffix(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
		<div class="sc-eGRUor atom-one-dark hjkXpQ">post body</div>
	</body></html>`)

	sel := doc.Find(extract.ClassContains("div", "atom-one"))
	require.Equal(t, 1, sel.Length())
	assert.Equal(t, "post body", strings.TrimSpace(sel.Text()))
}

func TestReadability_InvalidURL(t *testing.T) {
	t.Parallel()

	assert.Empty(t, extract.Readability("<html></html>", "://bad"))
}
