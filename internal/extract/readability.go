package extract

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Readability runs a generic readability pass over raw HTML and returns the
// extracted article text. It is the last-resort content rule for platforms
// whose selector chains all missed; a failed pass returns "".
func Readability(rawHTML, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(article.TextContent)
}
