// Package extract provides selector-driven text extraction from HTML
// documents. Each field of an article is described by an ordered chain of
// rules; the first rule producing non-empty trimmed text wins.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Rule is a single extraction step. Selector is a CSS selector; when Attr is
// set the named attribute is read instead of the element text. Post, when
// set, transforms the extracted text and may return "" to reject it.
type Rule struct {
	Selector string
	Attr     string
	Post     func(string) string
	// Blocks extracts text with block-level boundaries preserved as
	// newlines rather than flattening the subtree.
	Blocks bool
}

// Chain is an ordered list of rules evaluated until one yields text.
type Chain []Rule

// Apply evaluates the chain against doc and returns the first non-empty
// trimmed result, or "" when no rule matches.
func (c Chain) Apply(doc *goquery.Document) string {
	for _, rule := range c {
		sel := doc.Find(rule.Selector).First()
		if sel.Length() == 0 {
			continue
		}

		var text string
		switch {
		case rule.Attr != "":
			text, _ = sel.Attr(rule.Attr)
		case rule.Blocks:
			text = BlockText(sel)
		default:
			text = sel.Text()
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if rule.Post != nil {
			text = rule.Post(text)
		}
		if text != "" {
			return text
		}
	}

	return ""
}

// dateTokenRe matches a YYYY.MM.DD shaped date token.
var dateTokenRe = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}`)

// DateToken extracts a YYYY.MM.DD token from text. It returns "" when no
// token is present, never a partial match.
func DateToken(text string) string {
	return dateTokenRe.FindString(text)
}

// MetaProperty returns the content attribute of a <meta property="..."> tag,
// trimmed, or "" when absent.
func MetaProperty(doc *goquery.Document, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	return strings.TrimSpace(content)
}

// BlockText extracts the text of a selection with each text node trimmed and
// joined by newlines, so block-level structure survives as line breaks.
func BlockText(sel *goquery.Selection) string {
	var parts []string

	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}

	return strings.Join(parts, "\n")
}

// collectText walks the node tree appending trimmed text node contents.
func collectText(node *html.Node, parts *[]string) {
	if node.Type == html.TextNode {
		if text := strings.TrimSpace(node.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	}

	// Script and style bodies are not content.
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}

// ClassContains returns a predicate-style selector matching elements whose
// class attribute contains the given substring. Platforms that append
// variable suffixes to class names (Velog's highlight themes) need this
// instead of an exact class match.
func ClassContains(tag, substr string) string {
	return tag + `[class*="` + substr + `"]`
}
