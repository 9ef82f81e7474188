// Package textclean repairs corrupted free text before storage or display.
//
// Scraped descriptions arrive with three kinds of damage: leftover HTML
// markup, undecoded character entities, and mojibake from bytes decoded
// under the wrong charset. Clean handles all three. It never returns an
// error; every internal failure degrades to the text as transformed so far.
package textclean

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Clean normalizes a free-text string: strips HTML markup, decodes
// entities, repairs mojibake, and collapses whitespace. Empty input
// returns empty. Cleaning already-clean text returns it unchanged
// aside from whitespace collapse.
func Clean(s string) string {
	if s == "" {
		return ""
	}

	out := stripMarkup(s)
	out = html.UnescapeString(out)
	out = repairPass(out)
	out = recoverLegacy(out)
	out = applySubstitutions(out)
	return strings.TrimSpace(collapseWhitespace(out))
}

// stripMarkup removes HTML tags and returns the text content,
// inserting separators where block elements are removed.
func stripMarkup(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// If parsing fails, fall back to regex stripping
		return stripMarkupFallback(s)
	}

	var buf strings.Builder
	extractText(doc, &buf)
	return buf.String()
}

// extractText recursively extracts text content from HTML nodes.
func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}

	// Add space after block elements
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			buf.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}

	// Add space after block elements (closing)
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			buf.WriteString(" ")
		}
	}
}

// stripMarkupFallback uses regex when parsing fails.
var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

func stripMarkupFallback(s string) string {
	return htmlTagRegex.ReplaceAllString(s, " ")
}

// collapseWhitespace replaces multiple whitespace with single space.
var whitespaceRegex = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}
