package goodreads

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/shelfscope/shelfscope-server/internal/resolve"
)

// Rating blobs look like "4.23 avg rating — 12,345 ratings".
var (
	avgPattern     = regexp.MustCompile(`([0-9.]+) avg`)
	ratingsPattern = regexp.MustCompile(`([0-9][0-9,]*) ratings`)
)

// Search queries the search surface and returns the result rows as
// resolver candidates, in page order. Rows missing a title, an
// author, or a parseable rating blob are skipped.
func (c *Client) Search(ctx context.Context, query string) ([]resolve.Candidate, error) {
	params := url.Values{}
	params.Set("q", query)

	body, err := c.doRequest(ctx, "/search", params)
	if err != nil {
		return nil, wrapError("search", query, err)
	}

	candidates, err := parseSearchPage(body)
	if err != nil {
		return nil, wrapError("search", query, err)
	}
	return candidates, nil
}

// parseSearchPage extracts candidate rows from a search results page.
// Each row is a tr marked with the schema.org Book item type, holding
// the display title, display author, and the minirating blob.
func parseSearchPage(body []byte) ([]resolve.Candidate, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	var candidates []resolve.Candidate
	for _, row := range findBookRows(doc) {
		title := strings.TrimSpace(textByClass(row, "bookTitle"))
		author := strings.TrimSpace(textByClass(row, "authorName"))
		if title == "" || author == "" {
			continue
		}

		avg, count, ok := parseRatingBlob(textByClass(row, "minirating"))
		if !ok {
			continue
		}
		candidates = append(candidates, resolve.Candidate{
			Title:      title,
			Author:     author,
			AvgRating:  &avg,
			NumRatings: &count,
		})
	}
	return candidates, nil
}

// parseRatingBlob parses "<float> avg" and "<int with thousands
// separators> ratings" out of a combined rating blob.
func parseRatingBlob(blob string) (avg float64, count int, ok bool) {
	avgMatch := avgPattern.FindStringSubmatch(blob)
	countMatch := ratingsPattern.FindStringSubmatch(blob)
	if avgMatch == nil || countMatch == nil {
		return 0, 0, false
	}

	avg, err := strconv.ParseFloat(avgMatch[1], 64)
	if err != nil {
		return 0, 0, false
	}

	count, err = strconv.Atoi(strings.ReplaceAll(countMatch[1], ",", ""))
	if err != nil {
		return 0, 0, false
	}
	return avg, count, true
}

// findBookRows collects result rows in document order.
func findBookRows(n *html.Node) []*html.Node {
	var rows []*html.Node
	if n.Type == html.ElementNode && n.Data == "tr" && attrValue(n, "itemtype") == "http://schema.org/Book" {
		rows = append(rows, n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		rows = append(rows, findBookRows(child)...)
	}
	return rows
}

// textByClass returns the text content of the first descendant
// carrying the given class, or "" when absent.
func textByClass(n *html.Node, class string) string {
	if n.Type == html.ElementNode && hasClass(n, class) {
		var buf strings.Builder
		collectText(n, &buf)
		return buf.String()
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if text := textByClass(child, class); text != "" {
			return text
		}
	}
	return ""
}

func collectText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, buf)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
