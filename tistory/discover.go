package tistory

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bits-and-blooms/bloom/v3"
)

// linkSelectors is the fixed set of selectors probed for post links on a
// search results page, covering the common Tistory skins.
var linkSelectors = []string{
	"a.link_post",
	"div.list_content a",
	"div.searchList a",
	"article a",
}

// Bloom filter sizing for link deduplication during discovery.
const (
	discoveryExpectedLinks     = 1000
	discoveryFalsePositiveRate = 0.01
)

// discoverPostIDs extracts post IDs from a search results page. Links are
// deduplicated with a Bloom filter; only links whose path is a bare numeric
// post ID qualify. Results are capped to limit, in document order.
func discoverPostIDs(rawHTML string, limit int) []int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	seen := bloom.NewWithEstimates(discoveryExpectedLinks, discoveryFalsePositiveRate)
	var ids []int

	for _, selector := range linkSelectors {
		if len(ids) >= limit {
			break
		}
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, ok := sel.Attr("href")
			if !ok || href == "" {
				return true
			}
			if seen.TestOrAddString(href) {
				return true
			}

			id, ok := postIDFromHref(href)
			if !ok {
				return true
			}
			ids = append(ids, id)
			return len(ids) < limit
		})
	}

	return ids
}

// postIDFromHref parses a post ID out of a link target. Accepts absolute and
// relative links whose path is a single numeric segment.
func postIDFromHref(href string) (int, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return 0, false
	}

	path := strings.Trim(u.Path, "/")
	id, err := strconv.Atoi(path)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
