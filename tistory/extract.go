package tistory

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// contentSelectors is the ordered fallback chain of content containers used
// by the common Tistory skins. The first selector yielding non-empty text
// wins.
var contentSelectors = []string{
	"div.entry-content",
	"div.article",
	"div.post-content",
	"div.tt_article_useless_p_margin",
	"div.contents_style",
	"div#content",
}

// adSelectors match advertisement substructures stripped from the winning
// container before extraction.
var adSelectors = []string{
	"div.revenue_unit_wrap",
	"ins.google-auto-placed",
}

// markdown is the shared HTML → markdown converter. Safe for concurrent use.
var markdown = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// post is the extractable payload of one blog post page.
type post struct {
	Title   string
	Date    string
	Content string
}

// extractPost parses a post page and extracts title, date and content, each
// through its fallback chain. An empty Content means the page has no
// extractable body and should be dropped.
func extractPost(rawHTML string, postID int) (post, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return post{}, err
	}

	// Content extraction mutates the document (ad stripping, heading
	// removal), so title and date come first.
	p := post{
		Title: extractTitle(doc, postID),
		Date:  extractDate(doc),
	}
	p.Content = extractContent(doc)
	return p, nil
}

// extractTitle falls back through page h1 → social-preview title → a
// synthesized placeholder.
func extractTitle(doc *goquery.Document, postID int) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return fmt.Sprintf("Post %d", postID)
}

// extractDate falls back from the skin's date element to a generic time
// element to empty.
func extractDate(doc *goquery.Document) string {
	if date := strings.TrimSpace(doc.Find("span.date").First().Text()); date != "" {
		return date
	}
	return strings.TrimSpace(doc.Find("time").First().Text())
}

// extractContent tries the selector chain, stripping ads from each candidate
// before converting the winner to markdown. When no selector yields text it
// falls back to trafilatura's generic main-content extraction.
func extractContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		for _, ad := range adSelectors {
			sel.Find(ad).Remove()
		}

		inner, err := sel.Html()
		if err != nil {
			continue
		}
		md, err := markdown.ConvertString(inner)
		if err != nil {
			continue
		}
		if md = strings.TrimSpace(md); md != "" {
			return md
		}
	}

	return extractFallback(doc)
}

// extractFallback runs trafilatura over the whole page as a last resort for
// skins whose content container matches none of the known selectors. Headings
// and the document title are removed first: a page whose only text is its own
// title has no body and must yield nothing.
func extractFallback(doc *goquery.Document) string {
	doc.Find("h1, title").Remove()

	pageHTML, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return ""
	}

	result, err := trafilatura.Extract(strings.NewReader(pageHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil || result.ContentNode == nil {
		return ""
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return ""
	}
	md, err := markdown.ConvertString(contentHTML)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
