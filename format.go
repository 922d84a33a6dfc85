package postsearch

import (
	"fmt"
	"strings"
)

// DefaultPreviewLen is the number of content characters included per result.
const DefaultPreviewLen = 200

// FormatLocalResults renders store query results as markdown. The caller is
// responsible for deduplication and truncation; this function only formats.
func FormatLocalResults(query string, results []ScoredDocument, previewLen int) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search results: %q\n\n", query)
	fmt.Fprintf(&b, "Total %d documents found\n\n", len(results))

	for i, r := range results {
		fmt.Fprintf(&b, "## %d. [%s](%s)\n", i+1, title(r.Title), r.URL)
		fmt.Fprintf(&b, "**Platform**: %s | **Date**: %s\n", r.Platform, r.Date)
		fmt.Fprintf(&b, "**Relevance**: %.3f\n", r.Score)
		fmt.Fprintf(&b, "**Preview**: %s\n\n", Preview(r.Content, previewLen))
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatWebResults renders live web search results as markdown, marked as
// not yet durable: the documents are still on their way into the store.
func FormatWebResults(query string, docs []Document, previewLen int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Live web search: %q\n\n", query)
	fmt.Fprintf(&b, "Found %d documents on the web. ", len(docs))
	b.WriteString("These results are being added to your local store in the background.\n\n---\n\n")

	writeDocList(&b, docs, previewLen)
	return strings.TrimRight(b.String(), "\n")
}

// FormatPlatformResults renders the results of a single-platform live
// search as markdown.
func FormatPlatformResults(platform, query string, docs []Document, previewLen int) string {
	if len(docs) == 0 {
		return fmt.Sprintf("No results found on %s for %q", platform, query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s search: %q\n\n", platform, query)
	fmt.Fprintf(&b, "Found %d documents\n\n", len(docs))

	writeDocList(&b, docs, previewLen)
	return strings.TrimRight(b.String(), "\n")
}

func writeDocList(b *strings.Builder, docs []Document, previewLen int) {
	for i, d := range docs {
		fmt.Fprintf(b, "## %d. [%s](%s)\n", i+1, title(d.Title), d.URL)
		fmt.Fprintf(b, "**Platform**: %s | **Date**: %s\n", d.Platform, d.Date)
		fmt.Fprintf(b, "**Preview**: %s\n\n", Preview(d.Content, previewLen))
	}
}

// Preview returns at most n runes of content, appending an ellipsis when the
// content was truncated.
func Preview(content string, n int) string {
	if n <= 0 {
		n = DefaultPreviewLen
	}
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}

func title(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}
