// Package notion implements postsearch.Crawler for a Notion workspace.
// It harvests pages through the cursor-paginated search endpoint and
// extracts page text from the nested block tree with a bounded descent.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/postsearch"
)

// Defaults for Crawler tuning knobs.
const (
	DefaultBaseURL  = "https://api.notion.com/v1"
	DefaultVersion  = "2022-06-28"
	DefaultPageSize = 100
	DefaultMaxDepth = 10
	DefaultTimeout  = 10 * time.Second
)

// Ensure Crawler implements postsearch.Crawler at compile time.
var _ postsearch.Crawler = (*Crawler)(nil)

// Crawler harvests and searches pages in a Notion workspace. A Crawler with
// no APIKey is disabled: both operations return an empty result set.
type Crawler struct {
	APIKey   string
	BaseURL  string        // API base URL, defaults to DefaultBaseURL
	Version  string        // protocol version header, defaults to DefaultVersion
	PageSize int           // listing page size, defaults to DefaultPageSize
	MaxDepth int           // block descent bound, defaults to DefaultMaxDepth
	Timeout  time.Duration // per-request timeout, defaults to DefaultTimeout
	Logger   *slog.Logger

	once   sync.Once
	client *http.Client
}

// Platform returns the platform tag for Notion documents.
func (c *Crawler) Platform() string {
	return postsearch.PlatformNotion
}

// FetchAll harvests every page reachable through the workspace search
// endpoint, following the continuation cursor until the API reports no more
// pages. Per-page extraction failures are absorbed: the page is kept with
// empty content rather than aborting the harvest.
func (c *Crawler) FetchAll(ctx context.Context) ([]postsearch.Document, error) {
	if c.APIKey == "" {
		c.logger().Warn("notion API key not set, source disabled")
		return nil, nil
	}

	pages, err := c.searchPages(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	c.logger().Info("found notion pages", "count", len(pages))

	docs := make([]postsearch.Document, 0, len(pages))
	for i, p := range pages {
		docs = append(docs, c.buildDocument(ctx, p))
		if (i+1)%10 == 0 {
			c.logger().Info("notion harvest progress", "done", i+1, "total", len(pages))
		}
	}
	return docs, nil
}

// Search performs a keyword-filtered page request against the workspace
// search endpoint, capped to limit results.
func (c *Crawler) Search(ctx context.Context, query string, limit int) ([]postsearch.Document, error) {
	if c.APIKey == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	pages, err := c.searchPages(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	docs := make([]postsearch.Document, 0, len(pages))
	for _, p := range pages {
		docs = append(docs, c.buildDocument(ctx, p))
	}
	return docs, nil
}

// buildDocument assembles a Document from a page record and its extracted
// block content.
func (c *Crawler) buildDocument(ctx context.Context, p page) postsearch.Document {
	content, err := c.pageContent(ctx, p.ID)
	if err != nil {
		c.logger().Debug("failed to extract page content", "page", p.ID, "err", err)
		content = ""
	}

	return postsearch.Document{
		ID:       "notion_" + p.ID,
		Title:    p.title(),
		Content:  content,
		URL:      p.URL,
		Platform: postsearch.PlatformNotion,
		Date:     p.CreatedTime,
	}
}

// page is a Notion page record as returned by the search endpoint.
type page struct {
	ID          string              `json:"id"`
	URL         string              `json:"url"`
	CreatedTime string              `json:"created_time"`
	Properties  map[string]property `json:"properties"`
}

type property struct {
	Title []richText `json:"title"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

// title extracts the page title from its properties, preferring the
// conventional property names and falling back to any non-empty title
// property in key order. Returns "Untitled" when nothing matches.
func (p page) title() string {
	for _, name := range []string{"title", "Title", "Name"} {
		if prop, ok := p.Properties[name]; ok && len(prop.Title) > 0 {
			return prop.Title[0].PlainText
		}
	}

	keys := make([]string, 0, len(p.Properties))
	for k := range p.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if prop := p.Properties[k]; len(prop.Title) > 0 {
			return prop.Title[0].PlainText
		}
	}

	return "Untitled"
}

type searchRequest struct {
	Query       string       `json:"query,omitempty"`
	Filter      searchFilter `json:"filter"`
	PageSize    int          `json:"page_size"`
	StartCursor string       `json:"start_cursor,omitempty"`
}

type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type searchResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// searchPages queries the workspace search endpoint. With an empty query it
// runs in harvest mode, following cursors until exhaustion. With a query it
// issues a single keyword-filtered request capped to limit.
func (c *Crawler) searchPages(ctx context.Context, query string, limit int) ([]page, error) {
	var pages []page
	cursor := ""

	for {
		req := searchRequest{
			Query:       query,
			Filter:      searchFilter{Property: "object", Value: "page"},
			PageSize:    c.pageSize(),
			StartCursor: cursor,
		}
		if query != "" && limit < req.PageSize {
			req.PageSize = limit
		}

		var resp searchResponse
		if err := c.post(ctx, "/search", req, &resp); err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)

		if query != "" {
			// Query mode is a single capped request, not a full walk.
			if len(pages) > limit {
				pages = pages[:limit]
			}
			return pages, nil
		}

		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

func (c *Crawler) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

func (c *Crawler) get(ctx context.Context, path string, params url.Values, out any) error {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Crawler) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	version := c.Version
	if version == "" {
		version = DefaultVersion
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Notion-Version", version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return postsearch.Errorf(postsearch.EUNAVAILABLE, "notion API HTTP %d for %s %s", resp.StatusCode, method, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Crawler) httpClient() *http.Client {
	c.once.Do(func() {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	})
	return c.client
}

func (c *Crawler) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return DefaultPageSize
}

func (c *Crawler) maxDepth() int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}
	return DefaultMaxDepth
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
