// Package tistory implements postsearch.Crawler for a Tistory blog. Tistory
// exposes no listing API, so the harvest probes sequential numeric post IDs
// with bounded concurrency and keeps whatever responds with extractable
// content.
package tistory

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/fwojciec/postsearch"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for Crawler tuning knobs.
const (
	DefaultMaxPostID   = 300
	DefaultConcurrency = 10
	DefaultLogInterval = 10
)

// Ensure Crawler implements postsearch.Crawler at compile time.
var _ postsearch.Crawler = (*Crawler)(nil)

// Crawler harvests and searches posts of a Tistory blog. A Crawler with no
// BlogName is disabled: both operations return an empty result set.
type Crawler struct {
	BlogName    string
	MaxPostID   int     // highest post ID to probe, defaults to DefaultMaxPostID
	Concurrency int     // in-flight request cap, defaults to DefaultConcurrency
	RPS         float64 // requests per second against the blog host, 0 = unlimited
	LogInterval int     // found posts between progress log lines
	Fetcher     postsearch.Fetcher
	Logger      *slog.Logger

	once    sync.Once
	limiter *rate.Limiter
}

// Platform returns the platform tag for Tistory documents.
func (c *Crawler) Platform() string {
	return postsearch.PlatformTistory
}

// FetchAll probes post IDs 1..MaxPostID concurrently, capped by Concurrency,
// and collects posts as each probe completes rather than in ID order. IDs
// that 404, time out, or carry no extractable body are silently dropped.
func (c *Crawler) FetchAll(ctx context.Context) ([]postsearch.Document, error) {
	if c.BlogName == "" {
		c.logger().Warn("tistory blog name not set, source disabled")
		return nil, nil
	}

	results := make(chan postsearch.Document)

	var g errgroup.Group
	g.SetLimit(c.concurrency())

	go func() {
		for id := 1; id <= c.maxPostID(); id++ {
			g.Go(func() error {
				doc := c.fetchPost(ctx, id)
				if doc == nil {
					return nil
				}
				select {
				case results <- *doc:
				case <-ctx.Done():
				}
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	var docs []postsearch.Document
	for doc := range results {
		docs = append(docs, doc)
		if len(docs)%c.logInterval() == 0 {
			c.logger().Info("tistory harvest progress", "found", len(docs))
		}
	}

	c.logger().Info("tistory harvest complete", "found", len(docs))
	return docs, nil
}

// Search discovers post links on the blog's search results page and fetches
// the discovered posts, capped to limit.
func (c *Crawler) Search(ctx context.Context, query string, limit int) ([]postsearch.Document, error) {
	if c.BlogName == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	searchURL := fmt.Sprintf("https://%s.tistory.com/search/%s", c.BlogName, url.PathEscape(query))
	if err := c.wait(ctx); err != nil {
		return nil, nil
	}
	html, err := c.Fetcher.Fetch(ctx, searchURL)
	if err != nil {
		c.logger().Debug("search page fetch failed", "url", searchURL, "err", err)
		return nil, nil
	}

	ids := discoverPostIDs(html, limit)

	docs := make([]postsearch.Document, 0, len(ids))
	for _, id := range ids {
		if doc := c.fetchPost(ctx, id); doc != nil {
			docs = append(docs, *doc)
		}
		if len(docs) >= limit {
			break
		}
	}
	return docs, nil
}

// fetchPost retrieves one post by ID. Absence is data: any failure (network
// error, non-200, empty content) returns nil rather than an error.
func (c *Crawler) fetchPost(ctx context.Context, id int) *postsearch.Document {
	postURL := fmt.Sprintf("https://%s.tistory.com/%d", c.BlogName, id)

	if err := c.wait(ctx); err != nil {
		return nil
	}
	html, err := c.Fetcher.Fetch(ctx, postURL)
	if err != nil {
		c.logger().Debug("post fetch failed", "url", postURL, "err", err)
		return nil
	}

	post, err := extractPost(html, id)
	if err != nil || post.Content == "" {
		c.logger().Debug("no extractable content", "url", postURL)
		return nil
	}

	return &postsearch.Document{
		ID:       fmt.Sprintf("tistory_%d", id),
		Title:    post.Title,
		Content:  post.Content,
		URL:      postURL,
		Platform: postsearch.PlatformTistory,
		Date:     post.Date,
	}
}

// wait blocks until the rate limiter allows another request to the blog
// host. A zero RPS disables limiting.
func (c *Crawler) wait(ctx context.Context) error {
	if c.RPS <= 0 {
		return nil
	}
	c.once.Do(func() {
		c.limiter = rate.NewLimiter(rate.Limit(c.RPS), 1)
	})
	return c.limiter.Wait(ctx)
}

func (c *Crawler) maxPostID() int {
	if c.MaxPostID > 0 {
		return c.MaxPostID
	}
	return DefaultMaxPostID
}

func (c *Crawler) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return DefaultConcurrency
}

func (c *Crawler) logInterval() int {
	if c.LogInterval > 0 {
		return c.LogInterval
	}
	return DefaultLogInterval
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
