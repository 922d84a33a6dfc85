// Package slog provides logging decorators for postsearch interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postsearch"
)

// Ensure LoggingCrawler implements postsearch.Crawler.
var _ postsearch.Crawler = (*LoggingCrawler)(nil)

// LoggingCrawler wraps a Crawler with operation logging.
type LoggingCrawler struct {
	next   postsearch.Crawler
	logger *slog.Logger
}

// NewLoggingCrawler creates a new LoggingCrawler.
func NewLoggingCrawler(next postsearch.Crawler, logger *slog.Logger) *LoggingCrawler {
	return &LoggingCrawler{next: next, logger: logger}
}

// Platform delegates to the wrapped crawler.
func (c *LoggingCrawler) Platform() string {
	return c.next.Platform()
}

// FetchAll logs the harvest outcome with document count and duration.
func (c *LoggingCrawler) FetchAll(ctx context.Context) ([]postsearch.Document, error) {
	begin := time.Now()
	docs, err := c.next.FetchAll(ctx)
	if err != nil {
		c.logger.Error("fetch all",
			"platform", c.next.Platform(),
			"err", err,
			"duration", time.Since(begin),
		)
		return docs, err
	}
	c.logger.Info("fetch all",
		"platform", c.next.Platform(),
		"docs", len(docs),
		"duration", time.Since(begin),
	)
	return docs, nil
}

// Search logs the live search outcome with hit count and duration.
func (c *LoggingCrawler) Search(ctx context.Context, query string, limit int) ([]postsearch.Document, error) {
	begin := time.Now()
	docs, err := c.next.Search(ctx, query, limit)
	if err != nil {
		c.logger.Error("search",
			"platform", c.next.Platform(),
			"query", query,
			"err", err,
			"duration", time.Since(begin),
		)
		return docs, err
	}
	c.logger.Info("search",
		"platform", c.next.Platform(),
		"query", query,
		"docs", len(docs),
		"duration", time.Since(begin),
	)
	return docs, nil
}
