package mock

import (
	"context"

	"github.com/fwojciec/postsearch"
)

var _ postsearch.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of postsearch.Crawler.
type Crawler struct {
	PlatformFn func() string
	FetchAllFn func(ctx context.Context) ([]postsearch.Document, error)
	SearchFn   func(ctx context.Context, query string, limit int) ([]postsearch.Document, error)
}

func (c *Crawler) Platform() string {
	return c.PlatformFn()
}

func (c *Crawler) FetchAll(ctx context.Context) ([]postsearch.Document, error) {
	return c.FetchAllFn(ctx)
}

func (c *Crawler) Search(ctx context.Context, query string, limit int) ([]postsearch.Document, error) {
	return c.SearchFn(ctx, query, limit)
}
