// Package indexing coordinates content acquisition across source crawlers
// and drives incremental synchronization of harvested documents into the
// external document store.
package indexing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/postsearch"
	"golang.org/x/sync/errgroup"
)

// FetchAll fans out to all crawlers concurrently and merges their harvests.
// Failures are isolated per source: a crawler that errors contributes zero
// documents and does not cancel or corrupt its siblings. The relative order
// of documents across sources is unspecified.
func FetchAll(ctx context.Context, crawlers []postsearch.Crawler, logger *slog.Logger) []postsearch.Document {
	var (
		mu   sync.Mutex
		docs []postsearch.Document
	)

	// Deliberately not errgroup.WithContext: one failing source must not
	// cancel the others.
	var g errgroup.Group
	for _, c := range crawlers {
		g.Go(func() error {
			fetched, err := c.FetchAll(ctx)
			if err != nil {
				logger.Error("harvest failed", "platform", c.Platform(), "err", err)
				return nil
			}
			logger.Info("harvest complete", "platform", c.Platform(), "docs", len(fetched))

			mu.Lock()
			docs = append(docs, fetched...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return docs
}
