package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postsearch"
)

// Ensure LoggingStore implements postsearch.DocumentStore.
var _ postsearch.DocumentStore = (*LoggingStore)(nil)

// LoggingStore wraps a DocumentStore with operation logging.
type LoggingStore struct {
	next   postsearch.DocumentStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next postsearch.DocumentStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Snapshot logs the snapshot size and duration.
func (s *LoggingStore) Snapshot(ctx context.Context) (map[string]string, error) {
	begin := time.Now()
	snapshot, err := s.next.Snapshot(ctx)
	if err != nil {
		s.logger.Error("snapshot", "err", err, "duration", time.Since(begin))
		return snapshot, err
	}
	s.logger.Info("snapshot", "docs", len(snapshot), "duration", time.Since(begin))
	return snapshot, nil
}

// CreateIndex delegates to the wrapped store.
func (s *LoggingStore) CreateIndex(ctx context.Context, docs []postsearch.Document) (postsearch.Index, error) {
	return s.next.CreateIndex(ctx, docs)
}

// Delete delegates to the wrapped store.
func (s *LoggingStore) Delete(ctx context.Context, id string) error {
	return s.next.Delete(ctx, id)
}

// Query logs the query with hit count and duration.
func (s *LoggingStore) Query(ctx context.Context, query string, topK int) ([]postsearch.ScoredDocument, error) {
	begin := time.Now()
	results, err := s.next.Query(ctx, query, topK)
	if err != nil {
		s.logger.Error("query", "query", query, "err", err, "duration", time.Since(begin))
		return results, err
	}
	s.logger.Info("query", "query", query, "hits", len(results), "duration", time.Since(begin))
	return results, nil
}
