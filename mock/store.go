package mock

import (
	"context"

	"github.com/fwojciec/postsearch"
)

var (
	_ postsearch.DocumentStore = (*DocumentStore)(nil)
	_ postsearch.Index         = (*Index)(nil)
)

// DocumentStore is a mock implementation of postsearch.DocumentStore.
type DocumentStore struct {
	SnapshotFn    func(ctx context.Context) (map[string]string, error)
	CreateIndexFn func(ctx context.Context, docs []postsearch.Document) (postsearch.Index, error)
	DeleteFn      func(ctx context.Context, id string) error
	QueryFn       func(ctx context.Context, query string, topK int) ([]postsearch.ScoredDocument, error)
}

func (s *DocumentStore) Snapshot(ctx context.Context) (map[string]string, error) {
	return s.SnapshotFn(ctx)
}

func (s *DocumentStore) CreateIndex(ctx context.Context, docs []postsearch.Document) (postsearch.Index, error) {
	return s.CreateIndexFn(ctx, docs)
}

func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	return s.DeleteFn(ctx, id)
}

func (s *DocumentStore) Query(ctx context.Context, query string, topK int) ([]postsearch.ScoredDocument, error) {
	return s.QueryFn(ctx, query, topK)
}

// Index is a mock implementation of postsearch.Index.
type Index struct {
	InsertFn func(ctx context.Context, docs []postsearch.Document) error
}

func (ix *Index) Insert(ctx context.Context, docs []postsearch.Document) error {
	return ix.InsertFn(ctx, docs)
}
