package slog_test

import (
	"context"
	"testing"

	"github.com/fwojciec/postsearch"
	"github.com/fwojciec/postsearch/mock"
	pslog "github.com/fwojciec/postsearch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingStore(t *testing.T) {
	t.Parallel()

	t.Run("logs snapshot size", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		store := pslog.NewLoggingStore(&mock.DocumentStore{
			SnapshotFn: func(ctx context.Context) (map[string]string, error) {
				return map[string]string{"tistory_1": "abc", "tistory_2": "def"}, nil
			},
		}, logger)

		snapshot, err := store.Snapshot(context.Background())

		require.NoError(t, err)
		assert.Len(t, snapshot, 2)
		assert.Contains(t, buf.String(), "snapshot")
		assert.Contains(t, buf.String(), "docs=2")
	})

	t.Run("logs query hits", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		store := pslog.NewLoggingStore(&mock.DocumentStore{
			QueryFn: func(ctx context.Context, query string, topK int) ([]postsearch.ScoredDocument, error) {
				return []postsearch.ScoredDocument{{}}, nil
			},
		}, logger)

		results, err := store.Query(context.Background(), "golang", 10)

		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Contains(t, buf.String(), "query=golang")
		assert.Contains(t, buf.String(), "hits=1")
	})

	t.Run("logs query failures at error level", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		store := pslog.NewLoggingStore(&mock.DocumentStore{
			QueryFn: func(ctx context.Context, query string, topK int) ([]postsearch.ScoredDocument, error) {
				return nil, postsearch.Errorf(postsearch.EUNAVAILABLE, "store down")
			},
		}, logger)

		_, err := store.Query(context.Background(), "golang", 10)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
	})

	t.Run("delegates writes without logging", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		index := &mock.Index{
			InsertFn: func(ctx context.Context, docs []postsearch.Document) error { return nil },
		}
		store := pslog.NewLoggingStore(&mock.DocumentStore{
			CreateIndexFn: func(ctx context.Context, docs []postsearch.Document) (postsearch.Index, error) {
				return index, nil
			},
			DeleteFn: func(ctx context.Context, id string) error { return nil },
		}, logger)

		_, err := store.CreateIndex(context.Background(), nil)
		require.NoError(t, err)
		require.NoError(t, store.Delete(context.Background(), "tistory_1"))

		assert.Empty(t, buf.String())
	})
}
