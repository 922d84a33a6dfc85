package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fwojciec/postsearch"
	main "github.com/fwojciec/postsearch/cmd/postsearch"
	"github.com/fwojciec/postsearch/mock"
	"github.com/fwojciec/postsearch/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints local results", func(t *testing.T) {
		t.Parallel()

		store := &mock.DocumentStore{
			QueryFn: func(ctx context.Context, query string, topK int) ([]postsearch.ScoredDocument, error) {
				return []postsearch.ScoredDocument{
					{Document: postsearch.Document{ID: "tistory_1", Title: "One", Platform: postsearch.PlatformTistory}},
					{Document: postsearch.Document{ID: "tistory_2", Title: "Two", Platform: postsearch.PlatformTistory}},
					{Document: postsearch.Document{ID: "tistory_3", Title: "Three", Platform: postsearch.PlatformTistory}},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Searcher: &search.Searcher{Store: store, Logger: discard()},
		}

		cmd := &main.SearchCmd{Query: "golang", NResults: 10}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Total 3 documents found")
	})

	t.Run("web fallback ingests before returning", func(t *testing.T) {
		t.Parallel()

		store := &mock.DocumentStore{
			QueryFn: func(ctx context.Context, query string, topK int) ([]postsearch.ScoredDocument, error) {
				return nil, nil
			},
		}
		crawler := &mock.Crawler{
			PlatformFn: func() string { return postsearch.PlatformTistory },
			SearchFn: func(ctx context.Context, query string, limit int) ([]postsearch.Document, error) {
				return []postsearch.Document{
					{ID: "tistory_9", Title: "Nine", Platform: postsearch.PlatformTistory},
				}, nil
			},
		}

		var ingested int
		ingestor := &mock.Ingestor{
			IndexFn: func(ctx context.Context, docs []postsearch.Document) error {
				ingested = len(docs)
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Searcher: &search.Searcher{
				Store:    store,
				Crawlers: []postsearch.Crawler{crawler},
				Ingestor: ingestor,
				Logger:   discard(),
			},
		}

		cmd := &main.SearchCmd{Query: "golang", NResults: 10}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Live web search")
		assert.Contains(t, stdout.String(), "Added 1 documents to the local store.")
		assert.Equal(t, 1, ingested, "CLI search must ingest synchronously")
	})
}
