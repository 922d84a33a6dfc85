package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/fwojciec/postsearch"
	"github.com/fwojciec/postsearch/mock"
	pslog "github.com/fwojciec/postsearch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() (*stdslog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return stdslog.New(stdslog.NewTextHandler(&buf, nil)), &buf
}

func TestLoggingCrawler(t *testing.T) {
	t.Parallel()

	t.Run("logs a successful harvest", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		crawler := pslog.NewLoggingCrawler(&mock.Crawler{
			PlatformFn: func() string { return postsearch.PlatformTistory },
			FetchAllFn: func(ctx context.Context) ([]postsearch.Document, error) {
				return []postsearch.Document{{ID: "tistory_1", Platform: postsearch.PlatformTistory}}, nil
			},
		}, logger)

		docs, err := crawler.FetchAll(context.Background())

		require.NoError(t, err)
		assert.Len(t, docs, 1)
		assert.Contains(t, buf.String(), "fetch all")
		assert.Contains(t, buf.String(), "platform=tistory")
		assert.Contains(t, buf.String(), "docs=1")
	})

	t.Run("logs a failed harvest at error level", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		crawler := pslog.NewLoggingCrawler(&mock.Crawler{
			PlatformFn: func() string { return postsearch.PlatformNotion },
			FetchAllFn: func(ctx context.Context) ([]postsearch.Document, error) {
				return nil, postsearch.Errorf(postsearch.EUNAVAILABLE, "API down")
			},
		}, logger)

		_, err := crawler.FetchAll(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "API down")
	})

	t.Run("logs searches with the query", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		crawler := pslog.NewLoggingCrawler(&mock.Crawler{
			PlatformFn: func() string { return postsearch.PlatformTistory },
			SearchFn: func(ctx context.Context, query string, limit int) ([]postsearch.Document, error) {
				return nil, nil
			},
		}, logger)

		_, err := crawler.Search(context.Background(), "goroutines", 5)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "query=goroutines")
		assert.Contains(t, buf.String(), "docs=0")
	})

	t.Run("delegates Platform", func(t *testing.T) {
		t.Parallel()

		logger, _ := newLogger()
		crawler := pslog.NewLoggingCrawler(&mock.Crawler{
			PlatformFn: func() string { return postsearch.PlatformNotion },
		}, logger)

		assert.Equal(t, postsearch.PlatformNotion, crawler.Platform())
	})
}
