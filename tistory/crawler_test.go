package tistory_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/fwojciec/postsearch"
	"github.com/fwojciec/postsearch/mock"
	"github.com/fwojciec/postsearch/tistory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// postHTML renders a minimal post page with the given title and body text.
func postHTML(title, body string) string {
	return fmt.Sprintf(`<html><head><title>x</title></head><body>
		<h1>%s</h1>
		<span class="date">2024-01-01</span>
		<div class="entry-content"><p>%s</p></div>
	</body></html>`, title, body)
}

func TestCrawler_FetchAll(t *testing.T) {
	t.Parallel()

	t.Run("disabled without a blog name", func(t *testing.T) {
		t.Parallel()

		c := &tistory.Crawler{Logger: discard()}

		docs, err := c.FetchAll(context.Background())

		require.NoError(t, err)
		assert.Nil(t, docs)
	})

	t.Run("keeps only IDs with extractable content", func(t *testing.T) {
		t.Parallel()

		// Five probes: two real posts, one missing, one empty, one timing
		// out. Only the real posts survive.
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				switch url {
				case "https://myblog.tistory.com/1":
					return postHTML("Post One", "content one"), nil
				case "https://myblog.tistory.com/2":
					return "", postsearch.Errorf(postsearch.ENOTFOUND, "HTTP 404 for %s", url)
				case "https://myblog.tistory.com/3":
					return postHTML("Post Three", "content three"), nil
				case "https://myblog.tistory.com/4":
					return `<html><body><h1>Empty</h1></body></html>`, nil
				case "https://myblog.tistory.com/5":
					return "", context.DeadlineExceeded
				default:
					t.Errorf("unexpected fetch: %s", url)
					return "", nil
				}
			},
		}

		c := &tistory.Crawler{
			BlogName:  "myblog",
			MaxPostID: 5,
			Fetcher:   fetcher,
			Logger:    discard(),
		}

		docs, err := c.FetchAll(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 2)

		// Probes complete in arbitrary order.
		ids := []string{docs[0].ID, docs[1].ID}
		sort.Strings(ids)
		assert.Equal(t, []string{"tistory_1", "tistory_3"}, ids)

		for _, d := range docs {
			assert.Equal(t, postsearch.PlatformTistory, d.Platform)
			assert.Equal(t, "2024-01-01", d.Date)
			assert.NotEmpty(t, d.Content)
		}
	})

	t.Run("probes every ID up to the bound", func(t *testing.T) {
		t.Parallel()

		fetched := make(map[string]bool)
		fetchedCh := make(chan string, 16)
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetchedCh <- url
				return postHTML("T", "body"), nil
			},
		}

		c := &tistory.Crawler{
			BlogName:    "myblog",
			MaxPostID:   4,
			Concurrency: 2,
			Fetcher:     fetcher,
			Logger:      discard(),
		}

		docs, err := c.FetchAll(context.Background())
		close(fetchedCh)
		for url := range fetchedCh {
			fetched[url] = true
		}

		require.NoError(t, err)
		assert.Len(t, docs, 4)
		assert.Len(t, fetched, 4)
		for id := 1; id <= 4; id++ {
			assert.True(t, fetched[fmt.Sprintf("https://myblog.tistory.com/%d", id)])
		}
	})
}

func TestCrawler_Search(t *testing.T) {
	t.Parallel()

	searchPage := `<html><body>
		<a class="link_post" href="/11">Post 11</a>
		<a class="link_post" href="/12">Post 12</a>
		<a class="link_post" href="/13">Post 13</a>
	</body></html>`

	t.Run("disabled without a blog name", func(t *testing.T) {
		t.Parallel()

		c := &tistory.Crawler{Logger: discard()}

		docs, err := c.Search(context.Background(), "golang", 5)

		require.NoError(t, err)
		assert.Nil(t, docs)
	})

	t.Run("fetches posts discovered on the search page", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				switch url {
				case "https://myblog.tistory.com/search/golang":
					return searchPage, nil
				case "https://myblog.tistory.com/11":
					return postHTML("Eleven", "body eleven"), nil
				case "https://myblog.tistory.com/12":
					return postHTML("Twelve", "body twelve"), nil
				case "https://myblog.tistory.com/13":
					return postHTML("Thirteen", "body thirteen"), nil
				default:
					t.Errorf("unexpected fetch: %s", url)
					return "", nil
				}
			},
		}

		c := &tistory.Crawler{BlogName: "myblog", Fetcher: fetcher, Logger: discard()}

		docs, err := c.Search(context.Background(), "golang", 5)

		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "tistory_11", docs[0].ID)
		assert.Equal(t, "Eleven", docs[0].Title)
	})

	t.Run("caps results to the limit", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if url == "https://myblog.tistory.com/search/golang" {
					return searchPage, nil
				}
				return postHTML("T", "body"), nil
			},
		}

		c := &tistory.Crawler{BlogName: "myblog", Fetcher: fetcher, Logger: discard()}

		docs, err := c.Search(context.Background(), "golang", 2)

		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("query is path escaped", func(t *testing.T) {
		t.Parallel()

		var searchURL string
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if searchURL == "" {
					searchURL = url
				}
				return "<html></html>", nil
			},
		}

		c := &tistory.Crawler{BlogName: "myblog", Fetcher: fetcher, Logger: discard()}

		_, err := c.Search(context.Background(), "go 동시성", 5)

		require.NoError(t, err)
		assert.Equal(t, "https://myblog.tistory.com/search/go%20%EB%8F%99%EC%8B%9C%EC%84%B1", searchURL)
	})

	t.Run("search page fetch failure yields no results", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", postsearch.Errorf(postsearch.EUNAVAILABLE, "connection refused")
			},
		}

		c := &tistory.Crawler{BlogName: "myblog", Fetcher: fetcher, Logger: discard()}

		docs, err := c.Search(context.Background(), "golang", 5)

		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}
