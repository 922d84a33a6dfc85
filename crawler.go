package postsearch

import "context"

// Crawler harvests documents from one content platform. Implementations
// hide pagination, content extraction and per-item failure handling: both
// operations are best-effort and return partial results rather than
// propagating per-item errors. A crawler whose platform credentials are not
// configured is disabled and returns an empty result set with a nil error.
type Crawler interface {
	// Platform returns the platform tag this crawler produces documents for.
	Platform() string

	// FetchAll retrieves every document reachable on the platform.
	FetchAll(ctx context.Context) ([]Document, error)

	// Search retrieves up to limit documents matching the query via the
	// platform's live search surface.
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}

// Fetcher retrieves raw HTML content from URLs. Implementations hide
// transport selection and timeout handling.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}
