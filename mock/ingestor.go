package mock

import (
	"context"

	"github.com/fwojciec/postsearch"
)

// Ingestor is a mock implementation of search.Ingestor.
type Ingestor struct {
	IndexFn func(ctx context.Context, docs []postsearch.Document) error
}

func (i *Ingestor) Index(ctx context.Context, docs []postsearch.Document) error {
	return i.IndexFn(ctx, docs)
}
