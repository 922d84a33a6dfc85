package postsearch

import "context"

// ScoredDocument is a document returned by a store query together with its
// relevance score. Higher scores rank higher.
type ScoredDocument struct {
	Document
	Score float64 `json:"score"`
}

// Index is a writable handle to the store's search index. The indexing
// orchestrator obtains a handle when it writes the first chunk of a pass and
// reuses it for subsequent chunks.
type Index interface {
	// Insert adds documents to the index. Documents with IDs already present
	// replace the stored version.
	Insert(ctx context.Context, docs []Document) error
}

// DocumentStore is the contract the synchronization and search-fallback
// logic requires from the external document store. The retrieval engine
// behind Query and the persistence format are deliberately opaque.
type DocumentStore interface {
	// Snapshot returns the id → fingerprint mapping of everything currently
	// stored. It is loaded fresh at the start of each indexing pass and
	// discarded afterwards; the store remains the source of truth.
	Snapshot(ctx context.Context) (map[string]string, error)

	// CreateIndex creates the underlying index structure if needed, inserts
	// the given documents, and returns a handle for further inserts.
	CreateIndex(ctx context.Context, docs []Document) (Index, error)

	// Delete removes the document with the given ID. Deleting an absent ID
	// is not an error.
	Delete(ctx context.Context, id string) error

	// Query returns up to topK stored documents relevant to the query text,
	// most relevant first.
	Query(ctx context.Context, query string, topK int) ([]ScoredDocument, error)
}
