package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/postsearch"
)

// Compile-time interface verification.
var (
	_ postsearch.DocumentStore = (*Store)(nil)
	_ postsearch.Index         = (*Index)(nil)
)

// Store implements postsearch.DocumentStore using SQLite. Document metadata
// lives in the documents table; the documents_fts FTS5 table backs Query
// and exists only after the first indexing pass has created it.
type Store struct {
	db *DB
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Snapshot returns the id → fingerprint mapping of all stored documents.
func (s *Store) Snapshot(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_id, content_hash FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(map[string]string)
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, err
		}
		snapshot[id] = hash
	}
	return snapshot, rows.Err()
}

// CreateIndex creates the FTS5 search table if needed, inserts the given
// documents, and returns a handle for subsequent inserts.
func (s *Store) CreateIndex(ctx context.Context, docs []postsearch.Document) (postsearch.Index, error) {
	_, err := s.db.ExecContext(ctx, `
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(doc_id UNINDEXED, title, content)
	`)
	if err != nil {
		return nil, err
	}

	index := &Index{db: s.db}
	if err := index.Insert(ctx, docs); err != nil {
		return nil, err
	}
	return index, nil
}

// Delete removes a document and its search index entry. Deleting an absent
// ID is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, id); err != nil {
		return err
	}

	exists, err := s.ftsExists(ctx)
	if err != nil || !exists {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM documents_fts WHERE doc_id = ?`, id)
	return err
}

// Query returns up to topK documents relevant to the query text, most
// relevant first. Before any indexing pass has run there is nothing to
// search and the result is empty.
func (s *Store) Query(ctx context.Context, query string, topK int) ([]postsearch.ScoredDocument, error) {
	exists, err := s.ftsExists(ctx)
	if err != nil || !exists {
		return nil, err
	}

	match := ftsMatchExpr(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.doc_id, d.title, d.content, d.url, d.platform, d.date, -bm25(documents_fts) AS score
		FROM documents_fts
		JOIN documents d ON d.doc_id = documents_fts.doc_id
		WHERE documents_fts MATCH ?
		ORDER BY bm25(documents_fts)
		LIMIT ?
	`, match, topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []postsearch.ScoredDocument
	for rows.Next() {
		var r postsearch.ScoredDocument
		if err := rows.Scan(&r.ID, &r.Title, &r.Content, &r.URL, &r.Platform, &r.Date, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// CountByPlatform returns the number of stored documents per platform.
func (s *Store) CountByPlatform(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT platform, COUNT(*) FROM documents GROUP BY platform`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var platform string
		var n int
		if err := rows.Scan(&platform, &n); err != nil {
			return nil, err
		}
		counts[platform] = n
	}
	return counts, rows.Err()
}

// ftsExists reports whether the FTS5 table has been created.
func (s *Store) ftsExists(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'documents_fts'
	`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ftsMatchExpr converts free text into a safe FTS5 MATCH expression by
// quoting each token. Tokens combine with implicit AND.
func ftsMatchExpr(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

// Index is the writable handle to the search index.
type Index struct {
	db *DB
}

// Insert writes documents into the store and the search index. Documents
// whose ID is already present replace the stored version, so an eviction
// followed by an insert is idempotent.
func (ix *Index) Insert(ctx context.Context, docs []postsearch.Document) error {
	tx, err := ix.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO documents (doc_id, title, content, url, platform, date, content_hash, indexed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, doc.ID, doc.Title, doc.Content, doc.URL, doc.Platform, doc.Date,
			postsearch.Fingerprint(doc.Content), now)
		if err != nil {
			return err
		}

		// FTS5 tables have no primary key, so replace manually.
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents_fts WHERE doc_id = ?`, doc.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents_fts (doc_id, title, content) VALUES (?, ?, ?)
		`, doc.ID, doc.Title, doc.Content); err != nil {
			return err
		}
	}

	return tx.Commit()
}
