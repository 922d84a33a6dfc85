package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fwojciec/postsearch"
	"github.com/google/uuid"
)

// Defaults for Indexer tuning knobs.
const (
	DefaultBatchSize   = 50
	DefaultLogInterval = 10
)

// Indexer drives incremental synchronization of document batches into the
// document store. It owns the process-wide IndexStatus: the status is
// mutated only from within a pass and exposed read-only through Status().
// At most one pass may run at a time; a second trigger is rejected with
// ECONFLICT, not queued.
type Indexer struct {
	store  postsearch.DocumentStore
	logger *slog.Logger

	// BatchSize is the number of documents written per store chunk.
	BatchSize int

	// LogInterval is the number of processed documents between progress log
	// lines.
	LogInterval int

	mu     sync.Mutex
	status postsearch.IndexStatus
	index  postsearch.Index // handle cached across passes once created
}

// NewIndexer creates an Indexer in the Idle state.
func NewIndexer(store postsearch.DocumentStore, logger *slog.Logger) *Indexer {
	return &Indexer{
		store:       store,
		logger:      logger,
		BatchSize:   DefaultBatchSize,
		LogInterval: DefaultLogInterval,
		status:      postsearch.IndexStatus{State: postsearch.IndexIdle},
	}
}

// Status returns a consistent snapshot of the indexing status. Safe to call
// concurrently with a running pass.
func (ix *Indexer) Status() postsearch.IndexStatus {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.status
}

// Running reports whether a pass is currently active.
func (ix *Indexer) Running() bool {
	return ix.Status().State == postsearch.IndexRunning
}

// Index runs one synchronization pass over the incoming batch: it loads a
// fresh store snapshot, classifies each document, evicts stale versions and
// writes the new and updated documents in chunks. The pass ends in Done or
// Error; both are observable through Status().
//
// If a pass is already running, Index returns ECONFLICT without altering
// the active pass's status.
func (ix *Indexer) Index(ctx context.Context, docs []postsearch.Document) error {
	if err := ix.begin(len(docs)); err != nil {
		return err
	}

	if len(docs) == 0 {
		ix.complete("No documents to index", 0, 0)
		return nil
	}

	snapshot, err := ix.store.Snapshot(ctx)
	if err != nil {
		return ix.fail("loading store snapshot", err)
	}

	changes := Classify(snapshot, docs)

	// Unchanged documents are done the moment classification finishes.
	ix.advance(len(docs) - len(changes.ToWrite))

	if len(changes.ToWrite) == 0 {
		ix.complete("No new or updated documents", 0, 0)
		return nil
	}

	// Stale versions go first so an updated document is never stored twice.
	for _, id := range changes.ToEvict {
		if err := ix.store.Delete(ctx, id); err != nil {
			return ix.fail(fmt.Sprintf("evicting %s", id), err)
		}
		ix.logger.Debug("evicted outdated document", "id", id)
	}

	if err := ix.writeChunks(ctx, changes.ToWrite); err != nil {
		return err
	}

	msg := fmt.Sprintf("Indexing complete: %d new, %d updated", changes.New, changes.Updated)
	ix.complete(msg, changes.New, changes.Updated)
	return nil
}

// writeChunks writes documents to the store BatchSize at a time so the store
// can commit incrementally. The first non-empty chunk creates the index
// structure; subsequent chunks insert into the cached handle.
func (ix *Indexer) writeChunks(ctx context.Context, docs []postsearch.Document) error {
	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	written := 0
	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		chunk := docs[start:end]

		if ix.handle() == nil {
			index, err := ix.store.CreateIndex(ctx, chunk)
			if err != nil {
				return ix.fail("creating index", err)
			}
			ix.setHandle(index)
		} else {
			if err := ix.handle().Insert(ctx, chunk); err != nil {
				return ix.fail("writing batch", err)
			}
		}

		written += len(chunk)
		ix.advance(len(chunk))

		interval := ix.LogInterval
		if interval <= 0 {
			interval = DefaultLogInterval
		}
		if written%interval == 0 || end == len(docs) {
			st := ix.Status()
			ix.logger.Info("indexing progress",
				"processed", st.ProcessedDocs,
				"total", st.TotalDocs,
				"progress", st.Progress,
			)
		}
	}

	return nil
}

// begin transitions Idle/Done/Error → Running. The guard is the state field
// itself: there is never more than one writer by construction.
func (ix *Indexer) begin(total int) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.status.State == postsearch.IndexRunning {
		return postsearch.Errorf(postsearch.ECONFLICT, "indexing already in progress")
	}

	ix.status = postsearch.IndexStatus{
		PassID:    uuid.New().String(),
		State:     postsearch.IndexRunning,
		Message:   "Indexing started",
		TotalDocs: total,
	}
	return nil
}

// advance records n more processed documents and recomputes progress.
func (ix *Indexer) advance(n int) {
	if n <= 0 {
		return
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.status.ProcessedDocs += n
	if ix.status.TotalDocs > 0 {
		ix.status.Progress = float64(ix.status.ProcessedDocs) / float64(ix.status.TotalDocs)
	}
}

// complete transitions Running → Done.
func (ix *Indexer) complete(message string, newCount, updated int) {
	ix.mu.Lock()
	ix.status.State = postsearch.IndexDone
	ix.status.Message = message
	ix.status.Progress = 1.0
	ix.mu.Unlock()

	ix.logger.Info("indexing done", "message", message, "new", newCount, "updated", updated)
}

// fail transitions Running → Error. Progress is left at 1.0 to signal pass
// termination, not resumption.
func (ix *Indexer) fail(what string, err error) error {
	msg := fmt.Sprintf("%s: %s", what, err)

	ix.mu.Lock()
	ix.status.State = postsearch.IndexError
	ix.status.Message = msg
	ix.status.Progress = 1.0
	ix.mu.Unlock()

	ix.logger.Error("indexing failed", "stage", what, "err", err)
	return postsearch.Errorf(postsearch.EINTERNAL, "indexing failed: %s", msg)
}

func (ix *Indexer) handle() postsearch.Index {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.index
}

func (ix *Indexer) setHandle(index postsearch.Index) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.index = index
}
