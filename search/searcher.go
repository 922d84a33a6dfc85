// Package search composes local store retrieval and live web retrieval into
// one query path. Local results are served when coverage is sufficient;
// otherwise the configured crawlers are queried live and their results are
// fed back into the store through a detached indexing pass.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fwojciec/postsearch"
	"golang.org/x/sync/errgroup"
)

// Defaults for Searcher tuning knobs.
const (
	DefaultMinLocalResults = 3
	DefaultOverFetch       = 2
	DefaultResults         = 10

	// MinPerSource keeps small web requests from starving individual
	// sources when the requested count is split across crawlers.
	MinPerSource = 3
)

// Ingestor schedules documents for synchronization into the store. Satisfied
// by *indexing.Indexer.
type Ingestor interface {
	Index(ctx context.Context, docs []postsearch.Document) error
}

// Searcher is the dynamic search orchestrator. Its methods never return an
// error: search-path failures degrade to an apologetic text result, and
// internal faults are observable only through logs and the index status.
type Searcher struct {
	Store    postsearch.DocumentStore
	Crawlers []postsearch.Crawler
	Ingestor Ingestor

	MinLocalResults int // local sufficiency threshold, defaults to DefaultMinLocalResults
	OverFetch       int // store query over-fetch multiplier, defaults to DefaultOverFetch
	PreviewLen      int // preview characters per result
	Logger          *slog.Logger

	// Background runs fn detached from the caller's request. Defaults to
	// spawning a goroutine; tests substitute a synchronous runner.
	Background func(fn func())
}

// Search queries the local store first and falls back to live web search
// when fewer than the threshold of deduplicated local results come back. Web
// results are returned immediately and scheduled for background ingestion;
// the response never waits for the store write.
func (s *Searcher) Search(ctx context.Context, query string, n int) postsearch.SearchOutcome {
	if n <= 0 {
		n = DefaultResults
	}

	localText, localCount := s.searchLocal(ctx, query, n)

	if localCount >= s.minLocal() {
		s.logger().Info("local results sufficient", "query", query, "count", localCount)
		return postsearch.SearchOutcome{Source: postsearch.SourceLocal, Results: localText}
	}

	s.logger().Info("local results insufficient, searching web",
		"query", query, "count", localCount, "threshold", s.minLocal())

	webDocs := s.searchWeb(ctx, query, n)
	if len(webDocs) == 0 {
		s.logger().Warn("no results found on web", "query", query)
		if localText == "" {
			localText = fmt.Sprintf("No results found for %q", query)
		}
		return postsearch.SearchOutcome{Source: postsearch.SourceLocal, Results: localText}
	}

	s.schedule(webDocs)

	return postsearch.SearchOutcome{
		Source:  postsearch.SourceWeb,
		Results: postsearch.FormatWebResults(query, webDocs, s.PreviewLen),
		NewDocs: len(webDocs),
	}
}

// SearchPlatform performs a live search against a single platform and
// schedules any hits for background ingestion.
func (s *Searcher) SearchPlatform(ctx context.Context, platform, query string, n int) postsearch.SearchOutcome {
	if n <= 0 {
		n = DefaultResults
	}

	var crawler postsearch.Crawler
	for _, c := range s.Crawlers {
		if c.Platform() == platform {
			crawler = c
			break
		}
	}
	if crawler == nil {
		return postsearch.SearchOutcome{
			Source:  postsearch.SourceWeb,
			Results: fmt.Sprintf("Unknown platform %q", platform),
		}
	}

	docs, err := crawler.Search(ctx, query, n)
	if err != nil {
		s.logger().Error("platform search failed", "platform", platform, "err", err)
		return postsearch.SearchOutcome{
			Source:  postsearch.SourceWeb,
			Results: fmt.Sprintf("Sorry, searching %s failed. Please try again later.", platform),
		}
	}
	if len(docs) == 0 {
		return postsearch.SearchOutcome{
			Source:  postsearch.SourceWeb,
			Results: postsearch.FormatPlatformResults(platform, query, nil, s.PreviewLen),
		}
	}

	s.schedule(docs)

	results := postsearch.FormatPlatformResults(platform, query, docs, s.PreviewLen) +
		fmt.Sprintf("\n\nAdding %d documents to the local store in the background.", len(docs))

	return postsearch.SearchOutcome{
		Source:  postsearch.SourceWeb,
		Results: results,
		NewDocs: len(docs),
	}
}

// searchLocal queries the store and returns the formatted results along
// with a structured count of deduplicated hits. The count is never derived
// from the formatted text. Store failures degrade to zero results.
func (s *Searcher) searchLocal(ctx context.Context, query string, n int) (string, int) {
	overFetch := s.OverFetch
	if overFetch <= 0 {
		overFetch = DefaultOverFetch
	}

	scored, err := s.Store.Query(ctx, query, n*overFetch)
	if err != nil {
		s.logger().Error("local search failed", "query", query, "err", err)
		return "", 0
	}

	// Deduplicate by title, first occurrence wins; order is the store's
	// relevance order.
	seen := make(map[string]bool)
	results := make([]postsearch.ScoredDocument, 0, n)
	for _, r := range scored {
		if seen[r.Title] {
			continue
		}
		seen[r.Title] = true
		results = append(results, r)
		if len(results) >= n {
			break
		}
	}

	if len(results) == 0 {
		return "", 0
	}
	return postsearch.FormatLocalResults(query, results, s.PreviewLen), len(results)
}

// searchWeb queries every configured crawler concurrently, splitting the
// requested count evenly across sources. Failures are isolated per source.
func (s *Searcher) searchWeb(ctx context.Context, query string, n int) []postsearch.Document {
	if len(s.Crawlers) == 0 {
		return nil
	}

	perSource := max(MinPerSource, n/len(s.Crawlers))

	var (
		mu   sync.Mutex
		docs []postsearch.Document
	)

	var g errgroup.Group
	for _, c := range s.Crawlers {
		g.Go(func() error {
			found, err := c.Search(ctx, query, perSource)
			if err != nil {
				s.logger().Error("web search failed", "platform", c.Platform(), "err", err)
				return nil
			}

			mu.Lock()
			docs = append(docs, found...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(docs) > n {
		docs = docs[:n]
	}
	return docs
}

// schedule hands documents to the indexing orchestrator on a detached task.
// Completion is observed only through the orchestrator's status, never
// through a return channel back to the originating request.
func (s *Searcher) schedule(docs []postsearch.Document) {
	run := s.Background
	if run == nil {
		run = func(fn func()) { go fn() }
	}

	s.logger().Info("scheduling background ingestion", "docs", len(docs))
	run(func() {
		if err := s.Ingestor.Index(context.Background(), docs); err != nil {
			s.logger().Error("background ingestion failed", "err", err)
		}
	})
}

func (s *Searcher) minLocal() int {
	if s.MinLocalResults > 0 {
		return s.MinLocalResults
	}
	return DefaultMinLocalResults
}

func (s *Searcher) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
