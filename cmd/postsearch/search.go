package main

import (
	"fmt"

	"github.com/fwojciec/postsearch"
)

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" help:"Search query"`
	NResults int    `short:"n" default:"10" help:"Maximum number of results"`
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	// The process exits after the command returns, so ingestion of web
	// results must complete before then rather than on a detached goroutine.
	deps.Searcher.Background = func(fn func()) { fn() }

	outcome := deps.Searcher.Search(deps.Ctx, c.Query, c.NResults)

	fmt.Fprintln(deps.Stdout, outcome.Results)
	if outcome.Source == postsearch.SourceWeb && outcome.NewDocs > 0 {
		fmt.Fprintf(deps.Stdout, "\nAdded %d documents to the local store.\n", outcome.NewDocs)
	}
	return nil
}
