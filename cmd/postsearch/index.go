package main

import (
	"fmt"

	"github.com/fwojciec/postsearch"
	"github.com/fwojciec/postsearch/indexing"
)

// IndexCmd is the "index" subcommand.
type IndexCmd struct{}

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	docs := indexing.FetchAll(deps.Ctx, deps.Crawlers, deps.Logger)
	fmt.Fprintf(deps.Stdout, "Fetched %d documents\n", len(docs))

	if err := deps.Indexer.Index(deps.Ctx, docs); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postsearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, deps.Indexer.Status().Message)
	return nil
}
