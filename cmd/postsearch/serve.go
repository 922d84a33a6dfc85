package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/postsearch"
	"github.com/fwojciec/postsearch/indexing"
	"github.com/fwojciec/postsearch/mcp"
)

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	HTTP string `help:"Serve MCP over HTTP on this address instead of stdio (e.g. :8080)"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	harvest := func(ctx context.Context) []postsearch.Document {
		return indexing.FetchAll(ctx, deps.Crawlers, deps.Logger)
	}

	srv := mcp.NewServer(deps.Searcher, deps.Indexer, harvest, deps.Logger)

	if c.HTTP != "" {
		fmt.Fprintf(deps.Stderr, "Serving MCP over HTTP on %s\n", c.HTTP)
		return srv.RunHTTP(deps.Ctx, c.HTTP)
	}
	return srv.Run(deps.Ctx)
}
