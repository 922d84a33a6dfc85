// Package mcp exposes the postsearch operations as MCP tools so any MCP
// client can search content and drive indexing.
package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/postsearch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Searcher is the dynamic search surface the server exposes. Satisfied by
// *search.Searcher.
type Searcher interface {
	Search(ctx context.Context, query string, n int) postsearch.SearchOutcome
	SearchPlatform(ctx context.Context, platform, query string, n int) postsearch.SearchOutcome
}

// Indexer is the indexing surface the server exposes. Satisfied by
// *indexing.Indexer.
type Indexer interface {
	Status() postsearch.IndexStatus
	Running() bool
	Index(ctx context.Context, docs []postsearch.Document) error
}

// Server is the MCP server for postsearch.
type Server struct {
	searcher Searcher
	indexer  Indexer
	harvest  func(ctx context.Context) []postsearch.Document
	logger   *slog.Logger
	server   *mcp.Server

	// Background runs fn detached from the tool call. Defaults to a plain
	// goroutine; replace it to make detached work synchronous.
	Background func(fn func())
}

// NewServer creates a new MCP server. harvest performs a full acquisition
// across all configured sources; it backs the trigger_index_all tool.
func NewServer(searcher Searcher, indexer Indexer, harvest func(ctx context.Context) []postsearch.Document, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		searcher:   searcher,
		indexer:    indexer,
		harvest:    harvest,
		logger:     logger,
		Background: func(fn func()) { go fn() },
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "postsearch",
			Version: Version,
		}, nil),
	}

	s.registerTools()
	return s
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve starts the MCP server over the given transport.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
