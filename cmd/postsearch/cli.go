package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/postsearch"
	"github.com/fwojciec/postsearch/indexing"
	"github.com/fwojciec/postsearch/search"
	"github.com/fwojciec/postsearch/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Store    postsearch.DocumentStore
	Stats    *sqlite.Store
	Crawlers []postsearch.Crawler
	Indexer  *indexing.Indexer
	Searcher *search.Searcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB          string        `help:"Database path" env:"POSTSEARCH_DB"`
	NotionKey   string        `help:"Notion integration token" env:"NOTION_API_KEY"`
	TistoryBlog string        `help:"Tistory blog name" env:"TISTORY_BLOG_NAME"`
	MaxPostID   int           `default:"300" help:"Highest Tistory post ID to probe"`
	Concurrency int           `short:"c" default:"10" help:"Concurrent fetch limit for post probing"`
	RPS         float64       `name:"rps" default:"5" help:"Requests per second against the blog host (0 = unlimited)"`
	Timeout     time.Duration `default:"10s" help:"Per-request HTTP timeout"`
	MaxDepth    int           `default:"10" help:"Notion block tree descent bound"`
	BatchSize   int           `default:"50" help:"Documents per store write chunk"`
	LogInterval int           `default:"10" help:"Processed documents between progress log lines"`
	Threshold   int           `default:"3" help:"Local results below which search falls back to the web"`
	Multiplier  int           `default:"2" help:"Store query over-fetch multiplier"`
	Preview     int           `default:"200" help:"Preview characters per search result"`
	Debug       bool          `help:"Enable debug logging"`

	Serve  ServeCmd  `cmd:"" help:"Serve the MCP tool surface over stdio or HTTP"`
	Index  IndexCmd  `cmd:"" help:"Fetch all documents from every source and index them"`
	Search SearchCmd `cmd:"" help:"Search stored content with live web fallback"`
	Stats  StatsCmd  `cmd:"" help:"Show stored document counts per platform"`
}
