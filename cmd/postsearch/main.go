package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/postsearch"
	pshttp "github.com/fwojciec/postsearch/http"
	"github.com/fwojciec/postsearch/indexing"
	"github.com/fwojciec/postsearch/notion"
	"github.com/fwojciec/postsearch/search"
	pslog "github.com/fwojciec/postsearch/slog"
	"github.com/fwojciec/postsearch/sqlite"
	"github.com/fwojciec/postsearch/tistory"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the document store.
	DB *sqlite.DB

	// Store for end-to-end testing.
	Store postsearch.DocumentStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("postsearch"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'postsearch --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	// Logs go to stderr so the serve command can own stdout for the MCP
	// stdio transport.
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set POSTSEARCH_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	store := sqlite.NewStore(m.DB)
	m.Store = pslog.NewLoggingStore(store, logger)

	fetcher := pshttp.NewFetcher(pshttp.WithTimeout(cli.Timeout))
	defer fetcher.Close()

	crawlers := []postsearch.Crawler{
		pslog.NewLoggingCrawler(&notion.Crawler{
			APIKey:   cli.NotionKey,
			MaxDepth: cli.MaxDepth,
			Timeout:  cli.Timeout,
			Logger:   logger,
		}, logger),
		pslog.NewLoggingCrawler(&tistory.Crawler{
			BlogName:    cli.TistoryBlog,
			MaxPostID:   cli.MaxPostID,
			Concurrency: cli.Concurrency,
			RPS:         cli.RPS,
			Fetcher:     fetcher,
			Logger:      logger,
		}, logger),
	}

	indexer := indexing.NewIndexer(m.Store, logger)
	indexer.BatchSize = cli.BatchSize
	indexer.LogInterval = cli.LogInterval

	searcher := &search.Searcher{
		Store:           m.Store,
		Crawlers:        crawlers,
		Ingestor:        indexer,
		MinLocalResults: cli.Threshold,
		OverFetch:       cli.Multiplier,
		PreviewLen:      cli.Preview,
		Logger:          logger,
	}

	deps.Logger = logger
	deps.Store = m.Store
	deps.Stats = store
	deps.Crawlers = crawlers
	deps.Indexer = indexer
	deps.Searcher = searcher

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("POSTSEARCH_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "postsearch.db"
	}
	dir := filepath.Join(home, ".postsearch")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "postsearch.db")
}
