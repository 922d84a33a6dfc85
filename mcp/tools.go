package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fwojciec/postsearch"
)

const defaultNResults = 10

// SearchInput is the input schema for the search tools.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"the search query"`
	NResults int    `json:"n_results,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tools.
type SearchOutput struct {
	Results string `json:"results"`
	Source  string `json:"source"`
}

// TriggerIndexOutput is the output schema for trigger_index_all.
type TriggerIndexOutput struct {
	Message string `json:"message"`
}

// IndexStatusOutput is the output schema for get_index_status.
type IndexStatusOutput struct {
	PassID        string  `json:"pass_id,omitempty"`
	State         string  `json:"state"`
	Message       string  `json:"message,omitempty"`
	Progress      float64 `json:"progress"`
	TotalDocs     int     `json:"total_docs"`
	ProcessedDocs int     `json:"processed_docs"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_content",
		Description: "Search stored content, falling back to live web search when local coverage is insufficient",
	}, s.handleSearchContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_notion",
		Description: "Search Notion workspace pages live",
	}, s.handleSearchNotion)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_tistory",
		Description: "Search Tistory blog posts live",
	}, s.handleSearchTistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "trigger_index_all",
		Description: "Fetch all documents from every configured source and index them in the background",
	}, s.handleTriggerIndexAll)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_index_status",
		Description: "Report the state and progress of the current or most recent indexing pass",
	}, s.handleIndexStatus)
}

// handleSearchContent handles the search_content tool invocation.
func (s *Server) handleSearchContent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	n := input.NResults
	if n <= 0 {
		n = defaultNResults
	}

	outcome := s.searcher.Search(ctx, input.Query, n)

	results := outcome.Results
	if outcome.Source == postsearch.SourceWeb && outcome.NewDocs > 0 {
		results += fmt.Sprintf("\n\nAdding %d documents to the local store in the background.", outcome.NewDocs)
	}

	return nil, SearchOutput{Results: results, Source: outcome.Source}, nil
}

// handleSearchNotion handles the search_notion tool invocation.
func (s *Server) handleSearchNotion(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return s.handlePlatformSearch(ctx, postsearch.PlatformNotion, input)
}

// handleSearchTistory handles the search_tistory tool invocation.
func (s *Server) handleSearchTistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return s.handlePlatformSearch(ctx, postsearch.PlatformTistory, input)
}

func (s *Server) handlePlatformSearch(
	ctx context.Context,
	platform string,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	n := input.NResults
	if n <= 0 {
		n = defaultNResults
	}

	outcome := s.searcher.SearchPlatform(ctx, platform, input.Query, n)

	return nil, SearchOutput{Results: outcome.Results, Source: outcome.Source}, nil
}

// handleTriggerIndexAll handles the trigger_index_all tool invocation. The
// acquisition and indexing run detached; the call acknowledges immediately.
func (s *Server) handleTriggerIndexAll(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, TriggerIndexOutput, error) {
	if s.indexer.Running() {
		return nil, TriggerIndexOutput{Message: "Indexing is already in progress. Check get_index_status for progress."}, nil
	}

	s.Background(func() {
		ctx := context.Background()
		docs := s.harvest(ctx)
		if err := s.indexer.Index(ctx, docs); err != nil {
			s.logger.Error("background indexing failed", "err", err)
		}
	})

	return nil, TriggerIndexOutput{Message: "Indexing started in the background. Check get_index_status for progress."}, nil
}

// handleIndexStatus handles the get_index_status tool invocation.
func (s *Server) handleIndexStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, IndexStatusOutput, error) {
	status := s.indexer.Status()

	return nil, IndexStatusOutput{
		PassID:        status.PassID,
		State:         string(status.State),
		Message:       status.Message,
		Progress:      status.Progress,
		TotalDocs:     status.TotalDocs,
		ProcessedDocs: status.ProcessedDocs,
	}, nil
}
