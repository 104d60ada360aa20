package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the documentation"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Fallback string   `json:"fallback,omitempty"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string   `json:"query" jsonschema:"the text to match against documentation chunks"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default from settings)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"minimum similarity a chunk must exceed (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single matching chunk.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Section    string  `json:"section"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the documentation chunks most similar to a query",
	}, s.handleSearch)

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question using only the ingested documentation",
		}, s.handleAsk)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, ErrEmptyQuestion
	}

	resp, err := s.ports.Chat.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := resp.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{
		Answer:   resp.Response,
		Sources:  sources,
		Fallback: string(resp.Fallback),
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: input.Limit, Threshold: input.Threshold}
	result, err := s.ports.Retrieval.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, 0, len(result.Chunks)),
	}
	for i := range result.Chunks {
		c := &result.Chunks[i]
		var score float64
		if i < len(result.Scores) {
			score = result.Scores[i]
		}
		output.Results = append(output.Results, SearchResultOutput{
			DocumentID: c.DocumentID,
			Filename:   c.Metadata.Filename,
			Section:    c.Metadata.Section,
			Score:      score,
			Content:    c.Content,
		})
	}
	output.Count = len(output.Results)

	return nil, output, nil
}
