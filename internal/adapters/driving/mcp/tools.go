package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// AskInput is the input schema for the ask_instructions tool.
type AskInput struct {
	OrgID    string `json:"org_id" jsonschema:"the organisation whose published instructions are searched"`
	Question string `json:"question" jsonschema:"the worker's question in free text"`
	TopN     int    `json:"top_n,omitempty" jsonschema:"maximum number of instructions to return (default from settings)"`
	Hybrid   bool   `json:"hybrid,omitempty" jsonschema:"merge keyword ranking with embedding similarity when available"`
}

// AskOutput is the output schema for the ask_instructions tool.
type AskOutput struct {
	Instructions []RankedOutput `json:"instructions"`
	Count        int            `json:"count"`
	Context      string         `json:"context"`
	SourceID     string         `json:"source_id,omitempty"`
	Fallback     bool           `json:"fallback"`
	Mode         string         `json:"mode,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// RankedOutput is a single ranked instruction.
type RankedOutput struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Folder   string  `json:"folder,omitempty"`
	Severity string  `json:"severity"`
	Score    float64 `json:"score"`
	URI      string  `json:"uri"`
}

// KeywordsInput is the input schema for the extract_keywords tool.
type KeywordsInput struct {
	Text string `json:"text" jsonschema:"the text to extract keywords from"`
	Max  int    `json:"max,omitempty" jsonschema:"maximum number of keywords (default from settings)"`
}

// KeywordsOutput is the output schema for the extract_keywords tool.
type KeywordsOutput struct {
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
}

// ChunkInput is the input schema for the chunk_text tool.
type ChunkInput struct {
	Text          string `json:"text" jsonschema:"the text to split"`
	Title         string `json:"title,omitempty" jsonschema:"optional title prefixed to each embedding input"`
	MaxChunkChars int    `json:"max_chunk_chars,omitempty" jsonschema:"maximum chunk size in characters"`
	OverlapChars  *int   `json:"overlap_chars,omitempty" jsonschema:"characters repeated between consecutive chunks; 0 disables overlap"`
}

// ChunkOutput is the output schema for the chunk_text tool.
type ChunkOutput struct {
	Chunks          []ChunkItem `json:"chunks"`
	Count           int         `json:"count"`
	EmbeddingInputs []string    `json:"embedding_inputs,omitempty"`
}

// ChunkItem is a single chunk.
type ChunkItem struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_instructions",
		Description: "Find the safety instructions that answer a worker's question",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_keywords",
		Description: "Extract the salient keywords of a Norwegian or English text",
	}, s.handleKeywords)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chunk_text",
		Description: "Split text into overlapping chunks sized for embedding",
	}, s.handleChunk)
}

// handleAsk handles the ask_instructions tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Retrieval.Ask(ctx, domain.AskRequest{
		OrgID:    input.OrgID,
		Question: input.Question,
		TopN:     input.TopN,
		Hybrid:   input.Hybrid,
	})
	if errors.Is(err, domain.ErrNoInstructions) {
		return nil, AskOutput{
			Instructions: []RankedOutput{},
			Message:      "the organisation has no published instructions",
		}, nil
	}
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Instructions: make([]RankedOutput, len(result.Ranked)),
		Count:        len(result.Ranked),
		Context:      result.Context,
		Fallback:     result.Fallback,
		Mode:         result.Mode,
	}
	for i := range result.Ranked {
		inst := &result.Ranked[i].Instruction
		output.Instructions[i] = RankedOutput{
			ID:       inst.ID,
			Title:    inst.Title,
			Folder:   inst.FolderName(),
			Severity: inst.Severity.String(),
			Score:    result.Ranked[i].Score,
			URI:      instructionURI(inst.ID),
		}
	}
	if result.Source != nil {
		output.SourceID = result.Source.ID
	}

	return nil, output, nil
}

// handleKeywords handles the extract_keywords tool invocation.
func (s *Server) handleKeywords(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input KeywordsInput,
) (*mcp.CallToolResult, KeywordsOutput, error) {
	keywords := s.ports.Text.ExtractKeywords(input.Text, input.Max)
	if keywords == nil {
		keywords = []string{}
	}
	return nil, KeywordsOutput{Keywords: keywords, Count: len(keywords)}, nil
}

// handleChunk handles the chunk_text tool invocation.
func (s *Server) handleChunk(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ChunkInput,
) (*mcp.CallToolResult, ChunkOutput, error) {
	chunks := s.ports.Text.Chunk(input.Text, driving.ChunkOptions{
		MaxChunkChars: input.MaxChunkChars,
		OverlapChars:  input.OverlapChars,
	})

	output := ChunkOutput{
		Chunks: make([]ChunkItem, len(chunks)),
		Count:  len(chunks),
	}
	for i := range chunks {
		output.Chunks[i] = ChunkItem{Index: chunks[i].Index, Content: chunks[i].Content}
	}
	if input.Title != "" {
		output.EmbeddingInputs = s.ports.Text.PrepareForEmbedding(input.Title, chunks)
	}

	return nil, output, nil
}
