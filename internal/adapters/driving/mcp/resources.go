package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/ranking"
)

const (
	// instructionScheme addresses a single instruction.
	instructionScheme = "instruction://"

	// orgScheme addresses an organisation's instruction listing.
	orgScheme = "org://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: instructionScheme + "{id}",
		Name:        "instruction",
		Description: "An instruction rendered as a context block",
		MIMEType:    "text/plain",
	}, s.handleInstructionResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: instructionScheme + "{id}/details",
		Name:        "instruction-details",
		Description: "Metadata of an instruction",
		MIMEType:    "application/json",
	}, s.handleDetailsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: orgScheme + "{orgId}/instructions",
		Name:        "org-instructions",
		Description: "Published instructions of an organisation",
		MIMEType:    "application/json",
	}, s.handleOrgInstructionsResource)
}

// handleInstructionResource returns an instruction formatted the way it
// appears in answering context.
func (s *Server) handleInstructionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractInstructionID(req.Params.URI)
	if id == "" || strings.Contains(id, "/") {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	inst, err := s.ports.Instruction.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting instruction: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     ranking.FormatBlock(inst),
		}},
	}, nil
}

// handleDetailsResource returns instruction metadata as JSON.
func (s *Server) handleDetailsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := strings.CutSuffix(extractInstructionID(req.Params.URI), "/details")
	if !ok || id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	details, err := s.ports.Instruction.GetDetails(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting instruction details: %w", err)
	}

	type detailsInfo struct {
		ID         string   `json:"id"`
		OrgID      string   `json:"org_id"`
		Title      string   `json:"title"`
		Folder     string   `json:"folder,omitempty"`
		Severity   string   `json:"severity"`
		Status     string   `json:"status"`
		Keywords   []string `json:"keywords"`
		Stale      bool     `json:"keywords_stale"`
		ChunkCount int      `json:"chunk_count"`
		Length     int      `json:"content_length"`
		FileURI    string   `json:"file_uri,omitempty"`
	}

	return jsonResult(req.Params.URI, detailsInfo{
		ID:         details.ID,
		OrgID:      details.OrgID,
		Title:      details.Title,
		Folder:     details.Folder,
		Severity:   details.Severity.String(),
		Status:     string(details.Status),
		Keywords:   details.Keywords,
		Stale:      details.KeywordsStale,
		ChunkCount: details.ChunkCount,
		Length:     details.ContentLength,
		FileURI:    details.FileURI,
	})
}

// handleOrgInstructionsResource lists an organisation's published instructions.
func (s *Server) handleOrgInstructionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	orgID := extractOrgID(req.Params.URI)
	if orgID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	instructions, err := s.ports.Instruction.List(ctx, orgID, driving.ListOptions{Status: domain.StatusPublished})
	if err != nil {
		return nil, fmt.Errorf("listing instructions: %w", err)
	}

	type instructionInfo struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Folder   string `json:"folder,omitempty"`
		Severity string `json:"severity"`
		URI      string `json:"uri"`
	}

	infos := make([]instructionInfo, len(instructions))
	for i := range instructions {
		infos[i] = instructionInfo{
			ID:       instructions[i].ID,
			Title:    instructions[i].Title,
			Folder:   instructions[i].FolderName(),
			Severity: instructions[i].Severity.String(),
			URI:      instructionURI(instructions[i].ID),
		}
	}

	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// instructionURI returns the resource URI of an instruction.
func instructionURI(id string) string {
	return instructionScheme + id
}

// extractInstructionID extracts the path after instruction://.
func extractInstructionID(uri string) string {
	id, ok := strings.CutPrefix(uri, instructionScheme)
	if !ok {
		return ""
	}
	return id
}

// extractOrgID extracts the org ID from a URI like org://{orgId}/instructions.
func extractOrgID(uri string) string {
	rest, ok := strings.CutPrefix(uri, orgScheme)
	if !ok {
		return ""
	}
	orgID, ok := strings.CutSuffix(rest, "/instructions")
	if !ok || strings.Contains(orgID, "/") {
		return ""
	}
	return orgID
}
