package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns source files into saved instructions.
type IngestService struct {
	normalisers driven.NormaliserRegistry
	index       driving.IndexService
}

// NewIngestService creates a new ingest service.
func NewIngestService(normalisers driven.NormaliserRegistry, index driving.IndexService) *IngestService {
	return &IngestService{normalisers: normalisers, index: index}
}

// Ingest normalises raw and saves the resulting draft.
func (s *IngestService) Ingest(
	ctx context.Context,
	raw *domain.RawInstruction,
	opts driving.IngestOptions,
) (*domain.Instruction, error) {
	if raw == nil || strings.TrimSpace(raw.URI) == "" {
		return nil, fmt.Errorf("%w: source uri is required", domain.ErrInvalidInput)
	}

	result, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}

	draft := result.Draft
	if draft.OrgID == "" {
		draft.OrgID = strings.TrimSpace(opts.OrgID)
	}
	if draft.Status == "" {
		draft.Status = opts.Status
	}
	if draft.ID == "" && draft.OrgID != "" {
		draft.ID = s.InstructionID(raw.URI, draft.OrgID)
	}

	inst, err := s.index.Save(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", raw.URI, err)
	}
	logger.Debug("Ingested %s as %s", raw.URI, inst.ID)
	return inst, nil
}

// Remove deletes the instruction ingested from uri.
func (s *IngestService) Remove(ctx context.Context, uri, orgID string) error {
	return s.index.Delete(ctx, s.InstructionID(uri, orgID))
}

// InstructionID derives a name-based UUID from the organisation and URI.
func (s *IngestService) InstructionID(uri, orgID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(orgID+"\x00"+uri)).String()
}
