package driving

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// IngestOptions supplies defaults for fields a source file does not set.
type IngestOptions struct {
	// OrgID is used when the file carries no org_id.
	OrgID string

	// Status is used when the file carries no status.
	Status domain.Status
}

// IngestService indexes instruction source files through the normalisers.
type IngestService interface {
	// Ingest normalises a raw file and saves it. Re-ingesting the same URI
	// for the same organisation updates the existing instruction.
	Ingest(ctx context.Context, raw *domain.RawInstruction, opts IngestOptions) (*domain.Instruction, error)

	// Remove deletes the instruction previously ingested from uri.
	Remove(ctx context.Context, uri, orgID string) error

	// InstructionID returns the stable ID used for a file of an organisation.
	InstructionID(uri, orgID string) string
}
