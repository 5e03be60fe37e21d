package driving

import (
	"context"
	"time"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// ListOptions narrows an instruction listing.
type ListOptions struct {
	// Status restricts results to one status. Empty means all.
	Status domain.Status
}

// InstructionService provides read access to stored instructions.
type InstructionService interface {
	// List returns instructions of an organisation, most recently updated first.
	// An empty orgID lists every organisation.
	List(ctx context.Context, orgID string, opts ListOptions) ([]domain.Instruction, error)

	// Get retrieves an instruction by ID.
	Get(ctx context.Context, id string) (*domain.Instruction, error)

	// Chunks returns the stored chunks of an instruction ordered by index.
	Chunks(ctx context.Context, id string) ([]domain.Chunk, error)

	// GetDetails returns a display-oriented view of an instruction.
	GetDetails(ctx context.Context, id string) (*InstructionDetails, error)
}

// InstructionDetails provides a standardised view of instruction metadata.
type InstructionDetails struct {
	// ID is the unique instruction identifier.
	ID string

	// OrgID is the owning organisation.
	OrgID string

	// Title is the instruction title.
	Title string

	// Folder is the folder name, empty when unfiled.
	Folder string

	// Severity is the instruction severity.
	Severity domain.Severity

	// Status is draft or published.
	Status domain.Status

	// Keywords are the cached keywords.
	Keywords []string

	// KeywordsStale is true when the keywords predate the current extractor.
	KeywordsStale bool

	// ChunkCount is the number of chunks.
	ChunkCount int

	// ContentLength is the body length in runes.
	ContentLength int

	// FileURI is the attachment reference, if any.
	FileURI string

	// CreatedAt is when the instruction was created.
	CreatedAt time.Time

	// UpdatedAt is when the instruction was last updated.
	UpdatedAt time.Time
}
