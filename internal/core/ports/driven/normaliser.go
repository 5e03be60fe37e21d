package driven

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// Normaliser reads one kind of source file (Markdown, HTML, text) and
// produces the draft an instruction is saved from.
type Normaliser interface {
	SupportedMIMETypes() []string

	// Priority orders normalisers claiming the same MIME type; the
	// highest wins. Catch-all normalisers stay below 10.
	Priority() int

	Normalise(ctx context.Context, raw *domain.RawInstruction) (*NormaliseResult, error)
}

// NormaliseResult carries the title and body found in the source. The
// caller fills in organisation and severity when the file did not.
type NormaliseResult struct {
	Draft domain.InstructionDraft
}

// NormaliserRegistry dispatches a raw instruction to the best normaliser
// for its MIME type.
type NormaliserRegistry interface {
	Normalise(ctx context.Context, raw *domain.RawInstruction) (*NormaliseResult, error)
	Register(n Normaliser)
	SupportedMIMETypes() []string
}
