package driving

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// RetrievalService is the query path: it selects the instructions relevant
// to a question and builds the bounded context for the answering step.
type RetrievalService interface {
	// Ask ranks the published instructions of an organisation for a question.
	// Returns domain.ErrNoInstructions when the organisation has none with text.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error)
}
