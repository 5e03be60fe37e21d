// Package postprocessors runs the write-time steps that derive keywords
// and chunks from a saved instruction.
package postprocessors

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs processors in order, feeding each the chunks returned by
// the previous one. The first receives no chunks.
type Pipeline struct {
	steps []driven.PostProcessor
}

// NewPipeline returns a pipeline running steps in order.
func NewPipeline(steps ...driven.PostProcessor) *Pipeline {
	return &Pipeline{steps: steps}
}

// Add appends a step.
func (p *Pipeline) Add(step driven.PostProcessor) {
	p.steps = append(p.steps, step)
}

// Names returns the step names in run order.
func (p *Pipeline) Names() []string {
	out := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		out = append(out, s.Name())
	}
	return out
}

// Process runs every step on inst. Steps may set derived fields of inst,
// such as its keywords. Cancellation is checked between steps.
func (p *Pipeline) Process(ctx context.Context, inst *domain.Instruction) ([]domain.Chunk, error) {
	if inst == nil {
		return nil, errors.New("processing nil instruction")
	}
	var chunks []domain.Chunk
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		if chunks, err = step.Process(ctx, inst, chunks); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return chunks, nil
}
