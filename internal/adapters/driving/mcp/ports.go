// Package mcp serves instruction retrieval to assistants over the Model
// Context Protocol: tools for asking and text processing, and resources
// for reading stored instructions.
package mcp

import (
	"errors"

	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

var (
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
	ErrMissingTextService      = errors.New("mcp: text service is required")
)

// Ports are the services the server calls. Instruction is optional and
// enables the resources.
type Ports struct {
	Retrieval   driving.RetrievalService
	Text        driving.TextService
	Instruction driving.InstructionService
}

// Validate reports the first missing required service.
func (p *Ports) Validate() error {
	switch {
	case p.Retrieval == nil:
		return ErrMissingRetrievalService
	case p.Text == nil:
		return ErrMissingTextService
	}
	return nil
}
