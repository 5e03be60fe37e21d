package httpapi

import (
	"errors"

	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("httpapi: retrieval, text and instruction services are required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Retrieval   driving.RetrievalService
	Text        driving.TextService
	Instruction driving.InstructionService

	// Index enables the write routes. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retrieval == nil || p.Text == nil || p.Instruction == nil {
		return ErrMissingService
	}
	return nil
}
