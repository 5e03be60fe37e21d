// Package tui provides an interactive terminal user interface for asking
// questions against an organisation's safety instructions.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"strings"

	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers questions.
	Retrieval driving.RetrievalService

	// Instruction reads stored instructions.
	Instruction driving.InstructionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Instruction == nil {
		return ErrMissingInstructionService
	}
	return nil
}

// Config controls what the TUI asks against.
type Config struct {
	// OrgID scopes every question and listing.
	OrgID string

	// TopN caps the ranked results. Zero uses the configured default.
	TopN int

	// Hybrid enables embedding similarity when available.
	Hybrid bool
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OrgID) == "" {
		return ErrMissingOrg
	}
	return nil
}
