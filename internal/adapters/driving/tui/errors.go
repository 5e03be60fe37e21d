package tui

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("tui: retrieval service is required")

// ErrMissingInstructionService is returned when the instruction service is not provided.
var ErrMissingInstructionService = errors.New("tui: instruction service is required")

// ErrMissingOrg is returned when no organisation is configured.
var ErrMissingOrg = errors.New("tui: organisation id is required")
