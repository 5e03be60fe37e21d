package chunker

import (
	"context"
	"testing"

	"github.com/tetrivo/tetra/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func TestChunker_Name(t *testing.T) {
	c := New()
	if c.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", c.Name())
	}
}

func TestChunker_Process_FileOnlyInstruction(t *testing.T) {
	c := New()
	inst := &domain.Instruction{ID: "inst-1", Title: "Vedlegg"}

	chunks, err := c.Process(context.Background(), inst, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for file-only instruction, got %d", len(chunks))
	}
}

func TestChunker_Process_SetsIdentity(t *testing.T) {
	c := New(WithMaxChunkChars(60), WithOverlapChars(10))
	inst := &domain.Instruction{
		ID:      "inst-1",
		Title:   "Brannvern",
		Content: strPtr("Ved brann skal alle forlate bygget. Bruk nærmeste nødutgang. Møt opp ved samlingsplassen."),
	}

	chunks, err := c.Process(context.Background(), inst, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	seenIDs := make(map[string]bool)
	for i, chunk := range chunks {
		if chunk.ID == "" {
			t.Errorf("chunk %d has no ID", i)
		}
		if seenIDs[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		seenIDs[chunk.ID] = true
		if chunk.InstructionID != inst.ID {
			t.Errorf("expected InstructionID '%s', got '%s'", inst.ID, chunk.InstructionID)
		}
		if chunk.Index != i {
			t.Errorf("expected index %d, got %d", i, chunk.Index)
		}
	}
}

func TestChunker_Process_IgnoresInputChunks(t *testing.T) {
	c := New()
	existing := []domain.Chunk{{ID: "existing", Content: "should be ignored"}}
	inst := &domain.Instruction{ID: "inst-1", Content: strPtr("Nytt innhold.")}

	chunks, err := c.Process(context.Background(), inst, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].ID == "existing" {
		t.Error("existing chunks should be ignored")
	}
	if chunks[0].Content != "Nytt innhold." {
		t.Errorf("unexpected content %q", chunks[0].Content)
	}
}

func TestPrepareChunksForEmbedding(t *testing.T) {
	chunks := []domain.Chunk{
		{Index: 0, Content: "Første del."},
		{Index: 1, Content: "Andre del."},
	}

	got := PrepareChunksForEmbedding("Brannvern", chunks)

	want := []string{"Brannvern\n\nFørste del.", "Brannvern\n\nAndre del."}
	if len(got) != len(want) {
		t.Fatalf("expected %d texts, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("text %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if empty := PrepareChunksForEmbedding("T", nil); len(empty) != 0 {
		t.Errorf("expected no texts for no chunks, got %d", len(empty))
	}
}
