package httpapi

import (
	"time"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// AskRequest is the body of POST /api/v1/ask.
type AskRequest struct {
	OrgID    string `json:"org_id"`
	Question string `json:"question"`
	TopN     int    `json:"top_n,omitempty"`
	Hybrid   bool   `json:"hybrid,omitempty"`
}

// AskResponse is the retrieval result handed to the answering step.
type AskResponse struct {
	Instructions []RankedDTO     `json:"instructions"`
	Context      string          `json:"context"`
	Source       *InstructionDTO `json:"source,omitempty"`
	Fallback     bool            `json:"fallback"`
	Candidates   int             `json:"candidates"`
	Mode         string          `json:"mode,omitempty"`
	Message      string          `json:"message,omitempty"`
}

// RankRequest is the body of POST /api/v1/rank.
// Instructions without keywords get them extracted on the fly.
type RankRequest struct {
	Query        string           `json:"query"`
	Instructions []InstructionDTO `json:"instructions"`
	TopN         int              `json:"top_n,omitempty"`
}

// RankResponse lists the relevant instructions, best first.
type RankResponse struct {
	Ranked []RankedDTO `json:"ranked"`
}

// KeywordsRequest is the body of POST /api/v1/keywords.
type KeywordsRequest struct {
	Text        string `json:"text"`
	MaxKeywords int    `json:"max_keywords,omitempty"`
}

// KeywordsResponse holds extracted keywords.
type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// ChunksRequest is the body of POST /api/v1/chunks.
// When Title is set the response also carries the embedding inputs.
type ChunksRequest struct {
	Text          string `json:"text"`
	Title         string `json:"title,omitempty"`
	MaxChunkChars int    `json:"max_chunk_chars,omitempty"`
	OverlapChars  *int   `json:"overlap_chars,omitempty"`
}

// ChunksResponse holds the chunks of a text.
type ChunksResponse struct {
	Chunks          []ChunkDTO `json:"chunks"`
	EmbeddingInputs []string   `json:"embedding_inputs,omitempty"`
}

// ChunkDTO is a chunk on the wire.
type ChunkDTO struct {
	ID      string `json:"id,omitempty"`
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// RankedDTO pairs an instruction with its score.
type RankedDTO struct {
	Instruction InstructionDTO `json:"instruction"`
	Score       float64        `json:"score"`
}

// InstructionDTO is an instruction on the wire.
type InstructionDTO struct {
	ID        string     `json:"id"`
	OrgID     string     `json:"org_id,omitempty"`
	Title     string     `json:"title"`
	Content   *string    `json:"content,omitempty"`
	Severity  string     `json:"severity,omitempty"`
	Status    string     `json:"status,omitempty"`
	Folder    string     `json:"folder,omitempty"`
	Keywords  []string   `json:"keywords,omitempty"`
	FileURI   string     `json:"file_uri,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DetailsDTO is the body of GET /api/v1/instructions/{id}.
type DetailsDTO struct {
	InstructionDTO
	KeywordsStale bool `json:"keywords_stale"`
	ChunkCount    int  `json:"chunk_count"`
	ContentLength int  `json:"content_length"`
}

// SaveRequest is the body of POST /api/v1/instructions.
type SaveRequest struct {
	ID       string  `json:"id,omitempty"`
	OrgID    string  `json:"org_id"`
	Title    string  `json:"title"`
	Content  *string `json:"content,omitempty"`
	Severity string  `json:"severity,omitempty"`
	Status   string  `json:"status,omitempty"`
	Folder   string  `json:"folder,omitempty"`
	FileURI  string  `json:"file_uri,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func toInstructionDTO(inst *domain.Instruction) InstructionDTO {
	dto := InstructionDTO{
		ID:       inst.ID,
		OrgID:    inst.OrgID,
		Title:    inst.Title,
		Content:  inst.Content,
		Severity: string(inst.Severity),
		Status:   string(inst.Status),
		Folder:   inst.FolderName(),
		Keywords: inst.Keywords.Terms,
		FileURI:  inst.FileURI,
	}
	if !inst.CreatedAt.IsZero() {
		created := inst.CreatedAt
		dto.CreatedAt = &created
	}
	if !inst.UpdatedAt.IsZero() {
		updated := inst.UpdatedAt
		dto.UpdatedAt = &updated
	}
	return dto
}

func toRankedDTOs(ranked []domain.RankedInstruction) []RankedDTO {
	out := make([]RankedDTO, len(ranked))
	for i := range ranked {
		out[i] = RankedDTO{
			Instruction: toInstructionDTO(&ranked[i].Instruction),
			Score:       ranked[i].Score,
		}
	}
	return out
}

func toChunkDTOs(chunks []domain.Chunk) []ChunkDTO {
	out := make([]ChunkDTO, len(chunks))
	for i := range chunks {
		out[i] = ChunkDTO{ID: chunks[i].ID, Index: chunks[i].Index, Content: chunks[i].Content}
	}
	return out
}

func toDetailsDTO(d *driving.InstructionDetails) DetailsDTO {
	dto := DetailsDTO{
		InstructionDTO: InstructionDTO{
			ID:       d.ID,
			OrgID:    d.OrgID,
			Title:    d.Title,
			Severity: string(d.Severity),
			Status:   string(d.Status),
			Folder:   d.Folder,
			Keywords: d.Keywords,
			FileURI:  d.FileURI,
		},
		KeywordsStale: d.KeywordsStale,
		ChunkCount:    d.ChunkCount,
		ContentLength: d.ContentLength,
	}
	if !d.CreatedAt.IsZero() {
		created := d.CreatedAt
		dto.CreatedAt = &created
	}
	if !d.UpdatedAt.IsZero() {
		updated := d.UpdatedAt
		dto.UpdatedAt = &updated
	}
	return dto
}
