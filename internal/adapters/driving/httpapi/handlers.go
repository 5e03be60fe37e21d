package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type handlers struct {
	ports *Ports
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.ports.Retrieval.Ask(r.Context(), domain.AskRequest{
		OrgID:    req.OrgID,
		Question: req.Question,
		TopN:     req.TopN,
		Hybrid:   req.Hybrid,
	})
	if errors.Is(err, domain.ErrNoInstructions) {
		writeJSON(w, http.StatusOK, AskResponse{
			Instructions: []RankedDTO{},
			Message:      err.Error(),
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	resp := AskResponse{
		Instructions: toRankedDTOs(res.Ranked),
		Context:      res.Context,
		Fallback:     res.Fallback,
		Candidates:   res.Candidates,
		Mode:         res.Mode,
	}
	if res.Source != nil {
		src := toInstructionDTO(res.Source)
		resp.Source = &src
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	instructions := make([]domain.Instruction, len(req.Instructions))
	for i, in := range req.Instructions {
		inst := domain.Instruction{
			ID:       in.ID,
			OrgID:    in.OrgID,
			Title:    in.Title,
			Content:  in.Content,
			Severity: domain.Severity(in.Severity),
			Status:   domain.Status(in.Status),
			FileURI:  in.FileURI,
		}
		if in.Folder != "" {
			inst.Folder = &domain.Folder{Name: in.Folder}
		}
		terms := in.Keywords
		if terms == nil {
			terms = h.ports.Text.ExtractKeywords(in.Title+"\n"+inst.Text(), 0)
		}
		inst.Keywords = domain.KeywordSet{Terms: terms}
		instructions[i] = inst
	}

	ranked := h.ports.Text.Rank(req.Query, instructions, req.TopN)
	writeJSON(w, http.StatusOK, RankResponse{Ranked: toRankedDTOs(ranked)})
}

func (h *handlers) keywords(w http.ResponseWriter, r *http.Request) {
	var req KeywordsRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MaxKeywords < 0 {
		writeError(w, fmt.Errorf("%w: max_keywords must be non-negative", domain.ErrInvalidInput))
		return
	}
	writeJSON(w, http.StatusOK, KeywordsResponse{
		Keywords: h.ports.Text.ExtractKeywords(req.Text, req.MaxKeywords),
	})
}

func (h *handlers) chunks(w http.ResponseWriter, r *http.Request) {
	var req ChunksRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MaxChunkChars < 0 || (req.OverlapChars != nil && *req.OverlapChars < 0) {
		writeError(w, fmt.Errorf("%w: chunk sizes must be non-negative", domain.ErrInvalidInput))
		return
	}

	chunks := h.ports.Text.Chunk(req.Text, driving.ChunkOptions{
		MaxChunkChars: req.MaxChunkChars,
		OverlapChars:  req.OverlapChars,
	})
	resp := ChunksResponse{Chunks: toChunkDTOs(chunks)}
	if req.Title != "" {
		resp.EmbeddingInputs = h.ports.Text.PrepareForEmbedding(req.Title, chunks)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) listInstructions(w http.ResponseWriter, r *http.Request) {
	status := domain.Status(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		writeError(w, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status))
		return
	}

	list, err := h.ports.Instruction.List(r.Context(), r.URL.Query().Get("org_id"), driving.ListOptions{Status: status})
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]InstructionDTO, len(list))
	for i := range list {
		out[i] = toInstructionDTO(&list[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getInstruction(w http.ResponseWriter, r *http.Request) {
	details, err := h.ports.Instruction.GetDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDetailsDTO(details))
}

func (h *handlers) getChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := h.ports.Instruction.Chunks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChunksResponse{Chunks: toChunkDTOs(chunks)})
}

func (h *handlers) saveInstruction(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	draft := domain.InstructionDraft{
		ID:       req.ID,
		OrgID:    req.OrgID,
		Title:    req.Title,
		Content:  req.Content,
		Severity: domain.Severity(strings.ToLower(req.Severity)),
		Status:   domain.Status(strings.ToLower(req.Status)),
		FileURI:  req.FileURI,
	}
	if req.Folder != "" {
		draft.Folder = &domain.Folder{ID: folderID(req.Folder), Name: req.Folder}
	}

	inst, err := h.ports.Index.Save(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if req.ID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, toInstructionDTO(inst))
}

func (h *handlers) deleteInstruction(w http.ResponseWriter, r *http.Request) {
	if err := h.ports.Index.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into v, mapping malformed input to ErrInvalidInput.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: decode request: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func folderID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
