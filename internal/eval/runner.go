package eval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
)

// DefaultTopK is how many instructions are requested per question.
const DefaultTopK = 10

// Result holds the evaluation of one dataset.
type Result struct {
	Dataset  string        `json:"dataset"`
	Mode     string        `json:"mode"`
	Metrics  MetricsSet    `json:"metrics"`
	PerQuery []QueryResult `json:"per_query,omitempty"`
	Duration time.Duration `json:"duration"`
}

// QueryResult holds per-question metrics.
// Fallback answers carry no ranking, so their TopHits stay empty.
type QueryResult struct {
	QueryID   string     `json:"query_id"`
	QueryText string     `json:"query_text"`
	Metrics   MetricsSet `json:"metrics"`
	TopHits   []string   `json:"top_hits"`
	Fallback  bool       `json:"fallback"`
}

// Runner indexes a dataset and scores the answers to its questions.
// It should be given services backed by a dedicated store.
type Runner struct {
	index     driving.IndexService
	retrieval driving.RetrievalService
	topK      int
	hybrid    bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithTopK sets how many instructions are requested per question.
func WithTopK(k int) Option {
	return func(r *Runner) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithHybrid enables hybrid retrieval when available.
func WithHybrid(hybrid bool) Option {
	return func(r *Runner) {
		r.hybrid = hybrid
	}
}

// NewRunner creates a runner over the given services.
func NewRunner(index driving.IndexService, retrieval driving.RetrievalService, opts ...Option) *Runner {
	r := &Runner{index: index, retrieval: retrieval, topK: DefaultTopK}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run indexes the corpus and evaluates every query.
func (r *Runner) Run(ctx context.Context, ds *Dataset) (*Result, error) {
	start := time.Now()
	logger.Section("Eval " + ds.Name)

	for _, inst := range ds.Corpus {
		if err := r.seed(ctx, ds.OrgID, inst); err != nil {
			return nil, err
		}
	}
	logger.Debug("Indexed %d instructions", len(ds.Corpus))

	result := &Result{Dataset: ds.Name, Mode: "keyword"}
	sets := make([]MetricsSet, 0, len(ds.Queries))
	for _, q := range ds.Queries {
		qr, mode, err := r.ask(ctx, ds.OrgID, q)
		if err != nil {
			return nil, err
		}
		if mode != "" {
			result.Mode = mode
		}
		result.PerQuery = append(result.PerQuery, qr)
		sets = append(sets, qr.Metrics)
		logger.Debug("%s: recall@10=%.3f nDCG@10=%.3f hits=%v", q.ID, qr.Metrics.Recall10, qr.Metrics.NDCG10, qr.TopHits)
	}

	result.Metrics = AverageMetrics(sets)
	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) seed(ctx context.Context, orgID string, inst Instruction) error {
	severity, err := domain.ParseSeverity(inst.Severity)
	if err != nil {
		return fmt.Errorf("instruction %s: %w", inst.ID, err)
	}

	draft := domain.InstructionDraft{
		ID:       inst.ID,
		OrgID:    orgID,
		Title:    inst.Title,
		Severity: severity,
		Status:   domain.StatusPublished,
	}
	if inst.Content != "" {
		content := inst.Content
		draft.Content = &content
	}
	if inst.Folder != "" {
		draft.Folder = &domain.Folder{ID: inst.Folder, Name: inst.Folder}
	}

	if _, err := r.index.Save(ctx, draft); err != nil {
		return fmt.Errorf("index instruction %s: %w", inst.ID, err)
	}
	return nil
}

func (r *Runner) ask(ctx context.Context, orgID string, q Query) (QueryResult, string, error) {
	qr := QueryResult{QueryID: q.ID, QueryText: q.Text, TopHits: []string{}}

	res, err := r.retrieval.Ask(ctx, domain.AskRequest{
		OrgID:    orgID,
		Question: q.Text,
		TopN:     r.topK,
		Hybrid:   r.hybrid,
	})
	switch {
	case errors.Is(err, domain.ErrNoInstructions):
		qr.Metrics = ComputeAll(nil, q.Relevance)
		return qr, "", nil
	case err != nil:
		return qr, "", fmt.Errorf("ask %s: %w", q.ID, err)
	}

	qr.Fallback = res.Fallback
	if !res.Fallback {
		for _, ranked := range res.Ranked {
			qr.TopHits = append(qr.TopHits, ranked.Instruction.ID)
		}
	}
	qr.Metrics = ComputeAll(qr.TopHits, q.Relevance)
	return qr, res.Mode, nil
}
