package domain

// RankedInstruction pairs an instruction with its relevance score.
type RankedInstruction struct {
	// Instruction is the matched instruction.
	Instruction Instruction

	// Score is the non-negative relevance score.
	Score float64
}

// AskRequest is a question asked against an organisation's instructions.
type AskRequest struct {
	// OrgID scopes the candidate instructions.
	OrgID string

	// Question is the free-text user question.
	Question string

	// TopN caps the number of instructions used as context.
	// Zero means the configured default.
	TopN int

	// Hybrid merges keyword ranking with vector similarity when available.
	Hybrid bool
}

// AskResult is the retrieval output handed to the answering step.
type AskResult struct {
	// Ranked is the ordered, size-capped instruction list.
	Ranked []RankedInstruction

	// Context is the bounded text block built from Ranked.
	Context string

	// Source is the top-ranked instruction, used for citation and logging.
	// Nil when nothing was ranked.
	Source *Instruction

	// Fallback is true when no instruction scored above zero and
	// the unranked default slice was used instead.
	Fallback bool

	// Candidates is the number of instructions considered.
	Candidates int

	// Mode describes how the ranking was produced ("keyword" or "hybrid").
	Mode string
}

// ReindexOptions configures a re-index run.
type ReindexOptions struct {
	// OrgID restricts the run to one organisation. Empty means all.
	OrgID string

	// Force refreshes every instruction regardless of staleness.
	Force bool
}

// ReindexReport summarises a re-index run.
type ReindexReport struct {
	Checked   int
	Refreshed int
	Skipped   int
	Failed    int
}
