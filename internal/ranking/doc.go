// Package ranking scores instructions against a question and orders them.
//
// The Scorer rewards overlap between query tokens and an instruction's
// cached keywords, its title and its content. The Ranker keeps only
// instructions with a positive score, ordered by score with ties kept in
// input order, and truncates to a caller supplied top-N. It never falls back
// to unranked results; that policy belongs to the caller.
package ranking
