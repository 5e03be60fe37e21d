// Package textanalysis turns free text into the tokens used for ranking.
//
// The pipeline is normalize → stop-word filter → frequency ranking. The
// same Analyzer is used at write time (keywords cached on an instruction)
// and at query time (tokens of a user question), so both sides agree on
// what a token is.
//
// Every function is pure. An Analyzer holds only immutable values and is
// safe for concurrent use.
package textanalysis
