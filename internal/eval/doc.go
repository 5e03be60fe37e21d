// Package eval measures retrieval quality against a golden dataset.
//
// A dataset is a YAML file holding a small instruction corpus and
// questions with graded relevance judgments. The runner indexes the corpus
// through the write path, asks every question through the query path and
// reports recall, nDCG and MRR.
package eval
