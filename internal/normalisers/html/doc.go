// Package html provides a Normaliser implementation for HTML instructions.
// Pages are converted to Markdown first so headings, paragraphs and lists
// survive as line structure for the chunker, then flattened to plain text.
package html
