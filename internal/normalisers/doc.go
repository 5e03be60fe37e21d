// Package normalisers turns instruction source files into drafts.
// Each subpackage handles one format (plain text, Markdown, HTML) and
// the Registry dispatches by MIME type, preferring higher priorities.
//
// Call RegisterDefaults at startup to enable the built-in formats.
package normalisers
