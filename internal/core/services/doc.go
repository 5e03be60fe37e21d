// Package services is the application core behind the CLI, HTTP, MCP and
// TUI adapters.
//
// Writes go through IndexService, which derives keywords and chunks with
// the post-processor pipeline and embeds chunks when a provider is set.
// Reads go through RetrievalService, which ranks an organisation's
// published instructions for a question and assembles a bounded context.
package services
