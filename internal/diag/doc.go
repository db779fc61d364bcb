// Package diag defines the diagnostic model shared by the lexer, parser,
// semantic pass and the loop analyzer.
//
// Diagnostic is the central record: severity, numeric code with a stable
// string id (LEX/SYN/SEM/IO/VEC/KRN ranges), message, primary span and
// optional notes. Producers emit through a Reporter, usually via
// ReportBuilder; BagReporter collects into a bounded Bag which supports
// sorting and deduplication.
//
// Rendering lives in internal/diagfmt.
package diag
