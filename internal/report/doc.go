// Package report provides output writers for download statistics.
//
// This package contains writers for different output formats:
//   - ConsoleWriter: Human-readable text output for terminal display
//   - CSVWriter: CSV output matching the statistics table layout
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown tables for documentation
//
// Design decision: We separate report writing from the table model
// (which lives in the stats package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
