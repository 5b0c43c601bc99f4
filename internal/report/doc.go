// Package report renders search responses for people and tools.
//
// Three formats are supported: a human-readable text report for the
// terminal, compact or indented JSON for tool integration, and
// Markdown for documentation and sharing. All writers implement the
// same Writer interface, and MultiWriter fans one response out to
// several destinations.
package report
