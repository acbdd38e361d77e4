// Package report prints the one-line diagnostics of a sync run.
//
// Successful actions go to stdout, skipped entries and failures to stderr.
// Output is either plain text or styled with lipgloss using the embedded
// styles.yaml palette.
package report
