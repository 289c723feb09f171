package scrape

import (
	"fmt"
	"strings"
)

// Log accumulates the human-readable attempt trail for one session. It is
// owned by the session and returned with the aggregated record, so
// concurrent sessions never interleave their output (unlike a process
// global keyed by goroutine identity, which Go has no sane way to do
// anyway).
type Log struct {
	b strings.Builder
}

// Field opens a new section for one field's resolution.
func (l *Log) Field(label string, order []string) {
	fmt.Fprintf(&l.b, "\n[%s]\n", label)
	if len(order) > 0 {
		fmt.Fprintf(&l.b, "  order: %s\n", strings.Join(order, " -> "))
	}
}

// Accepted records a winning candidate.
func (l *Log) Accepted(provider, value string) {
	fmt.Fprintf(&l.b, "  %s: accepted (%s)\n", provider, truncate(value))
}

// Rejected records a discarded candidate and why.
func (l *Log) Rejected(provider, reason string) {
	fmt.Fprintf(&l.b, "  %s: rejected, %s\n", provider, reason)
}

// Backup records that the field fell back to its remembered backup value.
func (l *Log) Backup(provider, value string) {
	fmt.Fprintf(&l.b, "  %s: backup used (%s)\n", provider, truncate(value))
}

// NotFound records the terminal per-field failure.
func (l *Log) NotFound() {
	l.b.WriteString("  not found\n")
}

// Line appends a free-form line.
func (l *Log) Line(format string, args ...any) {
	fmt.Fprintf(&l.b, format+"\n", args...)
}

// String returns the accumulated log text.
func (l *Log) String() string {
	return l.b.String()
}

func truncate(s string) string {
	const max = 80
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
