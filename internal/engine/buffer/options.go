package buffer

import "strings"

// LineEnding selects how loaded content is normalized.
type LineEnding int

const (
	// LineEndingLF normalizes CRLF and lone CR to LF.
	LineEndingLF LineEnding = iota
	// LineEndingCRLF keeps content as provided.
	LineEndingCRLF
)

// Option configures a Buffer at creation.
type Option func(*Buffer)

// WithLineEnding sets the line ending normalization applied by
// InitContent and Reload.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithGroupPolicy replaces the undo grouping policy.
func WithGroupPolicy(p GroupPolicy) Option {
	return func(b *Buffer) {
		b.policy = p
	}
}

func (b *Buffer) normalizeLineEndings(s string) string {
	if b.lineEnding == LineEndingCRLF {
		return s
	}
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
