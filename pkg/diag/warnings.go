package diag

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/term"
)

// Warning is a recoverable diagnostic: something worth telling the user
// about (e.g. a declared array with no writers) that never alters the
// generated code.
type Warning struct {
	Kind Kind
	Msg  string
	Loc  SourceLoc
}

// Channel accumulates warnings raised during a single compilation run.
// Unlike Error, warnings never abort the pipeline; they are surfaced once
// at the end via Report.
type Channel struct {
	warnings []Warning
}

// NewChannel constructs an empty diagnostics channel.
func NewChannel() *Channel {
	return &Channel{}
}

// Warn records a recoverable warning.
func (c *Channel) Warn(kind Kind, loc SourceLoc, format string, args ...any) {
	c.warnings = append(c.warnings, Warning{Kind: kind, Msg: fmt.Sprintf(format, args...), Loc: loc})
}

// Warnings returns the accumulated warnings in the order they were raised.
func (c *Channel) Warnings() []Warning {
	return c.warnings
}

// Empty reports whether no warnings were ever raised.
func (c *Channel) Empty() bool {
	return len(c.warnings) == 0
}

// Report renders the accumulated warnings as a human-readable block,
// wrapping each message to the detected terminal width (falling back to
// 80 columns when stdout is not a terminal, e.g. when piped by a build
// system).
func (c *Channel) Report() string {
	if len(c.warnings) == 0 {
		return ""
	}

	width, _, err := term.GetSize(1)
	if err != nil || width <= 0 {
		width = 80
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d warning(s):\n", len(c.warnings))

	for _, w := range c.warnings {
		line := fmt.Sprintf("  [%s] %s", w.Kind, w.Msg)
		if w.Loc.File != "" {
			line += fmt.Sprintf(" (at %s)", w.Loc)
		}

		b.WriteString(wrap(line, width))
		b.WriteByte('\n')
	}

	return b.String()
}

// SortedByKind returns the warnings grouped deterministically by kind then
// insertion order, useful for golden-output tests.
func (c *Channel) SortedByKind() []Warning {
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })

	return out
}

// wrap performs a simple greedy word-wrap; good enough for a diagnostics
// report, not a general-purpose text formatter.
func wrap(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var (
		b       strings.Builder
		lineLen int
	)

	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				b.WriteString("\n    ")
				lineLen = 4
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}

		b.WriteString(w)
		lineLen += len(w)
	}

	return b.String()
}
