// Package diag defines the stable error kinds raised across the compiler
// pipeline, plus a diagnostics channel for non-fatal warnings.  Builder
// errors are reported at construction time; analysis and lowering errors
// are fatal and abort emission; resource/toolchain errors during emission
// clean up any partially written output before returning.
package diag

import "fmt"

// Kind identifies one of the stable error kinds produced by the compiler.
// The string form is what callers key off to distinguish failure modes
// (e.g. in a build system driving this compiler as a subprocess).
type Kind string

// The error kinds named in the error handling design.
const (
	OutOfRange                Kind = "OutOfRange"
	TypeMismatch               Kind = "TypeMismatch"
	MissingModuleContext       Kind = "MissingModuleContext"
	LeakedPredicate            Kind = "LeakedPredicate"
	MissingPredicateMetadata   Kind = "MissingPredicateMetadata"
	NameConflict               Kind = "NameConflict"
	UnsupportedWidth           Kind = "UnsupportedWidth"
	PatchApplicationFailed     Kind = "PatchApplicationFailed"
	ToolchainMissing           Kind = "ToolchainMissing"
	SimulatorBackendUnavailable Kind = "SimulatorBackendUnavailable"
	// Internal marks a self-check failure that should never be reachable
	// from user input (e.g. the write-port allocator's bijection check).
	Internal Kind = "Internal"
)

// SourceLoc is a best-effort DSL call-site location, captured via
// runtime.Caller at construction time the way a parser would attach a
// token position.
type SourceLoc struct {
	File string
	Line int
}

// String implementation for fmt.Stringer.
func (l SourceLoc) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is the concrete error type returned by every fallible operation in
// this module.
type Error struct {
	kind Kind
	msg  string
	loc  SourceLoc
}

// New constructs a diagnostic error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// At attaches a source location to an error, returning the same error for
// chaining at the call site.
func (e *Error) At(loc SourceLoc) *Error {
	e.loc = loc
	return e
}

// Error implementation for the error interface.
func (e *Error) Error() string {
	if e.loc.File == "" {
		return fmt.Sprintf("%s: %s", e.kind, e.msg)
	}
	return fmt.Sprintf("%s: %s (at %s)", e.kind, e.msg, e.loc)
}

// Kind returns the stable error-kind string for this error.
func (e *Error) Kind() string {
	return string(e.kind)
}

// Loc returns the attached source location, if any.
func (e *Error) Loc() SourceLoc {
	return e.loc
}
