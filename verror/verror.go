// Package verror defines the closed set of error kinds from spec.md
// §7. It is a leaf package (no dependencies on the rest of the
// module) so every subsystem package can return a *verror.Error
// without an import cycle, the way the teacher keeps its errors
// package (cogentcore.org/core/errors, referenced from core/recover.go)
// independent of the widget tree it reports errors for.
package verror

import "fmt"

// Kind is the closed set of error kinds spec.md §7 enumerates.
type Kind uint8

const (
	InvalidProps Kind = iota
	LayoutFatal
	BuilderOverflow
	BatchMalformed
	UserCodeThrew
	BackendFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidProps:
		return "InvalidProps"
	case LayoutFatal:
		return "LayoutFatal"
	case BuilderOverflow:
		return "BuilderOverflow"
	case BatchMalformed:
		return "BatchMalformed"
	case UserCodeThrew:
		return "UserCodeThrew"
	case BackendFailure:
		return "BackendFailure"
	default:
		return "Unknown"
	}
}

// fatalKinds are the kinds spec.md §7 says propagate to the nearest
// error boundary or the built-in error screen, as opposed to being
// handled locally (BuilderOverflow degrades gracefully; UserCodeThrew
// from a callback is reported and swallowed, not fatal).
var fatalKinds = map[Kind]bool{
	InvalidProps:    true,
	LayoutFatal:     true,
	BatchMalformed:  true,
	BackendFailure:  true,
}

// Error is the engine's single error type; there is no exception
// hierarchy, only this Kind tag plus a wrapped cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func New(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

func Wrap(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Msg: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Fatal reports whether this error kind must propagate to an error
// boundary / the built-in error screen rather than being handled and
// swallowed at the call site (spec.md §7).
func (e *Error) Fatal() bool { return fatalKinds[e.Kind] }
