package checker

import "fmt"

// Kind classifies a checker error the way spec §7 requires: structured, not
// just a string sentinel, so a caller can branch on the failure class
// without parsing a message.
type Kind int

const (
	// InvalidProperty covers a property outside the supported fragment or
	// semantically ill-defined (conditioning on a zero-probability event).
	InvalidProperty Kind = iota
	// InvalidArgument covers malformed inputs: inconsistent row sums,
	// missing reward model, more than one initial state where exactly one
	// is required, unknown label names.
	InvalidArgument
	// InvalidSetting is returned by Solver.Run for a property kind it does
	// not support. An unknown EliminationOrder is not reported: buildQueue
	// falls back to the given state order.
	InvalidSetting
	// Unexpected covers a broken internal invariant; should never fire
	// against correct inputs.
	Unexpected
	// Cancelled covers cooperative cancellation via context.Context.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case InvalidProperty:
		return "InvalidProperty"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidSetting:
		return "InvalidSetting"
	case Unexpected:
		return "Unexpected"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the core's one error type; every failure path returns one of
// these rather than an ad hoc sentinel, so errors.As with a
// **checker.Error target always works regardless of which Kind fired.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("checker: %s: %s", e.Kind, e.Msg) }

// Is reports whether target is an *Error of the same Kind, ignoring Msg,
// so errors.Is(err, checker.ErrInvalidProperty) matches every error of
// that Kind. A bare Kind value is not an error and cannot be a target.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newErrorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Sentinel errors, one per Kind, for errors.Is(err, checker.ErrInvalidProperty)
// style comparisons — Error.Is matches on Kind alone, so any *Error of a
// given Kind satisfies the corresponding sentinel regardless of Msg.
var (
	ErrInvalidProperty = &Error{Kind: InvalidProperty, Msg: "invalid property"}
	ErrInvalidArgument = &Error{Kind: InvalidArgument, Msg: "invalid argument"}
	ErrInvalidSetting  = &Error{Kind: InvalidSetting, Msg: "invalid setting"}
	ErrUnexpected      = &Error{Kind: Unexpected, Msg: "unexpected"}
	ErrCancelled       = &Error{Kind: Cancelled, Msg: "cancelled"}
)
