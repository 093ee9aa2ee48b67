package ccflags

import "fmt"

// ErrorKind classifies configuration errors raised while reading flags.
type ErrorKind int

const (
	// MalformedOption is a -D/-I/-L/-l token with no argument after it.
	MalformedOption ErrorKind = iota + 1
	// UnknownVariable is a Makefile variable that is missing or defined twice.
	UnknownVariable
	// ContinuedLine is a variable assignment ending in a backslash.
	ContinuedLine
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedOption:
		return "malformed option"
	case UnknownVariable:
		return "unknown variable"
	case ContinuedLine:
		return "continued line"
	default:
		return "unknown error"
	}
}

// Error is a fatal problem with an external build configuration.
// Name is the offending option prefix or variable name.
type Error struct {
	Kind   ErrorKind
	Name   string
	Detail string
}

// Sentinels for errors.Is. Each matches any *Error of its kind.
var (
	ErrMalformedOption = &Error{Kind: MalformedOption}
	ErrUnknownVariable = &Error{Kind: UnknownVariable}
	ErrContinuedLine   = &Error{Kind: ContinuedLine}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case MalformedOption:
		msg = fmt.Sprintf("option %s has no argument", e.Name)
	case UnknownVariable:
		msg = fmt.Sprintf("could not locate a single definition of %s", e.Name)
	case ContinuedLine:
		msg = fmt.Sprintf("definition of %s: continued lines are not supported", e.Name)
	default:
		msg = e.Kind.String()
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrUnknownVariable)
// works regardless of Name.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Name == "" || t.Name == e.Name)
}
