// Package fault tags sentinel errors with the class of failure they represent.
package fault

import "errors"

type Kind string

const (
	Internal      Kind = "internal"
	Validation    Kind = "validation"
	Authorization Kind = "authorization"
	State         Kind = "state"
	Transfer      Kind = "transfer"
	NotFound      Kind = "not_found"
)

type Error struct {
	Kind    Kind
	Message string
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (self *Error) Error() string {
	return self.Message
}

// Returns the kind of the first tagged error in the chain, Internal otherwise
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Process exit code for the kind
func (self Kind) ExitCode() int {
	switch self {
	case "":
		return 0
	case Validation:
		return 2
	case Authorization:
		return 3
	case State:
		return 4
	case Transfer:
		return 5
	case NotFound:
		return 6
	default:
		return 1
	}
}
