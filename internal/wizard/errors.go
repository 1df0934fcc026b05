package wizard

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed wizard operation.
type ErrorKind int

const (
	// KindValidation is bad user input: a height, a file, a format name.
	KindValidation ErrorKind = iota
	// KindConnectivity means the backend could not be reached.
	KindConnectivity
	// KindBackend means the backend answered with an unexpected status.
	KindBackend
	// KindState means the operation is not allowed right now.
	KindState
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConnectivity:
		return "connectivity"
	case KindBackend:
		return "backend"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

var (
	// ErrWrongStep is returned for an operation the current step does not offer.
	ErrWrongStep = errors.New("operation not available in current step")
	// ErrBusy is returned while another backend request is in flight.
	ErrBusy = errors.New("another request is in progress")
	// ErrDisabled is returned for operations of a feature that is turned off.
	ErrDisabled = errors.New("feature disabled")
)

// Error is returned by every failing Controller operation. Message is the
// text the user was shown, if any.
type Error struct {
	Op      string
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a wizard error, and false for any other error.
func KindOf(err error) (ErrorKind, bool) {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind, true
	}
	return 0, false
}
