package oerror

import "fmt"

// KinematicError is the error type returned by the packages of this module.
type KinematicError struct {
	Err string
}

// New formats an error message and wraps it in a KinematicError.
func New(format string, args ...any) *KinematicError {
	if len(args) == 0 {
		return &KinematicError{Err: format}
	}
	return &KinematicError{Err: fmt.Sprintf(format, args...)}
}

func (e *KinematicError) Error() string {
	return e.Err
}
