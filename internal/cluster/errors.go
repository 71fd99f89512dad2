package cluster

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned (wrapped) for malformed or out-of-range input.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError names the offending parameter. It unwraps to ErrInvalidParameter.
type ParamError struct {
	Name   string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Name, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }

// invalidf builds a ParamError for the named parameter.
func invalidf(name, format string, args ...interface{}) error {
	return &ParamError{Name: name, Reason: fmt.Sprintf(format, args...)}
}
