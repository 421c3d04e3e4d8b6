package model

import "errors"

// UserError is a recoverable, user-visible problem: bad input, an
// ambiguous date, a business-rule violation. The dispatcher surfaces
// its message verbatim instead of failing the request. Anything else
// propagates untouched.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError builds a UserError with a preformatted message.
func NewUserError(message string) *UserError {
	return &UserError{Message: message}
}

// AsUserError unwraps err into a UserError if it is one.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
