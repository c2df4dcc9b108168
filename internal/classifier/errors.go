package classifier

import (
	"errors"
	"fmt"
)

// Reasons attached to a RequestFailedError. They are diagnostic only; callers
// treat every failure the same way.
const (
	ReasonTransport = "transport"
	ReasonStatus    = "status"
	ReasonDecode    = "decode"
)

// RequestFailedError is the single failure kind of the classification call:
// network error, non-2xx status or a body of the wrong shape.
type RequestFailedError struct {
	Reason string
	Status int
	Err    error
}

func (e *RequestFailedError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("classification request failed (%s, status %d): %v", e.Reason, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("classification request failed (%s, status %d)", e.Reason, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("classification request failed (%s): %v", e.Reason, e.Err)
	default:
		return "classification request failed (" + e.Reason + ")"
	}
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// Failed wraps err as a RequestFailedError with the given reason.
func Failed(reason string, err error) error {
	return &RequestFailedError{Reason: reason, Err: err}
}

// IsRequestFailed reports whether err is a classification failure.
func IsRequestFailed(err error) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf)
}
