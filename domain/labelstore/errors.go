package labelstore

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected locally before any request is sent.
	ErrValidation = errors.New("invalid annotation")
	// ErrNotSaved marks a request the store acknowledged without persisting.
	ErrNotSaved = errors.New("label store did not save")
)

// TransportError describes a failed call to the label store.
type TransportError struct {
	Op     string
	Status int // zero when no response was received
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": transport error"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
