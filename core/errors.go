package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownUboot is returned when a delivery references a uboot id the
	// ocean does not know (never created, or sunk).
	ErrUnknownUboot = errors.New("unknown uboot")

	// ErrUnexpectedMessage is returned by typed receivers and reducers when a
	// message does not have the expected Go type.
	ErrUnexpectedMessage = errors.New("unexpected message type")

	// ErrUnexpectedState is returned by typed reducers and State when the
	// stored state does not have the expected Go type.
	ErrUnexpectedState = errors.New("unexpected state type")
)

// DeliveryError reports the failure of one target during a send or broadcast.
type DeliveryError struct {
	UbootID UbootID
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.UbootID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// PanicError carries the value a receiver or reducer panicked with. The
// value is kept as is so callers can inspect arbitrary panic payloads.
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError wraps a recovered value. Recovered errors are kept reachable
// through Unwrap.
func NewPanicError(value any, stack []byte) *PanicError {
	return &PanicError{Value: value, Stack: stack}
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
