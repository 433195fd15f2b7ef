package dispatchx

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTable          = errors.New("state table is empty")
	ErrNilHandler          = errors.New("state handler is nil")
	ErrInvalidInitialState = errors.New("invalid initial state")
	ErrInvalidTransition   = errors.New("invalid transition request")
)

// InvalidStateError reports a state id outside the table.
type InvalidStateError struct {
	ID  StateID
	Len int
	Err error
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%v: state id %d out of range [0, %d)", e.Err, e.ID, e.Len)
}

func (e *InvalidStateError) Unwrap() error {
	return e.Err
}

func newInvalidStateError(id StateID, n int, err error) *InvalidStateError {
	return &InvalidStateError{ID: id, Len: n, Err: err}
}

func IsInvalidInitialState(err error) bool {
	return errors.Is(err, ErrInvalidInitialState)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
