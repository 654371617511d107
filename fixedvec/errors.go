package fixedvec

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacity is returned when a value does not fit into a full vector.
	ErrCapacity = errors.New("fixedvec: capacity exhausted")

	// ErrDrainActive is the panic value raised when a vector is used while a
	// Drain over it is still open.
	ErrDrainActive = errors.New("fixedvec: vector is locked by an open Drain")
)

// CapacityError hands a rejected value back to the caller.
type CapacityError[T any] struct {
	Value T
	Cap   int
}

func (e *CapacityError[T]) Error() string {
	return fmt.Sprintf("%v: cap %d", ErrCapacity, e.Cap)
}

func (e *CapacityError[T]) Unwrap() error { return ErrCapacity }
