package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrAuth marks a missing, invalid or expired credential.
	ErrAuth = errors.New("unauthenticated")
	// ErrNotFound covers both absent resources and resources owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate unique key.
	ErrConflict = errors.New("already exists")
	// ErrAlreadyCompleted is returned when completing a task twice.
	ErrAlreadyCompleted = errors.New("task already completed")
	// ErrStorage marks a transient backend failure.
	ErrStorage = errors.New("storage failure")
)

// StorageError wraps a driver error with the operation that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStorage) match any StorageError.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError wraps err, returning nil for a nil err.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
