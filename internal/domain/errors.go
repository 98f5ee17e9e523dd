package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrNotInitialized   = errors.New("task store not initialized (run 'taskboard init' first)")
	ErrStorage          = errors.New("storage failure")
	ErrSerializerClosed = errors.New("state serializer closed")
	ErrInvalidTaskID    = errors.New("task ID must be positive")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrConfigExists     = errors.New("config file already exists")
)

// StorageError reports a failed read or write of the durable task file.
// It matches ErrStorage with errors.Is.
type StorageError struct {
	Err  error  // Underlying cause
	Op   string // "load" or "save"
	Path string // Data file path
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
