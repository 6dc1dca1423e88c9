// Package core holds the error taxonomy shared by both ledgers.
package core

import "fmt"

// ValidationError rejects bad user input before any mutation happens.
// It is always recoverable: the caller surfaces a message and the
// collection is untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError reports a failed persist after a mutation was applied in
// memory. Non-fatal: memory and disk diverge until the next successful
// write, and the caller may retry the operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: persist %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
