package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("record not found")

// ValidationError reports a precondition failure. No store write happens when it is returned.
type ValidationError struct {
	Message string
	IDs     []string
}

func (e *ValidationError) Error() string {
	if len(e.IDs) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.IDs, ", "))
}

func NewValidationError(msg string, ids ...string) *ValidationError {
	return &ValidationError{Message: msg, IDs: ids}
}

// AllocationError means the serial scan failed; the operation must not proceed.
type AllocationError struct {
	Err error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("serial allocation failed: %v", e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// StoreCommitError wraps a failed atomic batch. Promoted counts records committed by
// earlier batches of the same operation.
type StoreCommitError struct {
	Err      error
	Promoted int
}

func (e *StoreCommitError) Error() string {
	if e.Promoted > 0 {
		return fmt.Sprintf("batch commit failed after %d records committed: %v", e.Promoted, e.Err)
	}
	return fmt.Sprintf("batch commit failed: %v", e.Err)
}

func (e *StoreCommitError) Unwrap() error { return e.Err }

// BulkResult is the outcome of a bulk promotion or import. Remaining lists the identifiers
// still in their source collection after a partial failure.
type BulkResult struct {
	PromotedCount int      `json:"promoted_count"`
	Serials       []int64  `json:"serials,omitempty"`
	Remaining     []string `json:"remaining,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

func (r *BulkResult) Partial() bool {
	return len(r.Remaining) > 0
}
