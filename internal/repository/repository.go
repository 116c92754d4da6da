package repository

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrUniqueViolation = errors.New("unique field conflict")
	ErrAlreadyExists   = errors.New("document already exists")
)

// Document is a stored record keyed by an opaque identifier.
type Document struct {
	ID   string
	Data map[string]any
}

// Filter is an equality or range predicate on a top-level document field.
type Filter struct {
	Field string
	Op    string // "==", "<", "<=", ">", ">="
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: "==", Value: value}
}

type OpKind string

const (
	OpSet    OpKind = "set"    // create or overwrite
	OpCreate OpKind = "create" // fails with ErrAlreadyExists when the document is present
	OpUpdate OpKind = "update" // merge into an existing document
	OpDelete OpKind = "delete"
)

// BatchOp is one write inside an atomic batch.
type BatchOp struct {
	Kind       OpKind
	Collection string
	ID         string
	Data       map[string]any

	// UniqueField (OpSet and OpCreate) fails the batch when another document in Collection,
	// or another op in the same batch, holds the same value for that field.
	UniqueField string
	// RequireExists (OpDelete only) fails the batch when the document is absent.
	RequireExists bool
}

// RecordStore is the document store collaborator. CommitBatch applies every op or none.
type RecordStore interface {
	NewID(collection string) string
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	CommitBatch(ctx context.Context, ops []BatchOp) error
}

// ValidateBatch rejects malformed ops before any backend work is done.
func ValidateBatch(ops []BatchOp) error {
	for i, op := range ops {
		if op.Collection == "" || op.ID == "" {
			return fmt.Errorf("op %d: collection and id are required", i)
		}
		switch op.Kind {
		case OpSet, OpCreate, OpUpdate:
			if op.Data == nil {
				return fmt.Errorf("op %d: %s requires data", i, op.Kind)
			}
		case OpDelete:
		default:
			return fmt.Errorf("op %d: unknown kind %q", i, op.Kind)
		}
		if op.UniqueField != "" {
			if op.Kind != OpSet && op.Kind != OpCreate {
				return fmt.Errorf("op %d: unique field only applies to set and create", i)
			}
			if _, ok := op.Data[op.UniqueField]; !ok {
				return fmt.Errorf("op %d: unique field %q missing from data", i, op.UniqueField)
			}
		}
	}
	return nil
}

// ValidOp reports whether a filter operator is supported by every backend.
func ValidOp(op string) bool {
	switch op {
	case "==", "<", "<=", ">", ">=":
		return true
	}
	return false
}
