package firestore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"examiner-registry-backend/internal/repository"
)

func TestCheckBatchUnique(t *testing.T) {
	set := func(id string, sl any) repository.BatchOp {
		return repository.BatchOp{Kind: repository.OpSet, Collection: "examiners", ID: id, Data: map[string]any{"sl": sl}, UniqueField: "sl"}
	}

	assert.NoError(t, checkBatchUnique([]repository.BatchOp{set("a", 1), set("b", 2), set("a", 1)}))
	assert.ErrorIs(t, checkBatchUnique([]repository.BatchOp{set("a", 1), set("b", 1)}), repository.ErrUniqueViolation)

	other := set("b", 1)
	other.Collection = "archive"
	assert.NoError(t, checkBatchUnique([]repository.BatchOp{set("a", 1), other}))
}

func TestTranslate(t *testing.T) {
	notFound := status.Error(codes.NotFound, "no document")
	assert.ErrorIs(t, translate(notFound), repository.ErrNotFound)

	assert.ErrorIs(t, translate(status.Error(codes.AlreadyExists, "exists")), repository.ErrAlreadyExists)

	precondition := translate(status.Error(codes.FailedPrecondition, "missing"))
	assert.Contains(t, precondition.Error(), "precondition failed")

	unique := fmt.Errorf("op 0: %w", repository.ErrUniqueViolation)
	assert.Same(t, unique, translate(unique))

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
