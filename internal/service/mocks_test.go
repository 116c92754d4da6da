package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/repository"
	"examiner-registry-backend/internal/repository/memory"
)

// MockStore delegates to an in-memory store. Calls registered with On intercept the
// matching method; a nil error return lets the call through to the real store.
type MockStore struct {
	mock.Mock
	*memory.Store

	interceptQuery  bool
	interceptCommit bool
}

func newMockStore() *MockStore {
	return &MockStore{Store: memory.NewStore()}
}

func (m *MockStore) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	if m.interceptQuery {
		args := m.Called(ctx, collection)
		if err := args.Error(0); err != nil {
			return nil, err
		}
	}
	return m.Store.Query(ctx, collection, filters...)
}

func (m *MockStore) CommitBatch(ctx context.Context, ops []repository.BatchOp) error {
	if m.interceptCommit {
		args := m.Called(ctx, ops)
		if err := args.Error(0); err != nil {
			return err
		}
	}
	return m.Store.CommitBatch(ctx, ops)
}

// MockNotifier records approval notices.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendApprovalNotice(ctx context.Context, examiner *domain.Examiner) error {
	args := m.Called(ctx, examiner)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testSettings() Settings {
	s := DefaultSettings()
	s.Now = func() time.Time { return fixedNow }
	return s
}

func seed(t *testing.T, store repository.RecordStore, collection, id string, data map[string]any) {
	t.Helper()
	require.NoError(t, store.CommitBatch(context.Background(), []repository.BatchOp{{
		Kind:       repository.OpSet,
		Collection: collection,
		ID:         id,
		Data:       data,
	}}))
}

func seedApproved(t *testing.T, store repository.RecordStore, id string, sl any) {
	t.Helper()
	seed(t, store, "examiners", id, map[string]any{"sl": sl, "fullName": id, "status": "Approved"})
}

func seedPending(t *testing.T, store repository.RecordStore, id, note string) {
	t.Helper()
	seed(t, store, "applications", id, map[string]any{
		"fullName":     "Applicant " + id,
		"mobileNumber": "0170000000" + id,
		"status":       "Pending",
		"rm":           note,
		"englishMarks": "72",
	})
}
