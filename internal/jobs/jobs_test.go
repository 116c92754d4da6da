package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examiner-registry-backend/internal/config"
	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
	"examiner-registry-backend/internal/repository/memory"
	"examiner-registry-backend/internal/service"
)

func put(t *testing.T, store *memory.Store, collection, id string, data map[string]any) {
	t.Helper()
	require.NoError(t, store.CommitBatch(context.Background(), []repository.BatchOp{
		{Kind: repository.OpSet, Collection: collection, ID: id, Data: data},
	}))
}

func newRunner(store *memory.Store) *JobRunner {
	settings := service.DefaultSettings()
	serials := service.NewSerialAllocator(store, settings.Collections.Approved)
	return NewJobRunner(&Services{
		Serials:        serials,
		Intake:         service.NewIntakeService(store, serials, settings),
		UpdateRequests: service.NewUpdateRequestService(store, settings),
	}, &config.Config{}, nil)
}

func TestSerialAudit(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeWithWriter(&buf, "info", "text")
	t.Cleanup(func() { logger.Initialize("info", "text") })

	store := memory.NewStore()
	put(t, store, "examiners", "a", map[string]any{"sl": int64(1)})
	put(t, store, "examiners", "b", map[string]any{"sl": int64(2)})
	put(t, store, "examiners", "c", map[string]any{"sl": "2"})
	put(t, store, "examiners", "d", map[string]any{"fullName": "no serial"})

	audit, err := newRunner(store).auditSerials(context.Background())
	require.NoError(t, err)
	assert.False(t, audit.Healthy())
	assert.Equal(t, []string{"b", "c"}, audit.Duplicates[2])
	assert.Contains(t, buf.String(), "Duplicate serial")
	assert.Contains(t, buf.String(), "Approved records without a serial")

	assert.Equal(t, 4, store.Count("examiners"), "audit must not modify records")
}

func TestSerialAudit_Clean(t *testing.T) {
	store := memory.NewStore()
	put(t, store, "examiners", "a", map[string]any{"sl": int64(1)})

	audit, err := newRunner(store).auditSerials(context.Background())
	require.NoError(t, err)
	assert.True(t, audit.Healthy())
	assert.Equal(t, int64(2), audit.NextSerial)
}

type panickingAllocator struct{ service.SerialAllocator }

func (panickingAllocator) Audit(ctx context.Context) (*service.SerialAudit, error) {
	panic("store exploded")
}

type failingAllocator struct{ service.SerialAllocator }

func (failingAllocator) Audit(ctx context.Context) (*service.SerialAudit, error) {
	return nil, errors.New("unavailable")
}

func TestSerialAudit_Recovers(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeWithWriter(&buf, "info", "text")
	t.Cleanup(func() { logger.Initialize("info", "text") })

	jr := NewJobRunner(&Services{Serials: panickingAllocator{}}, &config.Config{}, nil)
	assert.NotPanics(t, jr.SerialAudit)
	assert.Contains(t, buf.String(), "Job panicked")

	jr = NewJobRunner(&Services{Serials: failingAllocator{}}, &config.Config{}, nil)
	jr.SerialAudit()
	assert.Contains(t, buf.String(), "Serial audit failed")
}

func TestSummarizeBacklog(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	pending := []*domain.Examiner{
		{ID: "a", ReviewerNote: "ok", FormFillUpDate: "2026-03-10"},
		{ID: "b", FormFillUpDate: "2026-02-01"},
		{ID: "c", ReviewerNote: " ", FormFillUpDate: "someday"},
	}
	requests := []*domain.UpdateRequest{
		{ID: "u1", Timestamp: "2026-03-14T00:00:00Z"},
		{ID: "u2", Timestamp: "2026-03-12T12:00:00Z"},
		{ID: "u3", Timestamp: "garbage"},
	}

	b := SummarizeBacklog(pending, requests, now)
	assert.Equal(t, 3, b.Pending)
	assert.Equal(t, 1, b.ReadyToPromote)
	assert.Equal(t, 2, b.AwaitingNote)
	assert.Equal(t, "2026-02-01", b.OldestApplication)
	assert.Equal(t, 3, b.UpdateRequests)
	assert.Equal(t, 48*time.Hour, b.OldestRequestAge)
}

func TestPendingBacklog(t *testing.T) {
	store := memory.NewStore()
	put(t, store, "applications", "p1", map[string]any{"fullName": "A", "status": "Pending", "rm": "verified", "formFillUpDate": "2026-03-01"})
	put(t, store, "applications", "p2", map[string]any{"fullName": "B", "status": "Pending"})

	b, err := newRunner(store).pendingBacklog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, b.Pending)
	assert.Equal(t, 1, b.ReadyToPromote)
	assert.Equal(t, 0, b.UpdateRequests)
}
