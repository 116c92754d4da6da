package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examiner-registry-backend/internal/repository"
)

func seed(t *testing.T, s *Store, collection string, docs map[string]map[string]any) {
	t.Helper()
	var ops []repository.BatchOp
	for id, data := range docs {
		ops = append(ops, repository.BatchOp{Kind: repository.OpSet, Collection: collection, ID: id, Data: data})
	}
	require.NoError(t, s.CommitBatch(context.Background(), ops))
}

func TestStore_GetNotFound(t *testing.T) {
	_, err := NewStore().Get(context.Background(), "approved", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	seed(t, s, "approved", map[string]map[string]any{"a": {"fullName": "Rahim", "nested": map[string]any{"k": "v"}}})

	doc, err := s.Get(context.Background(), "approved", "a")
	require.NoError(t, err)
	doc.Data["fullName"] = "changed"
	doc.Data["nested"].(map[string]any)["k"] = "changed"

	again, err := s.Get(context.Background(), "approved", "a")
	require.NoError(t, err)
	assert.Equal(t, "Rahim", again.Data["fullName"])
	assert.Equal(t, "v", again.Data["nested"].(map[string]any)["k"])
}

func TestStore_QueryFilters(t *testing.T) {
	s := NewStore()
	seed(t, s, "approved", map[string]map[string]any{
		"c": {"sl": int64(10), "inst": "DU"},
		"a": {"sl": "9", "inst": "DU"},
		"b": {"sl": 3.0, "inst": "BUET"},
		"d": {"inst": "DU"},
	})
	ctx := context.Background()

	all, err := s.Query(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "d", all[3].ID)

	du, err := s.Query(ctx, "approved", repository.Eq("inst", "DU"))
	require.NoError(t, err)
	assert.Len(t, du, 3)

	high, err := s.Query(ctx, "approved", repository.Filter{Field: "sl", Op: ">=", Value: 9})
	require.NoError(t, err)
	require.Len(t, high, 2)
	assert.Equal(t, "a", high[0].ID)
	assert.Equal(t, "c", high[1].ID)

	bySerial, err := s.Query(ctx, "approved", repository.Eq("sl", 10))
	require.NoError(t, err)
	require.Len(t, bySerial, 1)
	assert.Equal(t, "c", bySerial[0].ID)

	_, err = s.Query(ctx, "approved", repository.Filter{Field: "sl", Op: "!=", Value: 1})
	assert.Error(t, err)
}

func TestStore_CommitBatchUniqueFieldRollsBack(t *testing.T) {
	s := NewStore()
	seed(t, s, "approved", map[string]map[string]any{"a": {"sl": int64(1)}})
	seed(t, s, "pending", map[string]map[string]any{"p1": {"fullName": "x"}})

	err := s.CommitBatch(context.Background(), []repository.BatchOp{
		{Kind: repository.OpSet, Collection: "approved", ID: "p1", Data: map[string]any{"sl": 1.0}, UniqueField: "sl"},
		{Kind: repository.OpDelete, Collection: "pending", ID: "p1", RequireExists: true},
	})
	require.ErrorIs(t, err, repository.ErrUniqueViolation)

	assert.Equal(t, 1, s.Count("approved"))
	assert.Equal(t, 1, s.Count("pending"))
}

func TestStore_CommitBatchUniqueWithinBatch(t *testing.T) {
	s := NewStore()
	err := s.CommitBatch(context.Background(), []repository.BatchOp{
		{Kind: repository.OpSet, Collection: "approved", ID: "a", Data: map[string]any{"sl": int64(5)}, UniqueField: "sl"},
		{Kind: repository.OpSet, Collection: "approved", ID: "b", Data: map[string]any{"sl": int64(5)}, UniqueField: "sl"},
	})
	require.ErrorIs(t, err, repository.ErrUniqueViolation)
	assert.Equal(t, 0, s.Count("approved"))
}

func TestStore_CommitBatchOverwriteSameIDKeepsSerial(t *testing.T) {
	s := NewStore()
	seed(t, s, "approved", map[string]map[string]any{"a": {"sl": int64(5)}})

	err := s.CommitBatch(context.Background(), []repository.BatchOp{
		{Kind: repository.OpSet, Collection: "approved", ID: "a", Data: map[string]any{"sl": int64(5), "fullName": "n"}, UniqueField: "sl"},
	})
	require.NoError(t, err)
}

func TestStore_CommitBatchRequireExists(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.CommitBatch(ctx, []repository.BatchOp{
		{Kind: repository.OpSet, Collection: "approved", ID: "p1", Data: map[string]any{"sl": int64(1)}},
		{Kind: repository.OpDelete, Collection: "pending", ID: "p1", RequireExists: true},
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 0, s.Count("approved"))

	require.NoError(t, s.CommitBatch(ctx, []repository.BatchOp{
		{Kind: repository.OpDelete, Collection: "pending", ID: "p1"},
	}))
}

func TestStore_CommitBatchUpdate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seed(t, s, "approved", map[string]map[string]any{"a": {"fullName": "Old", "inst": "DU"}})

	require.NoError(t, s.CommitBatch(ctx, []repository.BatchOp{
		{Kind: repository.OpUpdate, Collection: "approved", ID: "a", Data: map[string]any{"fullName": "New"}},
	}))
	doc, err := s.Get(ctx, "approved", "a")
	require.NoError(t, err)
	assert.Equal(t, "New", doc.Data["fullName"])
	assert.Equal(t, "DU", doc.Data["inst"])

	err = s.CommitBatch(ctx, []repository.BatchOp{
		{Kind: repository.OpUpdate, Collection: "approved", ID: "ghost", Data: map[string]any{"fullName": "x"}},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_CommitBatchRejectsMalformedOps(t *testing.T) {
	s := NewStore()
	tests := []struct {
		name string
		op   repository.BatchOp
	}{
		{"missing id", repository.BatchOp{Kind: repository.OpSet, Collection: "approved", Data: map[string]any{}}},
		{"set without data", repository.BatchOp{Kind: repository.OpSet, Collection: "approved", ID: "a"}},
		{"unknown kind", repository.BatchOp{Kind: "upsert", Collection: "approved", ID: "a"}},
		{"unique on update", repository.BatchOp{Kind: repository.OpUpdate, Collection: "approved", ID: "a", Data: map[string]any{"sl": 1}, UniqueField: "sl"}},
		{"unique field absent", repository.BatchOp{Kind: repository.OpSet, Collection: "approved", ID: "a", Data: map[string]any{}, UniqueField: "sl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, s.CommitBatch(context.Background(), []repository.BatchOp{tt.op}))
		})
	}
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()

	_, err := s.Query(ctx, "approved")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.CommitBatch(ctx, nil), context.Canceled)
}

func TestStore_CommitBatchCreate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	create := func(tpin string) []repository.BatchOp {
		return []repository.BatchOp{
			{Kind: repository.OpUpdate, Collection: "examiners", ID: "e1", Data: map[string]any{"tPin": tpin}},
			{Kind: repository.OpCreate, Collection: "tpin_registry", ID: "e1", Data: map[string]any{"tPin": tpin}, UniqueField: "tPin"},
		}
	}
	seed(t, s, "examiners", map[string]map[string]any{"e1": {"sl": int64(1)}})

	require.NoError(t, s.CommitBatch(ctx, create("11111")))

	err := s.CommitBatch(ctx, create("22222"))
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	doc, err := s.Get(ctx, "examiners", "e1")
	require.NoError(t, err)
	assert.Equal(t, "11111", doc.Data["tPin"])
	assert.Equal(t, 1, s.Count("tpin_registry"))
}
