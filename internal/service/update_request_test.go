package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/repository"
)

func TestUpdateRequests(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	seedExaminer(t, store, "e1", 5, map[string]any{"hscRoll": "1001", "hscReg": "R1", "presentArea": "Mirpur", "nickName": "Rafi"})
	svc := NewUpdateRequestService(store, testSettings())

	var requestID string
	t.Run("Submit", func(t *testing.T) {
		req, err := svc.Submit(ctx, "1001", "R1", map[string]any{"presentArea": "Dhanmondi", "nickName": "Rafi"})
		require.NoError(t, err)
		assert.Equal(t, "e1", req.ExaminerID)
		assert.Equal(t, "Rafi", req.NickName)
		assert.Equal(t, []string{"presentArea"}, req.ChangedFields())
		requestID = req.ID
	})

	t.Run("Submit refuses protected fields and unknown examiners", func(t *testing.T) {
		var vErr *domain.ValidationError
		_, err := svc.Submit(ctx, "1001", "R1", map[string]any{"sl": 1})
		assert.ErrorAs(t, err, &vErr)
		_, err = svc.Submit(ctx, "1001", "R1", map[string]any{"presentArea": "Mirpur"})
		assert.ErrorAs(t, err, &vErr)
		_, err = svc.Submit(ctx, "9999", "R1", map[string]any{"presentArea": "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("List newest first", func(t *testing.T) {
		later := testSettings()
		later.Now = func() time.Time { return fixedNow.Add(time.Hour) }
		_, err := NewUpdateRequestService(store, later).Submit(ctx, "1001", "R1", map[string]any{"bloodGroup": "O+"})
		require.NoError(t, err)

		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "O+", list[0].UpdatedData["bloodGroup"])
		assert.Equal(t, requestID, list[1].ID)
	})

	t.Run("Approve merges and removes the request atomically", func(t *testing.T) {
		got, err := svc.Approve(ctx, requestID)
		require.NoError(t, err)
		assert.Equal(t, "Dhanmondi", got.PresentArea)
		assert.Equal(t, int64(5), got.Serial)
		assert.Equal(t, "2026-03-14", got.LastUpdated)

		_, err = store.Get(ctx, "updateRequests", requestID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		_, err = svc.Approve(ctx, requestID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Reject deletes", func(t *testing.T) {
		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NoError(t, svc.Reject(ctx, list[0].ID))
		assert.ErrorIs(t, svc.Reject(ctx, list[0].ID), domain.ErrNotFound)
		assert.Equal(t, 0, store.Count("updateRequests"))
	})
}

func TestTPin(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	seedExaminer(t, store, "e1", 5, map[string]any{
		"mobileNumber": "017", "englishMarks": "40", "mathMarks": "39.5", "ictMarks": "abc",
	})
	seedExaminer(t, store, "e2", 6, map[string]any{"alternateMobile": "017", "tPin": "55555"})
	svc := NewTPinService(store, testSettings())

	t.Run("Candidates by any phone field", func(t *testing.T) {
		got, err := svc.Candidates(ctx, "017")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "e1", got[0].Examiner.ID)
		assert.False(t, got[0].HasTPin)
		assert.Equal(t, []string{"English"}, got[0].SuggestedSubjects)
		assert.True(t, got[1].HasTPin)
	})

	t.Run("Assign writes record and registry", func(t *testing.T) {
		reg, err := svc.Assign(ctx, "e1", "", nil, "admin")
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{5}$`, reg.TPin)
		assert.Equal(t, []string{"English"}, reg.Subjects)
		assert.Equal(t, int64(5), reg.Serial)

		doc, err := store.Get(ctx, "examiners", "e1")
		require.NoError(t, err)
		assert.Equal(t, reg.TPin, doc.Data["tPin"])
		assert.Equal(t, 1, store.Count("tpin_registry"))
	})

	t.Run("Existing T-PIN is not replaced", func(t *testing.T) {
		_, err := svc.Assign(ctx, "e2", "12345", nil, "admin")
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("Registry refuses a T-PIN already issued", func(t *testing.T) {
		seedExaminer(t, store, "e3", 7, nil)
		seedExaminer(t, store, "e4", 8, nil)
		_, err := svc.Assign(ctx, "e3", "24680", []string{"Math"}, "admin")
		require.NoError(t, err)

		_, err = svc.Assign(ctx, "e4", "24680", nil, "admin")
		assert.ErrorIs(t, err, repository.ErrUniqueViolation)
		doc, err := store.Get(ctx, "examiners", "e4")
		require.NoError(t, err)
		_, has := doc.Data["tPin"]
		assert.False(t, has)
	})

	t.Run("Malformed T-PIN", func(t *testing.T) {
		seedExaminer(t, store, "e5", 9, nil)
		_, err := svc.Assign(ctx, "e5", "12ab5", nil, "admin")
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("Registry entry committed by another admin blocks the update", func(t *testing.T) {
		seedExaminer(t, store, "e6", 10, nil)
		seed(t, store, "tpin_registry", "e6", map[string]any{"tPin": "86420", "examinerId": "e6"})

		_, err := svc.Assign(ctx, "e6", "97531", nil, "admin")
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)

		doc, err := store.Get(ctx, "examiners", "e6")
		require.NoError(t, err)
		_, has := doc.Data["tPin"]
		assert.False(t, has)
	})

	t.Run("Concurrent assignments commit one T-PIN", func(t *testing.T) {
		seedExaminer(t, store, "e7", 11, nil)
		before := store.Count("tpin_registry")

		var wg sync.WaitGroup
		var mu sync.Mutex
		var issued []string
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(pin string) {
				defer wg.Done()
				reg, err := svc.Assign(ctx, "e7", pin, []string{"Math"}, "admin")
				if err == nil {
					mu.Lock()
					issued = append(issued, reg.TPin)
					mu.Unlock()
				}
			}(fmt.Sprintf("7000%d", i))
		}
		wg.Wait()

		require.Len(t, issued, 1)
		assert.Equal(t, before+1, store.Count("tpin_registry"))
		doc, err := store.Get(ctx, "examiners", "e7")
		require.NoError(t, err)
		assert.Equal(t, issued[0], doc.Data["tPin"])
	})
}
