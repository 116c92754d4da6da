package service

import (
	"context"
	"fmt"
	"sort"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
)

type serialAllocator struct {
	store      repository.RecordStore
	collection string
}

// NewSerialAllocator allocates serials by scanning collection for the numeric maximum.
// Deleted records never lower the maximum below a serial still present, so nothing in the
// store is ever handed out twice.
func NewSerialAllocator(store repository.RecordStore, collection string) SerialAllocator {
	return &serialAllocator{store: store, collection: collection}
}

func (a *serialAllocator) NextSerial(ctx context.Context) (int64, error) {
	block, err := a.NextSerialBlock(ctx, 1)
	if err != nil {
		return 0, err
	}
	return block[0], nil
}

func (a *serialAllocator) NextSerialBlock(ctx context.Context, n int) ([]int64, error) {
	if n <= 0 {
		return nil, &domain.AllocationError{Err: fmt.Errorf("invalid block size %d", n)}
	}
	highest, err := a.maxSerial(ctx)
	if err != nil {
		return nil, err
	}
	block := make([]int64, n)
	for i := range block {
		block[i] = highest + int64(i) + 1
	}
	logger.Debug("Allocated serial block", "first", block[0], "last", block[n-1])
	return block, nil
}

func (a *serialAllocator) maxSerial(ctx context.Context) (int64, error) {
	docs, err := a.store.Query(ctx, a.collection)
	if err != nil {
		return 0, &domain.AllocationError{Err: fmt.Errorf("failed to scan %s: %w", a.collection, err)}
	}
	var highest int64
	for _, doc := range docs {
		if sl, ok := domain.ParseSerial(doc.Data["sl"]); ok && sl > highest {
			highest = sl
		}
	}
	return highest, nil
}

// SerialAudit summarizes serial integrity across the approved collection.
type SerialAudit struct {
	Total      int                `json:"total"`
	MaxSerial  int64              `json:"max_serial"`
	NextSerial int64              `json:"next_serial"`
	Duplicates map[int64][]string `json:"duplicates,omitempty"`
	Missing    []string           `json:"missing,omitempty"`
}

func (a *SerialAudit) Healthy() bool {
	return len(a.Duplicates) == 0 && len(a.Missing) == 0
}

func (a *serialAllocator) Audit(ctx context.Context) (*SerialAudit, error) {
	docs, err := a.store.Query(ctx, a.collection)
	if err != nil {
		return nil, &domain.AllocationError{Err: fmt.Errorf("failed to scan %s: %w", a.collection, err)}
	}

	holders := make(map[int64][]string)
	audit := &SerialAudit{Total: len(docs)}
	for _, doc := range docs {
		sl, ok := domain.ParseSerial(doc.Data["sl"])
		if !ok {
			audit.Missing = append(audit.Missing, doc.ID)
			continue
		}
		holders[sl] = append(holders[sl], doc.ID)
		if sl > audit.MaxSerial {
			audit.MaxSerial = sl
		}
	}
	for sl, ids := range holders {
		if len(ids) > 1 {
			if audit.Duplicates == nil {
				audit.Duplicates = make(map[int64][]string)
			}
			sort.Strings(ids)
			audit.Duplicates[sl] = ids
		}
	}
	sort.Strings(audit.Missing)
	audit.NextSerial = audit.MaxSerial + 1
	return audit, nil
}
