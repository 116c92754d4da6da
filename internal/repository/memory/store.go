// Package memory provides an in-memory RecordStore used for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/repository"
)

var _ repository.RecordStore = (*Store)(nil)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]map[string]any)}
}

func (s *Store) NewID(collection string) string {
	return uuid.NewString()
}

func (s *Store) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &repository.Document{ID: id, Data: cloneMap(data)}, nil
}

// Query returns matching documents ordered by identifier.
func (s *Store) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, f := range filters {
		if !repository.ValidOp(f.Op) {
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []repository.Document
	for id, data := range s.collections[collection] {
		if matchesAll(data, filters) {
			docs = append(docs, repository.Document{ID: id, Data: cloneMap(data)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// CommitBatch validates every op against a working copy and swaps it in only when all pass.
func (s *Store) CommitBatch(ctx context.Context, ops []repository.BatchOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := repository.ValidateBatch(ops); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]map[string]map[string]any)
	working := func(collection string) map[string]map[string]any {
		if c, ok := staged[collection]; ok {
			return c
		}
		c := make(map[string]map[string]any, len(s.collections[collection]))
		for id, data := range s.collections[collection] {
			c[id] = data
		}
		staged[collection] = c
		return c
	}

	for i, op := range ops {
		docs := working(op.Collection)
		switch op.Kind {
		case repository.OpSet, repository.OpCreate:
			if _, exists := docs[op.ID]; exists && op.Kind == repository.OpCreate {
				return fmt.Errorf("op %d: create %s/%s: %w", i, op.Collection, op.ID, repository.ErrAlreadyExists)
			}
			if op.UniqueField != "" {
				want := op.Data[op.UniqueField]
				for id, data := range docs {
					if id == op.ID {
						continue
					}
					if have, ok := data[op.UniqueField]; ok && domain.ValuesEqual(have, want) {
						return fmt.Errorf("op %d: %s=%v already held by %s: %w", i, op.UniqueField, want, id, repository.ErrUniqueViolation)
					}
				}
			}
			docs[op.ID] = cloneMap(op.Data)
		case repository.OpUpdate:
			existing, ok := docs[op.ID]
			if !ok {
				return fmt.Errorf("op %d: update %s/%s: %w", i, op.Collection, op.ID, repository.ErrNotFound)
			}
			merged := cloneMap(existing)
			for k, v := range op.Data {
				merged[k] = v
			}
			docs[op.ID] = merged
		case repository.OpDelete:
			if _, ok := docs[op.ID]; !ok && op.RequireExists {
				return fmt.Errorf("op %d: delete %s/%s: %w", i, op.Collection, op.ID, repository.ErrNotFound)
			}
			delete(docs, op.ID)
		}
	}

	for collection, docs := range staged {
		s.collections[collection] = docs
	}
	return nil
}

// Count returns the number of documents in a collection.
func (s *Store) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func matchesAll(data map[string]any, filters []repository.Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok {
			return false
		}
		if f.Op == "==" {
			if !domain.ValuesEqual(v, f.Value) {
				return false
			}
			continue
		}
		have, ok1 := toFloat(v)
		want, ok2 := toFloat(f.Value)
		if !ok1 || !ok2 {
			return false
		}
		switch f.Op {
		case "<":
			ok = have < want
		case "<=":
			ok = have <= want
		case ">":
			ok = have > want
		case ">=":
			ok = have >= want
		}
		if !ok {
			return false
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case map[string]any:
			out[k] = cloneMap(val)
		case []any:
			cp := make([]any, len(val))
			copy(cp, val)
			out[k] = cp
		default:
			out[k] = val
		}
	}
	return out
}
