package service

import (
	"fmt"
	"sort"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/repository"
)

func decodeAll(docs []repository.Document) ([]*domain.Examiner, error) {
	out := make([]*domain.Examiner, 0, len(docs))
	for _, doc := range docs {
		e, err := domain.FromDocument(doc.ID, doc.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// sortBySerial orders records by serial ascending; records without a serial go last.
func sortBySerial(records []*domain.Examiner) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Serial, records[j].Serial
		switch {
		case a == 0 && b == 0:
			return records[i].ID < records[j].ID
		case a == 0:
			return false
		case b == 0:
			return true
		}
		return a < b
	})
}

// mergeChanges applies changes to current and checks that the result still decodes as an
// examiner. Keys in locked are refused.
func mergeChanges(id string, current, changes map[string]any, locked ...string) (map[string]any, error) {
	if len(changes) == 0 {
		return nil, domain.NewValidationError("no changes supplied", id)
	}
	for _, key := range locked {
		if _, ok := changes[key]; ok {
			return nil, domain.NewValidationError(fmt.Sprintf("field %q cannot be changed", key), id)
		}
	}
	clean := domain.Sanitize(domain.StripFields(changes, "id"))
	if len(clean) == 0 {
		return nil, domain.NewValidationError("no changes supplied", id)
	}

	merged := domain.StripFields(current)
	for k, v := range clean {
		merged[k] = v
	}
	if _, err := domain.FromDocument(id, merged); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid field value: %v", err), id)
	}
	return clean, nil
}
