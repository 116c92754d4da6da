package eligibility

import (
	"strings"

	"examiner-registry-backend/internal/domain"
)

// CategoricalFields are the document fields offered as report filters, in display order.
var CategoricalFields = []string{
	"tPin",
	"inst",
	"dept",
	"hscBatch",
	"rm",
	"checkScriptsCampus",
	"selectedSubject",
	"trainingReport",
	"remarkedBy",
}

var fieldAccessors = map[string]func(*domain.Examiner) string{
	"tPin":               func(e *domain.Examiner) string { return e.TPin },
	"inst":               func(e *domain.Examiner) string { return e.Institution },
	"dept":               func(e *domain.Examiner) string { return e.Department },
	"hscBatch":           func(e *domain.Examiner) string { return e.HSCBatch },
	"rm":                 func(e *domain.Examiner) string { return e.ReviewerNote },
	"checkScriptsCampus": func(e *domain.Examiner) string { return e.CheckScriptsCampus },
	"selectedSubject":    func(e *domain.Examiner) string { return e.SelectedSubject },
	"trainingReport":     func(e *domain.Examiner) string { return e.TrainingReport },
	"remarkedBy":         func(e *domain.Examiner) string { return e.ReviewedBy },
	"branch":             func(e *domain.Examiner) string { return e.Branch },
	"gender":             func(e *domain.Examiner) string { return e.Gender },
	"versionInterested":  func(e *domain.Examiner) string { return e.VersionInterested },
}

// FieldValue returns the trimmed value of a filterable field, "" for unknown fields.
func FieldValue(e *domain.Examiner, field string) string {
	get, ok := fieldAccessors[field]
	if !ok {
		return ""
	}
	return strings.TrimSpace(get(e))
}

// KnownField reports whether field can be used as a categorical filter.
func KnownField(field string) bool {
	_, ok := fieldAccessors[field]
	return ok
}
