// Package eligibility decides which approved examiners qualify for script checking. Every
// function here is pure: the result depends only on the arguments.
package eligibility

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"examiner-registry-backend/internal/domain"
)

type Verdict string

const (
	NoExam   Verdict = "NoExam"
	Invalid  Verdict = "Invalid"
	Allow    Verdict = "Allow"
	NotAllow Verdict = "NotAllow"
)

// Classify labels a raw score against a threshold. Only a score strictly greater than the
// threshold is Allow.
func Classify(raw string, threshold int) Verdict {
	score, verdict := parseScore(raw)
	if verdict != "" {
		return verdict
	}
	if score > float64(threshold) {
		return Allow
	}
	return NotAllow
}

func parseScore(raw string) (float64, Verdict) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, NoExam
	}
	score, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, Invalid
	}
	return score, ""
}

// Criteria selects records. Categorical maps a document field to its accepted values; an
// empty set leaves that field unconstrained. A record passes the subject predicate when any
// selected subject's score is Allow.
type Criteria struct {
	Categorical map[string][]string
	Subjects    []domain.Subject
}

// Validate rejects fields and subjects the engine does not know.
func (c Criteria) Validate() error {
	for field := range c.Categorical {
		if _, ok := fieldAccessors[field]; !ok {
			return fmt.Errorf("unknown filter field %q", field)
		}
	}
	for _, s := range c.Subjects {
		if _, ok := domain.ParseSubject(string(s)); !ok {
			return fmt.Errorf("unknown subject %q", s)
		}
	}
	return nil
}

// Evaluate returns the records matching every categorical filter and the subject predicate,
// in input order.
func Evaluate(records []*domain.Examiner, criteria Criteria, thresholds domain.ThresholdConfig) []*domain.Examiner {
	accepted := make(map[string]map[string]bool, len(criteria.Categorical))
	for field, values := range criteria.Categorical {
		if len(values) == 0 {
			continue
		}
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[strings.TrimSpace(v)] = true
		}
		accepted[field] = set
	}

	out := make([]*domain.Examiner, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if !matchesCategorical(rec, accepted) {
			continue
		}
		if len(criteria.Subjects) > 0 && !AnyAllowed(rec, criteria.Subjects, thresholds) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesCategorical(rec *domain.Examiner, accepted map[string]map[string]bool) bool {
	for field, set := range accepted {
		if !set[FieldValue(rec, field)] {
			return false
		}
	}
	return true
}

// AnyAllowed reports whether at least one of subjects classifies as Allow for rec.
func AnyAllowed(rec *domain.Examiner, subjects []domain.Subject, thresholds domain.ThresholdConfig) bool {
	for _, s := range subjects {
		if Classify(rec.Score(s).Percentage, thresholds.For(s)) == Allow {
			return true
		}
	}
	return false
}

// SubjectResult is one row of a per-subject verdict table.
type SubjectResult struct {
	Subject   domain.Subject `json:"subject"`
	Score     string         `json:"score"`
	SetLabel  string         `json:"set_label"`
	ExamDate  string         `json:"exam_date"`
	Threshold int            `json:"threshold"`
	Verdict   Verdict        `json:"verdict"`
}

// Results classifies every subject of rec in display order.
func Results(rec *domain.Examiner, thresholds domain.ThresholdConfig) []SubjectResult {
	rows := make([]SubjectResult, 0, len(domain.Subjects))
	for _, s := range domain.Subjects {
		score := rec.Score(s)
		threshold := thresholds.For(s)
		rows = append(rows, SubjectResult{
			Subject:   s,
			Score:     score.Percentage,
			SetLabel:  score.SetLabel,
			ExamDate:  score.ExamDate,
			Threshold: threshold,
			Verdict:   Classify(score.Percentage, threshold),
		})
	}
	return rows
}

// Options returns the sorted distinct trimmed values of each field across records. The
// empty string is kept so blank values can be selected.
func Options(records []*domain.Examiner, fields ...string) map[string][]string {
	if len(fields) == 0 {
		fields = CategoricalFields
	}
	out := make(map[string][]string, len(fields))
	for _, field := range fields {
		if _, ok := fieldAccessors[field]; !ok {
			continue
		}
		seen := make(map[string]bool)
		values := []string{}
		for _, rec := range records {
			if rec == nil {
				continue
			}
			v := FieldValue(rec, field)
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		sort.Strings(values)
		out[field] = values
	}
	return out
}
