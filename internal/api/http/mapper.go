package http

import (
	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/eligibility"
	"examiner-registry-backend/internal/service"
)

// examinerView adds the store identifier, which the record itself does not serialize.
type examinerView struct {
	ID string `json:"id"`
	*domain.Examiner
}

type reportRowView struct {
	Examiner examinerView                `json:"examiner"`
	Results  []eligibility.SubjectResult `json:"results"`
}

type reportView struct {
	Thresholds domain.ThresholdConfig `json:"thresholds"`
	Subjects   []domain.Subject       `json:"subjects"`
	Evaluated  int                    `json:"evaluated"`
	Matched    int                    `json:"matched"`
	Rows       []reportRowView        `json:"rows"`
}

type candidateView struct {
	Examiner          examinerView `json:"examiner"`
	HasTPin           bool         `json:"has_tpin"`
	SuggestedSubjects []string     `json:"suggested_subjects"`
}

func toExaminerView(e *domain.Examiner) examinerView {
	return examinerView{ID: e.ID, Examiner: e}
}

func toExaminerViews(list []*domain.Examiner) []examinerView {
	views := make([]examinerView, 0, len(list))
	for _, e := range list {
		if e != nil {
			views = append(views, toExaminerView(e))
		}
	}
	return views
}

func toReportView(r *service.Report) reportView {
	rows := make([]reportRowView, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, reportRowView{Examiner: toExaminerView(row.Examiner), Results: row.Results})
	}
	return reportView{
		Thresholds: r.Thresholds,
		Subjects:   r.Subjects,
		Evaluated:  r.Evaluated,
		Matched:    len(rows),
		Rows:       rows,
	}
}

func toCandidateViews(list []*service.TPinCandidate) []candidateView {
	views := make([]candidateView, 0, len(list))
	for _, c := range list {
		views = append(views, candidateView{
			Examiner:          toExaminerView(c.Examiner),
			HasTPin:           c.HasTPin,
			SuggestedSubjects: c.SuggestedSubjects,
		})
	}
	return views
}
