package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examiner-registry-backend/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		threshold int
		want      Verdict
	}{
		{"empty is no exam", "", 59, NoExam},
		{"whitespace is no exam", "   ", 59, NoExam},
		{"non numeric is invalid", "abc", 59, Invalid},
		{"percent sign is invalid", "60%", 59, Invalid},
		{"above threshold", "60", 59, Allow},
		{"equal to threshold fails", "59", 59, NotAllow},
		{"below threshold", "12", 49, NotAllow},
		{"fractional above", "49.5", 49, Allow},
		{"padded number", " 75 ", 49, Allow},
		{"zero threshold", "1", 0, Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw, tt.threshold))
		})
	}
}

func english(id, marks string) *domain.Examiner {
	return &domain.Examiner{ID: id, EnglishMarks: marks}
}

func TestEvaluate(t *testing.T) {
	thresholds := domain.ThresholdConfig{domain.SubjectEnglish: 59}

	t.Run("English boundary scenario", func(t *testing.T) {
		records := []*domain.Examiner{
			english("a", "60"),
			english("b", "59"),
			english("c", ""),
			english("d", "abc"),
		}
		got := Evaluate(records, Criteria{Subjects: []domain.Subject{domain.SubjectEnglish}}, thresholds)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("No criteria returns input unchanged", func(t *testing.T) {
		records := []*domain.Examiner{english("a", "10"), english("b", ""), {ID: "c", Institution: "DU"}}
		got := Evaluate(records, Criteria{Categorical: map[string][]string{"inst": {}, "dept": nil}}, thresholds)
		assert.Equal(t, records, got)
	})

	t.Run("Categorical membership uses trimmed values", func(t *testing.T) {
		records := []*domain.Examiner{
			{ID: "a", Institution: " DU ", Department: "CSE"},
			{ID: "b", Institution: "BUET", Department: "CSE"},
			{ID: "c", Institution: "DU", Department: "EEE"},
		}
		criteria := Criteria{Categorical: map[string][]string{
			"inst": {"DU"},
			"dept": {"CSE", "ME"},
		}}
		got := Evaluate(records, criteria, thresholds)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("Subjects combine with OR", func(t *testing.T) {
		cfg := domain.DefaultThresholds()
		records := []*domain.Examiner{
			{ID: "a", EnglishMarks: "40", PhysicsMarks: "50"},
			{ID: "b", EnglishMarks: "40", PhysicsMarks: "49"},
			{ID: "c", EnglishMarks: "61"},
		}
		got := Evaluate(records, Criteria{Subjects: []domain.Subject{domain.SubjectEnglish, domain.SubjectPhysics}}, cfg)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "c", got[1].ID)
	})

	t.Run("Categorical AND subject", func(t *testing.T) {
		records := []*domain.Examiner{
			{ID: "a", Institution: "DU", EnglishMarks: "70"},
			{ID: "b", Institution: "BUET", EnglishMarks: "70"},
			{ID: "c", Institution: "DU", EnglishMarks: "30"},
		}
		criteria := Criteria{
			Categorical: map[string][]string{"inst": {"DU"}},
			Subjects:    []domain.Subject{domain.SubjectEnglish},
		}
		got := Evaluate(records, criteria, thresholds)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("Missing threshold defaults to zero", func(t *testing.T) {
		records := []*domain.Examiner{{ID: "a", ICTMarks: "1"}, {ID: "b", ICTMarks: "0"}}
		got := Evaluate(records, Criteria{Subjects: []domain.Subject{domain.SubjectICT}}, domain.ThresholdConfig{})
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("Repeated evaluation is identical and leaves input alone", func(t *testing.T) {
		records := []*domain.Examiner{english("a", "60"), english("b", "90"), english("c", "10")}
		snapshot := append([]*domain.Examiner(nil), records...)
		criteria := Criteria{Subjects: []domain.Subject{domain.SubjectEnglish}}

		first := Evaluate(records, criteria, thresholds)
		second := Evaluate(records, criteria, thresholds)
		assert.Equal(t, first, second)
		assert.Equal(t, snapshot, records)
	})
}

func TestCriteriaValidate(t *testing.T) {
	assert.NoError(t, Criteria{Categorical: map[string][]string{"inst": {"DU"}}, Subjects: []domain.Subject{domain.SubjectMath}}.Validate())
	assert.Error(t, Criteria{Categorical: map[string][]string{"salary": {"1"}}}.Validate())
	assert.Error(t, Criteria{Subjects: []domain.Subject{"Latin"}}.Validate())
}

func TestOptions(t *testing.T) {
	records := []*domain.Examiner{
		{Institution: " DU", Department: "CSE"},
		{Institution: "BUET", Department: "CSE "},
		{Institution: "DU"},
	}
	got := Options(records, "inst", "dept", "nope")
	assert.Equal(t, []string{"BUET", "DU"}, got["inst"])
	assert.Equal(t, []string{"", "CSE"}, got["dept"])
	_, ok := got["nope"]
	assert.False(t, ok)

	all := Options(records)
	assert.Len(t, all, len(CategoricalFields))
}

func TestResults(t *testing.T) {
	rec := &domain.Examiner{EnglishMarks: "60", EnglishSet: "A", BanglaMarks: "49", PhysicsMarks: "x"}
	rows := Results(rec, domain.DefaultThresholds())
	require.Len(t, rows, len(domain.Subjects))

	assert.Equal(t, domain.SubjectEnglish, rows[0].Subject)
	assert.Equal(t, Allow, rows[0].Verdict)
	assert.Equal(t, "A", rows[0].SetLabel)
	assert.Equal(t, NotAllow, rows[1].Verdict)
	assert.Equal(t, Invalid, rows[2].Verdict)
	assert.Equal(t, NoExam, rows[3].Verdict)
}
