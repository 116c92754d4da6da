package domain

type Subject string

const (
	SubjectEnglish   Subject = "English"
	SubjectBangla    Subject = "Bangla"
	SubjectPhysics   Subject = "Physics"
	SubjectChemistry Subject = "Chemistry"
	SubjectMath      Subject = "Math"
	SubjectBiology   Subject = "Biology"
	SubjectICT       Subject = "ICT"
)

// Subjects is the fixed, display-ordered subject set.
var Subjects = []Subject{
	SubjectEnglish,
	SubjectBangla,
	SubjectPhysics,
	SubjectChemistry,
	SubjectMath,
	SubjectBiology,
	SubjectICT,
}

func ParseSubject(name string) (Subject, bool) {
	for _, s := range Subjects {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// SubjectScore is the per-subject block embedded in every examiner record.
// Percentage is kept as entered; it may be empty or non-numeric.
type SubjectScore struct {
	Percentage string `json:"percentage"`
	SetLabel   string `json:"set_label"`
	ExamDate   string `json:"exam_date"`
}

// ThresholdConfig maps a subject to its integer pass threshold. A score passes when it is
// strictly greater than the threshold.
type ThresholdConfig map[Subject]int

const (
	DefaultEnglishThreshold = 59
	DefaultSubjectThreshold = 49
)

// DefaultThresholds is the single source of per-subject defaults.
func DefaultThresholds() ThresholdConfig {
	cfg := make(ThresholdConfig, len(Subjects))
	for _, s := range Subjects {
		cfg[s] = DefaultSubjectThreshold
	}
	cfg[SubjectEnglish] = DefaultEnglishThreshold
	return cfg
}

// For returns the threshold for a subject, 0 when none is configured.
func (c ThresholdConfig) For(s Subject) int {
	return c[s]
}

// Merge returns a copy of c with overrides applied on top.
func (c ThresholdConfig) Merge(overrides ThresholdConfig) ThresholdConfig {
	out := make(ThresholdConfig, len(c)+len(overrides))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
