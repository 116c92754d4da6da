package domain

import "strings"

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "Pending"
	ReviewStatusApproved ReviewStatus = "Approved"
	ReviewStatusRejected ReviewStatus = "Rejected"
)

// Examiner is the attribute superset shared by intake applications and approved records.
// Field names in the json tags are the stored document keys.
type Examiner struct {
	ID string `json:"-"`

	// Assigned on promotion or approved import; zero while pending.
	Serial      int64  `json:"sl,omitempty"`
	ReviewedBy  string `json:"remarkedBy"`
	ApprovedAt  string `json:"approvedAt,omitempty"`
	LastUpdated string `json:"lastUpdateDate,omitempty"`

	Status       ReviewStatus `json:"status"`
	ReviewerNote string       `json:"rm"`
	Rm4Comment   string       `json:"rm4Comment"`

	// Personal
	NickName          string `json:"nickName"`
	FullName          string `json:"fullName"`
	FullNameBn        string `json:"fullNameBn"`
	FatherName        string `json:"fatherName"`
	FatherOccupation  string `json:"fatherOccupation"`
	FatherDesignation string `json:"fatherDesignation"`
	FatherMobile      string `json:"fatherMobile"`
	MotherName        string `json:"motherName"`
	MotherOccupation  string `json:"motherOccupation"`
	MotherMobile      string `json:"motherMobile"`
	Gender            string `json:"gender"`
	Religion          string `json:"religion"`
	DateOfBirth       string `json:"dob"`
	BloodGroup        string `json:"bloodGroup"`
	BloodDonate       string `json:"bloodDonate"`
	NIDNo             string `json:"nidNo"`
	PresentArea       string `json:"presentArea"`
	HomeDistrict      string `json:"homeDistrict"`

	// Contact
	MobileNumber    string `json:"mobileNumber"`
	AlternateMobile string `json:"alternateMobile"`
	Email           string `json:"email"`
	FacebookID      string `json:"facebookId"`
	TeamsSkypeID    string `json:"teamsSkypeId"`
	PhotoURL        string `json:"photoUrl"`
	DocumentLink    string `json:"documentLink"`

	// Academic
	Institution          string `json:"inst"`
	Department           string `json:"dept"`
	HSCBatch             string `json:"hscBatch"`
	HSCRoll              string `json:"hscRoll"`
	HSCReg               string `json:"hscReg"`
	HSCBoard             string `json:"hscBoard"`
	HSCGPA               string `json:"hscGpa"`
	CollegeName          string `json:"collegeName"`
	MediumHSC            string `json:"mediumHsc"`
	AdmissionPosition    string `json:"admissionPosition"`
	AdmissionUnit        string `json:"admissionUnit"`
	UdvashRoll           string `json:"udvashRoll"`
	ParticipatedPrograms string `json:"participatedPrograms"`

	// Per-subject scores, stored flat as <subject>Marks / Set / Date.
	EnglishMarks   string `json:"englishMarks"`
	EnglishSet     string `json:"englishSet"`
	EnglishDate    string `json:"englishDate"`
	BanglaMarks    string `json:"banglaMarks"`
	BanglaSet      string `json:"banglaSet"`
	BanglaDate     string `json:"banglaDate"`
	PhysicsMarks   string `json:"physicsMarks"`
	PhysicsSet     string `json:"physicsSet"`
	PhysicsDate    string `json:"physicsDate"`
	ChemistryMarks string `json:"chemistryMarks"`
	ChemistrySet   string `json:"chemistrySet"`
	ChemistryDate  string `json:"chemistryDate"`
	MathMarks      string `json:"mathMarks"`
	MathSet        string `json:"mathSet"`
	MathDate       string `json:"mathDate"`
	BiologyMarks   string `json:"biologyMarks"`
	BiologySet     string `json:"biologySet"`
	BiologyDate    string `json:"biologyDate"`
	ICTMarks       string `json:"ictMarks"`
	ICTSet         string `json:"ictSet"`
	ICTDate        string `json:"ictDate"`

	// Payment
	PaymentMethod            string `json:"paymentMethod"`
	MobileBankingNumber      string `json:"mobileBankingNumber"`
	MobileBankingOwner       string `json:"mobileBankingOwner"`
	MobileBankingConfirmedBy string `json:"mobileBankingConfirmedBy,omitempty"`
	TINNumber                string `json:"tinNumber"`
	TINDateLink              string `json:"tinDateLink"`

	// Examiner specifics
	TPin                    string `json:"tPin"`
	RunningProgram          string `json:"runningProgram"`
	PreviousProgram         string `json:"previousProgram"`
	PhysicallyCheckSubjects string `json:"physicallyCheckSubjects"`
	OnlineSubjectPermission string `json:"onlineSubjectPermission"`
	ScriptCheckMethod       string `json:"scriptCheckMethod"`
	Subject1                string `json:"subject1"`
	Subject2                string `json:"subject2"`
	Subject3                string `json:"subject3"`
	Subject4                string `json:"subject4"`
	Subject5                string `json:"subject5"`
	VersionInterested       string `json:"versionInterested"`
	SelectedSubject         string `json:"selectedSubject,omitempty"`

	// Logistics
	Branch             string `json:"branch"`
	FormFillUpCampus   string `json:"formFillUpCampus"`
	CheckScriptsCampus string `json:"checkScriptsCampus"`
	CheckScriptsShift  string `json:"checkScriptsShift"`
	Reference          string `json:"reference"`
	EntryBy            string `json:"entryBy"`
	FormFillUpDate     string `json:"formFillUpDate"`
	TrainingReport     string `json:"trainingReport"`
	TrainingDate       string `json:"trainingDate"`
	IDChecked          bool   `json:"idChecked"`
	OldID              string `json:"oldId,omitempty"`
}

// HasReviewerNote reports whether the "Rm" annotation gating promotion is present.
func (e *Examiner) HasReviewerNote() bool {
	return strings.TrimSpace(e.ReviewerNote) != ""
}

// Score returns the embedded score block for a subject.
func (e *Examiner) Score(s Subject) SubjectScore {
	switch s {
	case SubjectEnglish:
		return SubjectScore{Percentage: e.EnglishMarks, SetLabel: e.EnglishSet, ExamDate: e.EnglishDate}
	case SubjectBangla:
		return SubjectScore{Percentage: e.BanglaMarks, SetLabel: e.BanglaSet, ExamDate: e.BanglaDate}
	case SubjectPhysics:
		return SubjectScore{Percentage: e.PhysicsMarks, SetLabel: e.PhysicsSet, ExamDate: e.PhysicsDate}
	case SubjectChemistry:
		return SubjectScore{Percentage: e.ChemistryMarks, SetLabel: e.ChemistrySet, ExamDate: e.ChemistryDate}
	case SubjectMath:
		return SubjectScore{Percentage: e.MathMarks, SetLabel: e.MathSet, ExamDate: e.MathDate}
	case SubjectBiology:
		return SubjectScore{Percentage: e.BiologyMarks, SetLabel: e.BiologySet, ExamDate: e.BiologyDate}
	case SubjectICT:
		return SubjectScore{Percentage: e.ICTMarks, SetLabel: e.ICTSet, ExamDate: e.ICTDate}
	}
	return SubjectScore{}
}

// ImmutableFields are document keys that profile edits and update requests may not change.
var ImmutableFields = []string{"sl", "remarkedBy", "approvedAt", "status", "rm"}
