package domain

type UpdateRequestStatus string

const (
	UpdateRequestStatusPending UpdateRequestStatus = "pending"
)

// UpdateRequest is a self-service profile change awaiting admin review.
type UpdateRequest struct {
	ID           string              `json:"id"`
	ExaminerID   string              `json:"examinerId"`
	OriginalData map[string]any      `json:"originalData"`
	UpdatedData  map[string]any      `json:"updatedData"`
	Status       UpdateRequestStatus `json:"status"`
	Timestamp    string              `json:"timestamp"`
	HSCRoll      string              `json:"hscRoll"`
	HSCReg       string              `json:"hscReg"`
	NickName     string              `json:"nickName"`
	MobileNumber string              `json:"mobileNumber"`
}

// ChangedFields lists keys whose requested value differs from the original.
func (r *UpdateRequest) ChangedFields() []string {
	var keys []string
	for k, v := range r.UpdatedData {
		if orig, ok := r.OriginalData[k]; ok && ValuesEqual(orig, v) {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// TPinRegistration is the audit entry written when a T-PIN is assigned.
type TPinRegistration struct {
	TPin        string   `json:"tPin"`
	ExaminerID  string   `json:"examinerId"`
	Serial      int64    `json:"sl,omitempty"`
	FullName    string   `json:"fullName"`
	NickName    string   `json:"nickName"`
	Mobile      string   `json:"mobileNumber"`
	Subjects    []string `json:"subjects"`
	GeneratedBy string   `json:"generatedBy"`
	GeneratedAt string   `json:"generatedAt"`
}
