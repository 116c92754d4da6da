package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/eligibility"
	"examiner-registry-backend/internal/security"
)

type lookupRequest struct {
	HSCRoll string `json:"hscRoll" validate:"required"`
	HSCReg  string `json:"hscReg" validate:"required"`
}

type tpinRequest struct {
	TPin     string   `json:"tpin" validate:"omitempty,len=5,numeric"`
	Subjects []string `json:"subjects"`
}

type reportRequest struct {
	Filters    map[string][]string `json:"filters"`
	Subjects   []string            `json:"subjects"`
	Thresholds map[string]int      `json:"thresholds" validate:"dive,min=0,max=100"`
}

func (r reportRequest) criteria() (eligibility.Criteria, domain.ThresholdConfig, error) {
	criteria := eligibility.Criteria{Categorical: r.Filters}
	for _, name := range r.Subjects {
		s, ok := domain.ParseSubject(name)
		if !ok {
			return criteria, nil, domain.NewValidationError("unknown subject", name)
		}
		criteria.Subjects = append(criteria.Subjects, s)
	}

	var overrides domain.ThresholdConfig
	if len(r.Thresholds) > 0 {
		overrides = make(domain.ThresholdConfig, len(r.Thresholds))
		for name, value := range r.Thresholds {
			s, ok := domain.ParseSubject(name)
			if !ok {
				return criteria, nil, domain.NewValidationError("threshold for unknown subject", name)
			}
			overrides[s] = value
		}
	}
	return criteria, overrides, nil
}

func (h *Handler) ListApproved(w http.ResponseWriter, r *http.Request) {
	list, err := h.examiners.ListApproved(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExaminerViews(list))
}

// SearchExaminer finds one examiner by T-PIN, phone number, serial or e-mail
func (h *Handler) SearchExaminer(w http.ResponseWriter, r *http.Request) {
	found, err := h.examiners.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExaminerView(found))
}

func (h *Handler) UpdateExaminer(w http.ResponseWriter, r *http.Request) {
	var changes map[string]any
	if err := decodeJSON(w, r, &changes); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.examiners.UpdateProfile(r.Context(), mux.Vars(r)["id"], changes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExaminerView(updated))
}

func (h *Handler) DeleteExaminer(w http.ResponseWriter, r *http.Request) {
	if err := h.examiners.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignTPin issues a T-PIN, generating one when the body leaves it empty
func (h *Handler) AssignTPin(w http.ResponseWriter, r *http.Request) {
	identity, err := security.CurrentIdentity(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req tpinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	reg, err := h.tpins.Assign(r.Context(), mux.Vars(r)["id"], req.TPin, req.Subjects, identity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (h *Handler) TPinCandidates(w http.ResponseWriter, r *http.Request) {
	list, err := h.tpins.Candidates(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCandidateViews(list))
}

func (h *Handler) NextSerial(w http.ResponseWriter, r *http.Request) {
	sl, err := h.serials.NextSerial(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"next_serial": sl})
}

func (h *Handler) Thresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.examiners.Thresholds())
}

// ThresholdReport filters approved examiners by categorical values and subject verdicts
func (h *Handler) ThresholdReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	criteria, overrides, err := req.criteria()
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.examiners.Report(r.Context(), criteria, overrides)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportView(report))
}

func (h *Handler) ReportOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.examiners.ReportOptions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// LookupResult is the public result check by HSC roll and registration
func (h *Handler) LookupResult(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sheet, err := h.examiners.LookupResult(r.Context(), req.HSCRoll, req.HSCReg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}
