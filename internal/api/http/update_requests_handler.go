package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type updateRequestSubmission struct {
	HSCRoll string         `json:"hscRoll" validate:"required"`
	HSCReg  string         `json:"hscReg" validate:"required"`
	Changes map[string]any `json:"changes" validate:"required,min=1"`
}

// SubmitUpdateRequest queues a self-service profile change for review
func (h *Handler) SubmitUpdateRequest(w http.ResponseWriter, r *http.Request) {
	var req updateRequestSubmission
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.updates.Submit(r.Context(), req.HSCRoll, req.HSCReg, req.Changes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListUpdateRequests(w http.ResponseWriter, r *http.Request) {
	list, err := h.updates.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) ApproveUpdateRequest(w http.ResponseWriter, r *http.Request) {
	updated, err := h.updates.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExaminerView(updated))
}

func (h *Handler) RejectUpdateRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.updates.Reject(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
