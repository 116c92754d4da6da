package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/security"
	"examiner-registry-backend/internal/service"
)

type applicationRequest struct {
	FullName     string `json:"fullName" validate:"required"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
}

type bulkPromoteRequest struct {
	IDs              []string `json:"ids" validate:"required,min=1,dive,required"`
	ReviewerFallback string   `json:"reviewer_fallback"`
}

type importRequest struct {
	Target string              `json:"target" validate:"required,oneof=pending approved"`
	Rows   []map[string]string `json:"rows" validate:"required,min=1"`
}

// SubmitApplication stores a public intake form as a pending record
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req applicationRequest
	if err := decodeJSON(w, requestWithBody(r, body), &req); err != nil {
		writeError(w, r, err)
		return
	}
	var application domain.Examiner
	if err := json.Unmarshal(body, &application); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.intake.Submit(r.Context(), &application)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExaminerView(created))
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.intake.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExaminerViews(list))
}

// UpdatePending applies an inline edit, typically setting the reviewer note
func (h *Handler) UpdatePending(w http.ResponseWriter, r *http.Request) {
	var changes map[string]any
	if err := decodeJSON(w, r, &changes); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.intake.UpdatePending(r.Context(), mux.Vars(r)["id"], changes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExaminerView(updated))
}

func (h *Handler) DiscardPending(w http.ResponseWriter, r *http.Request) {
	if err := h.intake.Discard(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Promote approves one pending record on behalf of the authenticated reviewer
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	identity, err := security.CurrentIdentity(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	approved, err := h.promotion.Promote(r.Context(), mux.Vars(r)["id"], identity)
	if err != nil {
		h.metrics.ObservePromotion("single", 0, true)
		writeError(w, r, err)
		return
	}
	h.metrics.ObservePromotion("single", 1, false)
	writeJSON(w, http.StatusOK, toExaminerView(approved))
}

// PromoteAll approves a selection of pending records. A partial failure answers 207 with
// the identifiers left pending.
func (h *Handler) PromoteAll(w http.ResponseWriter, r *http.Request) {
	var req bulkPromoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	reviewer, err := security.CurrentIdentity(r.Context())
	if err != nil {
		reviewer = req.ReviewerFallback
	}

	result, err := h.promotion.PromoteAll(r.Context(), req.IDs, reviewer)
	if err != nil {
		if result != nil {
			h.metrics.ObservePromotion("bulk", result.PromotedCount, true)
			status := http.StatusMultiStatus
			if result.PromotedCount == 0 {
				status = statusFor(err)
			}
			writeJSON(w, status, result)
			return
		}
		writeError(w, r, err)
		return
	}
	h.metrics.ObservePromotion("bulk", result.PromotedCount, false)
	writeJSON(w, http.StatusOK, result)
}

// Import stores mapped spreadsheet rows into the pending or approved collection
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.intake.Import(r.Context(), service.ImportTarget(req.Target), req.Rows)
	if result != nil {
		h.metrics.ObserveImport(req.Target, result.Imported)
	}
	if err != nil {
		var commitErr *domain.StoreCommitError
		if result != nil && errors.As(err, &commitErr) {
			status := http.StatusMultiStatus
			if result.Imported == 0 {
				status = statusFor(err)
			}
			writeJSON(w, status, result)
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func requestWithBody(r *http.Request, body []byte) *http.Request {
	clone := r.Clone(r.Context())
	clone.Body = io.NopCloser(bytes.NewReader(body))
	return clone
}
