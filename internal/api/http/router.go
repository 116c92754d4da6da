package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"examiner-registry-backend/internal/metrics"
	"examiner-registry-backend/internal/security"
)

// NewRouter wires every route onto a gorilla/mux router. Security levels per route live in
// config.EndpointSecurityConfig.
func NewRouter(h *Handler, tm security.TokenManager, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging(m))
	r.Use(NewAuthMiddleware(tm).Handler)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Applicant facing
	api.HandleFunc("/applications", h.SubmitApplication).Methods(http.MethodPost)
	api.HandleFunc("/results/lookup", h.LookupResult).Methods(http.MethodPost)
	api.HandleFunc("/update-requests", h.SubmitUpdateRequest).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()

	// Pending applications
	admin.HandleFunc("/applications", h.ListPending).Methods(http.MethodGet)
	admin.HandleFunc("/applications/promote", h.PromoteAll).Methods(http.MethodPost)
	admin.HandleFunc("/applications/{id}", h.UpdatePending).Methods(http.MethodPatch)
	admin.HandleFunc("/applications/{id}", h.DiscardPending).Methods(http.MethodDelete)
	admin.HandleFunc("/applications/{id}/promote", h.Promote).Methods(http.MethodPost)
	admin.HandleFunc("/import", h.Import).Methods(http.MethodPost)

	// Approved examiners
	admin.HandleFunc("/examiners", h.ListApproved).Methods(http.MethodGet)
	admin.HandleFunc("/examiners/search", h.SearchExaminer).Methods(http.MethodGet)
	admin.HandleFunc("/examiners/{id}", h.UpdateExaminer).Methods(http.MethodPatch)
	admin.HandleFunc("/examiners/{id}", h.DeleteExaminer).Methods(http.MethodDelete)
	admin.HandleFunc("/examiners/{id}/tpin", h.AssignTPin).Methods(http.MethodPost)
	admin.HandleFunc("/tpin/candidates", h.TPinCandidates).Methods(http.MethodGet)
	admin.HandleFunc("/serials/next", h.NextSerial).Methods(http.MethodGet)

	// Threshold reports
	admin.HandleFunc("/thresholds", h.Thresholds).Methods(http.MethodGet)
	admin.HandleFunc("/reports/thresholds", h.ThresholdReport).Methods(http.MethodPost)
	admin.HandleFunc("/reports/options", h.ReportOptions).Methods(http.MethodGet)

	// Update requests
	admin.HandleFunc("/update-requests", h.ListUpdateRequests).Methods(http.MethodGet)
	admin.HandleFunc("/update-requests/{id}/approve", h.ApproveUpdateRequest).Methods(http.MethodPost)
	admin.HandleFunc("/update-requests/{id}", h.RejectUpdateRequest).Methods(http.MethodDelete)

	return r
}
