package http

import (
	"net/http"

	"examiner-registry-backend/internal/metrics"
	"examiner-registry-backend/internal/service"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Intake         service.IntakeService
	Promotion      service.PromotionService
	Examiners      service.ExaminerService
	UpdateRequests service.UpdateRequestService
	TPins          service.TPinService
	Serials        service.SerialAllocator
}

type Handler struct {
	intake    service.IntakeService
	promotion service.PromotionService
	examiners service.ExaminerService
	updates   service.UpdateRequestService
	tpins     service.TPinService
	serials   service.SerialAllocator
	metrics   *metrics.Metrics
}

func NewHandler(s Services, m *metrics.Metrics) *Handler {
	return &Handler{
		intake:    s.Intake,
		promotion: s.Promotion,
		examiners: s.Examiners,
		updates:   s.UpdateRequests,
		tpins:     s.TPins,
		serials:   s.Serials,
		metrics:   m,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
