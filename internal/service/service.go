package service

import (
	"context"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/eligibility"
)

type SerialAllocator interface {
	NextSerial(ctx context.Context) (int64, error)
	NextSerialBlock(ctx context.Context, n int) ([]int64, error)
	Audit(ctx context.Context) (*SerialAudit, error)
}

type PromotionService interface {
	Promote(ctx context.Context, pendingID, reviewerIdentity string) (*domain.Examiner, error)
	PromoteAll(ctx context.Context, pendingIDs []string, reviewerIdentityFallback string) (*domain.BulkResult, error)
}

type IntakeService interface {
	Submit(ctx context.Context, application *domain.Examiner) (*domain.Examiner, error)
	ListPending(ctx context.Context) ([]*domain.Examiner, error)
	UpdatePending(ctx context.Context, id string, changes map[string]any) (*domain.Examiner, error)
	Discard(ctx context.Context, id string) error
	Import(ctx context.Context, target ImportTarget, rows []map[string]string) (*ImportResult, error)
}

type ExaminerService interface {
	ListApproved(ctx context.Context) ([]*domain.Examiner, error)
	Search(ctx context.Context, query string) (*domain.Examiner, error)
	UpdateProfile(ctx context.Context, id string, changes map[string]any) (*domain.Examiner, error)
	Delete(ctx context.Context, id string) error
	Report(ctx context.Context, criteria eligibility.Criteria, overrides domain.ThresholdConfig) (*Report, error)
	ReportOptions(ctx context.Context) (map[string][]string, error)
	Thresholds() domain.ThresholdConfig
	LookupResult(ctx context.Context, hscRoll, hscReg string) (*ResultSheet, error)
}

type UpdateRequestService interface {
	Submit(ctx context.Context, hscRoll, hscReg string, changes map[string]any) (*domain.UpdateRequest, error)
	List(ctx context.Context) ([]*domain.UpdateRequest, error)
	Approve(ctx context.Context, requestID string) (*domain.Examiner, error)
	Reject(ctx context.Context, requestID string) error
}

type TPinService interface {
	Candidates(ctx context.Context, mobile string) ([]*TPinCandidate, error)
	Assign(ctx context.Context, examinerID, tpin string, subjects []string, generatedBy string) (*domain.TPinRegistration, error)
}

type NotificationService interface {
	SendApprovalNotice(ctx context.Context, examiner *domain.Examiner) error
}
