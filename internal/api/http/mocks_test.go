package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/eligibility"
	"examiner-registry-backend/internal/service"
)

// MockIntakeService
type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) Submit(ctx context.Context, application *domain.Examiner) (*domain.Examiner, error) {
	args := m.Called(ctx, application)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Examiner), args.Error(1)
}
func (m *MockIntakeService) ListPending(ctx context.Context) ([]*domain.Examiner, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Examiner), args.Error(1)
}
func (m *MockIntakeService) UpdatePending(ctx context.Context, id string, changes map[string]any) (*domain.Examiner, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Examiner), args.Error(1)
}
func (m *MockIntakeService) Discard(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockIntakeService) Import(ctx context.Context, target service.ImportTarget, rows []map[string]string) (*service.ImportResult, error) {
	args := m.Called(ctx, target, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

// MockPromotionService
type MockPromotionService struct {
	mock.Mock
}

func (m *MockPromotionService) Promote(ctx context.Context, pendingID, reviewerIdentity string) (*domain.Examiner, error) {
	args := m.Called(ctx, pendingID, reviewerIdentity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Examiner), args.Error(1)
}
func (m *MockPromotionService) PromoteAll(ctx context.Context, pendingIDs []string, reviewerIdentityFallback string) (*domain.BulkResult, error) {
	args := m.Called(ctx, pendingIDs, reviewerIdentityFallback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}

// MockExaminerService
type MockExaminerService struct {
	mock.Mock
}

func (m *MockExaminerService) ListApproved(ctx context.Context) ([]*domain.Examiner, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Examiner), args.Error(1)
}
func (m *MockExaminerService) Search(ctx context.Context, query string) (*domain.Examiner, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Examiner), args.Error(1)
}
func (m *MockExaminerService) UpdateProfile(ctx context.Context, id string, changes map[string]any) (*domain.Examiner, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Examiner), args.Error(1)
}
func (m *MockExaminerService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockExaminerService) Report(ctx context.Context, criteria eligibility.Criteria, overrides domain.ThresholdConfig) (*service.Report, error) {
	args := m.Called(ctx, criteria, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}
func (m *MockExaminerService) ReportOptions(ctx context.Context) (map[string][]string, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string][]string), args.Error(1)
}
func (m *MockExaminerService) Thresholds() domain.ThresholdConfig {
	args := m.Called()
	return args.Get(0).(domain.ThresholdConfig)
}
func (m *MockExaminerService) LookupResult(ctx context.Context, hscRoll, hscReg string) (*service.ResultSheet, error) {
	args := m.Called(ctx, hscRoll, hscReg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResultSheet), args.Error(1)
}

// MockUpdateRequestService
type MockUpdateRequestService struct {
	mock.Mock
}

func (m *MockUpdateRequestService) Submit(ctx context.Context, hscRoll, hscReg string, changes map[string]any) (*domain.UpdateRequest, error) {
	args := m.Called(ctx, hscRoll, hscReg, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpdateRequest), args.Error(1)
}
func (m *MockUpdateRequestService) List(ctx context.Context) ([]*domain.UpdateRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.UpdateRequest), args.Error(1)
}
func (m *MockUpdateRequestService) Approve(ctx context.Context, requestID string) (*domain.Examiner, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Examiner), args.Error(1)
}
func (m *MockUpdateRequestService) Reject(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

// MockTPinService
type MockTPinService struct {
	mock.Mock
}

func (m *MockTPinService) Candidates(ctx context.Context, mobile string) ([]*service.TPinCandidate, error) {
	args := m.Called(ctx, mobile)
	return args.Get(0).([]*service.TPinCandidate), args.Error(1)
}
func (m *MockTPinService) Assign(ctx context.Context, examinerID, tpin string, subjects []string, generatedBy string) (*domain.TPinRegistration, error) {
	args := m.Called(ctx, examinerID, tpin, subjects, generatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TPinRegistration), args.Error(1)
}

// MockSerialAllocator
type MockSerialAllocator struct {
	mock.Mock
}

func (m *MockSerialAllocator) NextSerial(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockSerialAllocator) NextSerialBlock(ctx context.Context, n int) ([]int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockSerialAllocator) Audit(ctx context.Context) (*service.SerialAudit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SerialAudit), args.Error(1)
}
