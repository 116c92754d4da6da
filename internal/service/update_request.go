package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
)

type updateRequestService struct {
	store    repository.RecordStore
	settings Settings
}

func NewUpdateRequestService(store repository.RecordStore, settings Settings) UpdateRequestService {
	return &updateRequestService{store: store, settings: settings}
}

// Submit records a self-service change request for the approved examiner identified by
// HSC roll and registration.
func (s *updateRequestService) Submit(ctx context.Context, hscRoll, hscReg string, changes map[string]any) (*domain.UpdateRequest, error) {
	hscRoll, hscReg = strings.TrimSpace(hscRoll), strings.TrimSpace(hscReg)
	if hscRoll == "" || hscReg == "" {
		return nil, domain.NewValidationError("HSC roll and registration are required")
	}

	docs, err := s.store.Query(ctx, s.settings.Collections.Approved,
		repository.Eq("hscRoll", hscRoll),
		repository.Eq("hscReg", hscReg),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find examiner: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("examiner with roll %s: %w", hscRoll, domain.ErrNotFound)
	}
	examiner := docs[0]

	if _, err := mergeChanges(examiner.ID, examiner.Data, changes, domain.ImmutableFields...); err != nil {
		return nil, err
	}

	req := &domain.UpdateRequest{
		ID:           s.store.NewID(s.settings.Collections.UpdateRequests),
		ExaminerID:   examiner.ID,
		OriginalData: examiner.Data,
		UpdatedData:  domain.Sanitize(domain.StripFields(changes, "id")),
		Status:       domain.UpdateRequestStatusPending,
		Timestamp:    s.settings.timestamp(),
		HSCRoll:      hscRoll,
		HSCReg:       hscReg,
	}
	req.NickName, _ = examiner.Data["nickName"].(string)
	req.MobileNumber, _ = examiner.Data["mobileNumber"].(string)
	if len(req.ChangedFields()) == 0 {
		return nil, domain.NewValidationError("no changes supplied", examiner.ID)
	}

	data, err := toMap(req)
	if err != nil {
		return nil, err
	}
	delete(data, "id")
	err = s.store.CommitBatch(ctx, []repository.BatchOp{{
		Kind:       repository.OpSet,
		Collection: s.settings.Collections.UpdateRequests,
		ID:         req.ID,
		Data:       data,
	}})
	if err != nil {
		return nil, &domain.StoreCommitError{Err: err}
	}
	logger.Info("Update request submitted", "id", req.ID, "examiner_id", req.ExaminerID)
	return req, nil
}

// List returns every open request, newest first.
func (s *updateRequestService) List(ctx context.Context) ([]*domain.UpdateRequest, error) {
	docs, err := s.store.Query(ctx, s.settings.Collections.UpdateRequests)
	if err != nil {
		return nil, fmt.Errorf("failed to list update requests: %w", err)
	}
	out := make([]*domain.UpdateRequest, 0, len(docs))
	for _, doc := range docs {
		req, err := decodeUpdateRequest(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

// Approve merges the requested changes into the examiner record and removes the request in
// one batch. Serial and review fields are never taken from a request.
func (s *updateRequestService) Approve(ctx context.Context, requestID string) (*domain.Examiner, error) {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx, s.settings.Collections.Approved, req.ExaminerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("examiner %s: %w", req.ExaminerID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get examiner: %w", err)
	}

	changes := make(map[string]any)
	for _, key := range req.ChangedFields() {
		changes[key] = req.UpdatedData[key]
	}
	changes = domain.StripFields(changes, domain.ImmutableFields...)
	if len(changes) == 0 {
		return nil, domain.NewValidationError("request has no applicable changes", requestID)
	}
	clean, err := mergeChanges(req.ExaminerID, current.Data, changes)
	if err != nil {
		return nil, err
	}
	clean["lastUpdateDate"] = s.settings.today()

	err = s.store.CommitBatch(ctx, []repository.BatchOp{
		{
			Kind:       repository.OpUpdate,
			Collection: s.settings.Collections.Approved,
			ID:         req.ExaminerID,
			Data:       clean,
		},
		{
			Kind:          repository.OpDelete,
			Collection:    s.settings.Collections.UpdateRequests,
			ID:            requestID,
			RequireExists: true,
		},
	})
	if err != nil {
		return nil, &domain.StoreCommitError{Err: err}
	}

	for k, v := range clean {
		current.Data[k] = v
	}
	logger.Info("Update request approved", "id", requestID, "examiner_id", req.ExaminerID, "fields", len(clean))
	return domain.FromDocument(req.ExaminerID, current.Data)
}

func (s *updateRequestService) Reject(ctx context.Context, requestID string) error {
	err := s.store.CommitBatch(ctx, []repository.BatchOp{{
		Kind:          repository.OpDelete,
		Collection:    s.settings.Collections.UpdateRequests,
		ID:            requestID,
		RequireExists: true,
	}})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("update request %s: %w", requestID, domain.ErrNotFound)
	}
	if err != nil {
		return &domain.StoreCommitError{Err: err}
	}
	logger.Info("Update request rejected", "id", requestID)
	return nil
}

func (s *updateRequestService) get(ctx context.Context, id string) (*domain.UpdateRequest, error) {
	doc, err := s.store.Get(ctx, s.settings.Collections.UpdateRequests, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("update request %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get update request: %w", err)
	}
	return decodeUpdateRequest(*doc)
}

func decodeUpdateRequest(doc repository.Document) (*domain.UpdateRequest, error) {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update request %s: %w", doc.ID, err)
	}
	req := &domain.UpdateRequest{}
	if err := json.Unmarshal(raw, req); err != nil {
		return nil, fmt.Errorf("failed to decode update request %s: %w", doc.ID, err)
	}
	req.ID = doc.ID
	return req, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return domain.Sanitize(out), nil
}
