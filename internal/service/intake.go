package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
)

type ImportTarget string

const (
	ImportPending  ImportTarget = "pending"
	ImportApproved ImportTarget = "approved"
)

// ImportResult reports a bulk import. Imported counts rows committed before any failure.
type ImportResult struct {
	Target          ImportTarget `json:"target"`
	Imported        int          `json:"imported"`
	Total           int          `json:"total"`
	AssignedSerials []int64      `json:"assigned_serials,omitempty"`
	Errors          []string     `json:"errors,omitempty"`
}

type intakeService struct {
	store     repository.RecordStore
	allocator SerialAllocator
	settings  Settings
}

func NewIntakeService(store repository.RecordStore, allocator SerialAllocator, settings Settings) IntakeService {
	return &intakeService{
		store:     store,
		allocator: allocator,
		settings:  settings,
	}
}

func (s *intakeService) Submit(ctx context.Context, application *domain.Examiner) (*domain.Examiner, error) {
	if application == nil {
		return nil, domain.NewValidationError("application is required")
	}
	if strings.TrimSpace(application.FullName) == "" || strings.TrimSpace(application.MobileNumber) == "" {
		return nil, domain.NewValidationError("full name and mobile number are required")
	}

	app := *application
	app.ID = s.store.NewID(s.settings.Collections.Pending)
	app.Status = domain.ReviewStatusPending
	app.Serial = 0
	app.ReviewedBy = ""
	app.ApprovedAt = ""
	app.ReviewerNote = ""
	if app.FormFillUpDate == "" {
		app.FormFillUpDate = s.settings.today()
	}

	data, err := domain.ToDocument(&app)
	if err != nil {
		return nil, err
	}
	err = s.store.CommitBatch(ctx, []repository.BatchOp{{
		Kind:       repository.OpSet,
		Collection: s.settings.Collections.Pending,
		ID:         app.ID,
		Data:       domain.Sanitize(data),
	}})
	if err != nil {
		return nil, &domain.StoreCommitError{Err: err}
	}
	logger.Info("Application submitted", "id", app.ID)
	return &app, nil
}

func (s *intakeService) ListPending(ctx context.Context) ([]*domain.Examiner, error) {
	docs, err := s.store.Query(ctx, s.settings.Collections.Pending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}
	return decodeAll(docs)
}

// UpdatePending applies an admin inline edit. Any attribute except the identifier and the
// serial may change, the reviewer note included.
func (s *intakeService) UpdatePending(ctx context.Context, id string, changes map[string]any) (*domain.Examiner, error) {
	doc, err := s.store.Get(ctx, s.settings.Collections.Pending, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("pending application %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending application: %w", err)
	}

	clean, err := mergeChanges(id, doc.Data, changes, "sl")
	if err != nil {
		return nil, err
	}
	err = s.store.CommitBatch(ctx, []repository.BatchOp{{
		Kind:       repository.OpUpdate,
		Collection: s.settings.Collections.Pending,
		ID:         id,
		Data:       clean,
	}})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("pending application %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, &domain.StoreCommitError{Err: err}
	}

	for k, v := range clean {
		doc.Data[k] = v
	}
	return domain.FromDocument(id, doc.Data)
}

func (s *intakeService) Discard(ctx context.Context, id string) error {
	err := s.store.CommitBatch(ctx, []repository.BatchOp{{
		Kind:          repository.OpDelete,
		Collection:    s.settings.Collections.Pending,
		ID:            id,
		RequireExists: true,
	}})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("pending application %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return &domain.StoreCommitError{Err: err}
	}
	logger.Info("Application discarded", "id", id)
	return nil
}

// Import writes mapped spreadsheet rows to the target collection in sequential chunks.
// Approved rows without a usable SL get serials from one block placed above every serial in
// the store and in the upload.
func (s *intakeService) Import(ctx context.Context, target ImportTarget, rows []map[string]string) (*ImportResult, error) {
	logger.EnterMethod("IntakeService.Import", "target", target, "rows", len(rows))

	var collection string
	var defaultStatus domain.ReviewStatus
	switch target {
	case ImportPending:
		collection, defaultStatus = s.settings.Collections.Pending, domain.ReviewStatusPending
	case ImportApproved:
		collection, defaultStatus = s.settings.Collections.Approved, domain.ReviewStatusApproved
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("unknown import target %q", target))
	}
	if len(rows) == 0 {
		return nil, domain.NewValidationError("no rows to import")
	}

	records := make([]map[string]any, 0, len(rows))
	var unserialed []int
	var uploadMax int64
	for _, row := range rows {
		data := MapImportRow(row)
		if len(data) == 0 {
			continue
		}
		if _, ok := data["status"]; !ok {
			data["status"] = string(defaultStatus)
		}
		if _, ok := data["mobileNumber"]; !ok {
			data["mobileNumber"] = ""
		}
		if target == ImportPending {
			delete(data, "sl")
		} else if sl, ok := data["sl"].(int64); ok {
			uploadMax = max(uploadMax, sl)
		} else {
			unserialed = append(unserialed, len(records))
		}
		records = append(records, data)
	}
	if len(records) == 0 {
		return nil, domain.NewValidationError("no recognizable columns in upload")
	}

	result := &ImportResult{Target: target, Total: len(records)}
	if len(unserialed) > 0 {
		block, err := s.allocator.NextSerialBlock(ctx, len(unserialed))
		if err != nil {
			return nil, err
		}
		shift := int64(0)
		if uploadMax >= block[0] {
			shift = uploadMax - block[0] + 1
		}
		for i, idx := range unserialed {
			records[idx]["sl"] = block[i] + shift
			result.AssignedSerials = append(result.AssignedSerials, block[i]+shift)
		}
	}

	chunkSize := s.settings.ImportChunkSize
	if chunkSize <= 0 {
		chunkSize = len(records)
	}
	for start := 0; start < len(records); start += chunkSize {
		end := min(start+chunkSize, len(records))
		ops := make([]repository.BatchOp, 0, end-start)
		for _, data := range records[start:end] {
			op := repository.BatchOp{
				Kind:       repository.OpSet,
				Collection: collection,
				ID:         s.store.NewID(collection),
				Data:       data,
			}
			if target == ImportApproved {
				op.UniqueField = "sl"
			}
			ops = append(ops, op)
		}
		if err := s.store.CommitBatch(ctx, ops); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("rows %d-%d: %v", start+1, end, err))
			commitErr := &domain.StoreCommitError{Err: err, Promoted: result.Imported}
			logger.ExitMethodWithError("IntakeService.Import", commitErr, "imported", result.Imported)
			return result, commitErr
		}
		result.Imported += end - start
		logger.Info("Import chunk committed", "target", target, "rows", end-start, "imported", result.Imported)
	}

	logger.ExitMethod("IntakeService.Import", "imported", result.Imported)
	return result, nil
}
