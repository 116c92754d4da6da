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

type promotionService struct {
	store     repository.RecordStore
	allocator SerialAllocator
	notifier  NotificationService
	settings  Settings
}

func NewPromotionService(store repository.RecordStore, allocator SerialAllocator, notifier NotificationService, settings Settings) PromotionService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &promotionService{
		store:     store,
		allocator: allocator,
		notifier:  notifier,
		settings:  settings,
	}
}

// Promote moves one pending record into the approved collection. The approved write and
// the pending delete commit in one batch; on any failure neither is applied.
func (s *promotionService) Promote(ctx context.Context, pendingID, reviewerIdentity string) (*domain.Examiner, error) {
	logger.EnterMethod("PromotionService.Promote", "pendingID", pendingID)

	if reviewerIdentity == "" {
		return nil, exitWithError("PromotionService.Promote", domain.NewValidationError("reviewer identity required"), "pendingID", pendingID)
	}

	doc, err := s.loadPending(ctx, pendingID)
	if err != nil {
		logger.ExitMethodWithError("PromotionService.Promote", err, "pendingID", pendingID)
		return nil, err
	}
	if !hasReviewerNote(doc) {
		return nil, exitWithError("PromotionService.Promote", domain.NewValidationError("reviewer note required", pendingID), "pendingID", pendingID)
	}

	serial, err := s.allocator.NextSerial(ctx)
	if err != nil {
		logger.ExitMethodWithError("PromotionService.Promote", err, "pendingID", pendingID)
		return nil, err
	}

	approved := s.approvedRecord(doc.Data, serial, reviewerIdentity)
	if err := s.store.CommitBatch(ctx, s.promotionOps(pendingID, approved)); err != nil {
		err = &domain.StoreCommitError{Err: err}
		logger.ExitMethodWithError("PromotionService.Promote", err, "pendingID", pendingID, "serial", serial)
		return nil, err
	}

	examiner, err := domain.FromDocument(pendingID, approved)
	if err != nil {
		return nil, exitWithError("PromotionService.Promote", err, "pendingID", pendingID, "serial", serial)
	}
	logger.Info("Promoted application", "id", pendingID, "serial", serial, "reviewer", reviewerIdentity)
	s.notify(ctx, examiner)

	logger.ExitMethod("PromotionService.Promote", "pendingID", pendingID, "serial", serial)
	return examiner, nil
}

// PromoteAll promotes pendingIDs in input order. Every record must carry a reviewer note
// before anything is written. Serials come from one contiguous block; records are committed
// in sequential chunks and the first failed chunk stops the run.
func (s *promotionService) PromoteAll(ctx context.Context, pendingIDs []string, reviewerIdentityFallback string) (*domain.BulkResult, error) {
	logger.EnterMethod("PromotionService.PromoteAll", "count", len(pendingIDs))

	const method = "PromotionService.PromoteAll"
	if len(pendingIDs) == 0 {
		return nil, exitWithError(method, domain.NewValidationError("no pending records selected"))
	}
	if reviewerIdentityFallback == "" {
		return nil, exitWithError(method, domain.NewValidationError("reviewer identity required"))
	}
	if dups := duplicateIDs(pendingIDs); len(dups) > 0 {
		return nil, exitWithError(method, domain.NewValidationError("duplicate pending records", dups...))
	}

	docs := make([]*repository.Document, len(pendingIDs))
	var missing, unannotated []string
	for i, id := range pendingIDs {
		doc, err := s.loadPending(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, exitWithError(method, err, "id", id)
		}
		if !hasReviewerNote(doc) {
			unannotated = append(unannotated, id)
		}
		docs[i] = doc
	}
	if len(missing) > 0 {
		return nil, exitWithError(method, domain.NewValidationError("pending records not found", missing...))
	}
	if len(unannotated) > 0 {
		return nil, exitWithError(method, domain.NewValidationError("reviewer note required", unannotated...))
	}

	serials, err := s.allocator.NextSerialBlock(ctx, len(docs))
	if err != nil {
		logger.ExitMethodWithError(method, err)
		return nil, err
	}

	chunkSize := s.settings.PromotionChunkSize
	if chunkSize <= 0 {
		chunkSize = len(docs)
	}
	result := &domain.BulkResult{}
	chunks := (len(docs) + chunkSize - 1) / chunkSize

	for start, index := 0, 1; start < len(docs); start, index = start+chunkSize, index+1 {
		end := min(start+chunkSize, len(docs))

		ops := make([]repository.BatchOp, 0, 2*(end-start))
		promoted := make([]*domain.Examiner, 0, end-start)
		for i := start; i < end; i++ {
			approved := s.approvedRecord(docs[i].Data, serials[i], reviewerIdentityFallback)
			ops = append(ops, s.promotionOps(docs[i].ID, approved)...)
			e, err := domain.FromDocument(docs[i].ID, approved)
			if err != nil {
				logger.Warn("Approval notice skipped, record does not decode", "id", docs[i].ID, "serial", serials[i], "error", err)
				continue
			}
			promoted = append(promoted, e)
		}

		if err := s.store.CommitBatch(ctx, ops); err != nil {
			logger.Error("Promotion chunk failed", "chunk", index, "of", chunks, "size", end-start, "promoted", result.PromotedCount, "error", err)
			result.Remaining = append(result.Remaining, pendingIDs[start:]...)
			result.Errors = append(result.Errors, fmt.Sprintf("chunk %d of %d: %v", index, chunks, err))
			commitErr := &domain.StoreCommitError{Err: err, Promoted: result.PromotedCount}
			logger.ExitMethodWithError(method, commitErr)
			return result, commitErr
		}

		result.PromotedCount += end - start
		result.Serials = append(result.Serials, serials[start:end]...)
		logger.Info("Promotion chunk committed", "chunk", index, "of", chunks, "size", end-start, "first_serial", serials[start], "last_serial", serials[end-1])

		for _, e := range promoted {
			s.notify(ctx, e)
		}
	}

	logger.ExitMethod(method, "promoted", result.PromotedCount)
	return result, nil
}

// exitWithError traces a failed exit of method and returns err unchanged.
func exitWithError(method string, err error, args ...any) error {
	logger.ExitMethodWithError(method, err, args...)
	return err
}

func (s *promotionService) loadPending(ctx context.Context, id string) (*repository.Document, error) {
	doc, err := s.store.Get(ctx, s.settings.Collections.Pending, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("pending application %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending application %s: %w", id, err)
	}
	return doc, nil
}

// approvedRecord copies every pending field and stamps the approval fields. The result is
// sanitized so it carries no unset values.
func (s *promotionService) approvedRecord(pending map[string]any, serial int64, reviewer string) map[string]any {
	data := domain.StripFields(pending, "id")
	data["sl"] = serial
	data["remarkedBy"] = reviewer
	data["approvedAt"] = s.settings.timestamp()
	data["lastUpdateDate"] = s.settings.today()

	status, _ := data["status"].(string)
	if status == "" || domain.ReviewStatus(status) == domain.ReviewStatusPending {
		data["status"] = string(domain.ReviewStatusApproved)
	}
	return domain.Sanitize(data)
}

func (s *promotionService) promotionOps(id string, approved map[string]any) []repository.BatchOp {
	return []repository.BatchOp{
		{
			Kind:        repository.OpSet,
			Collection:  s.settings.Collections.Approved,
			ID:          id,
			Data:        approved,
			UniqueField: "sl",
		},
		{
			Kind:          repository.OpDelete,
			Collection:    s.settings.Collections.Pending,
			ID:            id,
			RequireExists: true,
		},
	}
}

func (s *promotionService) notify(ctx context.Context, e *domain.Examiner) {
	if err := s.notifier.SendApprovalNotice(ctx, e); err != nil {
		logger.Warn("Approval notice not sent", "id", e.ID, "error", err)
	}
}

func hasReviewerNote(doc *repository.Document) bool {
	note, ok := doc.Data["rm"]
	if !ok || note == nil {
		return false
	}
	return strings.TrimSpace(fmt.Sprint(note)) != ""
}

func duplicateIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var dups []string
	for _, id := range ids {
		if seen[id] {
			dups = append(dups, id)
		}
		seen[id] = true
	}
	return dups
}
