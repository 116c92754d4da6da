package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/eligibility"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
)

// searchFields are tried in order; the first field with a match wins.
var searchFields = []string{"tPin", "mobileNumber", "alternateMobile", "mobileBankingNumber", "sl", "email"}

type ReportRow struct {
	Examiner *domain.Examiner           `json:"examiner"`
	Results  []eligibility.SubjectResult `json:"results"`
}

type Report struct {
	Thresholds domain.ThresholdConfig `json:"thresholds"`
	Subjects   []domain.Subject       `json:"subjects"`
	Evaluated  int                    `json:"evaluated"`
	Rows       []ReportRow            `json:"rows"`
}

// ResultSheet is the public view of one examiner's screening results.
type ResultSheet struct {
	Serial      int64                       `json:"sl"`
	FullName    string                      `json:"full_name"`
	NickName    string                      `json:"nick_name"`
	Institution string                      `json:"inst"`
	Department  string                      `json:"dept"`
	Results     []eligibility.SubjectResult `json:"results"`
	Eligible    bool                        `json:"eligible"`
}

type examinerService struct {
	store    repository.RecordStore
	settings Settings
}

func NewExaminerService(store repository.RecordStore, settings Settings) ExaminerService {
	return &examinerService{store: store, settings: settings}
}

func (s *examinerService) ListApproved(ctx context.Context) ([]*domain.Examiner, error) {
	docs, err := s.store.Query(ctx, s.settings.Collections.Approved)
	if err != nil {
		return nil, fmt.Errorf("failed to list examiners: %w", err)
	}
	records, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}
	sortBySerial(records)
	return records, nil
}

func (s *examinerService) Search(ctx context.Context, query string) (*domain.Examiner, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("search query is required")
	}

	for _, field := range searchFields {
		var value any = query
		if field == "sl" {
			sl, ok := domain.ParseSerial(query)
			if !ok {
				continue
			}
			value = sl
		}
		docs, err := s.store.Query(ctx, s.settings.Collections.Approved, repository.Eq(field, value))
		if err != nil {
			return nil, fmt.Errorf("failed to search examiners by %s: %w", field, err)
		}
		if len(docs) > 0 {
			return domain.FromDocument(docs[0].ID, docs[0].Data)
		}
	}
	return nil, fmt.Errorf("examiner matching %q: %w", query, domain.ErrNotFound)
}

// UpdateProfile applies an admin edit to an approved record and refreshes lastUpdateDate.
// The serial cannot change through this path.
func (s *examinerService) UpdateProfile(ctx context.Context, id string, changes map[string]any) (*domain.Examiner, error) {
	doc, err := s.store.Get(ctx, s.settings.Collections.Approved, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("examiner %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get examiner: %w", err)
	}

	clean, err := mergeChanges(id, doc.Data, changes, "sl")
	if err != nil {
		return nil, err
	}
	clean["lastUpdateDate"] = s.settings.today()

	err = s.store.CommitBatch(ctx, []repository.BatchOp{{
		Kind:       repository.OpUpdate,
		Collection: s.settings.Collections.Approved,
		ID:         id,
		Data:       clean,
	}})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("examiner %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, &domain.StoreCommitError{Err: err}
	}

	for k, v := range clean {
		doc.Data[k] = v
	}
	return domain.FromDocument(id, doc.Data)
}

// Delete removes an approved record. Its serial is not handed out again unless it was the
// highest one in the store.
func (s *examinerService) Delete(ctx context.Context, id string) error {
	err := s.store.CommitBatch(ctx, []repository.BatchOp{{
		Kind:          repository.OpDelete,
		Collection:    s.settings.Collections.Approved,
		ID:            id,
		RequireExists: true,
	}})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("examiner %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return &domain.StoreCommitError{Err: err}
	}
	logger.Info("Examiner deleted", "id", id)
	return nil
}

func (s *examinerService) Thresholds() domain.ThresholdConfig {
	return s.settings.Thresholds.Merge(nil)
}

func (s *examinerService) approvedRecords(ctx context.Context) ([]*domain.Examiner, error) {
	docs, err := s.store.Query(ctx, s.settings.Collections.Approved, repository.Eq("status", string(domain.ReviewStatusApproved)))
	if err != nil {
		return nil, fmt.Errorf("failed to load approved examiners: %w", err)
	}
	records, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}
	sortBySerial(records)
	return records, nil
}

// Report evaluates the approved records against criteria. Overrides are merged on top of
// the configured thresholds for this call only.
func (s *examinerService) Report(ctx context.Context, criteria eligibility.Criteria, overrides domain.ThresholdConfig) (*Report, error) {
	if err := criteria.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	for subject, value := range overrides {
		if _, ok := domain.ParseSubject(string(subject)); !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("unknown subject %q", subject))
		}
		if value < 0 || value > 100 {
			return nil, domain.NewValidationError(fmt.Sprintf("threshold for %s out of range: %d", subject, value))
		}
	}

	records, err := s.approvedRecords(ctx)
	if err != nil {
		return nil, err
	}
	thresholds := s.settings.Thresholds.Merge(overrides)
	matches := eligibility.Evaluate(records, criteria, thresholds)

	shown := criteria.Subjects
	if len(shown) == 0 {
		shown = domain.Subjects
	}
	report := &Report{
		Thresholds: thresholds,
		Subjects:   shown,
		Evaluated:  len(records),
		Rows:       make([]ReportRow, 0, len(matches)),
	}
	for _, rec := range matches {
		report.Rows = append(report.Rows, ReportRow{Examiner: rec, Results: selectResults(rec, shown, thresholds)})
	}
	logger.Debug("Threshold report built", "evaluated", len(records), "matched", len(matches))
	return report, nil
}

func selectResults(rec *domain.Examiner, subjects []domain.Subject, thresholds domain.ThresholdConfig) []eligibility.SubjectResult {
	all := eligibility.Results(rec, thresholds)
	wanted := make(map[domain.Subject]bool, len(subjects))
	for _, s := range subjects {
		wanted[s] = true
	}
	out := make([]eligibility.SubjectResult, 0, len(subjects))
	for _, r := range all {
		if wanted[r.Subject] {
			out = append(out, r)
		}
	}
	return out
}

func (s *examinerService) ReportOptions(ctx context.Context) (map[string][]string, error) {
	records, err := s.approvedRecords(ctx)
	if err != nil {
		return nil, err
	}
	return eligibility.Options(records), nil
}

// LookupResult finds an approved examiner by HSC roll and registration and classifies every
// subject with the configured thresholds.
func (s *examinerService) LookupResult(ctx context.Context, hscRoll, hscReg string) (*ResultSheet, error) {
	hscRoll, hscReg = strings.TrimSpace(hscRoll), strings.TrimSpace(hscReg)
	if hscRoll == "" || hscReg == "" {
		return nil, domain.NewValidationError("HSC roll and registration are required")
	}

	docs, err := s.store.Query(ctx, s.settings.Collections.Approved,
		repository.Eq("hscRoll", hscRoll),
		repository.Eq("hscReg", hscReg),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up result: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("result for roll %s: %w", hscRoll, domain.ErrNotFound)
	}
	rec, err := domain.FromDocument(docs[0].ID, docs[0].Data)
	if err != nil {
		return nil, err
	}

	results := eligibility.Results(rec, s.settings.Thresholds)
	sheet := &ResultSheet{
		Serial:      rec.Serial,
		FullName:    rec.FullName,
		NickName:    rec.NickName,
		Institution: rec.Institution,
		Department:  rec.Department,
		Results:     results,
	}
	for _, r := range results {
		if r.Verdict == eligibility.Allow {
			sheet.Eligible = true
			break
		}
	}
	return sheet, nil
}
