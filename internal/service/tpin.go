package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
)

const (
	tpinSuggestMinScore = 40
	tpinAttempts        = 10
)

var tpinPattern = regexp.MustCompile(`^[0-9]{5}$`)

// TPinCandidate is an approved examiner found by phone number, with the subjects whose
// scores qualify for a T-PIN.
type TPinCandidate struct {
	Examiner          *domain.Examiner `json:"examiner"`
	HasTPin           bool             `json:"has_tpin"`
	SuggestedSubjects []string         `json:"suggested_subjects"`
}

type tpinService struct {
	store    repository.RecordStore
	settings Settings
}

func NewTPinService(store repository.RecordStore, settings Settings) TPinService {
	return &tpinService{store: store, settings: settings}
}

func (s *tpinService) Candidates(ctx context.Context, mobile string) ([]*TPinCandidate, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, domain.NewValidationError("mobile number is required")
	}

	seen := make(map[string]bool)
	var out []*TPinCandidate
	for _, field := range []string{"mobileNumber", "alternateMobile", "mobileBankingNumber"} {
		docs, err := s.store.Query(ctx, s.settings.Collections.Approved, repository.Eq(field, mobile))
		if err != nil {
			return nil, fmt.Errorf("failed to search by %s: %w", field, err)
		}
		for _, doc := range docs {
			if seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true
			e, err := domain.FromDocument(doc.ID, doc.Data)
			if err != nil {
				return nil, err
			}
			out = append(out, &TPinCandidate{
				Examiner:          e,
				HasTPin:           strings.TrimSpace(e.TPin) != "",
				SuggestedSubjects: suggestedSubjects(e),
			})
		}
	}
	return out, nil
}

// suggestedSubjects lists subjects with a numeric score of at least 40.
func suggestedSubjects(e *domain.Examiner) []string {
	out := []string{}
	for _, s := range domain.Subjects {
		score, err := strconv.ParseFloat(strings.TrimSpace(e.Score(s).Percentage), 64)
		if err == nil && score >= tpinSuggestMinScore {
			out = append(out, string(s))
		}
	}
	return out
}

// Assign gives an examiner a 5-digit T-PIN when it has none, writing the record update and
// the registry entry in one batch. The registry entry is keyed by examiner and created only
// once, so concurrent assignments for the same examiner commit at most one PIN. An empty
// tpin is generated.
func (s *tpinService) Assign(ctx context.Context, examinerID, tpin string, subjects []string, generatedBy string) (*domain.TPinRegistration, error) {
	const method = "TPinService.Assign"
	logger.EnterMethod(method, "examinerID", examinerID)

	doc, err := s.store.Get(ctx, s.settings.Collections.Approved, examinerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, exitWithError(method, fmt.Errorf("examiner %s: %w", examinerID, domain.ErrNotFound))
	}
	if err != nil {
		return nil, exitWithError(method, fmt.Errorf("failed to get examiner: %w", err))
	}
	e, err := domain.FromDocument(doc.ID, doc.Data)
	if err != nil {
		return nil, exitWithError(method, err)
	}
	if strings.TrimSpace(e.TPin) != "" {
		return nil, exitWithError(method, domain.NewValidationError(fmt.Sprintf("T-PIN already assigned (%s)", e.TPin), examinerID))
	}

	tpin = strings.TrimSpace(tpin)
	if tpin == "" {
		if tpin, err = s.generate(ctx); err != nil {
			return nil, exitWithError(method, err)
		}
	} else if !tpinPattern.MatchString(tpin) {
		return nil, exitWithError(method, domain.NewValidationError("T-PIN must be 5 digits"))
	}
	if len(subjects) == 0 {
		subjects = suggestedSubjects(e)
	}

	reg := &domain.TPinRegistration{
		TPin:        tpin,
		ExaminerID:  examinerID,
		Serial:      e.Serial,
		FullName:    e.FullName,
		NickName:    e.NickName,
		Mobile:      e.MobileNumber,
		Subjects:    subjects,
		GeneratedBy: generatedBy,
		GeneratedAt: s.settings.timestamp(),
	}
	regData, err := toMap(reg)
	if err != nil {
		return nil, exitWithError(method, err)
	}

	err = s.store.CommitBatch(ctx, []repository.BatchOp{
		{
			Kind:       repository.OpUpdate,
			Collection: s.settings.Collections.Approved,
			ID:         examinerID,
			Data:       map[string]any{"tPin": tpin, "lastUpdateDate": s.settings.today()},
		},
		{
			Kind:        repository.OpCreate,
			Collection:  s.settings.Collections.TPinRegistry,
			ID:          examinerID,
			Data:        regData,
			UniqueField: "tPin",
		},
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, exitWithError(method, domain.NewValidationError("T-PIN already assigned", examinerID), "examinerID", examinerID)
	}
	if err != nil {
		err = &domain.StoreCommitError{Err: err}
		logger.ExitMethodWithError(method, err, "examinerID", examinerID)
		return nil, err
	}

	logger.Info("T-PIN assigned", "examiner_id", examinerID, "serial", e.Serial, "by", generatedBy)
	logger.ExitMethod(method, "examinerID", examinerID)
	return reg, nil
}

// generate picks a random 5-digit T-PIN not present in the registry.
func (s *tpinService) generate(ctx context.Context) (string, error) {
	for range tpinAttempts {
		candidate := strconv.Itoa(10000 + rand.IntN(90000))
		docs, err := s.store.Query(ctx, s.settings.Collections.TPinRegistry, repository.Eq("tPin", candidate))
		if err != nil {
			return "", fmt.Errorf("failed to check T-PIN registry: %w", err)
		}
		if len(docs) == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free T-PIN after %d attempts", tpinAttempts)
}
