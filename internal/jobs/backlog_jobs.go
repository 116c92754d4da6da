package jobs

import (
	"context"
	"fmt"
	"time"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/logger"
)

// Backlog summarizes work waiting on reviewers.
type Backlog struct {
	Pending           int
	ReadyToPromote    int
	AwaitingNote      int
	OldestApplication string
	UpdateRequests    int
	OldestRequestAge  time.Duration
}

// SummarizeBacklog counts pending applications by whether they carry a reviewer note, and
// open update requests by age. Unparseable dates are ignored.
func SummarizeBacklog(pending []*domain.Examiner, requests []*domain.UpdateRequest, now time.Time) Backlog {
	b := Backlog{Pending: len(pending), UpdateRequests: len(requests)}

	for _, p := range pending {
		if p.HasReviewerNote() {
			b.ReadyToPromote++
		} else {
			b.AwaitingNote++
		}
		if _, err := time.Parse("2006-01-02", p.FormFillUpDate); err != nil {
			continue
		}
		if b.OldestApplication == "" || p.FormFillUpDate < b.OldestApplication {
			b.OldestApplication = p.FormFillUpDate
		}
	}

	for _, r := range requests {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			continue
		}
		b.OldestRequestAge = max(b.OldestRequestAge, now.Sub(ts))
	}
	return b
}

// PendingBacklog logs how many applications and update requests await review.
func (jr *JobRunner) PendingBacklog() {
	jr.runWithRecovery("PendingBacklog", func() {
		if _, err := jr.pendingBacklog(context.Background()); err != nil {
			logger.Error("Pending backlog check failed", "error", err)
		}
	})
}

func (jr *JobRunner) pendingBacklog(ctx context.Context) (Backlog, error) {
	pending, err := jr.services.Intake.ListPending(ctx)
	if err != nil {
		return Backlog{}, fmt.Errorf("failed to list pending applications: %w", err)
	}
	requests, err := jr.services.UpdateRequests.List(ctx)
	if err != nil {
		return Backlog{}, fmt.Errorf("failed to list update requests: %w", err)
	}

	b := SummarizeBacklog(pending, requests, jr.now())
	logger.Info("Pending backlog",
		"pending", b.Pending,
		"ready_to_promote", b.ReadyToPromote,
		"awaiting_note", b.AwaitingNote,
		"oldest_application", b.OldestApplication,
		"update_requests", b.UpdateRequests,
		"oldest_request_hours", int(b.OldestRequestAge.Hours()),
	)
	return b, nil
}
