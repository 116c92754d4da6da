package jobs

import (
	"context"
	"fmt"
	"sort"

	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/service"
)

// SerialAudit scans the approved collection and reports duplicate or missing serials.
// It never rewrites serials; repairs are an operator decision.
func (jr *JobRunner) SerialAudit() {
	jr.runWithRecovery("SerialAudit", func() {
		if _, err := jr.auditSerials(context.Background()); err != nil {
			logger.Error("Serial audit failed", "error", err)
		}
	})
}

func (jr *JobRunner) auditSerials(ctx context.Context) (*service.SerialAudit, error) {
	audit, err := jr.services.Serials.Audit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to audit serials: %w", err)
	}

	jr.metrics.SetSerialAudit(audit.Total, audit.MaxSerial, len(audit.Duplicates), len(audit.Missing))

	if audit.Healthy() {
		logger.Info("Serial audit clean", "total", audit.Total, "max_serial", audit.MaxSerial, "next_serial", audit.NextSerial)
		return audit, nil
	}

	serials := make([]int64, 0, len(audit.Duplicates))
	for sl := range audit.Duplicates {
		serials = append(serials, sl)
	}
	sort.Slice(serials, func(i, j int) bool { return serials[i] < serials[j] })
	for _, sl := range serials {
		logger.Warn("Duplicate serial", "sl", sl, "ids", audit.Duplicates[sl])
	}
	if len(audit.Missing) > 0 {
		logger.Warn("Approved records without a serial", "count", len(audit.Missing), "ids", audit.Missing)
	}
	logger.Warn("Serial audit found problems",
		"total", audit.Total,
		"duplicates", len(audit.Duplicates),
		"missing", len(audit.Missing),
		"next_serial", audit.NextSerial,
	)
	return audit, nil
}
