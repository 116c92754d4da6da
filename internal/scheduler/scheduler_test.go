package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"examiner-registry-backend/internal/config"
	"examiner-registry-backend/internal/jobs"
)

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		SerialAudit:    "0 0 1 * * *",
		PendingBacklog: "0 0 6 * * *",
	}}

	s := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg, nil))
	assert.True(t, s.IsRunning())
	assert.Len(t, s.cron.Entries(), 2)
}

func TestNewScheduler_BadSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		SerialAudit:    "every tuesday",
		PendingBacklog: "0 0 6 * * *",
	}}

	s := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg, nil))
	assert.Len(t, s.cron.Entries(), 1)
}
