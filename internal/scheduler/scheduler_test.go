package scheduler

import (
	"testing"
	"time"

	"rentalhub-backend/internal/config"
	"rentalhub-backend/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_RegistersLateReturnJob(t *testing.T) {
	runner := jobs.NewJobRunner(nil, nil, config.SchedulerConfig{MarkLateReturns: "0 0 1 * * *"})

	s, err := NewScheduler(runner)
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	s.Start()
	defer s.Stop()

	next := s.NextRun()
	require.Len(t, next, 1)
	assert.Equal(t, time.UTC, next[0].Location())
	assert.Equal(t, 1, next[0].Hour())
	assert.Equal(t, 0, next[0].Minute())
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	runner := jobs.NewJobRunner(nil, nil, config.SchedulerConfig{MarkLateReturns: "not a cron"})

	_, err := NewScheduler(runner)
	assert.Error(t, err)
}
