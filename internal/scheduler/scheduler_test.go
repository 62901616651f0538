package scheduler

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *Scheduler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewScheduler(log)
}

func TestSchedulePollingRequiresEvaluate(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.SchedulePolling(60, nil))
}

func TestStartWithoutJobsFails(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.Start())
}

func TestStartStopLifecycle(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.SchedulePolling(60, func(ctx context.Context) error { return nil }))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(), "double start is rejected")
	assert.False(t, s.NextRun().IsZero())

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.SchedulePolling(60, func(ctx context.Context) error { return nil }))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.SchedulePolling(60, func(ctx context.Context) error { return nil }))
}
