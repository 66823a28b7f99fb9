package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pairscan/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int
	err      error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.NewNop())

	job := &fakeJob{name: "test", schedule: "0 0 17 * * 1-5"}
	require.NoError(t, s.AddJob(job))
	assert.Contains(t, s.Jobs(), "test")

	// 중복 등록 거부
	assert.Error(t, s.AddJob(&fakeJob{name: "test", schedule: "@daily"}))
}

func TestScheduler_AddJob_BadSchedule(t *testing.T) {
	s := New(logger.NewNop())
	assert.Error(t, s.AddJob(&fakeJob{name: "bad", schedule: "not a cron expr"}))
}

func TestScheduler_RunJob(t *testing.T) {
	s := New(logger.NewNop())
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "manual", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("manual"))

	// runJob은 고루틴에서 실행된다
	assert.Eventually(t, func() bool {
		history, err := s.History("manual")
		if err != nil {
			return false
		}
		return history.Latest() != nil && history.Latest().Success
	}, time.Second, 10*time.Millisecond)

	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Nil(t, h.Latest())
	assert.Zero(t, h.SuccessRate())

	h.AddResult(JobResult{JobName: "a", Success: true})
	h.AddResult(JobResult{JobName: "a", Success: false})

	require.NotNil(t, h.Latest())
	assert.False(t, h.Latest().Success)
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-9)

	// 최근 100건만 유지
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "a", Success: true})
	}
	assert.Len(t, h.Results, 100)
}
