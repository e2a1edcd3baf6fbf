package core

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemRejectsBadSizes(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)

	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestSubmitAndWaitRunsEveryTask(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	require.NoError(t, err)
	defer js.Shutdown()

	var sum, completed, callbacks atomic.Int64
	tasks := make([]JobTask, 100)
	for i := range tasks {
		tasks[i] = JobTask{
			Name:        "add",
			InputParams: int64(i),
			OnStart: func(params interface{}) error {
				sum.Add(params.(int64))
				return nil
			},
			OnComplete:           func() { completed.Add(1) },
			OnCompletionCallback: func() { callbacks.Add(1) },
		}
	}

	require.NoError(t, js.SubmitAndWait(tasks...))
	assert.Equal(t, int64(4950), sum.Load())
	assert.Equal(t, int64(100), completed.Load())
	assert.Equal(t, int64(100), callbacks.Load())
}

func TestSubmitAndWaitReturnsFailure(t *testing.T) {
	js, err := NewJobSystem(2, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	boom := errors.New("boom")
	var failures atomic.Int64
	err = js.SubmitAndWait(
		JobTask{Name: "ok", OnStart: func(interface{}) error { return nil }},
		JobTask{
			Name:      "fail",
			OnStart:   func(interface{}) error { return boom },
			OnFailure: func(error) { failures.Add(1) },
		},
	)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), failures.Load())
}

func TestJobSystemShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)

	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	err = js.Submit(JobTask{OnStart: func(interface{}) error { return nil }})
	assert.ErrorIs(t, err, ErrJobSystemClosed)
	assert.ErrorIs(t, js.SubmitAndWait(JobTask{OnStart: func(interface{}) error { return nil }}), ErrJobSystemClosed)
}
