package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls   atomic.Int64
	err     error
	block   chan struct{}
	started sync.Once
	ready   chan struct{}
	panics  bool
}

func (f *fakeRefresher) RefreshSnapshot(ctx context.Context) error {
	f.calls.Add(1)
	if f.ready != nil {
		f.started.Do(func() { close(f.ready) })
	}
	if f.block != nil {
		<-f.block
	}
	if f.panics {
		panic("boom")
	}
	return f.err
}

func TestWorkerPoolProcessesTasks(t *testing.T) {
	r := &fakeRefresher{}
	pool := NewWorkerPool(2, 10, r)
	pool.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(RefreshTask{Reason: "approve"}))
	}
	require.NoError(t, pool.Shutdown(2*time.Second))

	assert.Equal(t, int64(5), r.calls.Load())
	metrics := pool.GetMetrics()
	assert.Equal(t, int64(5), metrics["processed"])
	assert.Equal(t, int64(0), metrics["failed"])
}

func TestWorkerPoolCountsFailuresAndPanics(t *testing.T) {
	failing := &fakeRefresher{err: errors.New("redis down")}
	pool := NewWorkerPool(1, 4, failing)
	pool.Start()
	require.NoError(t, pool.Submit(RefreshTask{Reason: "reject"}))
	require.NoError(t, pool.Shutdown(2*time.Second))
	assert.Equal(t, int64(1), pool.GetMetrics()["failed"])

	panicking := &fakeRefresher{panics: true}
	pool = NewWorkerPool(1, 4, panicking)
	pool.Start()
	require.NoError(t, pool.Submit(RefreshTask{Reason: "delete"}))
	require.NoError(t, pool.Shutdown(2*time.Second))
	assert.Equal(t, int64(1), pool.GetMetrics()["failed"])
}

func TestWorkerPoolBackpressure(t *testing.T) {
	r := &fakeRefresher{block: make(chan struct{}), ready: make(chan struct{})}
	pool := NewWorkerPool(1, 1, r)
	pool.Start()

	require.NoError(t, pool.Submit(RefreshTask{Reason: "first"}))
	<-r.ready // worker is now busy with the first task

	require.NoError(t, pool.Submit(RefreshTask{Reason: "queued"}))
	assert.ErrorIs(t, pool.Submit(RefreshTask{Reason: "dropped"}), ErrQueueFull)
	assert.Equal(t, int64(1), pool.GetMetrics()["backpressure_events"])

	close(r.block)
	require.NoError(t, pool.Shutdown(2*time.Second))
	assert.Equal(t, int64(2), r.calls.Load())
}

func TestWorkerPoolRejectsTasksAfterShutdown(t *testing.T) {
	r := &fakeRefresher{}
	pool := NewWorkerPool(1, 4, r)
	pool.Start()
	require.NoError(t, pool.Shutdown(time.Second))

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, pool.Submit(RefreshTask{Reason: "approve", SubmissionID: "late"}), ErrPoolClosed)
	})
	require.NoError(t, pool.Shutdown(time.Second))
	assert.Zero(t, r.calls.Load())
}
