package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var processed atomic.Int64
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		processed.Add(1)
		return nil
	}, QueueConfig{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{ID: "j", Type: "noop"}))
	}

	require.Eventually(t, func() bool {
		return processed.Load() == 5
	}, 2*time.Second, 5*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts atomic.Int64
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		if attempts.Add(1) < 3 {
			return assert.AnError
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 5, RetryDelay: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j", Type: "flaky"}))

	require.Eventually(t, func() bool {
		return attempts.Load() == 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestQueueReportsExhaustion(t *testing.T) {
	var attempts atomic.Int64
	var exhausted atomic.Int64
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		attempts.Add(1)
		return assert.AnError
	}, QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		OnExhausted: func(job Job, err error) {
			exhausted.Add(1)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j", Type: "doomed"}))

	require.Eventually(t, func() bool {
		return exhausted.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)
	// Exhaustion fires exactly once, after the initial attempt plus
	// MaxRetries retries.
	assert.Equal(t, int64(3), attempts.Load())
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "j"}))
}
