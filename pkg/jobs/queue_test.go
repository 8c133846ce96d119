package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	var processed []string
	done := make(chan struct{}, 2)

	q := NewQueue("notify", func(_ context.Context, job Job) error {
		mu.Lock()
		processed = append(processed, job.ID)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j-1", Type: "transition"}))
	require.NoError(t, q.Enqueue(Job{ID: "j-2", Type: "transition"}))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.ElementsMatch(t, []string{"j-1", "j-2"}, processed)
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("notify", func(context.Context, Job) error { return nil }, QueueConfig{})
	require.Error(t, q.Enqueue(Job{ID: "j-1"}))
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})

	q := NewQueue("notify", func(_ context.Context, job Job) error {
		mu.Lock()
		attempts++
		current := attempts
		mu.Unlock()
		if current == 1 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j-1", Type: "transition"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, attempts)
}

func TestQueueDropsJobsPastMaxRetries(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	q := NewQueue("notify", func(_ context.Context, job Job) error {
		mu.Lock()
		attempts++
		mu.Unlock()
		return errors.New("permanent")
	}, QueueConfig{Workers: 1, MaxRetries: 1, RetryDelay: 5 * time.Millisecond})

	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "j-1", Type: "transition"}))
	time.Sleep(200 * time.Millisecond)
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, attempts)
}

func TestQueueStopIsIdempotent(t *testing.T) {
	q := NewQueue("notify", func(context.Context, Job) error { return nil }, QueueConfig{})
	q.Start(context.Background())
	q.Stop()
	q.Stop()
	require.Error(t, q.Enqueue(Job{ID: "j-1"}))
}

func TestQueueConfigDefaults(t *testing.T) {
	q := NewQueue("notify", nil, QueueConfig{})
	require.Equal(t, 1, q.workers)
	require.Equal(t, 4, q.bufferSize)
	require.Equal(t, 3, q.maxRetries)
	require.Equal(t, time.Second, q.retryDelay)
}
