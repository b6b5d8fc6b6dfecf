package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"smsledger/internal/models"
	"smsledger/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueueDeliversBatches(t *testing.T) {
	q := NewQueue(4, zap.NewNop())

	var mu sync.Mutex
	var got []Batch
	done := make(chan struct{}, 2)

	err := q.Start(context.Background(), 2, func(_ context.Context, batch Batch) error {
		mu.Lock()
		got = append(got, batch)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	batch := Batch{
		Mode: service.ModeLive,
		Messages: []models.RawMessage{
			{Sender: "VM-HDFCBK", Body: "Rs 500 debited for UPI", Timestamp: time.Now()},
		},
	}
	require.NoError(t, q.Enqueue(context.Background(), batch))
	require.NoError(t, q.Enqueue(context.Background(), batch))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("batch was not processed in time")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 2)
	assert.Equal(t, service.ModeLive, got[0].Mode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))
}

func TestQueueStopDrainsBufferedBatches(t *testing.T) {
	// A batch sitting in the buffer when Stop is called was already
	// acknowledged with 202; it must still reach the handler.
	q := NewQueue(4, zap.NewNop())

	release := make(chan struct{})
	var mu sync.Mutex
	var processed int

	err := q.Start(context.Background(), 1, func(_ context.Context, _ Batch) error {
		<-release
		mu.Lock()
		processed++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	batch := Batch{
		Mode: service.ModeLive,
		Messages: []models.RawMessage{
			{Sender: "VM-HDFCBK", Body: "Rs 500 debited for UPI", Timestamp: time.Now()},
		},
	}
	// The worker blocks on the first batch, the second stays buffered.
	require.NoError(t, q.Enqueue(context.Background(), batch))
	require.NoError(t, q.Enqueue(context.Background(), batch))

	stopped := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		stopped <- q.Stop(ctx)
	}()

	// Give Stop a chance to close the queue while the buffer is non-empty,
	// then let the handler run.
	time.Sleep(20 * time.Millisecond)
	close(release)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not stop in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, processed)
}

func TestQueueRejectsAfterStop(t *testing.T) {
	q := NewQueue(1, zap.NewNop())
	require.NoError(t, q.Start(context.Background(), 1, func(context.Context, Batch) error { return nil }))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))

	err := q.Enqueue(context.Background(), Batch{Mode: service.ModeLive})
	assert.Error(t, err)
}

func TestQueueEnqueueHonoursContext(t *testing.T) {
	// Buffer of one with no workers running: the second enqueue blocks
	// until the context deadline.
	q := NewQueue(1, zap.NewNop())

	require.NoError(t, q.Enqueue(context.Background(), Batch{Mode: service.ModeLive}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Batch{Mode: service.ModeLive})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueStopIsIdempotent(t *testing.T) {
	q := NewQueue(1, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, q.Stop(ctx))
	require.NoError(t, q.Stop(ctx))
}
