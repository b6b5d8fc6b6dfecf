package worker

import (
	"context"
	"fmt"
	"sync"

	"smsledger/internal/models"
	"smsledger/internal/service"

	"go.uber.org/zap"
)

// Batch is one unit of background ingestion work.
type Batch struct {
	Mode     service.IngestMode
	Messages []models.RawMessage
}

// Handler processes a queued batch.
type Handler func(ctx context.Context, batch Batch) error

// Queue is a bounded in-memory queue that decouples SMS delivery from
// pipeline processing. Safe for concurrent use; suitable for a
// single-instance deployment.
type Queue struct {
	batchChan chan Batch
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	logger    *zap.Logger
}

func NewQueue(bufferSize int, logger *zap.Logger) *Queue {
	return &Queue{
		batchChan: make(chan Batch, bufferSize),
		closeChan: make(chan struct{}),
		logger:    logger,
	}
}

// Enqueue submits a batch for asynchronous processing. It blocks when the
// buffer is full until space frees up, the context is cancelled, or the
// queue shuts down.
func (q *Queue) Enqueue(ctx context.Context, batch Batch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("queue is closed")
	}

	select {
	case q.batchChan <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return fmt.Errorf("queue is closed")
	}
}

// Start launches workerCount goroutines that drain the queue through the
// handler.
func (q *Queue) Start(ctx context.Context, workerCount int, handler Handler) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return fmt.Errorf("queue is closed")
	}
	q.mu.RUnlock()

	if workerCount < 1 {
		workerCount = 1
	}
	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
	return nil
}

func (q *Queue) worker(ctx context.Context, handler Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			// Accepted batches were already acknowledged upstream, so
			// shutdown must drain the buffer rather than abandon it.
			// Enqueue rejects once closed is set, so the buffer only
			// shrinks from here.
			q.drainBuffer(ctx, handler)
			return
		case batch := <-q.batchChan:
			q.process(ctx, batch, handler)
		}
	}
}

func (q *Queue) drainBuffer(ctx context.Context, handler Handler) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case batch := <-q.batchChan:
			q.process(ctx, batch, handler)
		default:
			return
		}
	}
}

func (q *Queue) process(ctx context.Context, batch Batch, handler Handler) {
	if err := handler(ctx, batch); err != nil {
		q.logger.Error("Batch processing failed",
			zap.String("mode", string(batch.Mode)),
			zap.Int("messages", len(batch.Messages)),
			zap.Error(err),
		)
	}
}

// Stop closes the queue and waits for in-flight batches to finish, bounded
// by the context deadline.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
