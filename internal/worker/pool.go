package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var (
	// ErrQueueFull is returned by Submit when the pool applies backpressure
	ErrQueueFull = errors.New("worker pool queue full (backpressure)")

	// ErrPoolClosed is returned by Submit once Shutdown has started
	ErrPoolClosed = errors.New("worker pool is shut down")
)

// Refresher rebuilds the cached leaderboard snapshot
type Refresher interface {
	RefreshSnapshot(ctx context.Context) error
}

// RefreshTask asks the pool to rebuild the leaderboard snapshot after a write
type RefreshTask struct {
	Reason       string
	SubmissionID string
}

// WorkerPool manages a pool of workers for asynchronous snapshot refreshes
type WorkerPool struct {
	jobs        chan RefreshTask
	workerCount int
	refresher   Refresher
	taskTimeout time.Duration
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	metrics     *PoolMetrics

	// mu guards closed and the close of jobs
	mu     sync.RWMutex
	closed bool
}

// PoolMetrics tracks worker pool performance
type PoolMetrics struct {
	mu              sync.RWMutex
	processed       int64
	failed          int64
	backpressure    int64
	totalProcessing time.Duration
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(workerCount, queueSize int, refresher Refresher) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		jobs:        make(chan RefreshTask, queueSize),
		workerCount: workerCount,
		refresher:   refresher,
		taskTimeout: 5 * time.Second,
		ctx:         ctx,
		cancel:      cancel,
		metrics:     &PoolMetrics{},
	}
}

// Start initializes and starts all worker goroutines
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers and queue size %d", wp.workerCount, cap(wp.jobs))

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker is the main worker loop that processes jobs
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return

		case task, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processTask(id, task)
		}
	}
}

// processTask handles a single refresh with panic recovery
func (wp *WorkerPool) processTask(workerID int, task RefreshTask) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker #%d PANIC recovered: %v (reason: %s)", workerID, r, task.Reason)
			wp.metrics.incrementFailed()
		}
	}()

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(wp.ctx, wp.taskTimeout)
	defer cancel()

	err := wp.refresher.RefreshSnapshot(ctx)
	processingTime := time.Since(startTime)

	if err != nil {
		log.Printf("Worker #%d failed to refresh snapshot (%s %s): %v (took %v)",
			workerID, task.Reason, task.SubmissionID, err, processingTime)
		wp.metrics.incrementFailed()
		return
	}

	wp.metrics.recordSuccess(processingTime)
}

// Submit attempts to add a task to the queue without blocking
func (wp *WorkerPool) Submit(task RefreshTask) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		log.Printf("Worker pool closed, dropping snapshot refresh (%s %s)", task.Reason, task.SubmissionID)
		return ErrPoolClosed
	}

	select {
	case wp.jobs <- task:
		return nil

	default:
		log.Printf("BACKPRESSURE WARNING: queue full, dropping snapshot refresh (%s %s)", task.Reason, task.SubmissionID)
		wp.metrics.incrementBackpressure()
		return ErrQueueFull
	}
}

// Shutdown stops accepting work and waits for queued refreshes to finish
func (wp *WorkerPool) Shutdown(timeout time.Duration) error {
	log.Printf("Shutting down worker pool...")

	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.jobs)
	}
	wp.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.printMetrics()
		return nil

	case <-time.After(timeout):
		wp.cancel()
		log.Printf("Worker pool shutdown timed out after %v", timeout)
		return fmt.Errorf("shutdown timeout exceeded")
	}
}

// GetMetrics returns a snapshot of the pool metrics
func (wp *WorkerPool) GetMetrics() map[string]interface{} {
	wp.metrics.mu.RLock()
	defer wp.metrics.mu.RUnlock()

	avgProcessing := time.Duration(0)
	if wp.metrics.processed > 0 {
		avgProcessing = wp.metrics.totalProcessing / time.Duration(wp.metrics.processed)
	}

	return map[string]interface{}{
		"processed":           wp.metrics.processed,
		"failed":              wp.metrics.failed,
		"backpressure_events": wp.metrics.backpressure,
		"avg_processing_time": avgProcessing.String(),
		"queue_utilization":   fmt.Sprintf("%d/%d", len(wp.jobs), cap(wp.jobs)),
	}
}

func (wp *WorkerPool) printMetrics() {
	metrics := wp.GetMetrics()
	log.Printf("Worker pool metrics: processed=%v failed=%v backpressure=%v avg=%v",
		metrics["processed"], metrics["failed"], metrics["backpressure_events"], metrics["avg_processing_time"])
}

func (pm *PoolMetrics) recordSuccess(duration time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.processed++
	pm.totalProcessing += duration
}

func (pm *PoolMetrics) incrementFailed() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.failed++
}

func (pm *PoolMetrics) incrementBackpressure() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.backpressure++
}
