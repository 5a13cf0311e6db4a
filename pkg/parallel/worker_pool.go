package parallel

import (
	"sync"

	"github.com/egonetlab/egonet/pkg/logging"
)

// maxWorkers caps pool size; crawl and sweep workloads never need more.
const maxWorkers = 1024

// WorkerPool runs submitted tasks on a fixed set of goroutines. It exists so
// that crawl fetches and sweep runs can share one bounded-concurrency
// primitive instead of spawning per-task goroutines.
type WorkerPool struct {
	workers int
	tasks   chan func()
	logger  logging.Logger
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against concurrent Submit and Close
	closed  bool
}

// NewWorkerPool starts a pool with the given number of workers. Counts
// outside [1, 1024] are clamped.
func NewWorkerPool(workers int, logger logging.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	pool := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
		logger:  logger,
	}

	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.tasks {
		// A panicking task must not take its worker down with it.
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.logger.Error("worker recovered from task panic",
						logging.Any("panic", r))
				}
			}()
			task()
		}()
	}
}

// Submit queues a task, blocking when the queue is full. Returns false if
// the pool is already closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.tasks <- task
	return true
}

// Close stops accepting tasks, runs whatever is queued and waits for the
// workers to drain. Safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.tasks)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}
